package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"fraudBench/business/leaderboard"
	"fraudBench/pkg/logger"
	"fraudBench/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// LeaderboardService contract interface
type LeaderboardService interface {
	Top(ctx context.Context, limit int) (*leaderboard.Board, error)
}

type LeaderboardHandler struct {
	leaderboardService LeaderboardService
}

func NewLeaderboardHandler(leaderboardService LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
	}
}

type LeaderboardEntry struct {
	UserID         uint      `json:"user_id"`
	Email          string    `json:"email"`
	F1Score        float64   `json:"f1_score"`
	Accuracy       float64   `json:"accuracy"`
	LastSubmission time.Time `json:"last_submission"`
}

type LeaderboardResponse struct {
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

const maxLeaderboardLimit = 100

func (h *LeaderboardHandler) Get(c echo.Context) error {
	metrics.LeaderboardRequestsTotal.Inc()

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "limit must be a positive integer"})
		}
		limit = n
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}

	board, err := h.leaderboardService.Top(c.Request().Context(), limit)
	if err != nil {
		logger.Error("Failed to build leaderboard", err)
		return err
	}

	resp := LeaderboardResponse{
		Leaderboard: make([]LeaderboardEntry, 0, len(board.Entries)),
		UpdatedAt:   board.UpdatedAt,
	}
	for _, entry := range board.Entries {
		resp.Leaderboard = append(resp.Leaderboard, LeaderboardEntry{
			UserID:         entry.UserID,
			Email:          entry.Email,
			F1Score:        entry.F1,
			Accuracy:       entry.Accuracy,
			LastSubmission: entry.LastSubmission,
		})
	}

	return c.JSON(http.StatusOK, resp)
}
