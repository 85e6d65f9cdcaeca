package rest

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"fraudBench/business/dataset"
	"fraudBench/business/quota"
	"fraudBench/business/submission"
	"fraudBench/domain"
	"fraudBench/pkg/logger"
	"fraudBench/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// SubmissionService contract interface
type SubmissionService interface {
	Submit(ctx context.Context, userID uint, file io.Reader) (submission.Result, error)
	History(ctx context.Context, userID uint) ([]domain.Score, submission.Stats, error)
	RowCount() int
}

type SubmissionHandler struct {
	submissionService SubmissionService
	maxUploadSizeMB   int
}

func NewSubmissionHandler(submissionService SubmissionService, maxUploadSizeMB int) *SubmissionHandler {
	return &SubmissionHandler{
		submissionService: submissionService,
		maxUploadSizeMB:   maxUploadSizeMB,
	}
}

type UploadResponse struct {
	F1Score          float64   `json:"f1_score"`
	Accuracy         float64   `json:"accuracy"`
	Timestamp        time.Time `json:"timestamp"`
	UploadsRemaining int       `json:"uploadsRemaining"`
}

type UploadErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type QuotaErrorResponse struct {
	Error     string    `json:"error"`
	NextReset time.Time `json:"nextReset"`
}

type ScoreItem struct {
	SubmissionID string    `json:"submission_id"`
	F1Score      float64   `json:"f1_score"`
	Accuracy     float64   `json:"accuracy"`
	Timestamp    time.Time `json:"timestamp"`
}

type ScoresResponse struct {
	Scores []ScoreItem `json:"scores"`
	Stats  ScoreStats  `json:"stats"`
}

type ScoreStats struct {
	TotalSubmissions int     `json:"total_submissions"`
	BestF1           float64 `json:"best_f1"`
	UploadsToday     int     `json:"uploads_today"`
	UploadsRemaining int     `json:"uploads_remaining"`
}

func (h *SubmissionHandler) Upload(c echo.Context) error {
	timer := prometheus.NewTimer(metrics.UploadDuration)
	defer timer.ObserveDuration()

	userID := c.Get("user_id").(uint)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		metrics.UploadsTotal.WithLabelValues("invalid").Inc()
		return c.JSON(http.StatusBadRequest, UploadErrorResponse{
			Error:   "missing upload",
			Details: `multipart field "file" is required`,
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		logger.Error("Failed to open uploaded file", err)
		metrics.UploadsTotal.WithLabelValues("failed").Inc()
		return err
	}
	defer src.Close()

	result, err := h.submissionService.Submit(c.Request().Context(), userID, src)
	if err != nil {
		var exceeded *quota.ExceededError
		if errors.As(err, &exceeded) {
			metrics.UploadsTotal.WithLabelValues("quota_exceeded").Inc()
			return c.JSON(http.StatusTooManyRequests, QuotaErrorResponse{
				Error:     exceeded.Error(),
				NextReset: exceeded.NextReset,
			})
		}

		if dataset.IsClientError(err) {
			metrics.UploadsTotal.WithLabelValues("invalid").Inc()
			return c.JSON(http.StatusUnprocessableEntity, UploadErrorResponse{
				Error:   "invalid submission",
				Details: err.Error(),
			})
		}

		logger.Error("Upload failed", "user_id", userID, "error", err)
		metrics.UploadsTotal.WithLabelValues("failed").Inc()
		return err
	}

	metrics.UploadsTotal.WithLabelValues("scored").Inc()

	return c.JSON(http.StatusOK, UploadResponse{
		F1Score:          result.F1,
		Accuracy:         result.Accuracy,
		Timestamp:        result.Timestamp,
		UploadsRemaining: result.UploadsRemaining,
	})
}

func (h *SubmissionHandler) GetScores(c echo.Context) error {
	userID := c.Get("user_id").(uint)

	scores, stats, err := h.submissionService.History(c.Request().Context(), userID)
	if err != nil {
		logger.Error("Failed to get score history", err)
		return err
	}

	resp := ScoresResponse{
		Scores: make([]ScoreItem, 0, len(scores)),
		Stats: ScoreStats{
			TotalSubmissions: stats.TotalSubmissions,
			BestF1:           stats.BestF1,
			UploadsToday:     stats.UploadsToday,
			UploadsRemaining: stats.UploadsRemaining,
		},
	}
	for _, score := range scores {
		resp.Scores = append(resp.Scores, ScoreItem{
			SubmissionID: score.SubmissionID,
			F1Score:      score.F1,
			Accuracy:     score.Accuracy,
			Timestamp:    score.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(resp))
}

func (h *SubmissionHandler) RowCount(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]int{
		"row_count": h.submissionService.RowCount(),
	})
}

func (h *SubmissionHandler) UploadFormat(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"file_type":        "csv",
		"required_columns": dataset.SubmissionLabelColumn.Aliases,
		"optional_columns": dataset.TransactionIDColumn.Aliases,
		"allowed_values":   []int{0, 1},
		"expected_rows":    h.submissionService.RowCount(),
		"max_file_size_mb": h.maxUploadSizeMB,
	})
}
