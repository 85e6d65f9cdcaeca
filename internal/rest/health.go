package rest

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewHealthHandler(db *gorm.DB, redisClient *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:    db,
		redis: redisClient,
	}
}

// Check reports readiness of the storage dependencies.
func (h *HealthHandler) Check(c echo.Context) error {
	status := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}
	healthy := true

	reqCtx := c.Request().Context()

	sqlDB, err := h.db.DB()
	if err != nil {
		status["database"] = err.Error()
		healthy = false
	} else if err := sqlDB.PingContext(reqCtx); err != nil {
		status["database"] = err.Error()
		healthy = false
	}

	if err := h.redis.Ping(reqCtx).Err(); err != nil {
		status["redis"] = err.Error()
		healthy = false
	}

	body := map[string]interface{}{
		"status":     "ok",
		"checks":     status,
		"checked_at": time.Now(),
	}
	if !healthy {
		body["status"] = "degraded"
		return c.JSON(http.StatusServiceUnavailable, body)
	}

	return c.JSON(http.StatusOK, body)
}
