package router

import (
	"fraudBench/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetupUserRoutes(api *echo.Group, handler *rest.UserHandler, authRequired echo.MiddlewareFunc) {
	users := api.Group("/users")

	users.POST("/register", handler.Register)
	users.POST("/login", handler.Login)
	users.POST("/logout", handler.Logout, authRequired)
}

func SetupCompetitionRoutes(
	api *echo.Group,
	submissionHandler *rest.SubmissionHandler,
	leaderboardHandler *rest.LeaderboardHandler,
	authRequired echo.MiddlewareFunc,
) {
	api.POST("/upload", submissionHandler.Upload, authRequired)
	api.GET("/scores", submissionHandler.GetScores, authRequired)

	api.GET("/leaderboard", leaderboardHandler.Get)
	api.GET("/row-count", submissionHandler.RowCount)
	api.GET("/upload-format", submissionHandler.UploadFormat)
}
