package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"fraudBench/pkg/logger"
	"fraudBench/pkg/utils"

	jsonres "fraudBench/pkg/response"

	"github.com/labstack/echo/v4"
)

// TokenValidator checks session tokens against Redis.
type TokenValidator interface {
	ValidateTokenFromRedis(ctx context.Context, token string) (string, error)
}

// rejection is an auth failure that still needs to be written to the client.
type rejection struct {
	status int
	code   string
	reason string
}

// AuthMiddleware performs plain JWT authentication without a session store.
func AuthMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, tokenString, rej := parseAuthHeader(c)
			if rej != nil {
				return c.JSON(rej.status, jsonres.Error(rej.code, rej.reason, nil))
			}

			userID, err := strconv.ParseUint(claims.UserID, 10, 64)
			if err != nil {
				logger.Error("Invalid user ID in token", err)
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Invalid user ID in token", nil,
				))
			}

			c.Set("user_id", uint(userID))
			c.Set("role", claims.Role)
			c.Set("token", tokenString)

			return next(c)
		}
	}
}

// AuthMiddlewareWithRedis additionally requires the token to be an active
// session in Redis, so logout takes effect before the JWT expires.
func AuthMiddlewareWithRedis(tokenValidator TokenValidator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, tokenString, rej := parseAuthHeader(c)
			if rej != nil {
				return c.JSON(rej.status, jsonres.Error(rej.code, rej.reason, nil))
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			userID, err := tokenValidator.ValidateTokenFromRedis(ctx, tokenString)
			if err != nil {
				logger.Error("Session not found in Redis", err)
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Token expired or invalid", nil,
				))
			}

			if userID != claims.UserID {
				logger.Error("UserID mismatch between JWT and Redis")
				return c.JSON(http.StatusUnauthorized, jsonres.Error(
					"UNAUTHORIZED", "Invalid token", nil,
				))
			}

			userIDUint, err := strconv.ParseUint(claims.UserID, 10, 64)
			if err != nil {
				logger.Error("Invalid user ID in token", err)
				return c.JSON(http.StatusForbidden, jsonres.Error(
					"FORBIDDEN", "Invalid user ID in token", nil,
				))
			}

			c.Set("user_id", uint(userIDUint))
			c.Set("role", claims.Role)
			c.Set("token", tokenString)

			return next(c)
		}
	}
}

func parseAuthHeader(c echo.Context) (*utils.JWTClaims, string, *rejection) {
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return nil, "", &rejection{http.StatusUnauthorized, "UNAUTHORIZED", "Missing authorization header"}
	}

	tokenParts := strings.Split(authHeader, " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		return nil, "", &rejection{http.StatusUnauthorized, "UNAUTHORIZED", "Invalid authorization format"}
	}

	tokenString := tokenParts[1]

	claims, err := utils.ParseJWT(tokenString)
	if err != nil {
		return nil, "", &rejection{http.StatusUnauthorized, "UNAUTHORIZED", "Invalid token"}
	}

	expAt, err := claims.GetExpirationTime()
	if err != nil || time.Now().After(expAt.Time) {
		return nil, "", &rejection{http.StatusForbidden, "FORBIDDEN", "Token expired"}
	}

	return claims, tokenString, nil
}
