package handler

import (
	"context"
	"net/http"
	"time"

	"user-auth/internal/api"
	"user-auth/internal/cache"
	"user-auth/internal/database"

	"github.com/labstack/echo/v4"
)

// HealthHandler 檢查資料庫與 Redis（若有設定）連線
// @Summary     Health check
// @Tags        health
// @Produce     json
// @Success     200 {object} api.HealthResponse
// @Failure     503 {object} api.ErrorResponse
// @Router      /healthz [get]
func HealthHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			c.Logger().Warnf("health: database ping failed: %v", err)
			return c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Detail: "database unavailable"})
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				c.Logger().Warnf("health: redis ping failed: %v", err)
				return c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{Detail: "cache unavailable"})
			}
		}
		return c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
	}
}
