// File: internal/router/router.go
package router

import (
	"github.com/labstack/echo/v4"

	"user-auth/internal/audit"
	"user-auth/internal/cache"
	"user-auth/internal/database"
	"user-auth/internal/handler"
	"user-auth/internal/handler/auth"
	"user-auth/internal/handler/users"
	"user-auth/internal/middleware"
)

// Options 路由相依元件；Cache 為 nil 時健康檢查略過 Redis
type Options struct {
	Service          handler.UserService
	Tokens           middleware.TokenVerifier
	Audit            audit.Recorder
	DB               database.DB
	Cache            cache.Cache
	PublicUserLookup bool
}

// Setup 註冊所有路由與中介層
func Setup(e *echo.Echo, opts Options) {
	svc, rec := opts.Service, opts.Audit
	e.HTTPErrorHandler = handler.HTTPErrorHandler

	e.GET("/healthz", handler.HealthHandler(opts.DB, opts.Cache))

	// 註冊與登入不需令牌
	e.POST("/register/", auth.RegisterHandler(svc, rec))
	e.POST("/login/", auth.LoginHandler(svc, rec))

	// 依 email 查詢使用者，預設需登入
	if opts.PublicUserLookup {
		e.GET("/users/:email", users.GetUserHandler(svc, rec))
	} else {
		e.GET("/users/:email", users.GetUserHandler(svc, rec),
			middleware.RequireAuth(opts.Tokens, rec, audit.ActionGetUser))
	}

	// 管理員專屬
	admin := e.Group("/admin/users")
	admin.GET("/", users.ListUsersHandler(svc, rec),
		middleware.RequireAuth(opts.Tokens, rec, audit.ActionAdminListUsers))
	admin.POST("/", users.CreateUserHandler(svc, rec),
		middleware.RequireAdmin(opts.Tokens, rec, audit.ActionAdminCreateUser))
}
