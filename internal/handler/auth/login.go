// File: internal/handler/auth/login.go
package auth

import (
	"net/http"

	"user-auth/internal/api"
	"user-auth/internal/audit"
	"user-auth/internal/handler"
	"user-auth/internal/service"

	"github.com/labstack/echo/v4"
)

// LoginHandler 使用 Username(email)/Password 驗證並回傳 JWT
// @Summary     登入使用者
// @Description 帳號不存在與密碼錯誤回傳相同錯誤
// @Tags        auth
// @Accept      application/x-www-form-urlencoded
// @Produce     json
// @Param       username formData string true "使用者 Email"
// @Param       password formData string true "使用者密碼"
// @Success     200      {object} api.LoginResponse
// @Failure     400      {object} api.ErrorResponse "帳號或密碼錯誤"
// @Failure     422      {object} api.ErrorResponse
// @Failure     429      {object} api.ErrorResponse
// @Failure     500      {object} api.ErrorResponse
// @Router      /login/ [post]
func LoginHandler(svc handler.UserService, rec audit.Recorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.LoginRequest
		if err := c.Bind(&req); err != nil {
			handler.Audit(c, rec, audit.ActionLogin, service.NormalizeEmail(req.Username), false)
			return handler.Invalid(c, "invalid form data")
		}
		email := service.NormalizeEmail(req.Username)
		if err := c.Validate(&req); err != nil {
			handler.Audit(c, rec, audit.ActionLogin, email, false)
			return handler.Invalid(c, err.Error())
		}

		token, err := svc.Authenticate(c.Request().Context(), req.Username, req.Password)
		if err != nil {
			handler.Audit(c, rec, audit.ActionLogin, email, false)
			return handler.Fail(c, err)
		}

		handler.Audit(c, rec, audit.ActionLogin, email, true)
		return c.JSON(http.StatusOK, api.LoginResponse{
			AccessToken: token.AccessToken,
			TokenType:   "bearer",
			IsAdmin:     token.IsAdmin,
			ExpiresAt:   token.ExpiresAt,
		})
	}
}
