package auth

import (
	"net/http"

	"user-auth/internal/api"
	"user-auth/internal/audit"
	"user-auth/internal/handler"
	"user-auth/internal/service"

	"github.com/labstack/echo/v4"
)

// RegisterHandler 註冊一般使用者
// @Summary     Register a user
// @Description 建立新帳號，is_admin 固定為 false
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       body body     api.RegisterRequest true "註冊資料"
// @Success     201  {object} api.UserResponse
// @Failure     400  {object} api.ErrorResponse "email 已註冊"
// @Failure     422  {object} api.ErrorResponse "欄位驗證失敗"
// @Failure     500  {object} api.ErrorResponse
// @Router      /register/ [post]
func RegisterHandler(svc handler.UserService, rec audit.Recorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.RegisterRequest
		if err := c.Bind(&req); err != nil {
			handler.Audit(c, rec, audit.ActionRegister, service.NormalizeEmail(req.Email), false)
			return handler.Invalid(c, "invalid request body")
		}
		email := service.NormalizeEmail(req.Email)
		if err := c.Validate(&req); err != nil {
			handler.Audit(c, rec, audit.ActionRegister, email, false)
			return handler.Invalid(c, err.Error())
		}

		user, err := svc.Register(c.Request().Context(), req.NewUser())
		if err != nil {
			handler.Audit(c, rec, audit.ActionRegister, email, false)
			return handler.Fail(c, err)
		}

		handler.Audit(c, rec, audit.ActionRegister, user.Email, true)
		return c.JSON(http.StatusCreated, api.NewUserResponse(user))
	}
}
