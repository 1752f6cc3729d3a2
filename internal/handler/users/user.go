package users

import (
	"net/http"
	"net/url"

	"user-auth/internal/api"
	"user-auth/internal/audit"
	"user-auth/internal/handler"
	"user-auth/internal/middleware"
	"user-auth/internal/service"

	"github.com/labstack/echo/v4"
)

// GetUserHandler 依 email 查詢單一使用者
// @Summary     Get user by email
// @Tags        users
// @Produce     json
// @Param       email path     string true "使用者 Email"
// @Success     200   {object} api.UserResponse
// @Failure     401   {object} api.ErrorResponse
// @Failure     404   {object} api.ErrorResponse
// @Failure     500   {object} api.ErrorResponse
// @Security    OAuth2Password
// @Router      /users/{email} [get]
func GetUserHandler(svc handler.UserService, rec audit.Recorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw := c.Param("email")
		if v, err := url.PathUnescape(raw); err == nil {
			raw = v
		}
		email := service.NormalizeEmail(raw)

		user, err := svc.FetchByEmail(c.Request().Context(), email)
		if err != nil {
			handler.Audit(c, rec, audit.ActionGetUser, email, false)
			return handler.Fail(c, err)
		}

		handler.Audit(c, rec, audit.ActionGetUser, email, true)
		return c.JSON(http.StatusOK, api.NewUserResponse(user))
	}
}

func actorEmail(claims *service.CustomClaims) string {
	if claims == nil {
		return ""
	}
	return claims.Email()
}

// ListUsersHandler 列出所有使用者（僅限管理員）
// @Summary     List users
// @Tags        admin
// @Produce     json
// @Success     200 {array}  api.UserResponse
// @Failure     401 {object} api.ErrorResponse
// @Failure     403 {object} api.ErrorResponse
// @Failure     500 {object} api.ErrorResponse
// @Security    OAuth2Password
// @Router      /admin/users/ [get]
func ListUsersHandler(svc handler.UserService, rec audit.Recorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.ClaimsFrom(c)
		actor := actorEmail(claims)

		list, err := svc.ListAll(c.Request().Context(), claims)
		if err != nil {
			handler.Audit(c, rec, audit.ActionAdminListUsers, actor, false)
			return handler.Fail(c, err)
		}

		out := make([]api.UserResponse, 0, len(list))
		for i := range list {
			out = append(out, api.NewUserResponse(&list[i]))
		}
		handler.Audit(c, rec, audit.ActionAdminListUsers, actor, true)
		return c.JSON(http.StatusOK, out)
	}
}

// CreateUserHandler 管理員建立使用者，可指定 is_admin
// @Summary     Create a user as admin
// @Tags        admin
// @Accept      json
// @Produce     json
// @Param       body body     api.CreateUserRequest true "使用者資料"
// @Success     201  {object} api.UserResponse
// @Failure     400  {object} api.ErrorResponse "email 已註冊"
// @Failure     401  {object} api.ErrorResponse
// @Failure     403  {object} api.ErrorResponse
// @Failure     422  {object} api.ErrorResponse
// @Failure     500  {object} api.ErrorResponse
// @Security    OAuth2Password
// @Router      /admin/users/ [post]
func CreateUserHandler(svc handler.UserService, rec audit.Recorder) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := middleware.ClaimsFrom(c)
		var req api.CreateUserRequest
		if err := c.Bind(&req); err != nil {
			handler.Audit(c, rec, audit.ActionAdminCreateUser, actorEmail(claims), false)
			return handler.Invalid(c, "invalid request body")
		}
		email := service.NormalizeEmail(req.Email)
		if email == "" {
			// 無目標 email 時記錄操作者
			email = actorEmail(claims)
		}
		if err := c.Validate(&req); err != nil {
			handler.Audit(c, rec, audit.ActionAdminCreateUser, email, false)
			return handler.Invalid(c, err.Error())
		}

		user, err := svc.CreateAsAdmin(c.Request().Context(), claims, req.NewUser(), req.IsAdmin)
		if err != nil {
			handler.Audit(c, rec, audit.ActionAdminCreateUser, email, false)
			return handler.Fail(c, err)
		}

		handler.Audit(c, rec, audit.ActionAdminCreateUser, user.Email, true)
		return c.JSON(http.StatusCreated, api.NewUserResponse(user))
	}
}
