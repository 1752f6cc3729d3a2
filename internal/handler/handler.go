package handler

import (
	"context"
	"errors"
	"net/http"

	"user-auth/internal/api"
	"user-auth/internal/audit"
	"user-auth/internal/model"
	"user-auth/internal/service"

	"github.com/labstack/echo/v4"
)

// UserService 由 *service.UserService 實作
type UserService interface {
	Register(ctx context.Context, in service.NewUser) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*service.Token, error)
	FetchByEmail(ctx context.Context, email string) (*model.User, error)
	ListAll(ctx context.Context, requestedBy *service.CustomClaims) ([]model.User, error)
	CreateAsAdmin(ctx context.Context, actor *service.CustomClaims, in service.NewUser, isAdmin bool) (*model.User, error)
}

const msgInternal = "internal server error"

// StatusFor 把 service 錯誤對應到 HTTP 狀態碼與對外訊息；
// 未知錯誤（含資料庫錯誤）一律回 500 且不帶原始錯誤文字
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		return http.StatusBadRequest, service.ErrDuplicateEmail.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusBadRequest, service.ErrInvalidCredentials.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, service.ErrNotFound.Error()
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, service.ErrForbidden.Error()
	case errors.Is(err, service.ErrTooManyAttempts):
		return http.StatusTooManyRequests, service.ErrTooManyAttempts.Error()
	case service.IsTokenError(err):
		return http.StatusUnauthorized, "invalid or expired token"
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

// Fail 寫出錯誤回應
func Fail(c echo.Context, err error) error {
	code, msg := StatusFor(err)
	return c.JSON(code, api.ErrorResponse{Detail: msg})
}

// HTTPErrorHandler 取代 echo 預設的錯誤輸出，讓中介層與路由錯誤
// 也使用 {"detail": ...}；非 *echo.HTTPError 一律回 500 且不帶原始文字
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code, msg := http.StatusInternalServerError, msgInternal
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			msg = m
		} else {
			msg = http.StatusText(code)
		}
	} else {
		c.Logger().Error(err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, api.ErrorResponse{Detail: msg})
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

// Invalid 請求格式或欄位驗證失敗
func Invalid(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Detail: msg})
}

// Audit 寫入本次請求唯一的稽核紀錄，必須在送出回應前呼叫
func Audit(c echo.Context, rec audit.Recorder, action, email string, ok bool) {
	if email == "" {
		email = "anonymous"
	}
	rec.Record(audit.Entry{Action: action, Email: email, Success: ok, IP: c.RealIP()})
}
