package service

import "errors"

// UserService 回傳的結果錯誤，HTTP 層依此對應狀態碼
var (
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotFound           = errors.New("user not found")
	ErrForbidden          = errors.New("admin privileges required")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrTooManyAttempts    = errors.New("too many failed login attempts")
)

// TokenIssuer.Verify 的錯誤，皆屬於無效令牌
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
)

// IsTokenError 判斷 err 是否為令牌驗證失敗
func IsTokenError(err error) bool {
	return errors.Is(err, ErrTokenMalformed) ||
		errors.Is(err, ErrTokenSignature) ||
		errors.Is(err, ErrTokenExpired)
}
