package middleware

import (
	"net/http"
	"strings"

	"user-auth/internal/audit"
	"user-auth/internal/service"

	"github.com/labstack/echo/v4"
)

const ContextUserKey = "user"

// TokenVerifier 由 *service.TokenIssuer 實作
type TokenVerifier interface {
	Verify(token string) (*service.CustomClaims, error)
}

func extractClaims(c echo.Context, tokens TokenVerifier) (*service.CustomClaims, error) {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing token")
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header format")
	}
	claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		// 不回傳解析細節
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

// ClaimsFrom 取出 RequireAuth 放入的宣告；未經 RequireAuth 時回傳 nil
func ClaimsFrom(c echo.Context) *service.CustomClaims {
	claims, _ := c.Get(ContextUserKey).(*service.CustomClaims)
	return claims
}

// 被中介層擋下的請求不會進入 handler，因此在這裡寫入該請求唯一的稽核紀錄
func reject(c echo.Context, rec audit.Recorder, action, email string, err error) error {
	if email == "" {
		email = c.Param("email")
	}
	if email == "" {
		email = "anonymous"
	}
	rec.Record(audit.Entry{Action: action, Email: email, Success: false, IP: c.RealIP()})
	if he, ok := err.(*echo.HTTPError); ok && he.Code == http.StatusUnauthorized {
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	}
	return err
}

// RequireAuth 驗證 bearer token 並把宣告放進 context
func RequireAuth(tokens TokenVerifier, rec audit.Recorder, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := extractClaims(c, tokens)
			if err != nil {
				return reject(c, rec, action, "", err)
			}
			c.Set(ContextUserKey, claims)
			return next(c)
		}
	}
}

// RequireAdmin 令牌宣告必須為管理員；宣告不會回頭查資料庫
func RequireAdmin(tokens TokenVerifier, rec audit.Recorder, action string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return RequireAuth(tokens, rec, action)(func(c echo.Context) error {
			claims := ClaimsFrom(c)
			if !claims.IsAdmin {
				return reject(c, rec, action, claims.Email(),
					echo.NewHTTPError(http.StatusForbidden, service.ErrForbidden.Error()))
			}
			return next(c)
		})
	}
}
