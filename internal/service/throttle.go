package service

import (
	"context"
	"errors"
	"time"

	"user-auth/internal/cache"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const loginFailurePrefix = "login:failures:"

// LoginThrottle 以 Redis 計數每個 email 的登入失敗次數，超過上限即暫時鎖定。
// nil 的 *LoginThrottle 代表不啟用；Redis 錯誤時放行並記錄警告。
type LoginThrottle struct {
	cache       cache.Cache
	maxAttempts int64
	window      time.Duration
	log         *zap.Logger
}

func NewLoginThrottle(c cache.Cache, maxAttempts int, window time.Duration, log *zap.Logger) *LoginThrottle {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoginThrottle{cache: c, maxAttempts: int64(maxAttempts), window: window, log: log}
}

func loginFailureKey(email string) string {
	return loginFailurePrefix + email
}

// Allow 回傳 email 目前是否可以嘗試登入
func (t *LoginThrottle) Allow(ctx context.Context, email string) bool {
	if t == nil {
		return true
	}
	key := loginFailureKey(email)
	n, err := t.cache.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return true
	}
	if err != nil {
		t.log.Warn("login throttle lookup failed", zap.Error(err))
		return true
	}
	if n < t.maxAttempts {
		return true
	}
	// 鎖定中的 key 必須有 TTL，否則永遠無法解鎖
	t.ensureWindow(ctx, key)
	return false
}

func (t *LoginThrottle) ensureWindow(ctx context.Context, key string) {
	if err := t.cache.ExpireNX(ctx, key, t.window).Err(); err != nil {
		t.log.Warn("login throttle expire failed", zap.Error(err))
	}
}

// Fail 累加失敗次數；視窗從第一次失敗起算，之後每次失敗都補設尚未存在的 TTL
func (t *LoginThrottle) Fail(ctx context.Context, email string) {
	if t == nil {
		return
	}
	key := loginFailureKey(email)
	if err := t.cache.Incr(ctx, key).Err(); err != nil {
		t.log.Warn("login throttle incr failed", zap.Error(err))
		return
	}
	t.ensureWindow(ctx, key)
}

// Reset 登入成功後清除計數
func (t *LoginThrottle) Reset(ctx context.Context, email string) {
	if t == nil {
		return
	}
	if err := t.cache.Del(ctx, loginFailureKey(email)).Err(); err != nil {
		t.log.Warn("login throttle reset failed", zap.Error(err))
	}
}
