// Package bootstrap 啟動時的一次性資料初始化
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// AdminEnsurer 由 *service.UserService 實作
type AdminEnsurer interface {
	EnsureAdmin(ctx context.Context, email, password string) (bool, error)
}

// EnsureAdmin 設定了 ADMIN_EMAIL/ADMIN_PASSWORD 時建立第一個管理員。
// 帳號已存在則不變動。
func EnsureAdmin(ctx context.Context, svc AdminEnsurer, email, password string, log *zap.Logger) error {
	if email == "" || password == "" {
		log.Info("bootstrap admin not configured")
		return nil
	}
	created, err := svc.EnsureAdmin(ctx, email, password)
	if err != nil {
		return fmt.Errorf("EnsureAdmin: %w", err)
	}
	if created {
		log.Info("bootstrap admin created", zap.String("email", email))
	} else {
		log.Info("bootstrap admin already exists", zap.String("email", email))
	}
	return nil
}
