// File: cmd/service/main.go
// @title        User Auth API
// @version      1.0
// @description  使用者註冊、登入與管理 API
// @host         localhost:8080
// @BasePath     /
// @securityDefinitions.oauth2.password OAuth2Password
// @tokenUrl /login/
package main

import (
	"go.uber.org/zap"

	_ "user-auth/docs" // 引入 swag 產出的 docs
)

func main() {
	if err := run(); err != nil {
		// run 失敗時服務 logger 可能尚未建立
		log, _ := zap.NewProduction()
		if log == nil {
			log = zap.NewNop()
		}
		log.Error("service exited", zap.Error(err))
		_ = log.Sync()
		exitFunc(1)
	}
}
