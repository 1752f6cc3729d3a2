// Package audit 寫入使用者操作稽核紀錄，每個請求結果一行：
//
//	<action> - Email: <email> - Status: <SUCCESS|FAILED> - IP: <ip>
package audit

import (
	"fmt"
	"strings"

	"user-auth/internal/worker"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ActionRegister        = "REGISTER"
	ActionLogin           = "LOGIN"
	ActionGetUser         = "GET_USER"
	ActionAdminListUsers  = "ADMIN_LIST_USERS"
	ActionAdminCreateUser = "ADMIN_CREATE_USER"
)

const (
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
)

// Entry 一筆稽核紀錄
type Entry struct {
	Action  string
	Email   string
	Success bool
	IP      string
}

// 避免使用者輸入的換行拆成多筆紀錄
var lineSanitizer = strings.NewReplacer("\r", `\r`, "\n", `\n`)

func (e Entry) String() string {
	status := StatusFailed
	if e.Success {
		status = StatusSuccess
	}
	return fmt.Sprintf("%s - Email: %s - Status: %s - IP: %s",
		e.Action, lineSanitizer.Replace(e.Email), status, lineSanitizer.Replace(e.IP))
}

// Recorder 由 HTTP 層呼叫，每個邏輯結果恰好一次
type Recorder interface {
	Record(Entry)
}

// Logger 透過 worker pool 非同步寫入 zap sink；zap core 本身可併發寫入
type Logger struct {
	log  *zap.Logger
	pool worker.Pool
}

func New(log *zap.Logger, pool worker.Pool) *Logger {
	return &Logger{log: log, pool: pool}
}

// Record 在回應前把紀錄排入 pool 後立即返回，實際寫入 sink 可能晚於回應送出。
// 排隊中的紀錄由 Close 寫完；pool 已停止時改為同步寫入，不遺漏紀錄
func (l *Logger) Record(e Entry) {
	line := e.String()
	if l.pool.Submit(func() { l.log.Info(line) }) {
		return
	}
	l.log.Info(line)
}

// Close 等待排隊中的紀錄寫完並 flush sink
func (l *Logger) Close() error {
	l.pool.Stop()
	return l.log.Sync()
}

var buildLogger = func(cfg zap.Config) (*zap.Logger, error) { return cfg.Build() }

// NewSink 建立寫到 path 的稽核 logger（"stdout"/"stderr" 亦可），
// 每行格式為 "<ISO8601 時間>\t<訊息>"
func NewSink(path string) (*zap.Logger, error) {
	cfg := zap.Config{
		Level:    zap.NewAtomicLevelAt(zap.InfoLevel),
		Encoding: "console",
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "ts",
			MessageKey:     "msg",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{"stderr"},
	}
	log, err := buildLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("audit sink %q: %w", path, err)
	}
	return log, nil
}
