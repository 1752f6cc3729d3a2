package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"user-auth/internal/database"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

// Config 啟動時載入一次，之後只讀
type Config struct {
	Environment      string
	HTTPAddr         string
	DatabaseURL      string
	JWTSecret        string
	AccessTokenTTL   time.Duration
	BcryptCost       int
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	LoginMaxAttempts int
	LoginLockout     time.Duration
	AuditLogPath     string
	WorkerCount      int
	AdminEmail       string
	AdminPassword    string
	PublicUserLookup bool
}

// Development 回傳是否為開發環境
func (c Config) Development() bool {
	return c.Environment == "development"
}

// ThrottleEnabled REDIS_ADDR 未設定時不啟用登入節流
func (c Config) ThrottleEnabled() bool {
	return c.RedisAddr != ""
}

var loadDotenv = func() error { return godotenv.Load() }

// Load 讀取 .env（若存在）與環境變數
func Load() (Config, error) {
	_ = loadDotenv()

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		host := strings.TrimSpace(os.Getenv("DB_HOST"))
		name := strings.TrimSpace(os.Getenv("DB_NAME"))
		if host == "" || name == "" {
			return Config{}, fmt.Errorf("環境變數 DATABASE_URL 或 DB_HOST/DB_NAME 未設定")
		}
		dbURL = database.BuildURL(host, getEnv("DB_PORT", "5432"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"), name)
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return Config{}, fmt.Errorf("環境變數 JWT_SECRET 未設定")
	}

	cfg := Config{
		Environment:   getEnv("APP_ENV", "production"),
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		DatabaseURL:   dbURL,
		JWTSecret:     secret,
		RedisAddr:     strings.TrimSpace(os.Getenv("REDIS_ADDR")),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		AuditLogPath:  getEnv("AUDIT_LOG_PATH", "audit.log"),
		AdminEmail:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}

	var err error
	if cfg.AccessTokenTTL, err = getDuration("ACCESS_TOKEN_TTL", 30*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.AccessTokenTTL <= 0 {
		return Config{}, fmt.Errorf("無效的 ACCESS_TOKEN_TTL: %s", cfg.AccessTokenTTL)
	}
	if cfg.BcryptCost, err = getInt("BCRYPT_COST", bcrypt.DefaultCost); err != nil {
		return Config{}, err
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return Config{}, fmt.Errorf("無效的 BCRYPT_COST: %d", cfg.BcryptCost)
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.LoginMaxAttempts, err = getInt("LOGIN_MAX_ATTEMPTS", 5); err != nil {
		return Config{}, err
	}
	if cfg.LoginMaxAttempts <= 0 {
		return Config{}, fmt.Errorf("無效的 LOGIN_MAX_ATTEMPTS: %d", cfg.LoginMaxAttempts)
	}
	if cfg.LoginLockout, err = getDuration("LOGIN_LOCKOUT", 15*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.WorkerCount, err = getInt("WORKER_COUNT", 1); err != nil {
		return Config{}, err
	}
	if cfg.WorkerCount <= 0 {
		return Config{}, fmt.Errorf("無效的 WORKER_COUNT: %d", cfg.WorkerCount)
	}
	if cfg.PublicUserLookup, err = getBool("PUBLIC_USER_LOOKUP", false); err != nil {
		return Config{}, err
	}
	if (cfg.AdminEmail == "") != (cfg.AdminPassword == "") {
		return Config{}, fmt.Errorf("ADMIN_EMAIL 與 ADMIN_PASSWORD 必須同時設定")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("無效的 %s: %v", key, err)
	}
	return n, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("無效的 %s: %v", key, err)
	}
	return d, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("無效的 %s: %v", key, err)
	}
	return b, nil
}
