// File: internal/service/password.go
package service

import (
	"crypto/sha256"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	bcryptGenerateFromPassword   = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
)

// PasswordHasher 以 bcrypt 雜湊密碼，cost 啟動時決定
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher cost 必須介於 bcrypt.MinCost 與 bcrypt.MaxCost
func NewPasswordHasher(cost int) (*PasswordHasher, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	return &PasswordHasher{cost: cost}, nil
}

// bcrypt 只取前 72 bytes 且新版拒絕更長的輸入，先做 SHA-256 讓任意長度的密碼完整參與比對
func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// Hash 接收明文密碼，回傳含 salt 的 bcrypt 哈希字串
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashBytes, err := bcryptGenerateFromPassword(prehash(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashBytes), nil
}

// Verify 比對明文密碼與哈希；哈希格式錯誤時回傳 false
func (h *PasswordHasher) Verify(password, hash string) bool {
	return bcryptCompareHashAndPassword([]byte(hash), prehash(password)) == nil
}
