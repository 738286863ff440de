// File: internal/service/reset_token.go
package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ResetTokenTTL 重設密碼 token 的有效時間
const ResetTokenTTL = 10 * time.Minute

var randRead = rand.Read

// ResetToken 原始 token 寄給使用者，只有雜湊值會寫入資料庫
type ResetToken struct {
	Raw       string
	Hashed    string
	ExpiresAt time.Time
}

// NewResetToken 產生 20 bytes 隨機 token 及其 SHA-256 雜湊
func NewResetToken() (*ResetToken, error) {
	buf := make([]byte, 20)
	if _, err := randRead(buf); err != nil {
		return nil, err
	}
	raw := hex.EncodeToString(buf)
	return &ResetToken{
		Raw:       raw,
		Hashed:    HashResetToken(raw),
		ExpiresAt: timeNow().Add(ResetTokenTTL),
	}, nil
}

// HashResetToken 回傳 token 的 SHA-256 hex 字串
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
