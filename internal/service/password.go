// File: internal/service/password.go
package service

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// passwordCost 對應 bcrypt salt rounds
var passwordCost = 10

var (
	bcryptGenerateFromPassword   = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
)

// HashPassword 儲存前雜湊密碼；明文不會寫入資料庫
func HashPassword(password string) (string, error) {
	b, err := bcryptGenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("HashPassword: %w", err)
	}
	return string(b), nil
}

func ComparePassword(hash, password string) error {
	return bcryptCompareHashAndPassword([]byte(hash), []byte(password))
}
