// File: internal/service/authentication.go
package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"devcamper/internal/cache"
	"devcamper/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const revokedKeyPrefix = "revoked:"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

var (
	timeNow         = time.Now
	newTokenID      = func() string { return uuid.NewString() }
	parseWithClaims = jwt.ParseWithClaims
)

// CustomClaims 定義 JWT 負載內容，只攜帶使用者 ID；角色每次請求由資料庫取得
type CustomClaims struct {
	UserID int `json:"id"`
	jwt.RegisteredClaims
}

// AuthenticateUser 比對使用者密碼，失敗一律回傳 ErrInvalidCredentials
func AuthenticateUser(user model.User, password string) error {
	if user.PasswordHash == "" {
		return ErrInvalidCredentials
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return ErrInvalidCredentials
	}
	return nil
}

func jwtSecret() ([]byte, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	return []byte(secret), nil
}

// IssueAccessToken 依據使用者資訊與 TTL 產生 JWT
func IssueAccessToken(user model.User, ttl time.Duration) (string, error) {
	secret, err := jwtSecret()
	if err != nil {
		return "", err
	}

	now := timeNow()
	claims := CustomClaims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        newTokenID(),
			Subject:   strconv.Itoa(user.ID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// VerifyAccessToken 驗證簽章與到期時間；所有失敗原因都包成 ErrInvalidToken
func VerifyAccessToken(tokenString string) (*CustomClaims, error) {
	secret, err := jwtSecret()
	if err != nil {
		return nil, err
	}

	token, err := parseWithClaims(tokenString, &CustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	}, jwt.WithTimeFunc(timeNow))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// RevokeAccessToken 將 token 的 jti 記錄到 Redis 直到原本的到期時間
func RevokeAccessToken(ctx context.Context, c cache.Cache, claims *CustomClaims) error {
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	ttl := claims.ExpiresAt.Sub(timeNow())
	if ttl <= 0 {
		return nil
	}
	if err := c.Set(ctx, revokedKeyPrefix+claims.ID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("RevokeAccessToken: %w", err)
	}
	return nil
}

// IsAccessTokenRevoked 查詢 token 是否已登出
func IsAccessTokenRevoked(ctx context.Context, c cache.Cache, claims *CustomClaims) (bool, error) {
	if claims.ID == "" {
		return false, nil
	}
	n, err := c.Exists(ctx, revokedKeyPrefix+claims.ID).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, fmt.Errorf("IsAccessTokenRevoked: %w", err)
	}
	return n > 0, nil
}
