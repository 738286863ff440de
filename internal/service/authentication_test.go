package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"testing"
	"time"

	"devcamper/internal/cache"
	"devcamper/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func restoreGlobals() {
	bcryptGenerateFromPassword = bcrypt.GenerateFromPassword
	bcryptCompareHashAndPassword = bcrypt.CompareHashAndPassword
	passwordCost = 10
	randRead = rand.Read
	timeNow = time.Now
	newTokenID = func() string { return uuid.NewString() }
	parseWithClaims = jwt.ParseWithClaims
}

func TestHashPassword(t *testing.T) {
	t.Cleanup(restoreGlobals)
	passwordCost = bcrypt.MinCost
	hash, err := HashPassword("secret")
	require.NoError(t, err)
	require.NotEqual(t, "secret", hash)
	require.NoError(t, ComparePassword(hash, "secret"))
	require.Error(t, ComparePassword(hash, "other"))

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.MinCost, cost)

	bcryptGenerateFromPassword = func([]byte, int) ([]byte, error) { return nil, errors.New("gen") }
	_, err = HashPassword("secret")
	require.ErrorContains(t, err, "HashPassword: gen")
}

func TestAuthenticateUser(t *testing.T) {
	t.Cleanup(restoreGlobals)
	hash, err := HashPassword("pw")
	require.NoError(t, err)

	require.NoError(t, AuthenticateUser(model.User{PasswordHash: hash}, "pw"))
	require.ErrorIs(t, AuthenticateUser(model.User{PasswordHash: hash}, "bad"), ErrInvalidCredentials)
	require.ErrorIs(t, AuthenticateUser(model.User{}, ""), ErrInvalidCredentials)
}

func TestIssueAccessToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	t.Setenv("JWT_SECRET", "")
	_, err := IssueAccessToken(model.User{ID: 1}, time.Minute)
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "s")
	newTokenID = func() string { return "jti-1" }
	tok, err := IssueAccessToken(model.User{ID: 5, Role: model.RoleAdmin}, time.Minute)
	require.NoError(t, err)

	claims := &CustomClaims{}
	_, err = jwt.ParseWithClaims(tok, claims, func(*jwt.Token) (any, error) { return []byte("s"), nil })
	require.NoError(t, err)
	require.Equal(t, 5, claims.UserID)
	require.Equal(t, "5", claims.Subject)
	require.Equal(t, "jti-1", claims.ID)
}

func TestVerifyAccessToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	t.Setenv("JWT_SECRET", "")
	_, err := VerifyAccessToken("abc")
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "s")
	_, err = VerifyAccessToken("invalid")
	require.ErrorIs(t, err, ErrInvalidToken)

	tokNone, _ := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"id": 1}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	_, err = VerifyAccessToken(tokNone)
	require.ErrorIs(t, err, ErrInvalidToken)

	t.Setenv("JWT_SECRET", "other")
	forged, err := IssueAccessToken(model.User{ID: 3}, time.Minute)
	require.NoError(t, err)
	t.Setenv("JWT_SECRET", "s")
	_, err = VerifyAccessToken(forged)
	require.ErrorIs(t, err, ErrInvalidToken)

	expired, err := IssueAccessToken(model.User{ID: 3}, -time.Minute)
	require.NoError(t, err)
	_, err = VerifyAccessToken(expired)
	require.ErrorIs(t, err, ErrInvalidToken)

	noUser, err := IssueAccessToken(model.User{}, time.Minute)
	require.NoError(t, err)
	_, err = VerifyAccessToken(noUser)
	require.ErrorIs(t, err, ErrInvalidToken)

	parseWithClaims = func(string, jwt.Claims, jwt.Keyfunc, ...jwt.ParserOption) (*jwt.Token, error) {
		return &jwt.Token{Claims: jwt.MapClaims{}, Valid: true}, nil
	}
	_, err = VerifyAccessToken("whatever")
	require.ErrorIs(t, err, ErrInvalidToken)

	parseWithClaims = jwt.ParseWithClaims
	tok, err := IssueAccessToken(model.User{ID: 3}, time.Minute)
	require.NoError(t, err)
	claims, err := VerifyAccessToken(tok)
	require.NoError(t, err)
	require.Equal(t, 3, claims.UserID)
	require.NotEmpty(t, claims.ID)
}

func TestRevokeAccessToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }

	c := &cache.FakeCache{}
	// 無 jti 或已過期時不寫入
	require.NoError(t, RevokeAccessToken(ctx, c, &CustomClaims{}))
	require.NoError(t, RevokeAccessToken(ctx, c, &CustomClaims{RegisteredClaims: jwt.RegisteredClaims{
		ID: "x", ExpiresAt: jwt.NewNumericDate(now.Add(-time.Second)),
	}}))

	var key string
	var ttl time.Duration
	c.SetFn = func(_ context.Context, k string, _ any, d time.Duration) *redis.StatusCmd {
		key, ttl = k, d
		return redis.NewStatusResult("OK", nil)
	}
	claims := &CustomClaims{UserID: 1, RegisteredClaims: jwt.RegisteredClaims{
		ID: "abc", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}}
	require.NoError(t, RevokeAccessToken(ctx, c, claims))
	require.Equal(t, "revoked:abc", key)
	require.Equal(t, time.Hour, ttl)

	c.SetFn = func(context.Context, string, any, time.Duration) *redis.StatusCmd {
		return redis.NewStatusResult("", errors.New("set"))
	}
	require.Error(t, RevokeAccessToken(ctx, c, claims))
}

func TestIsAccessTokenRevoked(t *testing.T) {
	ctx := context.Background()
	c := &cache.FakeCache{}

	revoked, err := IsAccessTokenRevoked(ctx, c, &CustomClaims{})
	require.NoError(t, err)
	require.False(t, revoked)

	claims := &CustomClaims{RegisteredClaims: jwt.RegisteredClaims{ID: "abc"}}
	c.ExistsFn = func(_ context.Context, keys ...string) *redis.IntCmd {
		require.Equal(t, []string{"revoked:abc"}, keys)
		return redis.NewIntResult(1, nil)
	}
	revoked, err = IsAccessTokenRevoked(ctx, c, claims)
	require.NoError(t, err)
	require.True(t, revoked)

	c.ExistsFn = func(context.Context, ...string) *redis.IntCmd { return redis.NewIntResult(0, nil) }
	revoked, err = IsAccessTokenRevoked(ctx, c, claims)
	require.NoError(t, err)
	require.False(t, revoked)

	c.ExistsFn = func(context.Context, ...string) *redis.IntCmd { return redis.NewIntResult(0, errors.New("down")) }
	_, err = IsAccessTokenRevoked(ctx, c, claims)
	require.Error(t, err)
}

func TestNewResetToken(t *testing.T) {
	t.Cleanup(restoreGlobals)
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	timeNow = func() time.Time { return now }

	tok, err := NewResetToken()
	require.NoError(t, err)
	raw, err := hex.DecodeString(tok.Raw)
	require.NoError(t, err)
	require.Len(t, raw, 20)
	require.Equal(t, HashResetToken(tok.Raw), tok.Hashed)
	require.NotEqual(t, tok.Raw, tok.Hashed)
	require.Len(t, tok.Hashed, 64)
	require.Equal(t, now.Add(ResetTokenTTL), tok.ExpiresAt)

	randRead = func([]byte) (int, error) { return 0, errors.New("rand") }
	_, err = NewResetToken()
	require.Error(t, err)
}
