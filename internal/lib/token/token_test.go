package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaker_GenerateAndDecode_ValidCases(t *testing.T) {
	maker := NewMaker("test_secret_key_1234567890", 15*time.Minute)

	tests := []struct {
		name       string
		userID     string
		isAdmin    bool
		isBusiness bool
	}{
		{
			name:    "admin user",
			userID:  "6621f5c2a1b2c3d4e5f60001",
			isAdmin: true,
		},
		{
			name:   "regular user",
			userID: "6621f5c2a1b2c3d4e5f60002",
		},
		{
			name:       "business user",
			userID:     "6621f5c2a1b2c3d4e5f60003",
			isBusiness: true,
		},
		{
			name:       "admin and business",
			userID:     "6621f5c2a1b2c3d4e5f60004",
			isAdmin:    true,
			isBusiness: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenStr, err := maker.GenerateToken(tt.userID, tt.isAdmin, tt.isBusiness)
			require.NoError(t, err)
			assert.NotEmpty(t, tokenStr)

			claims, err := Decode(tokenStr)
			require.NoError(t, err)

			assert.Equal(t, tt.userID, claims.UserID)
			assert.Equal(t, tt.isAdmin, claims.IsAdmin)
			assert.Equal(t, tt.isBusiness, claims.IsBusiness)
			assert.WithinDuration(t, time.Now(), claims.IssuedAt.Time, time.Second)
			assert.WithinDuration(t, time.Now().Add(15*time.Minute), claims.ExpiresAt.Time, time.Second)
		})
	}
}

func TestDecode_Deterministic(t *testing.T) {
	maker := NewMaker("test_secret_key", time.Hour)
	tokenStr, err := maker.GenerateToken("6621f5c2a1b2c3d4e5f60001", true, false)
	require.NoError(t, err)

	first, err := Decode(tokenStr)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		claims, err := Decode(tokenStr)
		require.NoError(t, err)
		assert.Equal(t, first, claims)
	}
}

func TestDecode_IgnoresSignatureAndExpiry(t *testing.T) {
	// подпись чужим ключом и истёкший срок не мешают разбору на клиенте
	expiredMaker := NewMaker("some_other_secret", -time.Hour)
	tokenStr, err := expiredMaker.GenerateToken("6621f5c2a1b2c3d4e5f60001", false, true)
	require.NoError(t, err)

	claims, err := Decode(tokenStr)
	require.NoError(t, err)
	assert.True(t, claims.IsBusiness)
	assert.True(t, claims.Expired(time.Now()))
}

func TestDecode_InvalidTokens(t *testing.T) {
	maker := NewMaker("test_secret_key", time.Hour)
	noIDToken, err := maker.GenerateToken("", false, false)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "single segment",
			token: "garbage",
		},
		{
			name:  "malformed token",
			token: "invalid.token.here",
		},
		{
			name:  "not base64 payload",
			token: "aGVhZGVy.%%%%.c2lnbmF0dXJl",
		},
		{
			name:  "token without user id",
			token: noIDToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := Decode(tt.token)

			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestMaker_ParseToken(t *testing.T) {
	maker := NewMaker("first_secret_key", 15*time.Minute)
	otherMaker := NewMaker("different_secret_key", 15*time.Minute)

	tokenStr, err := maker.GenerateToken("6621f5c2a1b2c3d4e5f60001", true, false)
	require.NoError(t, err)

	claims, err := maker.ParseToken(tokenStr)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)

	claims, err = otherMaker.ParseToken(tokenStr)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestClaims_Expired(t *testing.T) {
	now := time.Now()

	fresh := &Claims{}
	assert.False(t, fresh.Expired(now))

	maker := NewMaker("secret", -time.Minute)
	tokenStr, err := maker.GenerateToken("6621f5c2a1b2c3d4e5f60001", false, false)
	require.NoError(t, err)

	claims, err := Decode(tokenStr)
	require.NoError(t, err)
	assert.True(t, claims.Expired(now))
}
