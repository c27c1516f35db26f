package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestTokenRoundTrip(t *testing.T) {
	InitJWT("test-secret", 1)

	userID := primitive.NewObjectID().Hex()
	token, err := GenerateToken(userID, "author")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "author", claims.Role)
}

func TestParseTokenInvalid(t *testing.T) {
	InitJWT("test-secret", 1)

	_, err := ParseToken("not-a-token")
	assert.Error(t, err)

	// 用別的密鑰簽的 token 不通過驗證
	token, err := GenerateToken("someone", "author")
	require.NoError(t, err)

	InitJWT("another-secret", 1)
	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestGenerateTokenWithoutSecret(t *testing.T) {
	jwtSecret = nil
	defer InitJWT("test-secret", 1)

	_, err := GenerateToken("someone", "author")
	assert.Error(t, err)
}
