package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sldmxm/yatube-final/config"
)

func TestTokenRoundTrip(t *testing.T) {
	config.InitTest()

	token, err := GenerateToken(42, "alice", time.Hour)
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, time.Minute)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	config.InitTest()

	token, err := GenerateToken(42, "alice", -time.Minute)
	require.NoError(t, err)

	_, err = ParseToken(token)
	assert.Error(t, err)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	config.InitTest()

	_, err := ParseToken("definitely.not.a-token")
	assert.Error(t, err)
}
