package jwt

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignParse(t *testing.T) {
	token, err := Sign("user-1", "session-1", time.Hour)
	require.NoError(t, err)

	claims, err := Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestParseRejects(t *testing.T) {
	expired, err := Sign("user-1", "session-1", -time.Minute)
	require.NoError(t, err)
	_, err = Parse(expired)
	assert.Error(t, err)

	unsigned := jwtlib.NewWithClaims(jwtlib.SigningMethodNone, Claims{UserID: "user-1"})
	raw, err := unsigned.SignedString(jwtlib.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = Parse(raw)
	assert.Error(t, err)

	forged := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, Claims{UserID: "user-1"})
	raw, err = forged.SignedString([]byte("other-secret"))
	require.NoError(t, err)
	_, err = Parse(raw)
	assert.Error(t, err)
}
