package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestCreateAndValidateToken(t *testing.T) {
	svc := NewJWTService(testSecret, 30*time.Minute)

	token, err := svc.CreateAccessToken("alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestValidateTokenExpiryBoundary(t *testing.T) {
	before := time.Now()
	svc := NewJWTService(testSecret, 30*time.Minute)
	token, err := svc.CreateAccessToken("alice")
	require.NoError(t, err)
	after := time.Now()

	defer func() { jwt.TimeFunc = time.Now }()

	// One second before the earliest possible expiry: still valid.
	jwt.TimeFunc = func() time.Time { return before.Add(30*time.Minute - time.Second) }
	subject, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)

	// At or past the expiry instant: rejected as expired, even though the
	// signature is intact.
	jwt.TimeFunc = func() time.Time { return after.Add(30 * time.Minute) }
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestNewJWTServiceKeepsConfiguredTTL(t *testing.T) {
	// The constructor takes the lifetime verbatim, even when it lies in
	// the past; defaulting happens at the config layer.
	assert.Equal(t, -time.Minute, NewJWTService(testSecret, -time.Minute).ttl)
	assert.Equal(t, time.Hour, NewJWTService(testSecret, time.Hour).ttl)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewJWTService(testSecret, -time.Minute)

	token, err := svc.CreateAccessToken("alice")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestValidateMalformedToken(t *testing.T) {
	svc := NewJWTService(testSecret, 30*time.Minute)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		_, err := svc.ValidateToken(token)
		assert.ErrorIs(t, err, ErrTokenInvalid)
	}
}

func TestValidateWrongSecret(t *testing.T) {
	issuer := NewJWTService("other-secret", 30*time.Minute)
	svc := NewJWTService(testSecret, 30*time.Minute)

	token, err := issuer.CreateAccessToken("alice")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateWrongAlgorithm(t *testing.T) {
	svc := NewJWTService(testSecret, 30*time.Minute)

	// Unsigned token: the algorithm check must reject it before any
	// signature comparison.
	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "alice",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestValidateMissingSubject(t *testing.T) {
	svc := NewJWTService(testSecret, 30*time.Minute)

	noSub := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token, err := noSub.SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
