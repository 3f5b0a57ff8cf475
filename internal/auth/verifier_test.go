package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signIdentityToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	require.NoError(t, err)
	return signed
}

func TestVerify_ValidToken(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)
	token := signIdentityToken(t, testSecret, jwt.MapClaims{
		"sub":   "uid-42",
		"email": "user@example.com",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	ident, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-42", ident.Subject)
	assert.Equal(t, "user@example.com", ident.Email)
}

func TestVerify_MissingEmailAllowed(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)
	token := signIdentityToken(t, testSecret, jwt.MapClaims{"sub": "uid-42"})

	ident, err := verifier.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "uid-42", ident.Subject)
	assert.Empty(t, ident.Email)
}

func TestVerify_WrongSecret(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)
	token := signIdentityToken(t, []byte("other-secret"), jwt.MapClaims{"sub": "uid-42"})

	_, err := verifier.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerify_ExpiredToken(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)
	token := signIdentityToken(t, testSecret, jwt.MapClaims{
		"sub": "uid-42",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	_, err := verifier.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerify_MissingSubject(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)
	token := signIdentityToken(t, testSecret, jwt.MapClaims{"email": "user@example.com"})

	_, err := verifier.Verify(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerify_Garbage(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)

	_, err := verifier.Verify(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidCredential)
}

func TestVerify_RejectsNonHMAC(t *testing.T) {
	verifier := NewJWTVerifier(testSecret)

	// alg=none tokens must never pass.
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "uid-42"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = verifier.Verify(context.Background(), signed)
	assert.ErrorIs(t, err, ErrInvalidCredential)
}
