package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

var (
	// ErrMissingCredential is returned when no bearer credential is presented
	ErrMissingCredential = errors.New("missing bearer credential")

	// ErrInvalidCredential is returned when credential verification fails
	ErrInvalidCredential = errors.New("invalid credential")
)

// Identity is a verified end-user identity as reported by the identity
// provider. The gateway never performs cryptographic verification beyond
// what the Verifier implementation does.
type Identity struct {
	Subject string
	Email   string
}

// Verifier validates a bearer credential and resolves the identity behind it.
type Verifier interface {
	Verify(ctx context.Context, credential string) (*Identity, error)
}

// JWTVerifier verifies HS256-signed identity tokens carrying sub and email
// claims.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for identity tokens signed with secret
func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

// Verify parses and validates the token and extracts the identity claims
func (v *JWTVerifier) Verify(ctx context.Context, credential string) (*Identity, error) {
	token, err := jwt.Parse(credential, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidCredential
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidCredential
	}

	subject, _ := claims["sub"].(string)
	if subject == "" {
		return nil, ErrInvalidCredential
	}
	email, _ := claims["email"].(string)

	return &Identity{Subject: subject, Email: email}, nil
}
