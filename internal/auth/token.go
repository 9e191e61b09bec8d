// Package auth verifies bearer tokens issued by the account service.
package auth

import (
	"errors"
	"fmt"

	"carwash-booking-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims is the payload signed by the account service on login.
type Claims struct {
	UserID uint       `json:"userId"`
	Role   model.Role `json:"role"`
	Email  string     `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type Verifier interface {
	Verify(token string) (*Claims, error)
}

type verifierImpl struct {
	secret []byte
	parser *jwt.Parser
}

// NewVerifier accepts HS256 tokens signed with secret.
func NewVerifier(secret string) Verifier {
	return &verifierImpl{
		secret: []byte(secret),
		parser: jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})),
	}
}

func (v *verifierImpl) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("%w: missing userId", ErrInvalidToken)
	}

	return claims, nil
}

// Sign issues a token for claims. The API only verifies tokens; Sign backs
// local tooling and tests.
func Sign(secret string, claims *Claims) (string, error) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return token, nil
}
