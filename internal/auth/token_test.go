package auth

import (
	"testing"
	"time"

	"carwash-booking-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func claimsFor(userID uint, role model.Role, expiresIn time.Duration) *Claims {
	return &Claims{
		UserID: userID,
		Role:   role,
		Email:  "juan@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
}

func TestVerifyAcceptsSignedToken(t *testing.T) {
	token, err := Sign(secret, claimsFor(7, model.RoleAdmin, time.Hour))
	require.NoError(t, err)

	claims, err := NewVerifier(secret).Verify(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.Equal(t, "juan@example.com", claims.Email)
}

func TestVerifyRejects(t *testing.T) {
	valid, err := Sign(secret, claimsFor(7, model.RoleCustomer, time.Hour))
	require.NoError(t, err)
	expired, err := Sign(secret, claimsFor(7, model.RoleCustomer, -time.Minute))
	require.NoError(t, err)
	noUser, err := Sign(secret, claimsFor(0, model.RoleCustomer, time.Hour))
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claimsFor(7, model.RoleAdmin, time.Hour)).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		key   string
	}{
		{"wrong secret", valid, "other-secret"},
		{"expired", expired, secret},
		{"missing user id", noUser, secret},
		{"unsigned", none, secret},
		{"garbage", "not-a-jwt", secret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVerifier(tt.key).Verify(tt.token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
