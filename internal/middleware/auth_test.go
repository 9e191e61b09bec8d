package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"carwash-booking-api/internal/auth"
	"carwash-booking-api/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func signed(t *testing.T, userID uint, role model.Role) string {
	t.Helper()

	token, err := auth.Sign(secret, &auth.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	require.NoError(t, err)
	return token
}

func run(t *testing.T, authorization string, mws ...echo.MiddlewareFunc) (*auth.Claims, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authorization != "" {
		req.Header.Set(echo.HeaderAuthorization, authorization)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var seen *auth.Claims
	h := func(c echo.Context) error {
		seen, _ = ClaimsFrom(c)
		return nil
	}
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}

	return seen, h(c)
}

func statusOf(t *testing.T, err error) (int, interface{}) {
	t.Helper()

	var he *echo.HTTPError
	require.ErrorAs(t, err, &he)
	return he.Code, he.Message
}

func TestAuthenticate(t *testing.T) {
	authn := Authenticate(auth.NewVerifier(secret))

	claims, err := run(t, "Bearer "+signed(t, 3, model.RoleCustomer), authn)
	require.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, uint(3), claims.UserID)

	tests := []struct {
		name    string
		header  string
		code    int
		message string
	}{
		{"missing header", "", http.StatusUnauthorized, "Access token required"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "Access token required"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "Access token required"},
		{"bad token", "Bearer nope", http.StatusForbidden, "Invalid token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.header, authn)
			code, message := statusOf(t, err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.message, message)
		})
	}
}

func TestRequireRole(t *testing.T) {
	authn := Authenticate(auth.NewVerifier(secret))
	admin := RequireRole(model.RoleAdmin)

	_, err := run(t, "Bearer "+signed(t, 1, model.RoleAdmin), authn, admin)
	assert.NoError(t, err)

	_, err = run(t, "Bearer "+signed(t, 2, model.RoleCustomer), authn, admin)
	code, message := statusOf(t, err)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "Admin access required", message)

	// without Authenticate there are no claims to check
	_, err = run(t, "", admin)
	code, _ = statusOf(t, err)
	assert.Equal(t, http.StatusForbidden, code)
}
