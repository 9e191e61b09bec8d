package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "sandbox", cfg.Paypal.Mode)
	assert.Equal(t, "Car Wash Booking", cfg.Paypal.BrandName)
	assert.Equal(t, "admin@gmail.com", cfg.Admin.Email)
	assert.Equal(t, "http://localhost:19006", cfg.FrontendURL)
	assert.Equal(t, "0.0.0.0:8080", cfg.ServerAddr())
}

func TestLoadPrefixedValues(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("PAYPAL_MODE", "live")
	t.Setenv("PAYPAL_CLIENT_ID", "id")
	t.Setenv("PAYPAL_CLIENT_SECRET", "secret")
	t.Setenv("HTTP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "file::memory:", cfg.Database.URL)
	assert.Equal(t, "live", cfg.Paypal.Mode)
	assert.Equal(t, "id", cfg.Paypal.ClientID)
	assert.Equal(t, "secret", cfg.Paypal.ClientSecret)
	assert.Equal(t, "0.0.0.0:9090", cfg.ServerAddr())
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("DATABASE_DRIVER", "oracle")

	_, err := Load()
	assert.ErrorContains(t, err, "unsupported database driver")
}
