package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	FrontendURL string `env:"FRONTEND_URL" envDefault:"http://localhost:19006"`

	Database Database `envPrefix:"DATABASE_"`
	JWT      JWT      `envPrefix:"JWT_"`
	Paypal   Paypal   `envPrefix:"PAYPAL_"`
	Admin    Admin    `envPrefix:"ADMIN_"`
}

type Database struct {
	Driver       string `env:"DRIVER" envDefault:"postgres"` // postgres, mysql, sqlite
	URL          string `env:"URL" envDefault:"carwash.db"`
	MaxOpenConns int    `env:"MAX_OPEN_CONNS" envDefault:"50"`
	MaxIdleConns int    `env:"MAX_IDLE_CONNS" envDefault:"10"`
}

type JWT struct {
	Secret string `env:"SECRET,required,notEmpty"`
}

type Paypal struct {
	Mode         string `env:"MODE" envDefault:"sandbox"` // sandbox, live
	BaseApiURL   string `env:"BASE_API_URL"`              // overrides the mode endpoint when set
	ClientID     string `env:"CLIENT_ID"`
	ClientSecret string `env:"CLIENT_SECRET"`
	BrandName    string `env:"BRAND_NAME" envDefault:"Car Wash Booking"`
}

// Admin is the account seeded on first start when no administrator exists.
type Admin struct {
	Username string `env:"USERNAME" envDefault:"admin"`
	Email    string `env:"EMAIL" envDefault:"admin@gmail.com"`
	Password string `env:"PASSWORD" envDefault:"admin123"`
	FullName string `env:"FULL_NAME" envDefault:"System Administrator"`
	Phone    string `env:"PHONE" envDefault:"09123456789"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Database.Driver {
	case "postgres", "mysql", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	return cfg, nil
}

func (c *Config) ServerAddr() string {
	return c.HTTP.Host + ":" + c.HTTP.Port
}
