// Package schema brings the store up to date on startup and seeds the
// administrator account and default catalog.
package schema

import (
	"context"
	"errors"
	"fmt"

	"carwash-booking-api/internal/config"
	"carwash-booking-api/internal/model"
	"carwash-booking-api/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Manager struct {
	db          *gorm.DB
	userRepo    repository.UserRepository
	serviceRepo repository.ServiceRepository
	admin       config.Admin
	logger      *logrus.Logger
}

func NewManager(
	db *gorm.DB,
	userRepo repository.UserRepository,
	serviceRepo repository.ServiceRepository,
	admin config.Admin,
	logger *logrus.Logger,
) *Manager {
	return &Manager{
		db:          db,
		userRepo:    userRepo,
		serviceRepo: serviceRepo,
		admin:       admin,
		logger:      logger,
	}
}

// Ensure never fails: every step logs its error and the next step still runs.
func (m *Manager) Ensure(ctx context.Context) {
	for _, table := range []struct {
		name  string
		model interface{}
	}{
		{"users", &model.User{}},
		{"services", &model.Service{}},
		{"bookings", &model.Booking{}},
	} {
		if err := m.migrate(ctx, table.model); err != nil {
			m.logger.WithError(err).WithField("table", table.name).Warn("schema migration failed, continuing")
			continue
		}
		m.logger.WithField("table", table.name).Debug("schema verified")
	}

	if err := m.seedAdmin(ctx); err != nil {
		m.logger.WithError(err).Warn("admin seed failed, continuing")
	}

	if err := m.seedServices(ctx); err != nil {
		m.logger.WithError(err).Warn("service catalog seed failed, continuing")
	}

	m.logger.Info("database initialized")
}

func (m *Manager) seedAdmin(ctx context.Context) error {
	count, err := m.userRepo.CountByRole(ctx, model.RoleAdmin)
	if err != nil {
		return fmt.Errorf("count admins: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(m.admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	created, err := m.userRepo.CreateIfAbsent(ctx, &model.User{
		Username:     m.admin.Username,
		Email:        m.admin.Email,
		PasswordHash: string(hash),
		FullName:     m.admin.FullName,
		Phone:        m.admin.Phone,
		Role:         model.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	if created == 0 {
		m.logger.WithFields(logrus.Fields{
			"username": m.admin.Username,
			"email":    m.admin.Email,
		}).Warn("admin seed skipped, username or email already taken")
		return nil
	}

	m.logger.WithField("email", m.admin.Email).Info("default admin user created")
	return nil
}

func (m *Manager) seedServices(ctx context.Context) error {
	count, err := m.serviceRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count services: %w", err)
	}
	if count > 0 {
		return nil
	}

	if err := m.serviceRepo.CreateIfAbsent(ctx, DefaultServices()); err != nil {
		return fmt.Errorf("create default services: %w", err)
	}

	m.logger.Info("default services inserted")
	return nil
}

// migrate creates a missing table. An existing table only gains missing
// columns and indexes; existing columns are never altered or rebuilt.
func (m *Manager) migrate(ctx context.Context, value interface{}) error {
	db := m.db.WithContext(ctx)
	migrator := db.Migrator()

	if !migrator.HasTable(value) {
		if err := migrator.CreateTable(value); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
		return nil
	}

	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(value); err != nil {
		return fmt.Errorf("parse model: %w", err)
	}

	var errs []error
	for _, field := range stmt.Schema.Fields {
		if field.DBName == "" || field.IgnoreMigration || migrator.HasColumn(value, field.DBName) {
			continue
		}
		if err := migrator.AddColumn(value, field.DBName); err != nil {
			errs = append(errs, fmt.Errorf("add column %s: %w", field.DBName, err))
			continue
		}
		m.logger.WithField("table", stmt.Table).WithField("column", field.DBName).Info("column added")
	}

	for _, idx := range stmt.Schema.ParseIndexes() {
		if migrator.HasIndex(value, idx.Name) {
			continue
		}
		if err := migrator.CreateIndex(value, idx.Name); err != nil {
			errs = append(errs, fmt.Errorf("create index %s: %w", idx.Name, err))
		}
	}

	return errors.Join(errs...)
}

// DefaultServices is the catalog inserted into an empty services table.
func DefaultServices() []*model.Service {
	return []*model.Service{
		{Name: "Basic Wash", Price: decimal.NewFromInt(200), Description: "Simple exterior rinse and soap cleaning"},
		{Name: "Express Wash", Price: decimal.NewFromInt(300), Description: "Quick exterior wash and rinse (15 minutes)"},
		{Name: "Interior Cleaning", Price: decimal.NewFromInt(400), Description: "Vacuum, dashboard cleaning, and seat wiping"},
		{Name: "Standard Wash", Price: decimal.NewFromInt(500), Description: "Complete exterior wash with soap and wax"},
		{Name: "Engine Bay Cleaning", Price: decimal.NewFromInt(600), Description: "Professional engine compartment cleaning"},
		{Name: "Full Service Wash", Price: decimal.NewFromInt(700), Description: "Exterior wash + interior cleaning combo"},
		{Name: "Deep Cleaning", Price: decimal.NewFromInt(800), Description: "Thorough interior and exterior deep cleaning"},
		{Name: "Premium Detailing", Price: decimal.NewFromInt(1000), Description: "Complete premium cleaning with wax and protection"},
	}
}
