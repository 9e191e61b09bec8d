// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"io"
	"testing"

	"carwash-booking-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database. When migrate is set the
// application tables are created.
func NewDB(t *testing.T, migrate bool) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// a single connection keeps the in-memory database alive and serializes access
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if migrate {
		require.NoError(t, db.AutoMigrate(&model.User{}, &model.Service{}, &model.Booking{}))
	}

	return db
}

func NewLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func CreateUser(t *testing.T, db *gorm.DB, username string, role model.Role) *model.User {
	t.Helper()

	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FullName:     username,
		Phone:        "09000000000",
		Role:         role,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func CreateService(t *testing.T, db *gorm.DB, name string, price int64) *model.Service {
	t.Helper()

	service := &model.Service{Name: name, Price: decimal.NewFromInt(price), Description: name}
	require.NoError(t, db.Create(service).Error)
	return service
}

// CreateBooking stores an unpaid booking for the given owner (nil for a guest).
func CreateBooking(t *testing.T, db *gorm.DB, ownerID *uint, serviceID uint) *model.Booking {
	t.Helper()

	booking := &model.Booking{
		UserID:        ownerID,
		ServiceID:     serviceID,
		BookingDate:   "2026-10-20",
		BookingTime:   "10:30",
		CustomerName:  "Juan Dela Cruz",
		CustomerPhone: "09171234567",
		CarType:       "Sedan",
		LicensePlate:  "ABC 1234",
		CarColor:      "White",
		TotalAmount:   decimal.NewNullDecimal(decimal.NewFromInt(500)),
	}
	require.NoError(t, db.Create(booking).Error)
	return booking
}

func Reload(t *testing.T, db *gorm.DB, id uint) *model.Booking {
	t.Helper()

	var booking model.Booking
	require.NoError(t, db.First(&booking, id).Error)
	return &booking
}
