package repository_test

import (
	"context"
	"testing"
	"time"

	"carwash-booking-api/internal/model"
	"carwash-booking-api/internal/repository"
	"carwash-booking-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestBookingColumnDefaults(t *testing.T) {
	db := testutil.NewDB(t, true)
	service := testutil.CreateService(t, db, "Basic Wash", 200)

	booking := &model.Booking{ServiceID: service.ID, BookingDate: "2026-10-21", BookingTime: "08:00", CustomerName: "Guest"}
	require.NoError(t, db.Create(booking).Error)

	got := testutil.Reload(t, db, booking.ID)
	assert.Nil(t, got.UserID)
	assert.Equal(t, model.BookingStatusPending, got.Status)
	assert.Equal(t, model.PaymentStatusPending, got.PaymentStatus)
	assert.Nil(t, got.PaypalOrderID)
	assert.Nil(t, got.PaymentCompletedAt)
	assert.False(t, got.TotalAmount.Valid)
}

func TestAttachOrderIsBatched(t *testing.T) {
	db := testutil.NewDB(t, true)
	repo := repository.NewBookingRepository(db)
	service := testutil.CreateService(t, db, "Basic Wash", 200)
	b1 := testutil.CreateBooking(t, db, nil, service.ID)
	b2 := testutil.CreateBooking(t, db, nil, service.ID)
	paid := testutil.CreateBooking(t, db, nil, service.ID)
	require.NoError(t, db.Model(paid).Update("payment_status", model.PaymentStatusCompleted).Error)

	affected, err := repo.AttachOrder(context.Background(), db, []uint{b1.ID, b2.ID, paid.ID}, "O-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	linked, err := repo.PendingIDsByOrderID(context.Background(), db, "O-1")
	require.NoError(t, err)
	assert.Equal(t, []uint{b1.ID, b2.ID}, linked)

	assert.Nil(t, testutil.Reload(t, db, paid.ID).PaypalOrderID)
}

func TestAttachOrderRollsBackWithTransaction(t *testing.T) {
	db := testutil.NewDB(t, true)
	repo := repository.NewBookingRepository(db)
	service := testutil.CreateService(t, db, "Basic Wash", 200)
	b := testutil.CreateBooking(t, db, nil, service.ID)

	err := db.Transaction(func(tx *gorm.DB) error {
		if _, err := repo.AttachOrder(context.Background(), tx, []uint{b.ID}, "O-1"); err != nil {
			return err
		}
		return gorm.ErrInvalidTransaction
	})
	require.ErrorIs(t, err, gorm.ErrInvalidTransaction)

	assert.Nil(t, testutil.Reload(t, db, b.ID).PaypalOrderID)
}

func TestMarkPaidOnlyTouchesPendingBookingsOfOrder(t *testing.T) {
	db := testutil.NewDB(t, true)
	repo := repository.NewBookingRepository(db)
	service := testutil.CreateService(t, db, "Basic Wash", 200)
	b1 := testutil.CreateBooking(t, db, nil, service.ID)
	b2 := testutil.CreateBooking(t, db, nil, service.ID)
	other := testutil.CreateBooking(t, db, nil, service.ID)

	_, err := repo.AttachOrder(context.Background(), db, []uint{b1.ID, b2.ID}, "O-1")
	require.NoError(t, err)
	_, err = repo.AttachOrder(context.Background(), db, []uint{other.ID}, "O-2")
	require.NoError(t, err)

	ids, err := repo.PendingIDsByOrderID(context.Background(), db, "O-1")
	require.NoError(t, err)
	assert.Equal(t, []uint{b1.ID, b2.ID}, ids)

	at := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	affected, err := repo.MarkPaid(context.Background(), db, "O-1", "C-1", at)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	ids, err = repo.PendingIDsByOrderID(context.Background(), db, "O-1")
	require.NoError(t, err)
	assert.Empty(t, ids)

	// already completed rows are not rewritten
	affected, err = repo.MarkPaid(context.Background(), db, "O-1", "C-2", at.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	got := testutil.Reload(t, db, b1.ID)
	assert.Equal(t, "C-1", *got.PaypalCaptureID)
	assert.Equal(t, model.BookingStatusConfirmed, got.Status)
	assert.True(t, at.Equal(*got.PaymentCompletedAt))

	assert.Equal(t, model.PaymentStatusPending, testutil.Reload(t, db, other.ID).PaymentStatus)
}

func TestFindOwnedWithService(t *testing.T) {
	db := testutil.NewDB(t, true)
	repo := repository.NewBookingRepository(db)
	owner := testutil.CreateUser(t, db, "juan", model.RoleCustomer)
	stranger := testutil.CreateUser(t, db, "pedro", model.RoleCustomer)
	service := testutil.CreateService(t, db, "Deep Cleaning", 800)
	b := testutil.CreateBooking(t, db, &owner.ID, service.ID)

	got, err := repo.FindOwnedWithService(context.Background(), b.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, b.ID, got.ID)
	assert.Equal(t, "Deep Cleaning", got.ServiceName)
	assert.Equal(t, "800", got.ServicePrice.String())
	assert.Equal(t, "ABC 1234", got.LicensePlate)

	_, err = repo.FindOwnedWithService(context.Background(), b.ID, stranger.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
