package repository

import (
	"context"
	"time"

	"carwash-booking-api/internal/model"

	"gorm.io/gorm"
)

type BookingRepository interface {
	FindByIDs(ctx context.Context, ids []uint) ([]*model.Booking, error)
	FindOwnedWithService(ctx context.Context, bookingID, userID uint) (*model.BookingWithService, error)
	AttachOrder(ctx context.Context, tx *gorm.DB, bookingIDs []uint, orderID string) (int64, error)
	PendingIDsByOrderID(ctx context.Context, tx *gorm.DB, orderID string) ([]uint, error)
	MarkPaid(ctx context.Context, tx *gorm.DB, orderID, captureID string, completedAt time.Time) (int64, error)
}

type bookingRepoImpl struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepoImpl{
		db: db,
	}
}

func (r *bookingRepoImpl) FindByIDs(ctx context.Context, ids []uint) ([]*model.Booking, error) {
	var bookings []*model.Booking
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("id").
		Find(&bookings).
		Error

	if err != nil {
		return nil, err
	}

	return bookings, nil
}

// FindOwnedWithService matches on both id and owner, so a booking owned by
// someone else reads as gorm.ErrRecordNotFound.
func (r *bookingRepoImpl) FindOwnedWithService(ctx context.Context, bookingID, userID uint) (*model.BookingWithService, error) {
	var booking model.BookingWithService
	err := r.db.WithContext(ctx).
		Table("bookings AS b").
		Select("b.*, s.name AS service_name, s.price AS service_price").
		Joins("JOIN services s ON b.service_id = s.id").
		Where("b.id = ? AND b.user_id = ?", bookingID, userID).
		Take(&booking).
		Error

	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// AttachOrder links every booking in bookingIDs to orderID in one statement.
// Bookings that are already paid are left untouched.
func (r *bookingRepoImpl) AttachOrder(ctx context.Context, tx *gorm.DB, bookingIDs []uint, orderID string) (int64, error) {
	result := tx.WithContext(ctx).
		Model(&model.Booking{}).
		Where("id IN ?", bookingIDs).
		Where("payment_status <> ?", model.PaymentStatusCompleted).
		Updates(map[string]interface{}{
			"paypal_order_id": orderID,
			"payment_status":  model.PaymentStatusPending,
		})

	return result.RowsAffected, result.Error
}

func (r *bookingRepoImpl) PendingIDsByOrderID(ctx context.Context, tx *gorm.DB, orderID string) ([]uint, error) {
	var ids []uint
	err := tx.WithContext(ctx).
		Model(&model.Booking{}).
		Where("paypal_order_id = ? AND payment_status = ?", orderID, model.PaymentStatusPending).
		Order("id").
		Pluck("id", &ids).
		Error

	if err != nil {
		return nil, err
	}

	return ids, nil
}

// MarkPaid finalizes every pending booking carrying orderID in one statement.
func (r *bookingRepoImpl) MarkPaid(ctx context.Context, tx *gorm.DB, orderID, captureID string, completedAt time.Time) (int64, error) {
	result := tx.WithContext(ctx).
		Model(&model.Booking{}).
		Where("paypal_order_id = ? AND payment_status = ?", orderID, model.PaymentStatusPending).
		Updates(map[string]interface{}{
			"payment_status":       model.PaymentStatusCompleted,
			"status":               model.BookingStatusConfirmed,
			"paypal_capture_id":    captureID,
			"payment_completed_at": completedAt,
		})

	return result.RowsAffected, result.Error
}
