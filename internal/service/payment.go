package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"carwash-booking-api/internal/client"
	"carwash-booking-api/internal/model"
	"carwash-booking-api/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	DefaultCurrency = "PHP"

	paypalStatusCompleted = "COMPLETED"
)

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// PaymentService links PayPal orders to bookings and finalizes them on capture.
type PaymentService interface {
	CreateOrder(ctx context.Context, in *CreateOrderInput) (*CreateOrderResult, error)
	CaptureOrder(ctx context.Context, orderID string) (*CaptureOrderResult, error)
	GetOrder(ctx context.Context, orderID string) (*client.Order, error)
	VerifyPayment(ctx context.Context, bookingID, userID uint) (*model.BookingWithService, error)
}

type CreateOrderInput struct {
	Amount      decimal.NullDecimal
	Currency    string
	BookingID   *uint
	BookingIDs  []uint
	Description string
}

type CreateOrderResult struct {
	OrderID    string
	Order      *client.Order
	BookingIDs []uint
}

type CaptureOrderResult struct {
	CaptureID  string
	Status     string
	Raw        json.RawMessage
	BookingIDs []uint // bookings moved to paid by this call
}

type paymentServiceImpl struct {
	db           *gorm.DB
	paypalClient client.PaypalClient
	bookingRepo  repository.BookingRepository
	logger       *logrus.Logger
	now          func() time.Time
}

func NewPaymentService(
	db *gorm.DB,
	paypalClient client.PaypalClient,
	bookingRepo repository.BookingRepository,
	logger *logrus.Logger,
) PaymentService {
	return &paymentServiceImpl{
		db:           db,
		paypalClient: paypalClient,
		bookingRepo:  bookingRepo,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *paymentServiceImpl) CreateOrder(ctx context.Context, in *CreateOrderInput) (*CreateOrderResult, error) {
	if !in.Amount.Valid {
		return nil, newError(ErrValidation, "Amount is required")
	}
	if !in.Amount.Decimal.IsPositive() {
		return nil, newError(ErrValidation, "Amount must be greater than zero")
	}

	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = DefaultCurrency
	}
	if !currencyPattern.MatchString(currency) {
		return nil, newError(ErrValidation, "Currency must be a 3-letter ISO 4217 code")
	}

	bookingIDs := linkedBookingIDs(in)
	if len(bookingIDs) > 0 {
		if err := s.checkLinkable(ctx, bookingIDs); err != nil {
			return nil, err
		}
	}

	order, err := s.paypalClient.CreateOrder(ctx, &client.CreateOrderRequest{
		Amount:      in.Amount.Decimal,
		Currency:    currency,
		Description: in.Description,
		CustomID:    joinIDs(bookingIDs),
	})
	if err != nil {
		return nil, fmt.Errorf("paypal api create order: %w", err)
	}

	log := s.logger.WithFields(logrus.Fields{
		"order_id":    order.ID,
		"booking_ids": bookingIDs,
		"amount":      in.Amount.Decimal.StringFixed(2),
		"currency":    currency,
	})

	if len(bookingIDs) > 0 {
		err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			affected, err := s.bookingRepo.AttachOrder(ctx, tx, bookingIDs, order.ID)
			if err != nil {
				return &StoreError{Op: "attach paypal order", Err: err}
			}
			// a booking was paid between the check and the update
			if affected != int64(len(bookingIDs)) {
				return newError(ErrAlreadyPaid, "One or more bookings are already paid")
			}
			return nil
		})
		if err != nil {
			log.WithError(err).Error("paypal order created but bookings not linked")
			return nil, err
		}
	}

	log.Info("paypal order created")

	return &CreateOrderResult{
		OrderID:    order.ID,
		Order:      order,
		BookingIDs: bookingIDs,
	}, nil
}

func (s *paymentServiceImpl) CaptureOrder(ctx context.Context, orderID string) (*CaptureOrderResult, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, newError(ErrValidation, "Order ID is required")
	}

	capture, err := s.paypalClient.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("paypal api capture order: %w", err)
	}

	result := &CaptureOrderResult{
		CaptureID: capture.CaptureID,
		Status:    capture.Status,
		Raw:       capture.Raw,
	}

	log := s.logger.WithFields(logrus.Fields{
		"order_id":   orderID,
		"capture_id": capture.CaptureID,
		"status":     capture.Status,
	})

	if capture.Status != paypalStatusCompleted {
		log.Warn("capture not completed, bookings left pending")
		return result, nil
	}

	var bookingIDs []uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := s.bookingRepo.PendingIDsByOrderID(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		affected, err := s.bookingRepo.MarkPaid(ctx, tx, orderID, capture.CaptureID, s.now())
		if err != nil {
			return err
		}
		if affected != int64(len(ids)) {
			log.WithField("expected", len(ids)).WithField("affected", affected).
				Warn("bookings changed while marking paid")
		}

		bookingIDs = ids
		return nil
	})
	if err != nil {
		log.WithError(err).Error("payment captured but bookings not updated")
		return nil, &StoreError{Op: "mark bookings paid", Err: err}
	}

	if len(bookingIDs) == 0 {
		log.Warn("capture matched no pending bookings")
	} else {
		log.WithField("booking_ids", bookingIDs).Info("bookings paid")
	}

	result.BookingIDs = bookingIDs
	return result, nil
}

func (s *paymentServiceImpl) GetOrder(ctx context.Context, orderID string) (*client.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, newError(ErrValidation, "Order ID is required")
	}

	order, err := s.paypalClient.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("paypal api get order: %w", err)
	}

	return order, nil
}

func (s *paymentServiceImpl) VerifyPayment(ctx context.Context, bookingID, userID uint) (*model.BookingWithService, error) {
	booking, err := s.bookingRepo.FindOwnedWithService(ctx, bookingID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrNotFound, "Booking not found")
	}
	if err != nil {
		return nil, &StoreError{Op: "find booking", Err: err}
	}

	return booking, nil
}

// checkLinkable rejects ids that do not exist or are already paid, before
// anything is sent to PayPal.
func (s *paymentServiceImpl) checkLinkable(ctx context.Context, bookingIDs []uint) error {
	bookings, err := s.bookingRepo.FindByIDs(ctx, bookingIDs)
	if err != nil {
		return &StoreError{Op: "find bookings", Err: err}
	}

	found := make(map[uint]*model.Booking, len(bookings))
	for _, b := range bookings {
		found[b.ID] = b
	}

	for _, id := range bookingIDs {
		b, ok := found[id]
		if !ok {
			return newError(ErrNotFound, "Booking %d not found", id)
		}
		if b.PaymentStatus == model.PaymentStatusCompleted {
			return newError(ErrAlreadyPaid, "Booking %d is already paid", id)
		}
	}

	return nil
}

func linkedBookingIDs(in *CreateOrderInput) []uint {
	if in.BookingID != nil {
		return []uint{*in.BookingID}
	}

	seen := make(map[uint]struct{}, len(in.BookingIDs))
	ids := make([]uint, 0, len(in.BookingIDs))
	for _, id := range in.BookingIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func joinIDs(ids []uint) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatUint(uint64(id), 10)
	}
	return strings.Join(parts, ",")
}
