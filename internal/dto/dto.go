package dto

import (
	"encoding/json"

	"carwash-booking-api/internal/model"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest accepts amount as a JSON number or numeric string.
type CreateOrderRequest struct {
	Amount      decimal.NullDecimal `json:"amount"`
	Currency    string              `json:"currency"`
	BookingID   *uint               `json:"bookingId"`
	BookingIDs  []uint              `json:"bookingIds"`
	Description string              `json:"description"`
}

type CreateOrderResponse struct {
	Success    bool            `json:"success"`
	OrderID    string          `json:"orderId"`
	ApproveURL string          `json:"approveUrl,omitempty"` // buyer redirect
	OrderData  json.RawMessage `json:"orderData"`
}

type CaptureOrderResponse struct {
	Success          bool            `json:"success"`
	CaptureID        string          `json:"captureId"`
	CaptureData      json.RawMessage `json:"captureData"`
	Status           string          `json:"status"`
	AffectedBookings int             `json:"affectedBookings"`
}

type GetOrderResponse struct {
	Success bool            `json:"success"`
	Order   json.RawMessage `json:"order"`
}

type VerifyPaymentResponse struct {
	Success       bool                      `json:"success"`
	Booking       *model.BookingWithService `json:"booking"`
	PaymentStatus string                    `json:"paymentStatus"`
	PaypalOrderID *string                   `json:"paypalOrderId"`
}

type ListUsersResponse struct {
	Success bool                 `json:"success"`
	Users   []*model.UserSummary `json:"users"`
	Count   int                  `json:"count"`
}

type GetUserResponse struct {
	Success bool               `json:"success"`
	User    *model.UserSummary `json:"user"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
