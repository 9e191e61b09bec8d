package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"

	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	FullName     string    `gorm:"size:100;not null" json:"full_name"`
	Phone        string    `gorm:"size:20;not null" json:"phone"`
	Role         Role      `gorm:"size:20;default:customer" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Service struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Description string          `gorm:"type:text" json:"description"`
}

type Booking struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	UserID        *uint  `gorm:"index" json:"user_id"` // nil for guest bookings
	ServiceID     uint   `gorm:"index;not null" json:"service_id"`
	BookingDate   string `gorm:"type:date;not null" json:"booking_date"`
	BookingTime   string `gorm:"size:8;not null" json:"booking_time"`
	CustomerName  string `gorm:"size:100" json:"customer_name"`
	CustomerPhone string `gorm:"size:20" json:"customer_phone"`
	CustomerEmail string `gorm:"size:100" json:"customer_email"`
	CarType       string `gorm:"size:50" json:"car_type"`
	LicensePlate  string `gorm:"size:20" json:"license_plate"`
	CarColor      string `gorm:"size:30" json:"car_color"`
	Notes         string `gorm:"type:text" json:"notes"`

	Status      string              `gorm:"size:20;default:pending" json:"status"`
	TotalAmount decimal.NullDecimal `gorm:"type:decimal(10,2)" json:"total_amount"`
	CreatedAt   time.Time           `json:"created_at"`

	PaymentStatus      string     `gorm:"size:20;default:pending" json:"payment_status"`
	PaypalOrderID      *string    `gorm:"size:100;index" json:"paypal_order_id"`
	PaypalCaptureID    *string    `gorm:"size:100" json:"paypal_capture_id"`
	PaymentCompletedAt *time.Time `json:"payment_completed_at"`
}

// BookingWithService is a booking row joined with its catalog entry.
type BookingWithService struct {
	Booking
	ServiceName  string          `json:"service_name"`
	ServicePrice decimal.Decimal `json:"service_price"`
}

// UserSummary is a user row plus the number of bookings they own.
type UserSummary struct {
	ID            uint      `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	FullName      string    `json:"full_name"`
	Phone         string    `json:"phone"`
	Role          Role      `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
	TotalBookings int64     `json:"total_bookings"`
}
