package handler

import (
	"net/http"
	"strconv"

	"carwash-booking-api/internal/dto"
	"carwash-booking-api/internal/middleware"
	"carwash-booking-api/internal/service"

	"github.com/labstack/echo/v4"
)

type PaypalHandler struct {
	paymentService service.PaymentService
}

func NewPaypalHandler(paymentService service.PaymentService) *PaypalHandler {
	return &PaypalHandler{
		paymentService: paymentService,
	}
}

func (h *PaypalHandler) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body").SetInternal(err)
	}

	result, err := h.paymentService.CreateOrder(ctx, &service.CreateOrderInput{
		Amount:      req.Amount,
		Currency:    req.Currency,
		BookingID:   req.BookingID,
		BookingIDs:  req.BookingIDs,
		Description: req.Description,
	})
	if err != nil {
		return fail("Failed to create PayPal order", err)
	}

	return c.JSON(http.StatusOK, &dto.CreateOrderResponse{
		Success:    true,
		OrderID:    result.OrderID,
		ApproveURL: result.Order.ApproveURL(),
		OrderData:  result.Order.Raw,
	})
}

func (h *PaypalHandler) CaptureOrder(c echo.Context) error {
	ctx := c.Request().Context()

	result, err := h.paymentService.CaptureOrder(ctx, c.Param("orderId"))
	if err != nil {
		return fail("Failed to capture PayPal order", err)
	}

	return c.JSON(http.StatusOK, &dto.CaptureOrderResponse{
		Success:          true,
		CaptureID:        result.CaptureID,
		CaptureData:      result.Raw,
		Status:           result.Status,
		AffectedBookings: len(result.BookingIDs),
	})
}

func (h *PaypalHandler) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()

	order, err := h.paymentService.GetOrder(ctx, c.Param("orderId"))
	if err != nil {
		return fail("Failed to get order details", err)
	}

	return c.JSON(http.StatusOK, &dto.GetOrderResponse{
		Success: true,
		Order:   order.Raw,
	})
}

func (h *PaypalHandler) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()

	bookingID, err := parseID(c.Param("bookingId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid booking ID")
	}

	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Access token required")
	}

	booking, err := h.paymentService.VerifyPayment(ctx, bookingID, claims.UserID)
	if err != nil {
		return fail("Failed to verify payment", err)
	}

	return c.JSON(http.StatusOK, &dto.VerifyPaymentResponse{
		Success:       true,
		Booking:       booking,
		PaymentStatus: booking.PaymentStatus,
		PaypalOrderID: booking.PaypalOrderID,
	})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 0)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
