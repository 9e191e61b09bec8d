package handler

import (
	"errors"
	"net/http"

	"carwash-booking-api/internal/client"
	"carwash-booking-api/internal/dto"
	"carwash-booking-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

const internalServerError = "Internal server error"

// routeError labels an unexpected failure with the route's summary, which is
// what the caller sees as the error message.
type routeError struct {
	summary string
	err     error
}

func (e *routeError) Error() string {
	return e.summary + ": " + e.err.Error()
}

func (e *routeError) Unwrap() error {
	return e.err
}

func fail(summary string, err error) error {
	return &routeError{summary: summary, err: err}
}

// ErrorHandler renders every error returned by a handler or middleware as
// {error, details}. Server-side failures are logged.
func ErrorHandler(logger *logrus.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := errorResponse(err)
		if code >= http.StatusInternalServerError {
			logger.WithError(err).WithFields(logrus.Fields{
				"method": c.Request().Method,
				"path":   c.Path(),
			}).Error("request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, body)
		}
		if err != nil {
			logger.WithError(err).Error("write error response")
		}
	}
}

func errorResponse(err error) (int, *dto.ErrorResponse) {
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		return statusForKind(svcErr.Kind), &dto.ErrorResponse{Error: svcErr.Message}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		message, ok := he.Message.(string)
		if !ok {
			message = http.StatusText(he.Code)
		}
		return he.Code, &dto.ErrorResponse{Error: message}
	}

	summary := internalServerError
	var rErr *routeError
	if errors.As(err, &rErr) {
		summary = rErr.summary
	}

	// the provider's message is passed through
	var gErr *client.GatewayError
	if errors.As(err, &gErr) {
		details := gErr.Message
		if details == "" {
			details = gErr.Error()
		}
		return http.StatusInternalServerError, &dto.ErrorResponse{Error: summary, Details: details}
	}

	// store failures name the operation, never the driver error
	var storeErr *service.StoreError
	if errors.As(err, &storeErr) {
		return http.StatusInternalServerError, &dto.ErrorResponse{Error: summary, Details: storeErr.Op + " failed"}
	}

	return http.StatusInternalServerError, &dto.ErrorResponse{Error: summary}
}

func statusForKind(kind error) int {
	switch kind {
	case service.ErrValidation:
		return http.StatusBadRequest
	case service.ErrNotFound:
		return http.StatusNotFound
	case service.ErrAlreadyPaid:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
