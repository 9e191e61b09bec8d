package server

import (
	"context"
	"net/http"

	"carwash-booking-api/internal/auth"
	"carwash-booking-api/internal/handler"
	"carwash-booking-api/internal/logger"
	mw "carwash-booking-api/internal/middleware"
	"carwash-booking-api/internal/model"
	"carwash-booking-api/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
)

type Server struct {
	echo          *echo.Echo
	verifier      auth.Verifier
	paypalHandler *handler.PaypalHandler
	userHandler   *handler.UserHandler
}

func NewServer(
	paymentService service.PaymentService,
	userService service.UserService,
	verifier auth.Verifier,
	frontendURL string,
	log *logrus.Logger,
) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = handler.ErrorHandler(log)

	e.Use(middleware.RequestID())
	e.Use(logger.RequestLogger(log))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{frontendURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	s := &Server{
		echo:          e,
		verifier:      verifier,
		paypalHandler: handler.NewPaypalHandler(paymentService),
		userHandler:   handler.NewUserHandler(userService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	authenticated := mw.Authenticate(s.verifier)

	// -------- paypal --------
	paypal := api.Group("/paypal", authenticated)
	paypal.POST("/create-order", s.paypalHandler.CreateOrder)
	paypal.POST("/capture-order/:orderId", s.paypalHandler.CaptureOrder)
	paypal.GET("/order/:orderId", s.paypalHandler.GetOrder)
	paypal.GET("/verify-payment/:bookingId", s.paypalHandler.VerifyPayment)

	// -------- admin --------
	users := api.Group("/users", authenticated, mw.RequireRole(model.RoleAdmin))
	users.GET("", s.userHandler.ListUsers)
	users.GET("/:id", s.userHandler.GetUser)
}

// ServeHTTP exposes the router to in-process callers such as tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
