package handler

import (
	"net/http"

	"carwash-booking-api/internal/dto"
	"carwash-booking-api/internal/service"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

func (h *UserHandler) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()

	users, err := h.userService.ListCustomers(ctx)
	if err != nil {
		return fail(internalServerError, err)
	}

	return c.JSON(http.StatusOK, &dto.ListUsersResponse{
		Success: true,
		Users:   users,
		Count:   len(users),
	})
}

func (h *UserHandler) GetUser(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := parseID(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
	}

	user, err := h.userService.GetUser(ctx, userID)
	if err != nil {
		return fail(internalServerError, err)
	}

	return c.JSON(http.StatusOK, &dto.GetUserResponse{
		Success: true,
		User:    user,
	})
}
