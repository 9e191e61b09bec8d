package service

import (
	"context"
	"errors"

	"carwash-booking-api/internal/model"
	"carwash-booking-api/internal/repository"

	"gorm.io/gorm"
)

type UserService interface {
	ListCustomers(ctx context.Context) ([]*model.UserSummary, error)
	GetUser(ctx context.Context, userID uint) (*model.UserSummary, error)
}

type userServiceImpl struct {
	userRepo repository.UserRepository
}

func NewUserService(
	userRepo repository.UserRepository,
) UserService {
	return &userServiceImpl{
		userRepo: userRepo,
	}
}

func (s *userServiceImpl) ListCustomers(ctx context.Context) ([]*model.UserSummary, error) {
	users, err := s.userRepo.ListCustomers(ctx)
	if err != nil {
		return nil, &StoreError{Op: "list customers", Err: err}
	}
	if users == nil {
		users = []*model.UserSummary{}
	}
	return users, nil
}

func (s *userServiceImpl) GetUser(ctx context.Context, userID uint) (*model.UserSummary, error) {
	user, err := s.userRepo.GetSummary(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, newError(ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, &StoreError{Op: "get user", Err: err}
	}
	return user, nil
}
