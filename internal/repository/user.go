package repository

import (
	"context"

	"carwash-booking-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	CountByRole(ctx context.Context, role model.Role) (int64, error)
	CreateIfAbsent(ctx context.Context, user *model.User) (int64, error)
	ListCustomers(ctx context.Context) ([]*model.UserSummary, error)
	GetSummary(ctx context.Context, userID uint) (*model.UserSummary, error)
}

type userRepoImpl struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepoImpl{
		db: db,
	}
}

const userSummaryColumns = "u.id, u.username, u.email, u.full_name, u.phone, u.role, u.created_at"

func (r *userRepoImpl) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("role = ?", role).
		Count(&count).Error

	return count, err
}

// CreateIfAbsent ignores a username/email collision instead of failing and
// reports zero rows in that case.
func (r *userRepoImpl) CreateIfAbsent(ctx context.Context, user *model.User) (int64, error) {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(user)

	return result.RowsAffected, result.Error
}

func (r *userRepoImpl) ListCustomers(ctx context.Context) ([]*model.UserSummary, error) {
	var users []*model.UserSummary
	err := r.summaryQuery(ctx).
		Where("u.role = ?", model.RoleCustomer).
		Order("u.created_at DESC").
		Scan(&users).
		Error

	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepoImpl) GetSummary(ctx context.Context, userID uint) (*model.UserSummary, error) {
	var users []*model.UserSummary
	err := r.summaryQuery(ctx).
		Where("u.id = ?", userID).
		Scan(&users).
		Error

	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return users[0], nil
}

func (r *userRepoImpl) summaryQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("users AS u").
		Select(userSummaryColumns + ", COUNT(b.id) AS total_bookings").
		Joins("LEFT JOIN bookings b ON u.id = b.user_id").
		Group(userSummaryColumns)
}
