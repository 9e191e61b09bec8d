package repository

import (
	"context"

	"carwash-booking-api/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ServiceRepository stores the car-wash catalog.
type ServiceRepository interface {
	Count(ctx context.Context) (int64, error)
	CreateIfAbsent(ctx context.Context, services []*model.Service) error
}

type serviceRepoImpl struct {
	db *gorm.DB
}

func NewServiceRepository(db *gorm.DB) ServiceRepository {
	return &serviceRepoImpl{
		db: db,
	}
}

func (r *serviceRepoImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Service{}).
		Count(&count).Error

	return count, err
}

func (r *serviceRepoImpl) CreateIfAbsent(ctx context.Context, services []*model.Service) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&services).Error
}
