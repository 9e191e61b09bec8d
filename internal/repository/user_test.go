package repository_test

import (
	"context"
	"testing"

	"carwash-booking-api/internal/model"
	"carwash-booking-api/internal/repository"
	"carwash-booking-api/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestListCustomersCountsBookings(t *testing.T) {
	db := testutil.NewDB(t, true)
	repo := repository.NewUserRepository(db)
	service := testutil.CreateService(t, db, "Basic Wash", 200)

	testutil.CreateUser(t, db, "admin", model.RoleAdmin)
	busy := testutil.CreateUser(t, db, "busy", model.RoleCustomer)
	idle := testutil.CreateUser(t, db, "idle", model.RoleCustomer)
	testutil.CreateBooking(t, db, &busy.ID, service.ID)
	testutil.CreateBooking(t, db, &busy.ID, service.ID)
	testutil.CreateBooking(t, db, nil, service.ID)

	users, err := repo.ListCustomers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	counts := map[uint]int64{}
	for _, u := range users {
		assert.Equal(t, model.RoleCustomer, u.Role)
		counts[u.ID] = u.TotalBookings
	}
	assert.Equal(t, int64(2), counts[busy.ID])
	assert.Equal(t, int64(0), counts[idle.ID])
}

func TestGetSummary(t *testing.T) {
	db := testutil.NewDB(t, true)
	repo := repository.NewUserRepository(db)
	admin := testutil.CreateUser(t, db, "admin", model.RoleAdmin)

	got, err := repo.GetSummary(context.Background(), admin.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", got.Email)
	assert.Equal(t, int64(0), got.TotalBookings)

	_, err = repo.GetSummary(context.Background(), 999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCreateIfAbsentIgnoresDuplicates(t *testing.T) {
	db := testutil.NewDB(t, true)
	repo := repository.NewUserRepository(db)

	user := func() *model.User {
		return &model.User{Username: "admin", Email: "admin@gmail.com", PasswordHash: "h", FullName: "A", Phone: "1", Role: model.RoleAdmin}
	}
	created, err := repo.CreateIfAbsent(context.Background(), user())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created)

	created, err = repo.CreateIfAbsent(context.Background(), user())
	require.NoError(t, err)
	assert.Equal(t, int64(0), created)

	count, err := repo.CountByRole(context.Background(), model.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
