package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"id", "email", "password", "role"}).
			AddRow(1, "a@b.com", "hashed", "USER")

		mock.ExpectQuery("INSERT INTO users").
			WithArgs("a@b.com", "hashed", "USER").
			WillReturnRows(rows)

		u, err := repo.Create(context.Background(), "a@b.com", "hashed", "USER")
		assert.NoError(t, err)
		assert.Equal(t, uint(1), u.ID)
		assert.Equal(t, RoleUser, u.Role)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO users").
			WillReturnError(errors.New("db error"))

		_, err := repo.Create(context.Background(), "a@b.com", "hashed", "USER")
		assert.Error(t, err)
	})
}

func TestRepository_FindByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	rows := sqlmock.NewRows([]string{"id", "email", "password", "role"}).
		AddRow(2, "admin@b.com", "hashed", "ADMIN")

	mock.ExpectQuery("SELECT id, email, password, role FROM users").
		WithArgs("admin@b.com").
		WillReturnRows(rows)

	u, err := repo.FindByEmail(context.Background(), "admin@b.com")
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
}

func TestRepository_GetProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)

	t.Run("Found", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"user_id", "full_name", "phone", "address", "created_at", "updated_at"}).
			AddRow(7, "Ana Cruz", "0919", "Talavera", time.Now(), time.Now())

		mock.ExpectQuery("SELECT user_id, full_name, phone, address").
			WithArgs(uint(7)).
			WillReturnRows(rows)

		p, err := repo.GetProfile(context.Background(), 7)
		assert.NoError(t, err)
		assert.Equal(t, "Ana Cruz", p.FullName)
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery("SELECT user_id, full_name, phone, address").
			WithArgs(uint(8)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

		_, err := repo.GetProfile(context.Background(), 8)
		assert.ErrorIs(t, err, ErrProfileNotFound)
	})
}

func TestRepository_UpsertProfile(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewRepository(db)
	params := UpsertProfileParams{
		UserID:   7,
		FullName: "Ana Cruz",
		Phone:    "0919",
		Address:  "Talavera",
	}

	t.Run("Success", func(t *testing.T) {
		rows := sqlmock.NewRows([]string{"user_id", "full_name", "phone", "address", "created_at", "updated_at"}).
			AddRow(7, "Ana Cruz", "0919", "Talavera", time.Now(), time.Now())

		mock.ExpectQuery("INSERT INTO profiles").
			WithArgs(params.UserID, params.FullName, params.Phone, params.Address).
			WillReturnRows(rows)

		p, err := repo.UpsertProfile(context.Background(), params)
		assert.NoError(t, err)
		assert.Equal(t, uint(7), p.UserID)
	})

	t.Run("Error", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO profiles").
			WillReturnError(errors.New("db error"))

		_, err := repo.UpsertProfile(context.Background(), params)
		assert.Error(t, err)
	})
}
