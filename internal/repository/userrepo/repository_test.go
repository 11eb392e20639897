package userrepo_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uaifood/internal/domain"
	apperror "uaifood/internal/errors"
	"uaifood/internal/pkg/logger"
	"uaifood/internal/repository/userrepo"
)

var (
	userColumns    = []string{"id", "nome", "phone", "password_hash", "type", "created_at", "updated_at"}
	profileColumns = append(append([]string{}, userColumns...),
		"a_id", "street", "number", "district", "city", "state", "zip_code", "a_created_at", "a_updated_at")
)

func newRepo(t *testing.T) (*userrepo.UserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return userrepo.NewUserRepository(db, time.Second, logger.NewNopLogger()), mock
}

func TestSave(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(sqlmock.AnyArg(), "Maria Silva", "31999998888", "hash", domain.UserTypeClient, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	saved, err := repo.Save(context.Background(), domain.User{
		Nome: "Maria Silva", Phone: "31999998888", PasswordHash: "hash", Type: domain.UserTypeClient,
	})

	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_DuplicatePhone(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_phone_key"})

	_, err := repo.Save(context.Background(), domain.User{Phone: "31999998888"})

	assert.IsType(t, &apperror.ConflictError{}, err)
}

func TestFindByID_WithAddress(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN addresses a ON a.user_id = u.id")).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
			"u-1", "Maria Silva", "31999998888", "hash", "CLIENT", now, now,
			"a-1", "Rua das Flores", "123", "Centro", "Uberlândia", "MG", "38400-000", now, now,
		))

	u, err := repo.FindByID(context.Background(), "u-1")

	require.NoError(t, err)
	assert.Equal(t, domain.UserTypeClient, u.Type)
	require.NotNil(t, u.Address)
	assert.Equal(t, "a-1", u.Address.ID)
	assert.Equal(t, "u-1", u.Address.UserID)
	assert.Equal(t, "MG", u.Address.State)
}

func TestFindByID_WithoutAddress(t *testing.T) {
	repo, mock := newRepo(t)
	now := time.Now().UTC()
	mock.ExpectQuery(regexp.QuoteMeta("LEFT JOIN addresses")).
		WithArgs("u-2").
		WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
			"u-2", "João Souza", "31988887777", "hash", "ADMIN", now, now,
			nil, nil, nil, nil, nil, nil, nil, nil, nil,
		))

	u, err := repo.FindByID(context.Background(), "u-2")

	require.NoError(t, err)
	assert.Nil(t, u.Address)
	assert.Equal(t, domain.UserTypeAdmin, u.Type)
}

func TestFindByPhone_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE phone = $1")).
		WithArgs("31900000000").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.FindByPhone(context.Background(), "31900000000")

	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestUpdateType_NotFound(t *testing.T) {
	repo, mock := newRepo(t)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE users SET type = $1")).
		WithArgs(domain.UserTypeAdmin, sqlmock.AnyArg(), "u-404").
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err := repo.UpdateType(context.Background(), "u-404", domain.UserTypeAdmin)

	assert.IsType(t, &apperror.NotFoundError{}, err)
}

func TestDelete(t *testing.T) {
	t.Run("com pedidos", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
			WithArgs("u-1").
			WillReturnError(&pq.Error{Code: "23503"})

		assert.IsType(t, &apperror.ConflictError{}, repo.Delete(context.Background(), "u-1"))
	})

	t.Run("id malformado", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
			WithArgs("abc").
			WillReturnError(&pq.Error{Code: "22P02"})

		assert.IsType(t, &apperror.NotFoundError{}, repo.Delete(context.Background(), "abc"))
	})

	t.Run("sucesso", func(t *testing.T) {
		repo, mock := newRepo(t)
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE id = $1")).
			WithArgs("u-3").
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, repo.Delete(context.Background(), "u-3"))
	})
}
