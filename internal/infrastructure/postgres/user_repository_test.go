package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3lachi/servauth/internal/domain/entity"
	"github.com/a3lachi/servauth/internal/domain/repository"
)

func newMockRepo(t *testing.T) (pgxmock.PgxPoolIface, *UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

func TestCreateInsertsUserAndCredential(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice@example.com", "Alice", "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email_verified", "created_at", "updated_at"}).
			AddRow("user-1", false, now, now))
	mock.ExpectExec("INSERT INTO accounts").
		WithArgs("user-1", entity.ProviderCredential, "alice@example.com", "bcrypt-hash").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	u := &entity.User{Email: "alice@example.com", Name: "Alice"}
	require.NoError(t, repo.Create(context.Background(), u, "bcrypt-hash"))

	assert.Equal(t, "user-1", u.ID)
	assert.False(t, u.EmailVerified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDuplicateEmail(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice@example.com", "Alice", "").
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	u := &entity.User{Email: "alice@example.com", Name: "Alice"}
	err := repo.Create(context.Background(), u, "bcrypt-hash")

	assert.ErrorIs(t, err, repository.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateAccountInsertFailureRollsBack(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO users").
		WithArgs("alice@example.com", "Alice", "").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email_verified", "created_at", "updated_at"}).
			AddRow("user-1", false, now, now))
	mock.ExpectExec("INSERT INTO accounts").
		WithArgs("user-1", entity.ProviderCredential, "alice@example.com", "bcrypt-hash").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	u := &entity.User{Email: "alice@example.com", Name: "Alice"}
	err := repo.Create(context.Background(), u, "bcrypt-hash")

	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmail(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery("SELECT id, email, email_verified, name, avatar_url, created_at, updated_at").
		WithArgs("alice@example.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "email_verified", "name", "avatar_url", "created_at", "updated_at"}).
			AddRow("user-1", "alice@example.com", true, "Alice", "", now, now))

	u, err := repo.GetByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)

	assert.Equal(t, "user-1", u.ID)
	assert.Equal(t, "Alice", u.Name)
	assert.True(t, u.EmailVerified)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByEmailNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT id, email, email_verified, name, avatar_url, created_at, updated_at").
		WithArgs("nobody@example.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDQueryError(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT id, email, email_verified, name, avatar_url, created_at, updated_at").
		WithArgs("user-1").
		WillReturnError(errors.New("connection reset"))

	_, err := repo.GetByID(context.Background(), "user-1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCredential(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT password_hash").
		WithArgs("user-1", entity.ProviderCredential).
		WillReturnRows(pgxmock.NewRows([]string{"password_hash"}).AddRow("bcrypt-hash"))

	hash, err := repo.GetCredential(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "bcrypt-hash", hash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCredentialNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectQuery("SELECT password_hash").
		WithArgs("user-1", entity.ProviderCredential).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetCredential(context.Background(), "user-1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfilePassesNilForAbsentFields(t *testing.T) {
	mock, repo := newMockRepo(t)
	now := time.Now()

	name := "Bob"
	mock.ExpectQuery("UPDATE users").
		WithArgs(&name, (*string)(nil), (*string)(nil), "user-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "email_verified", "name", "avatar_url", "created_at", "updated_at"}).
			AddRow("user-1", "alice@example.com", false, "Bob", "", now, now))

	u, err := repo.UpdateProfile(context.Background(), "user-1", repository.ProfileUpdate{Name: &name})
	require.NoError(t, err)

	assert.Equal(t, "Bob", u.Name)
	assert.Equal(t, "alice@example.com", u.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileEmailTaken(t *testing.T) {
	mock, repo := newMockRepo(t)

	email := "taken@example.com"
	mock.ExpectQuery("UPDATE users").
		WithArgs((*string)(nil), &email, (*string)(nil), "user-1").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := repo.UpdateProfile(context.Background(), "user-1", repository.ProfileUpdate{Email: &email})
	assert.ErrorIs(t, err, repository.ErrEmailTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateProfileNotFound(t *testing.T) {
	mock, repo := newMockRepo(t)

	name := "Bob"
	mock.ExpectQuery("UPDATE users").
		WithArgs(&name, (*string)(nil), (*string)(nil), "missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.UpdateProfile(context.Background(), "missing", repository.ProfileUpdate{Name: &name})
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePassword(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("UPDATE accounts").
		WithArgs("new-hash", "user-1", entity.ProviderCredential).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.UpdatePassword(context.Background(), "user-1", "new-hash"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdatePasswordNoCredentialRow(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("UPDATE accounts").
		WithArgs("new-hash", "missing", entity.ProviderCredential).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdatePassword(context.Background(), "missing", "new-hash")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSetVerified(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("UPDATE users").
		WithArgs("user-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(t, repo.SetVerified(context.Background(), "user-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDelete(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("user-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	assert.NoError(t, repo.Delete(context.Background(), "user-1"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteMissingUser(t *testing.T) {
	mock, repo := newMockRepo(t)

	mock.ExpectExec("DELETE FROM users").
		WithArgs("missing").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
