package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/a3lachi/servauth/internal/domain/entity"
	"github.com/a3lachi/servauth/internal/domain/repository"
)

// DB is the subset of pgxpool.Pool the repository needs. pgxmock satisfies
// it in tests.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type UserRepository struct {
	db DB
}

func NewUserRepository(db DB) *UserRepository {
	return &UserRepository{db: db}
}

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User, passwordHash string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	row := tx.QueryRow(ctx, `
		INSERT INTO users (email, name, avatar_url)
		VALUES ($1, $2, $3)
		RETURNING id, email_verified, created_at, updated_at
	`, u.Email, u.Name, u.AvatarURL)
	if err := row.Scan(&u.ID, &u.EmailVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrEmailTaken
		}
		return err
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO accounts (user_id, provider_id, account_id, password_hash)
		VALUES ($1, $2, $3, $4)
	`, u.ID, entity.ProviderCredential, u.Email, passwordHash); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getBy(ctx, "id", id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*entity.User, error) {
	u := &entity.User{}
	row := r.db.QueryRow(ctx, `
		SELECT id, email, email_verified, name, avatar_url, created_at, updated_at
		FROM users
		WHERE `+column+` = $1
	`, value)
	if err := row.Scan(&u.ID, &u.Email, &u.EmailVerified, &u.Name, &u.AvatarURL,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) GetCredential(ctx context.Context, userID string) (string, error) {
	var hash string
	row := r.db.QueryRow(ctx, `
		SELECT password_hash
		FROM accounts
		WHERE user_id = $1 AND provider_id = $2
	`, userID, entity.ProviderCredential)
	if err := row.Scan(&hash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", repository.ErrNotFound
		}
		return "", err
	}
	return hash, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, id string, in repository.ProfileUpdate) (*entity.User, error) {
	u := &entity.User{}
	// COALESCE keeps the stored value for fields the caller did not provide.
	row := r.db.QueryRow(ctx, `
		UPDATE users
		SET name       = COALESCE($1, name),
		    email      = COALESCE($2, email),
		    avatar_url = COALESCE($3, avatar_url),
		    updated_at = now()
		WHERE id = $4
		RETURNING id, email, email_verified, name, avatar_url, created_at, updated_at
	`, in.Name, in.Email, in.AvatarURL, id)
	if err := row.Scan(&u.ID, &u.Email, &u.EmailVerified, &u.Name, &u.AvatarURL,
		&u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		if isUniqueViolation(err) {
			return nil, repository.ErrEmailTaken
		}
		return nil, err
	}
	return u, nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE accounts
		SET password_hash = $1, updated_at = now()
		WHERE user_id = $2 AND provider_id = $3
	`, passwordHash, userID, entity.ProviderCredential)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetVerified(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `
		UPDATE users
		SET email_verified = TRUE, updated_at = now()
		WHERE id = $1
	`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

var _ repository.UserRepository = (*UserRepository)(nil)
