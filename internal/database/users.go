package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/streamtube/streamtube/internal/apperr"
	"github.com/streamtube/streamtube/pkg/models"
)

const userColumns = `id, username, email, full_name, password_hash, avatar_url, avatar_id,
	       cover_image_url, cover_image_id, refresh_token, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.FullName, &user.PasswordHash,
		&user.AvatarURL, &user.AvatarID, &user.CoverImageURL, &user.CoverImageID,
		&user.RefreshToken, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// CreateUser inserts a new user record. Username and email are unique
// case-insensitively; a duplicate fails with Conflict.
func (r *Repository) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}

	query := `
		INSERT INTO users (id, username, email, full_name, password_hash, avatar_url, avatar_id, cover_image_url, cover_image_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.ID, user.Username, user.Email, user.FullName, user.PasswordHash,
		user.AvatarURL, user.AvatarID, user.CoverImageURL, user.CoverImageID,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if isUniqueViolation(err) {
		return apperr.Conflict("user with email or username already exists")
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByID retrieves a user by ID
func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.db.Pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return user, nil
}

// GetUserByLogin retrieves a user whose username or email matches the
// identifier, case-insensitively.
func (r *Repository) GetUserByLogin(ctx context.Context, identifier string) (*models.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE username = LOWER($1) OR LOWER(email) = LOWER($1)`

	user, err := scanUser(r.db.Pool.QueryRow(ctx, query, identifier))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by login: %w", err)
	}

	return user, nil
}

// ExistsByEmailOrUsername reports whether any user already holds the email or
// username, case-insensitively.
func (r *Repository) ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM users WHERE LOWER(email) = LOWER($1) OR username = LOWER($2)
	)`

	var exists bool
	if err := r.db.Pool.QueryRow(ctx, query, email, username).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}

	return exists, nil
}

// UpdateRefreshToken overwrites the user's single refresh-token slot. Pass
// nil to clear it (logout). Concurrent writers race on this slot and the last
// write wins.
func (r *Repository) UpdateRefreshToken(ctx context.Context, userID string, token *string) error {
	query := `UPDATE users SET refresh_token = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, userID, token)
	if err != nil {
		return fmt.Errorf("failed to update refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user does not exist")
	}

	return nil
}

// UpdatePassword replaces the stored password hash
func (r *Repository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`

	tag, err := r.db.Pool.Exec(ctx, query, userID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("user does not exist")
	}

	return nil
}

// UpdateAccount replaces the user's full name and email and returns the
// updated record.
func (r *Repository) UpdateAccount(ctx context.Context, userID, fullName, email string) (*models.User, error) {
	query := `UPDATE users SET full_name = $2, email = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.Pool.QueryRow(ctx, query, userID, fullName, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user does not exist")
	}
	if isUniqueViolation(err) {
		return nil, apperr.Conflict("email already in use")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	return user, nil
}

// UpdateAvatar replaces the avatar URL and media-host object name and returns
// the updated record.
func (r *Repository) UpdateAvatar(ctx context.Context, userID, url, objectName string) (*models.User, error) {
	query := `UPDATE users SET avatar_url = $2, avatar_id = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.Pool.QueryRow(ctx, query, userID, url, objectName))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	return user, nil
}

// UpdateCoverImage replaces the cover image URL and media-host object name
// and returns the updated record.
func (r *Repository) UpdateCoverImage(ctx context.Context, userID, url, objectName string) (*models.User, error) {
	query := `UPDATE users SET cover_image_url = $2, cover_image_id = $3, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.db.Pool.QueryRow(ctx, query, userID, url, objectName))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperr.NotFound("user does not exist")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update cover image: %w", err)
	}

	return user, nil
}
