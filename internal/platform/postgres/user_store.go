package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wukongmap/wukong-api/internal/domain"
	"github.com/wukongmap/wukong-api/internal/platform/logger"
	"github.com/wukongmap/wukong-api/internal/store"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db store.DBTX
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection (or transaction)
// that should be initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX) *PostgresUserStore {
	return &PostgresUserStore{
		db: db,
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Create saves a new user to the database. The user must already carry a
// hashed password. Returns store.ErrEmailExists if the email is taken.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContext(ctx)

	if err := user.Validate(); err != nil {
		return err
	}
	if user.HashedPassword == "" {
		return domain.ErrEmptyHashedPassword
	}

	query := `
		INSERT INTO users (id, email, hashed_password, usage_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.ID,
		user.Email,
		user.HashedPassword,
		user.UsageCount,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailExists
		}
		log.Error("failed to create user",
			"user_id", user.ID,
			"error", err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by their unique ID.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT id, email, hashed_password, usage_count, created_at, updated_at
		FROM users
		WHERE id = $1
	`

	user, err := s.scanUser(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by ID",
			"user_id", id,
			"error", err)
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetByEmail retrieves a user by their email address.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT id, email, hashed_password, usage_count, created_at, updated_at
		FROM users
		WHERE email = $1
	`

	user, err := s.scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user by email",
			"error", err)
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// GetUsageCount returns the user's current generation usage counter.
func (s *PostgresUserStore) GetUsageCount(ctx context.Context, id uuid.UUID) (int, error) {
	log := logger.FromContext(ctx)

	query := `SELECT usage_count FROM users WHERE id = $1`

	var count int
	err := s.db.QueryRowContext(ctx, query, id).Scan(&count)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, store.ErrUserNotFound
		}
		log.Error("failed to get usage count",
			"user_id", id,
			"error", err)
		return 0, fmt.Errorf("failed to get usage count: %w", err)
	}

	return count, nil
}

// IncrementUsageWithinLimit atomically increments the user's usage counter
// only while it is below limit, and returns the new count. The conditional
// update runs as a single statement so two concurrent requests cannot both
// slip past the cap.
func (s *PostgresUserStore) IncrementUsageWithinLimit(ctx context.Context, id uuid.UUID, limit int) (int, error) {
	log := logger.FromContext(ctx)

	query := `
		UPDATE users
		SET usage_count = usage_count + 1, updated_at = $1
		WHERE id = $2 AND usage_count < $3
		RETURNING usage_count
	`

	var count int
	err := s.db.QueryRowContext(ctx, query, time.Now().UTC(), id, limit).Scan(&count)
	if err == nil {
		return count, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Error("failed to increment usage count",
			"user_id", id,
			"error", err)
		return 0, fmt.Errorf("failed to increment usage count: %w", err)
	}

	// No row updated: either the user is missing or the counter is at the
	// cap. Distinguish the two so callers can report them separately.
	if _, lookupErr := s.GetUsageCount(ctx, id); lookupErr != nil {
		return 0, lookupErr
	}

	return 0, store.ErrUpdateFailed
}

// scanUser scans a user row into a domain.User.
func (s *PostgresUserStore) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.HashedPassword,
		&user.UsageCount,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
