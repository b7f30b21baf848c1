package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/wukongmap/wukong-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user must already carry a
	// hashed password; plaintext passwords are never persisted.
	// Returns ErrEmailExists if the email is already taken.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address.
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetUsageCount returns the user's current generation usage counter.
	// Returns ErrUserNotFound if the user does not exist.
	GetUsageCount(ctx context.Context, id uuid.UUID) (int, error)

	// IncrementUsageWithinLimit atomically increments the user's usage
	// counter only while it is below limit, and returns the new count.
	// The conditional update is a single statement so two concurrent
	// requests cannot both slip past the cap.
	// Returns ErrUpdateFailed if the counter is already at or above limit.
	// Returns ErrUserNotFound if the user does not exist.
	IncrementUsageWithinLimit(ctx context.Context, id uuid.UUID, limit int) (int, error)
}
