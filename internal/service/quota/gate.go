// Package quota enforces the per-user generation cap. The gate exposes a
// cheap read-only Check for fast-failing requests and an atomic Commit that
// consumes one unit of quota only after the guarded work has succeeded.
package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/wukongmap/wukong-api/internal/store"
)

// ErrQuotaExceeded is returned when a user has consumed their full
// generation allowance.
var ErrQuotaExceeded = errors.New("generation quota exceeded")

// Status describes a user's quota position at a point in time.
type Status struct {
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
	Remaining int  `json:"remaining"`
	Allowed   bool `json:"allowed"`
}

// Gate mediates access to the generation pipeline.
//
// Check is advisory: it reads the counter without reserving anything, so
// two concurrent requests may both pass it. The real enforcement point is
// Commit, whose increment is conditional on the counter still being below
// the limit. Callers must Check before starting expensive work and Commit
// only after that work has produced a durable result.
type Gate struct {
	users store.UserStore
	limit int
}

// NewGate creates a Gate backed by the given user store and cap.
func NewGate(users store.UserStore, limit int) (*Gate, error) {
	if users == nil {
		return nil, errors.New("user store is required")
	}
	if limit <= 0 {
		return nil, fmt.Errorf("quota limit must be positive, got %d", limit)
	}
	return &Gate{users: users, limit: limit}, nil
}

// Limit returns the configured generation cap.
func (g *Gate) Limit() int {
	return g.limit
}

// Check reports the user's current quota position.
// Returns store.ErrUserNotFound if the user does not exist.
func (g *Gate) Check(ctx context.Context, userID uuid.UUID) (Status, error) {
	used, err := g.users.GetUsageCount(ctx, userID)
	if err != nil {
		return Status{}, fmt.Errorf("failed to read usage count: %w", err)
	}
	return g.status(used), nil
}

// Commit consumes one unit of quota and returns the updated status. The
// underlying increment refuses to pass the cap, so a request that raced
// past Check still cannot over-consume.
// Returns ErrQuotaExceeded if the user is already at the limit.
func (g *Gate) Commit(ctx context.Context, userID uuid.UUID) (Status, error) {
	used, err := g.users.IncrementUsageWithinLimit(ctx, userID, g.limit)
	if err != nil {
		if errors.Is(err, store.ErrUpdateFailed) {
			return g.status(g.limit), ErrQuotaExceeded
		}
		return Status{}, fmt.Errorf("failed to commit quota: %w", err)
	}
	return g.status(used), nil
}

func (g *Gate) status(used int) Status {
	remaining := g.limit - used
	if remaining < 0 {
		remaining = 0
	}
	return Status{
		Used:      used,
		Limit:     g.limit,
		Remaining: remaining,
		Allowed:   used < g.limit,
	}
}
