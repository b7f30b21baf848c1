package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/wukongmap/wukong-api/internal/domain"
	"github.com/wukongmap/wukong-api/internal/platform/logger"
	"github.com/wukongmap/wukong-api/internal/store"
)

// Listing defaults applied when the filter leaves page/limit unset.
const (
	defaultCardPageLimit = 20
	maxCardPageLimit     = 100
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db store.DBTX
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface.
func NewPostgresCardStore(db store.DBTX) *PostgresCardStore {
	return &PostgresCardStore{
		db: db,
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// Create saves a new card to the database in a single INSERT.
// Tags are stored as JSONB; an empty ImageURL is persisted as NULL.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContext(ctx)

	if err := card.Validate(); err != nil {
		return err
	}

	tags, err := json.Marshal(card.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal card tags: %w", err)
	}

	query := `
		INSERT INTO cards (id, user_id, title, content, image_prompt, tags,
			image_url, is_public, view_count, like_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err = s.db.ExecContext(ctx, query,
		card.ID,
		card.UserID,
		card.Title,
		card.Content,
		card.ImagePrompt,
		tags,
		nullableString(card.ImageURL),
		card.IsPublic,
		card.ViewCount,
		card.LikeCount,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return store.ErrInvalidEntity
		}
		log.Error("failed to create card",
			"card_id", card.ID,
			"user_id", card.UserID,
			"error", err)
		return fmt.Errorf("failed to create card: %w", err)
	}

	return nil
}

// GetByID retrieves a card by its unique ID.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContext(ctx)

	query := `
		SELECT id, user_id, title, content, image_prompt, tags,
			image_url, is_public, view_count, like_count, created_at, updated_at
		FROM cards
		WHERE id = $1
	`

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			"card_id", id,
			"error", err)
		return nil, fmt.Errorf("failed to get card by ID: %w", err)
	}

	return card, nil
}

// ListByUser returns the user's cards newest-first along with the total
// count matching the filter. The search term matches title or content,
// case-insensitively.
func (s *PostgresCardStore) ListByUser(ctx context.Context, userID uuid.UUID, filter store.CardListFilter) ([]*domain.Card, int, error) {
	log := logger.FromContext(ctx)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = defaultCardPageLimit
	}
	if limit > maxCardPageLimit {
		limit = maxCardPageLimit
	}
	offset := (page - 1) * limit

	where := `WHERE user_id = $1`
	args := []any{userID}
	if filter.Search != "" {
		where += ` AND (title ILIKE $2 OR content ILIKE $2)`
		args = append(args, "%"+filter.Search+"%")
	}

	countQuery := `SELECT COUNT(*) FROM cards ` + where

	var total int
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count cards",
			"user_id", userID,
			"error", err)
		return nil, 0, fmt.Errorf("failed to count cards: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, title, content, image_prompt, tags,
			image_url, is_public, view_count, like_count, created_at, updated_at
		FROM cards
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list cards",
			"user_id", userID,
			"error", err)
		return nil, 0, fmt.Errorf("failed to list cards: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Card, 0, limit)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			log.Error("failed to scan card row",
				"user_id", userID,
				"error", err)
			return nil, 0, fmt.Errorf("failed to scan card row: %w", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		log.Error("error iterating card rows",
			"user_id", userID,
			"error", err)
		return nil, 0, fmt.Errorf("error iterating card rows: %w", err)
	}

	return cards, total, nil
}

// Update modifies an existing card's mutable fields.
func (s *PostgresCardStore) Update(ctx context.Context, card *domain.Card) error {
	log := logger.FromContext(ctx)

	if err := card.Validate(); err != nil {
		return err
	}

	tags, err := json.Marshal(card.Tags)
	if err != nil {
		return fmt.Errorf("failed to marshal card tags: %w", err)
	}

	query := `
		UPDATE cards
		SET title = $1, content = $2, tags = $3, image_url = $4,
			is_public = $5, updated_at = $6
		WHERE id = $7
	`

	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, query,
		card.Title,
		card.Content,
		tags,
		nullableString(card.ImageURL),
		card.IsPublic,
		now,
		card.ID,
	)
	if err != nil {
		log.Error("failed to update card",
			"card_id", card.ID,
			"error", err)
		return fmt.Errorf("failed to update card: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrCardNotFound
	}

	card.UpdatedAt = now
	return nil
}

// Delete removes a card from the database by its ID.
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete card",
			"card_id", id,
			"error", err)
		return fmt.Errorf("failed to delete card: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrCardNotFound
	}

	return nil
}

// IncrementViewCount bumps the card's view counter.
func (s *PostgresCardStore) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContext(ctx)

	query := `UPDATE cards SET view_count = view_count + 1 WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to increment view count",
			"card_id", id,
			"error", err)
		return fmt.Errorf("failed to increment view count: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrCardNotFound
	}

	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanCard scans a card row into a domain.Card, unmarshalling the JSONB
// tags column and translating a NULL image_url to the empty string.
func scanCard(row rowScanner) (*domain.Card, error) {
	var (
		card     domain.Card
		tags     []byte
		imageURL sql.NullString
	)

	err := row.Scan(
		&card.ID,
		&card.UserID,
		&card.Title,
		&card.Content,
		&card.ImagePrompt,
		&tags,
		&imageURL,
		&card.IsPublic,
		&card.ViewCount,
		&card.LikeCount,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tags, &card.Tags); err != nil {
		return nil, fmt.Errorf("failed to unmarshal card tags: %w", err)
	}
	if card.Tags == nil {
		card.Tags = []string{}
	}
	card.ImageURL = imageURL.String

	return &card, nil
}

// nullableString maps "" to NULL for columns where absence is meaningful.
func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
