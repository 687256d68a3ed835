package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/agrilink-hq/agrilink-engine/pkg/apperrors"
	"github.com/agrilink-hq/agrilink-engine/pkg/database"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
)

// QuoteRepository defines the interface for quote data access.
type QuoteRepository interface {
	Create(ctx context.Context, quote *models.Quote) error
	Get(ctx context.Context, id uuid.UUID) (*models.Quote, error)
	// UpdateStatusIfPending transitions a PENDING quote to the given status.
	// Returns ErrConflict if the quote has already reached a terminal status.
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status models.QuoteStatus) (*models.Quote, error)
	ListByConnection(ctx context.Context, connectionID uuid.UUID) ([]*models.Quote, error)
}

// quoteRepository implements QuoteRepository using PostgreSQL.
type quoteRepository struct {
	db *database.DB
}

// NewQuoteRepository creates a new quote repository.
func NewQuoteRepository(db *database.DB) QuoteRepository {
	return &quoteRepository{db: db}
}

const quoteColumns = `id, connection_id, sender_user_id, product_name, quantity,
	unit, unit_price, total_amount, notes, status, created_at, updated_at`

// Create inserts a new quote.
func (r *quoteRepository) Create(ctx context.Context, quote *models.Quote) error {
	if quote.ID == uuid.Nil {
		quote.ID = uuid.New()
	}
	now := time.Now()
	quote.CreatedAt = now
	quote.UpdatedAt = now

	query := `
		INSERT INTO quotes (` + quoteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.Exec(ctx, query,
		quote.ID,
		quote.ConnectionID,
		quote.SenderUserID,
		quote.ProductName,
		quote.Quantity,
		quote.Unit,
		quote.UnitPrice,
		quote.TotalAmount,
		quote.Notes,
		quote.Status,
		quote.CreatedAt,
		quote.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create quote: %w", err)
	}

	return nil
}

// Get retrieves a quote by ID.
func (r *quoteRepository) Get(ctx context.Context, id uuid.UUID) (*models.Quote, error) {
	query := `SELECT ` + quoteColumns + ` FROM quotes WHERE id = $1`

	quote, err := scanQuote(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("quote: %w", apperrors.ErrNotFound)
		}
		return nil, err
	}
	return quote, nil
}

// UpdateStatusIfPending transitions a PENDING quote to the given status.
func (r *quoteRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status models.QuoteStatus) (*models.Quote, error) {
	query := `
		UPDATE quotes
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING ` + quoteColumns

	quote, err := scanQuote(r.db.QueryRow(ctx, query, status, time.Now(), id, models.QuotePending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing quote from one already responded to.
			if _, getErr := r.Get(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, fmt.Errorf("quote already responded to: %w", apperrors.ErrConflict)
		}
		return nil, err
	}
	return quote, nil
}

// ListByConnection retrieves all quotes for a connection, newest first.
func (r *quoteRepository) ListByConnection(ctx context.Context, connectionID uuid.UUID) ([]*models.Quote, error) {
	query := `
		SELECT ` + quoteColumns + `
		FROM quotes
		WHERE connection_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query, connectionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotes: %w", err)
	}
	defer rows.Close()

	var quotes []*models.Quote
	for rows.Next() {
		quote, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		quotes = append(quotes, quote)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating quotes: %w", err)
	}

	return quotes, nil
}

func scanQuote(row pgx.Row) (*models.Quote, error) {
	var quote models.Quote
	err := row.Scan(
		&quote.ID,
		&quote.ConnectionID,
		&quote.SenderUserID,
		&quote.ProductName,
		&quote.Quantity,
		&quote.Unit,
		&quote.UnitPrice,
		&quote.TotalAmount,
		&quote.Notes,
		&quote.Status,
		&quote.CreatedAt,
		&quote.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan quote: %w", err)
	}
	return &quote, nil
}

// Ensure quoteRepository implements QuoteRepository at compile time.
var _ QuoteRepository = (*quoteRepository)(nil)
