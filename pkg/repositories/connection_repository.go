package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/agrilink-hq/agrilink-engine/pkg/apperrors"
	"github.com/agrilink-hq/agrilink-engine/pkg/database"
	"github.com/agrilink-hq/agrilink-engine/pkg/models"
)

// uniqueViolation is the PostgreSQL error code for unique constraint violations.
const uniqueViolation = "23505"

// ConnectionRepository defines the interface for connection data access.
type ConnectionRepository interface {
	Create(ctx context.Context, conn *models.Connection) error
	Get(ctx context.Context, id uuid.UUID) (*models.Connection, error)
	GetByPair(ctx context.Context, farmerID, companyID uuid.UUID) (*models.Connection, error)
	// UpdateStatusIfPending transitions a PENDING connection to the given
	// status. Returns ErrNotFound if the connection is absent or no longer
	// PENDING, so concurrent responders cannot both win.
	UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status models.ConnectionStatus) (*models.Connection, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProfile(ctx context.Context, role models.Role, profileID uuid.UUID, status *models.ConnectionStatus) ([]*models.Connection, error)
}

// connectionRepository implements ConnectionRepository using PostgreSQL.
type connectionRepository struct {
	db *database.DB
}

// NewConnectionRepository creates a new connection repository.
func NewConnectionRepository(db *database.DB) ConnectionRepository {
	return &connectionRepository{db: db}
}

const connectionColumns = `id, farmer_id, company_id, status, initiated_by, created_at, updated_at`

// Create inserts a new connection. The schema enforces one row per
// (farmer_id, company_id) pair; a duplicate insert returns ErrConflict.
func (r *connectionRepository) Create(ctx context.Context, conn *models.Connection) error {
	if conn.ID == uuid.Nil {
		conn.ID = uuid.New()
	}
	now := time.Now()
	conn.CreatedAt = now
	conn.UpdatedAt = now

	query := `
		INSERT INTO connections (` + connectionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.Exec(ctx, query,
		conn.ID,
		conn.FarmerID,
		conn.CompanyID,
		conn.Status,
		conn.InitiatedBy,
		conn.CreatedAt,
		conn.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("connection already exists for pair: %w", apperrors.ErrConflict)
		}
		return fmt.Errorf("failed to create connection: %w", err)
	}

	return nil
}

// Get retrieves a connection by ID.
func (r *connectionRepository) Get(ctx context.Context, id uuid.UUID) (*models.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE id = $1`

	conn, err := scanConnection(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("connection: %w", apperrors.ErrNotFound)
		}
		return nil, err
	}
	return conn, nil
}

// GetByPair retrieves the connection for a farmer/company pair.
func (r *connectionRepository) GetByPair(ctx context.Context, farmerID, companyID uuid.UUID) (*models.Connection, error) {
	query := `SELECT ` + connectionColumns + ` FROM connections WHERE farmer_id = $1 AND company_id = $2`

	conn, err := scanConnection(r.db.QueryRow(ctx, query, farmerID, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("connection: %w", apperrors.ErrNotFound)
		}
		return nil, err
	}
	return conn, nil
}

// UpdateStatusIfPending transitions a PENDING connection to the given status.
func (r *connectionRepository) UpdateStatusIfPending(ctx context.Context, id uuid.UUID, status models.ConnectionStatus) (*models.Connection, error) {
	query := `
		UPDATE connections
		SET status = $1, updated_at = $2
		WHERE id = $3 AND status = $4
		RETURNING ` + connectionColumns

	conn, err := scanConnection(r.db.QueryRow(ctx, query, status, time.Now(), id, models.ConnectionPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("pending connection: %w", apperrors.ErrNotFound)
		}
		return nil, err
	}
	return conn, nil
}

// Delete hard-deletes a connection. Quotes and messages cascade at the
// schema level.
func (r *connectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.Exec(ctx, `DELETE FROM connections WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete connection: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("connection: %w", apperrors.ErrNotFound)
	}

	return nil
}

// ListByProfile retrieves connections for one side of the marketplace,
// optionally filtered by status.
func (r *connectionRepository) ListByProfile(ctx context.Context, role models.Role, profileID uuid.UUID, status *models.ConnectionStatus) ([]*models.Connection, error) {
	column := "company_id"
	if role == models.RoleFarmer {
		column = "farmer_id"
	}

	query := `
		SELECT ` + connectionColumns + `
		FROM connections
		WHERE ` + column + ` = $1
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY updated_at DESC`

	rows, err := r.db.Query(ctx, query, profileID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	var conns []*models.Connection
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		conns = append(conns, conn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating connections: %w", err)
	}

	return conns, nil
}

func scanConnection(row pgx.Row) (*models.Connection, error) {
	var conn models.Connection
	err := row.Scan(
		&conn.ID,
		&conn.FarmerID,
		&conn.CompanyID,
		&conn.Status,
		&conn.InitiatedBy,
		&conn.CreatedAt,
		&conn.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan connection: %w", err)
	}
	return &conn, nil
}

// Ensure connectionRepository implements ConnectionRepository at compile time.
var _ ConnectionRepository = (*connectionRepository)(nil)
