package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"agencia-viajes/internal/domain"
)

// DestinationRepository implements domain.DestinationRepository for PostgreSQL
type DestinationRepository struct {
	db             *sql.DB
	getByIDStmt    *sql.Stmt
	listByKindStmt *sql.Stmt
}

// NewDestinationRepository creates a new PostgreSQL destination repository
// with prepared statements. Returns an error if statement preparation fails.
func NewDestinationRepository(db *sql.DB) (*DestinationRepository, error) {
	repo := &DestinationRepository{db: db}

	var err error
	repo.getByIDStmt, err = db.Prepare(`
		SELECT id, city, photo, kind, description, price, created_at
		FROM destinations
		WHERE id = $1
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare getByID statement: %w", err)
	}

	repo.listByKindStmt, err = db.Prepare(`
		SELECT id, city, photo, kind, description, price, created_at
		FROM destinations
		WHERE kind = $1
		ORDER BY city
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare listByKind statement: %w", err)
	}

	return repo, nil
}

// GetByID retrieves a destination by ID
func (r *DestinationRepository) GetByID(ctx context.Context, id int64) (*domain.Destination, error) {
	dest := &domain.Destination{}
	err := r.getByIDStmt.QueryRowContext(ctx, id).Scan(
		&dest.ID,
		&dest.City,
		&dest.Photo,
		&dest.Kind,
		&dest.Description,
		&dest.Price,
		&dest.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrDestinationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get destination by id: %w", err)
	}
	return dest, nil
}

// ListByKind returns the destinations of one kind, ordered by city
func (r *DestinationRepository) ListByKind(ctx context.Context, kind string) ([]*domain.Destination, error) {
	rows, err := r.listByKindStmt.QueryContext(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	defer rows.Close()

	var destinations []*domain.Destination
	for rows.Next() {
		dest := &domain.Destination{}
		if err := rows.Scan(
			&dest.ID,
			&dest.City,
			&dest.Photo,
			&dest.Kind,
			&dest.Description,
			&dest.Price,
			&dest.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan destination: %w", err)
		}
		destinations = append(destinations, dest)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate destinations: %w", err)
	}

	return destinations, nil
}
