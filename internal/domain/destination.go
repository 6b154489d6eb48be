package domain

import (
	"context"
	"errors"
	"time"
)

var ErrDestinationNotFound = errors.New("destination not found")

// Destination kinds as stored in the kind column
const (
	KindNational      = "Nacional"
	KindInternational = "Internacional"
)

// Destination represents a travel destination shown on the home page.
type Destination struct {
	ID          int64     `json:"id"`
	City        string    `json:"city"`
	Photo       string    `json:"photo"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

// DestinationRepository defines the interface for destination data access
type DestinationRepository interface {
	GetByID(ctx context.Context, id int64) (*Destination, error)
	ListByKind(ctx context.Context, kind string) ([]*Destination, error)
}
