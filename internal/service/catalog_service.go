package service

import (
	"context"

	"agencia-viajes/internal/domain"
)

// CatalogService serves the destination listings shown on the home page and
// the per-destination detail view.
type CatalogService struct {
	destRepo domain.DestinationRepository
}

func NewCatalogService(destRepo domain.DestinationRepository) *CatalogService {
	return &CatalogService{destRepo: destRepo}
}

// HomePage returns national and international destinations for the home view.
func (s *CatalogService) HomePage(ctx context.Context) (national, international []*domain.Destination, err error) {
	national, err = s.destRepo.ListByKind(ctx, domain.KindNational)
	if err != nil {
		return nil, nil, err
	}

	international, err = s.destRepo.ListByKind(ctx, domain.KindInternational)
	if err != nil {
		return nil, nil, err
	}

	return national, international, nil
}

// Destination returns a single destination by id.
func (s *CatalogService) Destination(ctx context.Context, id int64) (*domain.Destination, error) {
	return s.destRepo.GetByID(ctx, id)
}
