package branch

import (
	"context"

	"restock/internal/core/apperror"
	"restock/internal/core/tx"
	"restock/internal/domain"
)

// Service provides business logic for the Branch catalog.
type Service struct {
	*domain.CatalogService[*Branch]
	repo Repository
}

// NewService creates a new Branch service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	base := domain.NewCatalogService(domain.CatalogServiceConfig[*Branch]{
		Repo:       repo,
		TxManager:  txManager,
		EntityName: "branch",
	})

	return &Service{
		CatalogService: base,
		repo:           repo,
	}
}

// Create derives the branch code from the name and rejects duplicates.
func (s *Service) Create(ctx context.Context, b *Branch) error {
	if b.Code == "" {
		b.Code = DeriveCode(b.Name)
	}

	if err := b.Validate(ctx); err != nil {
		return err
	}

	existing, err := s.repo.GetByCode(ctx, b.Code)
	if err == nil && existing != nil {
		return apperror.NewDuplicate("branch", "code", b.Code)
	}
	if err != nil && !apperror.IsNotFound(err) {
		return err
	}

	return s.CatalogService.Create(ctx, b)
}
