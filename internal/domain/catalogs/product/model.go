// Package product provides the Product catalog, the leaf level of the
// grouping hierarchy and the unit every order line references.
package product

import (
	"context"

	"restock/internal/core/apperror"
	"restock/internal/core/entity"
	"restock/internal/core/id"
	"restock/internal/core/tx"
	"restock/internal/core/types"
	"restock/internal/domain"
)

// Product represents a sellable product.
type Product struct {
	entity.Catalog

	// Price is the current unit price
	Price types.Money `db:"price" json:"price"`

	// CategoryID is the owning category
	CategoryID id.ID `db:"category_id" json:"categoryId"`
}

// NewProduct creates a new Product.
func NewProduct(code, name string, price types.Money, categoryID id.ID) *Product {
	return &Product{
		Catalog:    entity.NewCatalog(code, name),
		Price:      price,
		CategoryID: categoryID,
	}
}

// Validate implements entity.Validatable.
func (p *Product) Validate(ctx context.Context) error {
	if err := p.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(p.CategoryID) {
		return apperror.NewValidation("category is required").
			WithDetail("field", "categoryId")
	}

	if p.Price.IsNegative() {
		return apperror.NewValidation("price must not be negative").
			WithDetail("field", "price")
	}

	return nil
}

// Repository defines the interface for Product persistence.
type Repository interface {
	domain.CatalogRepository[*Product]
}

// Service provides business logic for the Product catalog.
type Service struct {
	*domain.CatalogService[*Product]
}

// NewService creates a new Product service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Product]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "product",
		}),
	}
}
