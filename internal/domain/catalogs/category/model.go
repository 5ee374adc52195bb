// Package category provides the Category catalog, the middle level of the
// product grouping hierarchy.
package category

import (
	"context"

	"restock/internal/core/apperror"
	"restock/internal/core/entity"
	"restock/internal/core/id"
	"restock/internal/core/tx"
	"restock/internal/domain"
)

// Category represents a product category inside a department.
type Category struct {
	entity.Catalog

	// DepartmentID is the owning department
	DepartmentID id.ID `db:"department_id" json:"departmentId"`
}

// NewCategory creates a new Category.
func NewCategory(code, name string, departmentID id.ID) *Category {
	return &Category{
		Catalog:      entity.NewCatalog(code, name),
		DepartmentID: departmentID,
	}
}

// Validate implements entity.Validatable.
func (c *Category) Validate(ctx context.Context) error {
	if err := c.Catalog.Validate(ctx); err != nil {
		return err
	}

	if id.IsNil(c.DepartmentID) {
		return apperror.NewValidation("department is required").
			WithDetail("field", "departmentId")
	}

	return nil
}

// Repository defines the interface for Category persistence.
type Repository interface {
	domain.CatalogRepository[*Category]
}

// Service provides business logic for the Category catalog.
type Service struct {
	*domain.CatalogService[*Category]
}

// NewService creates a new Category service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Category]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "category",
		}),
	}
}
