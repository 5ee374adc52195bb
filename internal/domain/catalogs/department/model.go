// Package department provides the Department catalog, the top level of the
// product grouping hierarchy (department → category → product).
package department

import (
	"restock/internal/core/entity"
	"restock/internal/core/tx"
	"restock/internal/domain"
)

// Department represents a merchandise department.
type Department struct {
	entity.Catalog
}

// NewDepartment creates a new Department.
func NewDepartment(code, name string) *Department {
	return &Department{Catalog: entity.NewCatalog(code, name)}
}

// Repository defines the interface for Department persistence.
type Repository interface {
	domain.CatalogRepository[*Department]
}

// Service provides business logic for the Department catalog.
type Service struct {
	*domain.CatalogService[*Department]
}

// NewService creates a new Department service.
func NewService(repo Repository, txManager tx.Manager) *Service {
	return &Service{
		CatalogService: domain.NewCatalogService(domain.CatalogServiceConfig[*Department]{
			Repo:       repo,
			TxManager:  txManager,
			EntityName: "department",
		}),
	}
}
