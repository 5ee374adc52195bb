package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"restock/internal/core/id"
	"restock/internal/domain/catalogs/category"
	"restock/internal/infrastructure/storage/postgres"
)

const categoryTable = "cat_categories"

// CategoryRepo implements category.Repository.
type CategoryRepo struct {
	*BaseCatalogRepo[*category.Category]
}

var _ category.Repository = (*CategoryRepo)(nil)

func NewCategoryRepo(txManager *postgres.TxManager) *CategoryRepo {
	return &CategoryRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			categoryTable,
			postgres.ExtractDBColumns[category.Category](),
			func() *category.Category { return &category.Category{} },
		),
	}
}

// ListByDepartment returns the non-deleted categories of one department.
func (r *CategoryRepo) ListByDepartment(ctx context.Context, departmentID id.ID) ([]*category.Category, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"department_id": departmentID}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var categories []*category.Category
	if err := pgxscan.Select(ctx, r.querier(ctx), &categories, sql, args...); err != nil {
		return nil, fmt.Errorf("list by department: %w", err)
	}
	return categories, nil
}
