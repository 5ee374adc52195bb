package catalog_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"restock/internal/domain/catalogs/branch"
	"restock/internal/infrastructure/storage/postgres"
)

const branchTable = "cat_branches"

// BranchRepo implements branch.Repository.
type BranchRepo struct {
	*BaseCatalogRepo[*branch.Branch]
}

var _ branch.Repository = (*BranchRepo)(nil)

func NewBranchRepo(txManager *postgres.TxManager) *BranchRepo {
	return &BranchRepo{
		BaseCatalogRepo: NewBaseCatalogRepo(
			txManager,
			branchTable,
			postgres.ExtractDBColumns[branch.Branch](),
			func() *branch.Branch { return &branch.Branch{} },
		),
	}
}

// ListActive returns all active, non-deleted branches.
func (r *BranchRepo) ListActive(ctx context.Context) ([]*branch.Branch, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Eq{"deletion_mark": false}).
		OrderBy("code ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var branches []*branch.Branch
	if err := pgxscan.Select(ctx, r.querier(ctx), &branches, sql, args...); err != nil {
		return nil, fmt.Errorf("list active branches: %w", err)
	}
	return branches, nil
}
