package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"restock/internal/core/id"
	"restock/internal/domain/documents/instock"
	"restock/internal/infrastructure/storage/postgres"
)

const (
	inStockEntriesTable    = "doc_instock_entries"
	inStockEntryItemsTable = "doc_instock_entry_items"
)

var inStockItemCols = []string{"entry_id", "line_no", "product_id", "qty", "price"}

// InStockRepo implements instock.Repository.
type InStockRepo struct {
	*BaseDocumentRepo[*instock.InStockEntry]
}

var _ instock.Repository = (*InStockRepo)(nil)

func NewInStockRepo(txManager *postgres.TxManager) *InStockRepo {
	return &InStockRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			inStockEntriesTable,
			postgres.ExtractDBColumns[instock.InStockEntry](),
			func() *instock.InStockEntry { return &instock.InStockEntry{} },
		),
	}
}

// GetItems retrieves the table part ordered by line number.
func (r *InStockRepo) GetItems(ctx context.Context, entryID id.ID) ([]instock.Item, error) {
	sql, args, err := r.Builder().
		Select(inStockItemCols...).
		From(inStockEntryItemsTable).
		Where(squirrel.Eq{"entry_id": entryID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []instock.Item
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return items, nil
}

// SaveItems replaces the table part.
func (r *InStockRepo) SaveItems(ctx context.Context, entryID id.ID, items []instock.Item) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + inStockEntryItemsTable + " WHERE entry_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, entryID); err != nil {
		return fmt.Errorf("delete existing items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(inStockEntryItemsTable).
		Columns(inStockItemCols...)
	for _, item := range items {
		q = q.Values(entryID, item.LineNo, item.ProductID, item.Qty, item.Price)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert items: %w", err)
	}
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}
