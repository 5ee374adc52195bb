package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"restock/internal/core/id"
	"restock/internal/domain/documents/returnorder"
	"restock/internal/infrastructure/storage/postgres"
)

const (
	returnOrdersTable     = "doc_return_orders"
	returnOrderItemsTable = "doc_return_order_items"
)

var returnOrderItemCols = []string{"return_id", "line_no", "product_id", "qty", "reason", "note"}

// ReturnOrderRepo implements returnorder.Repository.
type ReturnOrderRepo struct {
	*BaseDocumentRepo[*returnorder.ReturnOrder]
}

var _ returnorder.Repository = (*ReturnOrderRepo)(nil)

func NewReturnOrderRepo(txManager *postgres.TxManager) *ReturnOrderRepo {
	return &ReturnOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			returnOrdersTable,
			postgres.ExtractDBColumns[returnorder.ReturnOrder](),
			func() *returnorder.ReturnOrder { return &returnorder.ReturnOrder{} },
		),
	}
}

// GetItems retrieves the table part ordered by line number.
func (r *ReturnOrderRepo) GetItems(ctx context.Context, returnID id.ID) ([]returnorder.Item, error) {
	sql, args, err := r.Builder().
		Select(returnOrderItemCols...).
		From(returnOrderItemsTable).
		Where(squirrel.Eq{"return_id": returnID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []returnorder.Item
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return items, nil
}

// SaveItems replaces the table part.
func (r *ReturnOrderRepo) SaveItems(ctx context.Context, returnID id.ID, items []returnorder.Item) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + returnOrderItemsTable + " WHERE return_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, returnID); err != nil {
		return fmt.Errorf("delete existing items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(returnOrderItemsTable).
		Columns(returnOrderItemCols...)
	for _, item := range items {
		q = q.Values(returnID, item.LineNo, item.ProductID, item.Qty, item.Reason, item.Note)
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
