package document_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"restock/internal/core/id"
	"restock/internal/domain/documents/stockorder"
	"restock/internal/infrastructure/storage/postgres"
)

const (
	stockOrdersTable     = "doc_stock_orders"
	stockOrderItemsTable = "doc_stock_order_items"
)

var stockOrderItemCols = []string{
	"order_id", "line_no", "product_id",
	"required_qty", "required_date",
	"sending_qty", "sending_date",
	"confirmed_qty", "confirmed_date",
	"picked_qty", "picked_date",
	"received_qty", "received_date",
	"difference_qty",
}

// StockOrderRepo implements stockorder.Repository.
type StockOrderRepo struct {
	*BaseDocumentRepo[*stockorder.StockOrder]
}

var _ stockorder.Repository = (*StockOrderRepo)(nil)

func NewStockOrderRepo(txManager *postgres.TxManager) *StockOrderRepo {
	return &StockOrderRepo{
		BaseDocumentRepo: NewBaseDocumentRepo(
			txManager,
			stockOrdersTable,
			postgres.ExtractDBColumns[stockorder.StockOrder](),
			func() *stockorder.StockOrder { return &stockorder.StockOrder{} },
		),
	}
}

// GetItems retrieves the table part ordered by line number.
func (r *StockOrderRepo) GetItems(ctx context.Context, orderID id.ID) ([]stockorder.Item, error) {
	sql, args, err := r.Builder().
		Select(stockOrderItemCols...).
		From(stockOrderItemsTable).
		Where(squirrel.Eq{"order_id": orderID}).
		OrderBy("line_no").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var items []stockorder.Item
	if err := pgxscan.Select(ctx, r.querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("get items: %w", err)
	}
	return items, nil
}

// SaveItems replaces the table part (delete existing + insert new).
func (r *StockOrderRepo) SaveItems(ctx context.Context, orderID id.ID, items []stockorder.Item) error {
	querier := r.querier(ctx)

	deleteSQL := "DELETE FROM " + stockOrderItemsTable + " WHERE order_id = $1"
	if _, err := querier.Exec(ctx, deleteSQL, orderID); err != nil {
		return fmt.Errorf("delete existing items: %w", err)
	}
	if len(items) == 0 {
		return nil
	}

	q := r.Builder().
		Insert(stockOrderItemsTable).
		Columns(stockOrderItemCols...)
	for _, item := range items {
		q = q.Values(
			orderID, item.LineNo, item.ProductID,
			item.RequiredQty, item.RequiredDate,
			item.SendingQty, item.SendingDate,
			item.ConfirmedQty, item.ConfirmedDate,
			item.PickedQty, item.PickedDate,
			item.ReceivedQty, item.ReceivedDate,
			item.DifferenceQty,
		)
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
