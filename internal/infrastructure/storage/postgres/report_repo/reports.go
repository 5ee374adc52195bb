// Package report_repo reads flattened document lines and the product
// hierarchy for the aggregation engine. All queries are read-only and join
// the surrounding transaction when one is on the context.
package report_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"restock/internal/core/id"
	"restock/internal/domain/reports"
	"restock/internal/infrastructure/storage/postgres"
)

// Repo implements reports.Source over the document and catalog tables.
type Repo struct {
	txManager *postgres.TxManager
}

var _ reports.Source = (*Repo)(nil)

func NewRepo(txManager *postgres.TxManager) *Repo {
	return &Repo{txManager: txManager}
}

func (r *Repo) builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// OrderLines returns every stock order line created within [from, to),
// flattened with its document header.
func (r *Repo) OrderLines(ctx context.Context, from, to time.Time, branchIDs []id.ID) ([]reports.OrderLine, error) {
	q := r.builder().
		Select(
			"o.number AS invoice_number",
			"o.branch_id",
			"o.branch_code",
			"o.created_at",
			"o.delivery_date",
			"i.order_id",
			"i.line_no",
			"i.product_id",
			"i.required_qty", "i.required_date",
			"i.sending_qty", "i.sending_date",
			"i.confirmed_qty", "i.confirmed_date",
			"i.picked_qty", "i.picked_date",
			"i.received_qty", "i.received_date",
			"i.difference_qty",
		).
		From("doc_stock_orders o").
		Join("doc_stock_order_items i ON i.order_id = o.id").
		Where(squirrel.Eq{"o.deletion_mark": false}).
		Where(squirrel.GtOrEq{"o.created_at": from}).
		Where(squirrel.Lt{"o.created_at": to}).
		OrderBy("o.created_at", "o.number", "i.line_no")
	if len(branchIDs) > 0 {
		q = q.Where(squirrel.Eq{"o.branch_id": branchIDs})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build order lines query: %w", err)
	}

	var lines []reports.OrderLine
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select order lines: %w", err)
	}
	return lines, nil
}

// InStockLines returns every in-stock entry line created within [from, to).
func (r *Repo) InStockLines(ctx context.Context, from, to time.Time, branchIDs []id.ID) ([]reports.InStockLine, error) {
	q := r.builder().
		Select(
			"e.number AS invoice_number",
			"e.branch_id",
			"e.branch_code",
			"e.created_at",
			"i.product_id",
			"i.qty",
			"i.price",
		).
		From("doc_instock_entries e").
		Join("doc_instock_entry_items i ON i.entry_id = e.id").
		Where(squirrel.Eq{"e.deletion_mark": false}).
		Where(squirrel.GtOrEq{"e.created_at": from}).
		Where(squirrel.Lt{"e.created_at": to}).
		OrderBy("e.created_at", "e.number", "i.line_no")
	if len(branchIDs) > 0 {
		q = q.Where(squirrel.Eq{"e.branch_id": branchIDs})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build in-stock lines query: %w", err)
	}

	var lines []reports.InStockLine
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select in-stock lines: %w", err)
	}
	return lines, nil
}

// ReturnLines returns every return order line created within [from, to).
func (r *Repo) ReturnLines(ctx context.Context, from, to time.Time, branchIDs []id.ID) ([]reports.ReturnLine, error) {
	q := r.builder().
		Select(
			"ro.number AS invoice_number",
			"ro.branch_id",
			"ro.branch_code",
			"ro.created_at",
			"i.product_id",
			"i.qty",
			"i.reason",
		).
		From("doc_return_orders ro").
		Join("doc_return_order_items i ON i.return_id = ro.id").
		Where(squirrel.Eq{"ro.deletion_mark": false}).
		Where(squirrel.GtOrEq{"ro.created_at": from}).
		Where(squirrel.Lt{"ro.created_at": to}).
		OrderBy("ro.created_at", "ro.number", "i.line_no")
	if len(branchIDs) > 0 {
		q = q.Where(squirrel.Eq{"ro.branch_id": branchIDs})
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build return lines query: %w", err)
	}

	var lines []reports.ReturnLine
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &lines, sql, args...); err != nil {
		return nil, fmt.Errorf("select return lines: %w", err)
	}
	return lines, nil
}

// CatalogView loads the product hierarchy in one pass. Products whose
// category or department was soft-deleted drop out of the join, which the
// engine reports as skipped lines rather than failing the whole report.
func (r *Repo) CatalogView(ctx context.Context) (*reports.CatalogView, error) {
	sql, args, err := r.builder().
		Select(
			"p.id",
			"p.name",
			"p.price",
			"c.id AS category_id",
			"c.name AS category_name",
			"d.id AS department_id",
			"d.name AS department_name",
		).
		From("cat_products p").
		Join("cat_categories c ON c.id = p.category_id").
		Join("cat_departments d ON d.id = c.department_id").
		Where(squirrel.Eq{
			"p.deletion_mark": false,
			"c.deletion_mark": false,
			"d.deletion_mark": false,
		}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build catalog view query: %w", err)
	}

	var infos []reports.ProductInfo
	if err := pgxscan.Select(ctx, r.txManager.GetQuerier(ctx), &infos, sql, args...); err != nil {
		return nil, fmt.Errorf("select catalog view: %w", err)
	}

	view := &reports.CatalogView{Products: make(map[id.ID]reports.ProductInfo, len(infos))}
	for _, info := range infos {
		view.Products[info.ID] = info
	}
	return view, nil
}
