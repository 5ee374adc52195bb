// Package instock provides the InStockEntry document: goods arriving at a
// branch outside the order flow, priced per line.
package instock

import (
	"context"

	"restock/internal/core/apperror"
	"restock/internal/core/entity"
	"restock/internal/core/id"
	"restock/internal/core/types"
)

// InStockEntry represents a priced goods arrival document.
type InStockEntry struct {
	entity.Document

	// BranchCode is denormalized for report grouping, like on stock orders.
	BranchCode string `db:"branch_code" json:"branchCode"`

	Items []Item `db:"-" json:"items"`
}

// Item is one arrival line.
type Item struct {
	EntryID id.ID `db:"entry_id" json:"-"`
	LineNo  int   `db:"line_no" json:"lineNo"`

	ProductID id.ID       `db:"product_id" json:"productId"`
	Qty       int64       `db:"qty" json:"qty"`
	Price     types.Money `db:"price" json:"price"`
}

// Total returns the line amount.
func (i Item) Total() types.Money {
	return types.MulQty(i.Price, i.Qty)
}

// NewInStockEntry creates a new arrival document for the given branch.
func NewInStockEntry(branchID id.ID, branchCode string) *InStockEntry {
	return &InStockEntry{
		Document:   entity.NewDocument(branchID),
		BranchCode: branchCode,
		Items:      make([]Item, 0),
	}
}

// AddItem appends an arrival line.
func (e *InStockEntry) AddItem(productID id.ID, qty int64, price types.Money) {
	e.Items = append(e.Items, Item{
		EntryID:   e.ID,
		LineNo:    len(e.Items) + 1,
		ProductID: productID,
		Qty:       qty,
		Price:     price,
	})
}

// Total returns the document amount.
func (e *InStockEntry) Total() types.Money {
	total := types.ZeroMoney()
	for _, item := range e.Items {
		total = total.Add(item.Total())
	}
	return total
}

// Validate implements entity.Validatable.
func (e *InStockEntry) Validate(ctx context.Context) error {
	if err := e.Document.Validate(ctx); err != nil {
		return err
	}

	if len(e.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range e.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.Qty <= 0 {
			return apperror.NewValidation("quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.Price.IsNegative() {
			return apperror.NewValidation("price must not be negative").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}
