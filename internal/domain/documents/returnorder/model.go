// Package returnorder provides the ReturnOrder document: goods a branch sends
// back to the central warehouse, each line carrying a return reason.
package returnorder

import (
	"context"

	"restock/internal/core/apperror"
	"restock/internal/core/entity"
	"restock/internal/core/id"
)

// Reason classifies why goods come back.
type Reason string

const (
	ReasonDamaged  Reason = "damaged"
	ReasonExpired  Reason = "expired"
	ReasonOverstock Reason = "overstock"
	ReasonMispick  Reason = "mispick"
	ReasonOther    Reason = "other"
)

// Valid reports whether r is a known reason.
func (r Reason) Valid() bool {
	switch r {
	case ReasonDamaged, ReasonExpired, ReasonOverstock, ReasonMispick, ReasonOther:
		return true
	}
	return false
}

// ReturnOrder represents a goods return document.
type ReturnOrder struct {
	entity.Document

	BranchCode string `db:"branch_code" json:"branchCode"`

	Items []Item `db:"-" json:"items"`
}

// Item is one returned line.
type Item struct {
	ReturnID id.ID `db:"return_id" json:"-"`
	LineNo   int   `db:"line_no" json:"lineNo"`

	ProductID id.ID  `db:"product_id" json:"productId"`
	Qty       int64  `db:"qty" json:"qty"`
	Reason    Reason `db:"reason" json:"reason"`
	Note      string `db:"note" json:"note,omitempty"`
}

// NewReturnOrder creates a new return document for the given branch.
func NewReturnOrder(branchID id.ID, branchCode string) *ReturnOrder {
	return &ReturnOrder{
		Document:   entity.NewDocument(branchID),
		BranchCode: branchCode,
		Items:      make([]Item, 0),
	}
}

// AddItem appends a return line.
func (r *ReturnOrder) AddItem(productID id.ID, qty int64, reason Reason, note string) {
	r.Items = append(r.Items, Item{
		ReturnID:  r.ID,
		LineNo:    len(r.Items) + 1,
		ProductID: productID,
		Qty:       qty,
		Reason:    reason,
		Note:      note,
	})
}

// Validate implements entity.Validatable.
func (r *ReturnOrder) Validate(ctx context.Context) error {
	if err := r.Document.Validate(ctx); err != nil {
		return err
	}

	if len(r.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range r.Items {
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
		if !item.Reason.Valid() {
			return apperror.NewValidation("unknown return reason").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1).
				WithDetail("reason", string(item.Reason))
		}
	}

	return nil
}
