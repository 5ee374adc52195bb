// Package stockorder provides the StockOrder document: a branch's request for
// replenishment, whose line items walk the five-stage fulfillment lifecycle
// ordered → sending → confirmed → picked → received.
package stockorder

import (
	"context"
	"time"

	"restock/internal/core/apperror"
	"restock/internal/core/busday"
	"restock/internal/core/entity"
	"restock/internal/core/id"
)

// StockOrder represents a branch stock order document.
type StockOrder struct {
	entity.Document

	// BranchCode is the 3-letter code embedded in the invoice number,
	// denormalized for report grouping.
	BranchCode string `db:"branch_code" json:"branchCode"`

	// DeliveryDate is the requested delivery timestamp.
	DeliveryDate time.Time `db:"delivery_date" json:"deliveryDate"`

	// Table part: ordered items
	Items []Item `db:"-" json:"items"`
}

// Item represents one order line. Each stage quantity is written once and
// stamped; changing a recorded value goes through the correction path only.
type Item struct {
	// Line identification
	OrderID id.ID `db:"order_id" json:"-"`
	LineNo  int   `db:"line_no" json:"lineNo"`

	// Product reference
	ProductID id.ID `db:"product_id" json:"productId"`

	// Stage quantities and timestamps
	RequiredQty   int64      `db:"required_qty" json:"requiredQty"`
	RequiredDate  *time.Time `db:"required_date" json:"requiredDate,omitempty"`
	SendingQty    int64      `db:"sending_qty" json:"sendingQty"`
	SendingDate   *time.Time `db:"sending_date" json:"sendingDate,omitempty"`
	ConfirmedQty  int64      `db:"confirmed_qty" json:"confirmedQty"`
	ConfirmedDate *time.Time `db:"confirmed_date" json:"confirmedDate,omitempty"`
	PickedQty     int64      `db:"picked_qty" json:"pickedQty"`
	PickedDate    *time.Time `db:"picked_date" json:"pickedDate,omitempty"`
	ReceivedQty   int64      `db:"received_qty" json:"receivedQty"`
	ReceivedDate  *time.Time `db:"received_date" json:"receivedDate,omitempty"`

	// DifferenceQty = receivedQty - requiredQty (negative = shortage)
	DifferenceQty int64 `db:"difference_qty" json:"differenceQty"`
}

// NewStockOrder creates a new stock order document.
func NewStockOrder(branchID id.ID, branchCode string, deliveryDate time.Time) *StockOrder {
	return &StockOrder{
		Document:     entity.NewDocument(branchID),
		BranchCode:   branchCode,
		DeliveryDate: deliveryDate,
		Items:        make([]Item, 0),
	}
}

// AddItem appends a line in the initial "ordered" stage.
func (o *StockOrder) AddItem(productID id.ID, requiredQty int64, at time.Time) {
	stamp := at
	o.Items = append(o.Items, Item{
		OrderID:      o.ID,
		LineNo:       len(o.Items) + 1,
		ProductID:    productID,
		RequiredQty:  requiredQty,
		RequiredDate: &stamp,
	})
}

// ItemByLineNo returns the line with the given number, or nil.
func (o *StockOrder) ItemByLineNo(lineNo int) *Item {
	for i := range o.Items {
		if o.Items[i].LineNo == lineNo {
			return &o.Items[i]
		}
	}
	return nil
}

// IsLive reports whether the order is a "live" order: delivery on the same
// business day it was created. The distinction is derived, never stored.
func (o *StockOrder) IsLive(clock busday.Clock) bool {
	return clock.DayOf(o.CreatedAt) == clock.DayOf(o.DeliveryDate)
}

// Validate implements entity.Validatable.
func (o *StockOrder) Validate(ctx context.Context) error {
	if err := o.Document.Validate(ctx); err != nil {
		return err
	}

	if o.DeliveryDate.IsZero() {
		return apperror.NewValidation("delivery date is required").
			WithDetail("field", "deliveryDate")
	}

	if len(o.Items) == 0 {
		return apperror.NewValidation("at least one item is required").
			WithDetail("field", "items")
	}

	for i, item := range o.Items {
		if id.IsNil(item.ProductID) {
			return apperror.NewValidation("product is required").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
		if item.RequiredQty <= 0 {
			return apperror.NewValidation("required quantity must be positive").
				WithDetail("field", "items").
				WithDetail("lineNo", i+1)
		}
	}

	return nil
}
