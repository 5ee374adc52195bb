package entity

import (
	"context"
	"time"

	"restock/internal/core/apperror"
	"restock/internal/core/id"
)

// Document is the base type for numbered business transactions:
// stock orders, in-stock entries, return orders.
type Document struct {
	BaseDocument

	// Number is the generated identifier, unique within its document kind
	// ({branchCode}-{kindTag}-{YYMMDD}-{seq}).
	Number string `db:"number" json:"number"`

	// BranchID is the submitting branch (required on every document kind).
	BranchID id.ID `db:"branch_id" json:"branchId"`

	// Date is the business timestamp of the document.
	Date time.Time `db:"date" json:"date"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new Document for the given branch.
func NewDocument(branchID id.ID) Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		BranchID:     branchID,
		Date:         time.Now().UTC(),
	}
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if id.IsNil(d.BranchID) {
		return apperror.NewValidation("branch is required").
			WithDetail("field", "branchId")
	}

	if d.Date.IsZero() {
		return apperror.NewValidation("date is required").
			WithDetail("field", "date")
	}

	return nil
}
