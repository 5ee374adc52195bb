package stockorder

import (
	"context"

	"restock/internal/core/id"
	"restock/internal/domain"
)

// Repository defines the interface for StockOrder persistence.
type Repository interface {
	domain.DocumentRepository[*StockOrder]

	// SaveItems replaces the table part of an order.
	SaveItems(ctx context.Context, orderID id.ID, items []Item) error

	// GetItems retrieves the table part ordered by line number.
	GetItems(ctx context.Context, orderID id.ID) ([]Item, error)
}

// CorrectionStore persists the audit trail of stage corrections.
// The prior value of every corrected stage must remain retrievable.
type CorrectionStore interface {
	Record(ctx context.Context, c Correction) error
	ListByOrder(ctx context.Context, orderID id.ID) ([]Correction, error)
}
