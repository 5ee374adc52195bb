package instock

import (
	"context"

	"restock/internal/core/apperror"
	"restock/internal/core/busday"
	"restock/internal/core/id"
	"restock/internal/core/sequence"
	"restock/internal/core/tx"
	"restock/internal/core/types"
	"restock/internal/domain"
	"restock/internal/domain/catalogs/branch"
	"restock/pkg/logger"
)

// Repository defines the interface for InStockEntry persistence.
type Repository interface {
	domain.DocumentRepository[*InStockEntry]

	SaveItems(ctx context.Context, entryID id.ID, items []Item) error
	GetItems(ctx context.Context, entryID id.ID) ([]Item, error)
}

// CreateItemInput is one requested arrival line.
type CreateItemInput struct {
	ProductID id.ID
	Qty       int64
	Price     types.Money
}

// CreateInput carries a new arrival document.
type CreateInput struct {
	BranchID  id.ID
	Comment   string
	Items     []CreateItemInput
	CreatedBy string
}

// Service implements in-stock entry operations.
type Service struct {
	repo      Repository
	branches  branch.Repository
	allocator sequence.Allocator
	clock     busday.Clock
	txManager tx.Manager
}

func NewService(
	repo Repository,
	branches branch.Repository,
	allocator sequence.Allocator,
	clock busday.Clock,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:      repo,
		branches:  branches,
		allocator: allocator,
		clock:     clock,
		txManager: txManager,
	}
}

// Create registers an arrival, numbered from the branch/day INS sequence.
func (s *Service) Create(ctx context.Context, in CreateInput) (*InStockEntry, error) {
	br, err := s.branches.GetByID(ctx, in.BranchID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnknownBranch(in.BranchID.String())
		}
		return nil, err
	}

	doc := NewInStockEntry(br.ID, br.Code)
	doc.Comment = in.Comment
	doc.CreatedBy = in.CreatedBy
	doc.UpdatedBy = in.CreatedBy
	for _, it := range in.Items {
		doc.AddItem(it.ProductID, it.Qty, it.Price)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	day := s.clock.DayOf(doc.CreatedAt)
	seq, err := s.allocator.Next(ctx, br.Code, sequence.KindInStock, day)
	if err != nil {
		return nil, err
	}
	doc.Number = sequence.FormatNumber(br.Code, sequence.KindInStock, day, seq)

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, doc); err != nil {
			return err
		}
		return s.repo.SaveItems(txCtx, doc.ID, doc.Items)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "in-stock entry created",
		"number", doc.Number, "branch", br.Code, "items", len(doc.Items))
	return doc, nil
}

// GetByID returns an entry with its table part.
func (s *Service) GetByID(ctx context.Context, entryID id.ID) (*InStockEntry, error) {
	doc, err := s.repo.GetByID(ctx, entryID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("in-stock entry", entryID)
		}
		return nil, err
	}
	doc.Items, err = s.repo.GetItems(ctx, entryID)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GetByNumber resolves an entry by its document number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*InStockEntry, error) {
	if _, err := sequence.ParseNumber(number); err != nil {
		return nil, apperror.NewValidation(err.Error())
	}
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("in-stock entry", number)
		}
		return nil, err
	}
	doc.Items, err = s.repo.GetItems(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns entry headers without table parts.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*InStockEntry], error) {
	if filter.Limit <= 0 {
		filter = domain.DefaultListFilter()
	}
	if filter.OrderBy == "" || filter.OrderBy == "name" {
		filter.OrderBy = "created_at DESC"
	}
	return s.repo.List(ctx, filter)
}
