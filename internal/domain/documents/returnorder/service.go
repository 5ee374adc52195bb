package returnorder

import (
	"context"

	"restock/internal/core/apperror"
	"restock/internal/core/busday"
	"restock/internal/core/id"
	"restock/internal/core/sequence"
	"restock/internal/core/tx"
	"restock/internal/domain"
	"restock/internal/domain/catalogs/branch"
	"restock/pkg/logger"
)

// Repository defines the interface for ReturnOrder persistence.
type Repository interface {
	domain.DocumentRepository[*ReturnOrder]

	SaveItems(ctx context.Context, returnID id.ID, items []Item) error
	GetItems(ctx context.Context, returnID id.ID) ([]Item, error)
}

// CreateItemInput is one requested return line.
type CreateItemInput struct {
	ProductID id.ID
	Qty       int64
	Reason    Reason
	Note      string
}

// CreateInput carries a new return document.
type CreateInput struct {
	BranchID  id.ID
	Comment   string
	Items     []CreateItemInput
	CreatedBy string
}

// Service implements return order operations.
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

// Create registers a return, numbered from the branch/day RTN sequence.
func (s *Service) Create(ctx context.Context, in CreateInput) (*ReturnOrder, error) {
	br, err := s.branches.GetByID(ctx, in.BranchID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnknownBranch(in.BranchID.String())
		}
		return nil, err
	}

	doc := NewReturnOrder(br.ID, br.Code)
	doc.Comment = in.Comment
	doc.CreatedBy = in.CreatedBy
	doc.UpdatedBy = in.CreatedBy
	for _, it := range in.Items {
		doc.AddItem(it.ProductID, it.Qty, it.Reason, it.Note)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	day := s.clock.DayOf(doc.CreatedAt)
	seq, err := s.allocator.Next(ctx, br.Code, sequence.KindReturn, day)
	if err != nil {
		return nil, err
	}
	doc.Number = sequence.FormatNumber(br.Code, sequence.KindReturn, day, seq)

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, doc); err != nil {
			return err
		}
		return s.repo.SaveItems(txCtx, doc.ID, doc.Items)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "return order created",
		"number", doc.Number, "branch", br.Code, "items", len(doc.Items))
	return doc, nil
}

// GetByID returns a return order with its table part.
func (s *Service) GetByID(ctx context.Context, returnID id.ID) (*ReturnOrder, error) {
	doc, err := s.repo.GetByID(ctx, returnID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("return order", returnID)
		}
		return nil, err
	}
	doc.Items, err = s.repo.GetItems(ctx, returnID)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GetByNumber resolves a return order by its document number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*ReturnOrder, error) {
	if _, err := sequence.ParseNumber(number); err != nil {
		return nil, apperror.NewValidation(err.Error())
	}
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("return order", number)
		}
		return nil, err
	}
	doc.Items, err = s.repo.GetItems(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns return order headers without table parts.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*ReturnOrder], error) {
	if filter.Limit <= 0 {
		filter = domain.DefaultListFilter()
	}
	if filter.OrderBy == "" || filter.OrderBy == "name" {
		filter.OrderBy = "created_at DESC"
	}
	return s.repo.List(ctx, filter)
}
