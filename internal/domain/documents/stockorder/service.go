package stockorder

import (
	"context"
	"time"

	"restock/internal/core/apperror"
	"restock/internal/core/busday"
	"restock/internal/core/id"
	"restock/internal/core/sequence"
	"restock/internal/core/tx"
	"restock/internal/domain"
	"restock/internal/domain/catalogs/branch"
	"restock/pkg/logger"
)

// CreateItemInput is one requested order line.
type CreateItemInput struct {
	ProductID   id.ID
	RequiredQty int64
}

// CreateInput carries everything needed to register a new stock order.
type CreateInput struct {
	BranchID     id.ID
	DeliveryDate time.Time
	Comment      string
	Items        []CreateItemInput
	CreatedBy    string
}

// AdvanceInput identifies a single line/stage write.
type AdvanceInput struct {
	OrderID         id.ID
	LineNo          int
	Stage           Stage
	Qty             int64
	At              time.Time
	ExpectedVersion int

	// Correction mode. Reason and Actor are required when Correct is set.
	Correct bool
	Reason  string
	Actor   string
}

// Service implements stock order business operations.
type Service struct {
	repo        Repository
	branches    branch.Repository
	corrections CorrectionStore
	allocator   sequence.Allocator
	clock       busday.Clock
	txManager   tx.Manager
}

func NewService(
	repo Repository,
	branches branch.Repository,
	corrections CorrectionStore,
	allocator sequence.Allocator,
	clock busday.Clock,
	txManager tx.Manager,
) *Service {
	return &Service{
		repo:        repo,
		branches:    branches,
		corrections: corrections,
		allocator:   allocator,
		clock:       clock,
		txManager:   txManager,
	}
}

// Create registers a stock order, allocating its document number from the
// branch/day sequence. The number is assigned before the document transaction
// opens, so a failed insert may leave a gap in the sequence but never a
// duplicate.
func (s *Service) Create(ctx context.Context, in CreateInput) (*StockOrder, error) {
	br, err := s.branches.GetByID(ctx, in.BranchID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnknownBranch(in.BranchID.String())
		}
		return nil, err
	}

	doc := NewStockOrder(br.ID, br.Code, in.DeliveryDate)
	doc.Comment = in.Comment
	doc.CreatedBy = in.CreatedBy
	doc.UpdatedBy = in.CreatedBy
	for _, it := range in.Items {
		doc.AddItem(it.ProductID, it.RequiredQty, doc.CreatedAt)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, err
	}

	day := s.clock.DayOf(doc.CreatedAt)
	seq, err := s.allocator.Next(ctx, br.Code, sequence.KindStockOrder, day)
	if err != nil {
		return nil, err
	}
	doc.Number = sequence.FormatNumber(br.Code, sequence.KindStockOrder, day, seq)

	err = s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, doc); err != nil {
			return err
		}
		return s.repo.SaveItems(txCtx, doc.ID, doc.Items)
	})
	if err != nil {
		return nil, err
	}

	logger.Info(ctx, "stock order created",
		"number", doc.Number, "branch", br.Code, "items", len(doc.Items))
	return doc, nil
}

// AdvanceStage records a quantity and timestamp for one fulfillment stage of
// one order line. Stages are write-once; a repeated write requires correction
// mode and leaves an audit record with the prior values.
func (s *Service) AdvanceStage(ctx context.Context, in AdvanceInput) (*StockOrder, error) {
	var doc *StockOrder

	err := s.txManager.RunInTransaction(ctx, func(txCtx context.Context) error {
		var err error
		doc, err = s.load(txCtx, in.OrderID)
		if err != nil {
			return err
		}
		if in.ExpectedVersion != 0 && doc.Version != in.ExpectedVersion {
			return apperror.NewStaleVersion("stock order", doc.Number)
		}

		item := doc.ItemByLineNo(in.LineNo)
		if item == nil {
			return apperror.NewNotFound("stock order line", in.LineNo)
		}

		corr, err := item.Advance(in.Stage, in.Qty, in.At, AdvanceOptions{
			Correct: in.Correct,
			Reason:  in.Reason,
			Actor:   in.Actor,
		})
		if err != nil {
			return err
		}

		if in.Actor != "" {
			doc.UpdatedBy = in.Actor
		}
		doc.Touch()
		if err := s.repo.Update(txCtx, doc); err != nil {
			return err
		}
		if err := s.repo.SaveItems(txCtx, doc.ID, doc.Items); err != nil {
			return err
		}
		if corr != nil {
			if err := s.corrections.Record(txCtx, *corr); err != nil {
				return err
			}
			logger.Warn(txCtx, "stage corrected",
				"number", doc.Number, "line", in.LineNo, "stage", in.Stage,
				"actor", in.Actor, "reason", in.Reason)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// GetByID returns an order with its table part.
func (s *Service) GetByID(ctx context.Context, orderID id.ID) (*StockOrder, error) {
	doc, err := s.load(ctx, orderID)
	if err != nil {
		return nil, normalizeGetErr(err, orderID)
	}
	return doc, nil
}

// GetByNumber resolves an order by its document number.
func (s *Service) GetByNumber(ctx context.Context, number string) (*StockOrder, error) {
	if _, err := sequence.ParseNumber(number); err != nil {
		return nil, apperror.NewValidation(err.Error())
	}
	doc, err := s.repo.GetByNumber(ctx, number)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewNotFound("stock order", number)
		}
		return nil, err
	}
	doc.Items, err = s.repo.GetItems(ctx, doc.ID)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// List returns order headers without table parts.
func (s *Service) List(ctx context.Context, filter domain.ListFilter) (domain.ListResult[*StockOrder], error) {
	if filter.Limit <= 0 {
		filter = domain.DefaultListFilter()
	}
	if filter.OrderBy == "" || filter.OrderBy == "name" {
		filter.OrderBy = "created_at DESC"
	}
	return s.repo.List(ctx, filter)
}

// Corrections returns the correction audit trail of an order.
func (s *Service) Corrections(ctx context.Context, orderID id.ID) ([]Correction, error) {
	return s.corrections.ListByOrder(ctx, orderID)
}

func (s *Service) load(ctx context.Context, orderID id.ID) (*StockOrder, error) {
	doc, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	doc.Items, err = s.repo.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func normalizeGetErr(err error, key any) error {
	if apperror.IsNotFound(err) {
		return apperror.NewNotFound("stock order", key)
	}
	return err
}
