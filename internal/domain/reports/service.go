package reports

import (
	"context"
	"time"

	"restock/internal/core/busday"
	"restock/internal/core/id"
	"restock/internal/core/tx"
)

// Source fetches the flattened lines and the catalog snapshot the engine
// aggregates. From and to are instants: the service resolves the day window
// exactly once and queries never re-derive days from timestamps.
type Source interface {
	OrderLines(ctx context.Context, from, to time.Time, branchIDs []id.ID) ([]OrderLine, error)
	InStockLines(ctx context.Context, from, to time.Time, branchIDs []id.ID) ([]InStockLine, error)
	ReturnLines(ctx context.Context, from, to time.Time, branchIDs []id.ID) ([]ReturnLine, error)
	CatalogView(ctx context.Context) (*CatalogView, error)
}

// Service runs reports on a read-only snapshot. Reads never block writers.
type Service struct {
	source    Source
	engine    *Engine
	clock     busday.Clock
	txManager tx.ReadOnlyManager
}

func NewService(source Source, clock busday.Clock, txManager tx.ReadOnlyManager) *Service {
	return &Service{
		source:    source,
		engine:    NewEngine(clock),
		clock:     clock,
		txManager: txManager,
	}
}

// window resolves the scope's day range into a half-open instant range. This
// is the single conversion site.
func (s *Service) window(scope Scope) (time.Time, time.Time) {
	return s.clock.Window(scope.StartDay, scope.EndDay)
}

func (s *Service) prepare(scope Scope) (from, to time.Time, branches []id.ID, err error) {
	if err = scope.Validate(); err != nil {
		return
	}
	branches, err = scope.EffectiveBranches()
	if err != nil {
		return
	}
	from, to = s.window(scope)
	return
}

// ProductFulfillment produces the product matrix report for the scope.
func (s *Service) ProductFulfillment(ctx context.Context, scope Scope) (*ProductFulfillmentReport, error) {
	from, to, branches, err := s.prepare(scope)
	if err != nil {
		return nil, err
	}

	var report *ProductFulfillmentReport
	err = s.txManager.ReadOnly(ctx, func(txCtx context.Context) error {
		lines, err := s.source.OrderLines(txCtx, from, to, branches)
		if err != nil {
			return err
		}
		view, err := s.source.CatalogView(txCtx)
		if err != nil {
			return err
		}
		report, err = s.engine.ProductFulfillment(txCtx, scope, lines, view)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// BranchSummary produces the per-branch order rollup for the scope.
func (s *Service) BranchSummary(ctx context.Context, scope Scope) (*BranchSummaryReport, error) {
	from, to, branches, err := s.prepare(scope)
	if err != nil {
		return nil, err
	}

	var report *BranchSummaryReport
	err = s.txManager.ReadOnly(ctx, func(txCtx context.Context) error {
		lines, err := s.source.OrderLines(txCtx, from, to, branches)
		if err != nil {
			return err
		}
		report, err = s.engine.BranchSummary(txCtx, scope, lines)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// InStock produces the bill-flavored report for the scope.
func (s *Service) InStock(ctx context.Context, scope Scope) (*InStockReport, error) {
	from, to, branches, err := s.prepare(scope)
	if err != nil {
		return nil, err
	}

	var report *InStockReport
	err = s.txManager.ReadOnly(ctx, func(txCtx context.Context) error {
		lines, err := s.source.InStockLines(txCtx, from, to, branches)
		if err != nil {
			return err
		}
		view, err := s.source.CatalogView(txCtx)
		if err != nil {
			return err
		}
		report, err = s.engine.InStock(txCtx, scope, lines, view)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Returns produces the return-flavored report for the scope.
func (s *Service) Returns(ctx context.Context, scope Scope) (*ReturnReport, error) {
	from, to, branches, err := s.prepare(scope)
	if err != nil {
		return nil, err
	}

	var report *ReturnReport
	err = s.txManager.ReadOnly(ctx, func(txCtx context.Context) error {
		lines, err := s.source.ReturnLines(txCtx, from, to, branches)
		if err != nil {
			return err
		}
		view, err := s.source.CatalogView(txCtx)
		if err != nil {
			return err
		}
		report, err = s.engine.Returns(txCtx, scope, lines, view)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}
