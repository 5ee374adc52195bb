package dto

import (
	"restock/internal/core/busday"
	"restock/internal/core/id"
	"restock/internal/domain/reports"
)

// ReportQuery is the shared query surface of every report endpoint. Dates
// arrive as YYYY-MM-DD strings and are parsed into business days here, at
// the boundary; nothing downstream touches date strings again.
type ReportQuery struct {
	StartDay string `form:"startDay" binding:"required"`
	EndDay   string `form:"endDay" binding:"required"`

	BranchIDs    []string `form:"branchId"`
	DepartmentID string   `form:"departmentId"`
	CategoryID   string   `form:"categoryId"`
	ProductID    string   `form:"productId"`

	Status    string `form:"status"`    // open | closed
	OrderType string `form:"orderType"` // live | stock

	// InvoiceNumber requests a single-invoice drill-down.
	InvoiceNumber string `form:"invoiceNumber"`

	// AllowedBranchIDs is the caller's permitted branch set, supplied by
	// the (out of scope) auth layer in front of this API. Empty means
	// unrestricted.
	AllowedBranchIDs []string `form:"allowedBranchId"`
}

// ToScope parses the query into an engine scope.
func (q *ReportQuery) ToScope() (reports.Scope, error) {
	startDay, err := busday.Parse(q.StartDay)
	if err != nil {
		return reports.Scope{}, err
	}
	endDay, err := busday.Parse(q.EndDay)
	if err != nil {
		return reports.Scope{}, err
	}

	scope := reports.Scope{
		StartDay:      startDay,
		EndDay:        endDay,
		Status:        reports.StatusFilter(q.Status),
		OrderType:     reports.OrderTypeFilter(q.OrderType),
		InvoiceNumber: q.InvoiceNumber,
	}

	if scope.BranchIDs, err = parseIDs("branchId", q.BranchIDs); err != nil {
		return reports.Scope{}, err
	}
	if scope.AllowedBranchIDs, err = parseIDs("allowedBranchId", q.AllowedBranchIDs); err != nil {
		return reports.Scope{}, err
	}

	if q.DepartmentID != "" {
		if scope.DepartmentID, err = ParseID("departmentId", q.DepartmentID); err != nil {
			return reports.Scope{}, err
		}
	}
	if q.CategoryID != "" {
		if scope.CategoryID, err = ParseID("categoryId", q.CategoryID); err != nil {
			return reports.Scope{}, err
		}
	}
	if q.ProductID != "" {
		if scope.ProductID, err = ParseID("productId", q.ProductID); err != nil {
			return reports.Scope{}, err
		}
	}

	return scope, nil
}

func parseIDs(field string, raw []string) ([]id.ID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make([]id.ID, 0, len(raw))
	for _, s := range raw {
		parsed, err := ParseID(field, s)
		if err != nil {
			return nil, err
		}
		out = append(out, parsed)
	}
	return out, nil
}
