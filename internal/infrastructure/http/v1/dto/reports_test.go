package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restock/internal/core/apperror"
	"restock/internal/core/busday"
	"restock/internal/core/id"
	"restock/internal/domain/reports"
)

func TestReportQueryToScope(t *testing.T) {
	branchID := id.New()
	allowedID := id.New()
	productID := id.New()

	q := ReportQuery{
		StartDay:         "2026-01-01",
		EndDay:           "2026-01-31",
		BranchIDs:        []string{branchID.String()},
		AllowedBranchIDs: []string{allowedID.String()},
		ProductID:        productID.String(),
		Status:           "open",
		OrderType:        "live",
		InvoiceNumber:    "SAW-STC-260120-01",
	}

	scope, err := q.ToScope()
	require.NoError(t, err)

	assert.Equal(t, busday.NewDay(2026, 1, 1), scope.StartDay)
	assert.Equal(t, busday.NewDay(2026, 1, 31), scope.EndDay)
	assert.Equal(t, []id.ID{branchID}, scope.BranchIDs)
	assert.Equal(t, []id.ID{allowedID}, scope.AllowedBranchIDs)
	assert.Equal(t, productID, scope.ProductID)
	assert.Equal(t, reports.StatusOpen, scope.Status)
	assert.Equal(t, reports.OrderTypeLive, scope.OrderType)
	assert.Equal(t, "SAW-STC-260120-01", scope.InvoiceNumber)
}

func TestReportQueryToScopeEmptyOptionals(t *testing.T) {
	q := ReportQuery{StartDay: "2026-01-01", EndDay: "2026-01-02"}

	scope, err := q.ToScope()
	require.NoError(t, err)

	assert.Empty(t, scope.BranchIDs)
	assert.Empty(t, scope.AllowedBranchIDs)
	assert.True(t, id.IsNil(scope.DepartmentID))
	assert.True(t, id.IsNil(scope.CategoryID))
	assert.True(t, id.IsNil(scope.ProductID))
	assert.Equal(t, reports.StatusAny, scope.Status)
}

func TestReportQueryToScopeBadDate(t *testing.T) {
	q := ReportQuery{StartDay: "20-01-2026", EndDay: "2026-01-31"}

	_, err := q.ToScope()
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestReportQueryToScopeBadID(t *testing.T) {
	q := ReportQuery{
		StartDay:  "2026-01-01",
		EndDay:    "2026-01-31",
		BranchIDs: []string{"not-a-uuid"},
	}

	_, err := q.ToScope()
	require.Error(t, err)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, "branchId", appErr.Details["field"])
}
