package reports

import (
	"context"
	"sort"
	"strconv"
	"time"

	"restock/internal/core/apperror"
	"restock/internal/core/busday"
	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/pkg/logger"
)

// Engine turns flattened document lines and a catalog snapshot into report
// shapes. All methods are pure over their inputs except for warning logs on
// skipped lines; repeated calls over the same inputs produce identical totals.
type Engine struct {
	clock busday.Clock
}

func NewEngine(clock busday.Clock) *Engine {
	return &Engine{clock: clock}
}

// EffectiveBranches intersects the requested branches with the caller's
// allowed set. A request outside the allowed set fails loudly instead of
// being silently dropped.
func (s Scope) EffectiveBranches() ([]id.ID, error) {
	if len(s.AllowedBranchIDs) == 0 {
		return s.BranchIDs, nil
	}
	allowed := make(map[id.ID]struct{}, len(s.AllowedBranchIDs))
	for _, b := range s.AllowedBranchIDs {
		allowed[b] = struct{}{}
	}
	if len(s.BranchIDs) == 0 {
		return s.AllowedBranchIDs, nil
	}
	for _, b := range s.BranchIDs {
		if _, ok := allowed[b]; !ok {
			return nil, apperror.NewForbiddenScope(b.String())
		}
	}
	return s.BranchIDs, nil
}

// Validate checks the window makes sense.
func (s Scope) Validate() error {
	if s.StartDay.IsZero() || s.EndDay.IsZero() {
		return apperror.NewValidation("report window is required").
			WithDetail("field", "startDay/endDay")
	}
	if s.EndDay.Before(s.StartDay) {
		return apperror.NewValidation("end day precedes start day").
			WithDetail("startDay", s.StartDay.String()).
			WithDetail("endDay", s.EndDay.String())
	}
	return nil
}

func branchSet(ids []id.ID) map[id.ID]struct{} {
	if len(ids) == 0 {
		return nil
	}
	set := make(map[id.ID]struct{}, len(ids))
	for _, b := range ids {
		set[b] = struct{}{}
	}
	return set
}

// matchesCatalog applies the optional hierarchy narrowing.
func matchesCatalog(s Scope, info ProductInfo) bool {
	if !id.IsNil(s.ProductID) && info.ID != s.ProductID {
		return false
	}
	if !id.IsNil(s.CategoryID) && info.CategoryID != s.CategoryID {
		return false
	}
	if !id.IsNil(s.DepartmentID) && info.DepartmentID != s.DepartmentID {
		return false
	}
	return true
}

func (e *Engine) matchesOrderFilters(s Scope, line OrderLine) bool {
	switch s.Status {
	case StatusOpen:
		if line.Closed() {
			return false
		}
	case StatusClosed:
		if !line.Closed() {
			return false
		}
	}
	switch s.OrderType {
	case OrderTypeLive:
		if e.clock.DayOf(line.CreatedAt) != e.clock.DayOf(line.DeliveryDate) {
			return false
		}
	case OrderTypeStock:
		if e.clock.DayOf(line.CreatedAt) == e.clock.DayOf(line.DeliveryDate) {
			return false
		}
	}
	return true
}

func lineTotals(line OrderLine) StageTotals {
	return StageTotals{
		RequiredQty:   line.RequiredQty,
		SendingQty:    line.SendingQty,
		ConfirmedQty:  line.ConfirmedQty,
		PickedQty:     line.PickedQty,
		ReceivedQty:   line.ReceivedQty,
		DifferenceQty: line.ReceivedQty - line.RequiredQty,
	}
}

// laterOf keeps the latest of two optional timestamps.
func laterOf(a, b *time.Time) *time.Time {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if b.After(*a) {
		return b
	}
	return a
}

func appendInvoice(list []string, number string) []string {
	for _, n := range list {
		if n == number {
			return list
		}
	}
	return append(list, number)
}

// ProductFulfillment builds the product matrix report. Lines whose product no
// longer exists in the catalog are skipped with a logged warning, never
// failing the whole report.
func (e *Engine) ProductFulfillment(ctx context.Context, scope Scope, lines []OrderLine, view *CatalogView) (*ProductFulfillmentReport, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	branches, err := scope.EffectiveBranches()
	if err != nil {
		return nil, err
	}
	inScope := branchSet(branches)

	report := &ProductFulfillmentReport{
		StartDay: scope.StartDay,
		EndDay:   scope.EndDay,
	}

	drillDown := scope.InvoiceNumber != ""
	rowsByKey := make(map[string]*ProductRow)
	var keys []string

	for _, line := range lines {
		if inScope != nil {
			if _, ok := inScope[line.BranchID]; !ok {
				continue
			}
		}
		if drillDown && line.InvoiceNumber != scope.InvoiceNumber {
			continue
		}
		if !e.matchesOrderFilters(scope, line) {
			continue
		}

		info, ok := view.Lookup(line.Item.ProductID)
		if !ok {
			report.SkippedLines++
			logger.Warn(ctx, "order line references pruned product, skipped",
				"invoice", line.InvoiceNumber, "productId", line.Item.ProductID)
			continue
		}
		if !matchesCatalog(scope, info) {
			continue
		}

		key := info.ID.String()
		if drillDown {
			// drill-down keeps lines unmerged
			key = line.InvoiceNumber + "#" + strconv.Itoa(line.LineNo)
		}
		row, ok := rowsByKey[key]
		if !ok {
			row = &ProductRow{
				DepartmentID:   info.DepartmentID,
				DepartmentName: info.DepartmentName,
				CategoryID:     info.CategoryID,
				CategoryName:   info.CategoryName,
				ProductID:      info.ID,
				ProductName:    info.Name,
				ByBranch:       make(map[string]int64),
			}
			rowsByKey[key] = row
			keys = append(keys, key)
		}

		row.StageTotals.add(lineTotals(line))
		row.InvoiceNumbers = appendInvoice(row.InvoiceNumbers, line.InvoiceNumber)
		row.RequiredDate = laterOf(row.RequiredDate, line.RequiredDate)
		row.SendingDate = laterOf(row.SendingDate, line.SendingDate)
		row.ConfirmedDate = laterOf(row.ConfirmedDate, line.ConfirmedDate)
		row.PickedDate = laterOf(row.PickedDate, line.PickedDate)
		row.ReceivedDate = laterOf(row.ReceivedDate, line.ReceivedDate)
		row.ByBranch[line.BranchCode] += line.RequiredQty
	}

	for _, key := range keys {
		row := rowsByKey[key]
		row.Shortage = row.ReceivedDate != nil && row.DifferenceQty < 0
		row.Excess = row.DifferenceQty > 0
		sort.Strings(row.InvoiceNumbers)
		report.Rows = append(report.Rows, *row)
	}
	sortProductRows(report.Rows)

	report.Categories, report.Departments = rollUp(report.Rows)
	report.Branches = branchColumns(report.Rows)
	for _, row := range report.Rows {
		report.Totals.add(row.StageTotals)
	}
	return report, nil
}

// rollUp computes category and department rollups bottom-up: categories sum
// the already-aggregated product rows, departments sum the category rollups.
// Raw lines are never re-scanned.
func rollUp(rows []ProductRow) ([]CategoryRollup, []DepartmentRollup) {
	catByID := make(map[id.ID]*CategoryRollup)
	var catOrder []id.ID
	for _, row := range rows {
		c, ok := catByID[row.CategoryID]
		if !ok {
			c = &CategoryRollup{
				CategoryID:     row.CategoryID,
				CategoryName:   row.CategoryName,
				DepartmentID:   row.DepartmentID,
				DepartmentName: row.DepartmentName,
			}
			catByID[row.CategoryID] = c
			catOrder = append(catOrder, row.CategoryID)
		}
		c.StageTotals.add(row.StageTotals)
	}

	var categories []CategoryRollup
	for _, cid := range catOrder {
		categories = append(categories, *catByID[cid])
	}
	sort.SliceStable(categories, func(i, j int) bool {
		if categories[i].DepartmentName != categories[j].DepartmentName {
			return categories[i].DepartmentName < categories[j].DepartmentName
		}
		if categories[i].CategoryName != categories[j].CategoryName {
			return categories[i].CategoryName < categories[j].CategoryName
		}
		return categories[i].CategoryID.String() < categories[j].CategoryID.String()
	})

	depByID := make(map[id.ID]*DepartmentRollup)
	var depOrder []id.ID
	for _, c := range categories {
		d, ok := depByID[c.DepartmentID]
		if !ok {
			d = &DepartmentRollup{
				DepartmentID:   c.DepartmentID,
				DepartmentName: c.DepartmentName,
			}
			depByID[c.DepartmentID] = d
			depOrder = append(depOrder, c.DepartmentID)
		}
		d.StageTotals.add(c.StageTotals)
	}

	var departments []DepartmentRollup
	for _, did := range depOrder {
		departments = append(departments, *depByID[did])
	}
	sort.SliceStable(departments, func(i, j int) bool {
		if departments[i].DepartmentName != departments[j].DepartmentName {
			return departments[i].DepartmentName < departments[j].DepartmentName
		}
		return departments[i].DepartmentID.String() < departments[j].DepartmentID.String()
	})
	return categories, departments
}

// branchColumns collects the dynamic per-branch columns: non-zero aggregate
// contribution only, largest branch first, ties broken by code.
func branchColumns(rows []ProductRow) []BranchColumn {
	totals := make(map[string]int64)
	for _, row := range rows {
		for code, qty := range row.ByBranch {
			totals[code] += qty
		}
	}

	var columns []BranchColumn
	for code, total := range totals {
		if total == 0 {
			continue
		}
		columns = append(columns, BranchColumn{BranchCode: code, Contribution: total})
	}
	sort.SliceStable(columns, func(i, j int) bool {
		if columns[i].Contribution != columns[j].Contribution {
			return columns[i].Contribution > columns[j].Contribution
		}
		return columns[i].BranchCode < columns[j].BranchCode
	})
	return columns
}

func sortProductRows(rows []ProductRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].DepartmentName != rows[j].DepartmentName {
			return rows[i].DepartmentName < rows[j].DepartmentName
		}
		if rows[i].CategoryName != rows[j].CategoryName {
			return rows[i].CategoryName < rows[j].CategoryName
		}
		if rows[i].ProductName != rows[j].ProductName {
			return rows[i].ProductName < rows[j].ProductName
		}
		if rows[i].ProductID != rows[j].ProductID {
			return rows[i].ProductID.String() < rows[j].ProductID.String()
		}
		// drill-down rows of the same product order by invoice
		if len(rows[i].InvoiceNumbers) > 0 && len(rows[j].InvoiceNumbers) > 0 {
			return rows[i].InvoiceNumbers[0] < rows[j].InvoiceNumbers[0]
		}
		return false
	})
}

// BranchSummary rolls orders up per branch with the live/stock split.
func (e *Engine) BranchSummary(ctx context.Context, scope Scope, lines []OrderLine) (*BranchSummaryReport, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	branches, err := scope.EffectiveBranches()
	if err != nil {
		return nil, err
	}
	inScope := branchSet(branches)

	report := &BranchSummaryReport{
		StartDay: scope.StartDay,
		EndDay:   scope.EndDay,
	}

	type orderKey struct {
		code    string
		invoice string
	}
	rowByCode := make(map[string]*BranchSummaryRow)
	var codes []string
	seenOrders := make(map[orderKey]bool)

	for _, line := range lines {
		if inScope != nil {
			if _, ok := inScope[line.BranchID]; !ok {
				continue
			}
		}
		if !e.matchesOrderFilters(scope, line) {
			continue
		}

		row, ok := rowByCode[line.BranchCode]
		if !ok {
			row = &BranchSummaryRow{BranchCode: line.BranchCode}
			rowByCode[line.BranchCode] = row
			codes = append(codes, line.BranchCode)
		}
		row.StageTotals.add(lineTotals(line))

		key := orderKey{code: line.BranchCode, invoice: line.InvoiceNumber}
		if !seenOrders[key] {
			seenOrders[key] = true
			row.OrderCount++
			if e.clock.DayOf(line.CreatedAt) == e.clock.DayOf(line.DeliveryDate) {
				row.LiveCount++
			} else {
				row.StockCount++
			}
		}
	}

	sort.Strings(codes)
	for _, code := range codes {
		row := rowByCode[code]
		report.Rows = append(report.Rows, *row)
		report.Totals.add(row.StageTotals)
	}
	return report, nil
}

// InStock builds the bill-flavored report over in-stock entries. Amounts are
// priced from the lines themselves, not the current catalog price.
func (e *Engine) InStock(ctx context.Context, scope Scope, lines []InStockLine, view *CatalogView) (*InStockReport, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	branches, err := scope.EffectiveBranches()
	if err != nil {
		return nil, err
	}
	inScope := branchSet(branches)

	report := &InStockReport{
		StartDay:    scope.StartDay,
		EndDay:      scope.EndDay,
		TotalAmount: types.ZeroMoney(),
	}

	drillDown := scope.InvoiceNumber != ""
	rowsByKey := make(map[string]*InStockRow)
	amounts := make(map[string]types.Money)
	var keys []string

	for _, line := range lines {
		if inScope != nil {
			if _, ok := inScope[line.BranchID]; !ok {
				continue
			}
		}
		if drillDown && line.InvoiceNumber != scope.InvoiceNumber {
			continue
		}

		info, ok := view.Lookup(line.ProductID)
		if !ok {
			report.SkippedLines++
			logger.Warn(ctx, "in-stock line references pruned product, skipped",
				"invoice", line.InvoiceNumber, "productId", line.ProductID)
			continue
		}
		if !matchesCatalog(scope, info) {
			continue
		}

		key := info.ID.String()
		row, ok := rowsByKey[key]
		if !ok {
			row = &InStockRow{
				DepartmentID:   info.DepartmentID,
				DepartmentName: info.DepartmentName,
				CategoryID:     info.CategoryID,
				CategoryName:   info.CategoryName,
				ProductID:      info.ID,
				ProductName:    info.Name,
				ByBranch:       make(map[string]int64),
			}
			rowsByKey[key] = row
			amounts[key] = types.ZeroMoney()
			keys = append(keys, key)
		}

		row.Qty += line.Qty
		amounts[key] = amounts[key].Add(types.MulQty(line.Price, line.Qty))
		row.InvoiceNumbers = appendInvoice(row.InvoiceNumbers, line.InvoiceNumber)
		row.ByBranch[line.BranchCode] += line.Qty
	}

	for _, key := range keys {
		row := rowsByKey[key]
		row.Amount = amounts[key]
		sort.Strings(row.InvoiceNumbers)
		report.Rows = append(report.Rows, *row)
		report.TotalQty += row.Qty
		report.TotalAmount = report.TotalAmount.Add(row.Amount)
	}
	sort.SliceStable(report.Rows, func(i, j int) bool {
		if report.Rows[i].DepartmentName != report.Rows[j].DepartmentName {
			return report.Rows[i].DepartmentName < report.Rows[j].DepartmentName
		}
		if report.Rows[i].CategoryName != report.Rows[j].CategoryName {
			return report.Rows[i].CategoryName < report.Rows[j].CategoryName
		}
		if report.Rows[i].ProductName != report.Rows[j].ProductName {
			return report.Rows[i].ProductName < report.Rows[j].ProductName
		}
		return report.Rows[i].ProductID.String() < report.Rows[j].ProductID.String()
	})
	return report, nil
}

// Returns builds the return-flavored report, rows split per (product, reason).
func (e *Engine) Returns(ctx context.Context, scope Scope, lines []ReturnLine, view *CatalogView) (*ReturnReport, error) {
	if err := scope.Validate(); err != nil {
		return nil, err
	}
	branches, err := scope.EffectiveBranches()
	if err != nil {
		return nil, err
	}
	inScope := branchSet(branches)

	report := &ReturnReport{
		StartDay: scope.StartDay,
		EndDay:   scope.EndDay,
	}

	drillDown := scope.InvoiceNumber != ""
	rowsByKey := make(map[string]*ReturnRow)
	var keys []string

	for _, line := range lines {
		if inScope != nil {
			if _, ok := inScope[line.BranchID]; !ok {
				continue
			}
		}
		if drillDown && line.InvoiceNumber != scope.InvoiceNumber {
			continue
		}

		info, ok := view.Lookup(line.ProductID)
		if !ok {
			report.SkippedLines++
			logger.Warn(ctx, "return line references pruned product, skipped",
				"invoice", line.InvoiceNumber, "productId", line.ProductID)
			continue
		}
		if !matchesCatalog(scope, info) {
			continue
		}

		key := info.ID.String() + "|" + string(line.Reason)
		row, ok := rowsByKey[key]
		if !ok {
			row = &ReturnRow{
				DepartmentID:   info.DepartmentID,
				DepartmentName: info.DepartmentName,
				CategoryID:     info.CategoryID,
				CategoryName:   info.CategoryName,
				ProductID:      info.ID,
				ProductName:    info.Name,
				Reason:         line.Reason,
				ByBranch:       make(map[string]int64),
			}
			rowsByKey[key] = row
			keys = append(keys, key)
		}

		row.Qty += line.Qty
		row.InvoiceNumbers = appendInvoice(row.InvoiceNumbers, line.InvoiceNumber)
		row.ByBranch[line.BranchCode] += line.Qty
	}

	for _, key := range keys {
		row := rowsByKey[key]
		sort.Strings(row.InvoiceNumbers)
		report.Rows = append(report.Rows, *row)
		report.TotalQty += row.Qty
	}
	sort.SliceStable(report.Rows, func(i, j int) bool {
		if report.Rows[i].DepartmentName != report.Rows[j].DepartmentName {
			return report.Rows[i].DepartmentName < report.Rows[j].DepartmentName
		}
		if report.Rows[i].CategoryName != report.Rows[j].CategoryName {
			return report.Rows[i].CategoryName < report.Rows[j].CategoryName
		}
		if report.Rows[i].ProductName != report.Rows[j].ProductName {
			return report.Rows[i].ProductName < report.Rows[j].ProductName
		}
		return string(report.Rows[i].Reason) < string(report.Rows[j].Reason)
	})
	return report, nil
}
