// Package reports implements the aggregation engine: time-windowed,
// hierarchy-aware rollups over stock orders, in-stock entries and returns.
package reports

import (
	"time"

	"restock/internal/core/busday"
	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/internal/domain/documents/returnorder"
	"restock/internal/domain/documents/stockorder"
)

// StatusFilter narrows order lines by fulfillment completeness.
type StatusFilter string

const (
	StatusAny    StatusFilter = ""
	StatusOpen   StatusFilter = "open"   // not yet received
	StatusClosed StatusFilter = "closed" // terminal stage reached
)

// OrderTypeFilter narrows orders by the live/stock distinction.
type OrderTypeFilter string

const (
	OrderTypeAny   OrderTypeFilter = ""
	OrderTypeLive  OrderTypeFilter = "live"  // delivery on the creation day
	OrderTypeStock OrderTypeFilter = "stock" // delivery on a later day
)

// Scope is the resolved query for one report run. Days are calendar dates in
// the business timezone; the engine converts them to an instant window exactly
// once and every underlying query receives instants.
type Scope struct {
	StartDay busday.Day
	EndDay   busday.Day

	// BranchIDs restricts to specific branches. Empty means all the caller
	// may see.
	BranchIDs []id.ID

	// Catalog narrowing, all optional.
	DepartmentID id.ID
	CategoryID   id.ID
	ProductID    id.ID

	Status    StatusFilter
	OrderType OrderTypeFilter

	// InvoiceNumber requests a single-invoice drill-down: rows stay unmerged.
	InvoiceNumber string

	// AllowedBranchIDs is the caller's permitted set. Empty means
	// unrestricted. A requested branch outside this set fails the whole
	// query with FORBIDDEN_SCOPE instead of being silently dropped.
	AllowedBranchIDs []id.ID
}

// OrderLine is one stock order line flattened with its document header,
// the unit the engine aggregates.
type OrderLine struct {
	InvoiceNumber string
	BranchID      id.ID
	BranchCode    string
	CreatedAt     time.Time
	DeliveryDate  time.Time

	stockorder.Item
}

// InStockLine is one in-stock entry line with its header.
type InStockLine struct {
	InvoiceNumber string
	BranchID      id.ID
	BranchCode    string
	CreatedAt     time.Time

	ProductID id.ID
	Qty       int64
	Price     types.Money
}

// ReturnLine is one return order line with its header.
type ReturnLine struct {
	InvoiceNumber string
	BranchID      id.ID
	BranchCode    string
	CreatedAt     time.Time

	ProductID id.ID
	Qty       int64
	Reason    returnorder.Reason
}

// ProductInfo is the catalog join target for one product: its own fields plus
// the category and department it rolls up into.
type ProductInfo struct {
	ID    id.ID
	Name  string
	Price types.Money

	CategoryID   id.ID
	CategoryName string

	DepartmentID   id.ID
	DepartmentName string
}

// CatalogView is a point-in-time snapshot of the product hierarchy.
type CatalogView struct {
	Products map[id.ID]ProductInfo
}

// Lookup returns the joined info for a product, if the catalog still has it.
func (v *CatalogView) Lookup(productID id.ID) (ProductInfo, bool) {
	p, ok := v.Products[productID]
	return p, ok
}

// StageTotals carries one quantity per fulfillment stage plus the variance.
type StageTotals struct {
	RequiredQty   int64 `json:"requiredQty"`
	SendingQty    int64 `json:"sendingQty"`
	ConfirmedQty  int64 `json:"confirmedQty"`
	PickedQty     int64 `json:"pickedQty"`
	ReceivedQty   int64 `json:"receivedQty"`
	DifferenceQty int64 `json:"differenceQty"`
}

func (t *StageTotals) add(o StageTotals) {
	t.RequiredQty += o.RequiredQty
	t.SendingQty += o.SendingQty
	t.ConfirmedQty += o.ConfirmedQty
	t.PickedQty += o.PickedQty
	t.ReceivedQty += o.ReceivedQty
	t.DifferenceQty += o.DifferenceQty
}

// ProductRow is one merged report row: a (department, category, product)
// triple with stage totals, latest stage timestamps and per-branch
// contribution breakdown.
type ProductRow struct {
	DepartmentID   id.ID  `json:"departmentId"`
	DepartmentName string `json:"departmentName"`
	CategoryID     id.ID  `json:"categoryId"`
	CategoryName   string `json:"categoryName"`
	ProductID      id.ID  `json:"productId"`
	ProductName    string `json:"productName"`

	// InvoiceNumbers lists the merged source invoices, sorted.
	InvoiceNumbers []string `json:"invoiceNumbers"`

	StageTotals

	// Latest timestamp per stage across merged lines.
	RequiredDate  *time.Time `json:"requiredDate,omitempty"`
	SendingDate   *time.Time `json:"sendingDate,omitempty"`
	ConfirmedDate *time.Time `json:"confirmedDate,omitempty"`
	PickedDate    *time.Time `json:"pickedDate,omitempty"`
	ReceivedDate  *time.Time `json:"receivedDate,omitempty"`

	// Shortage and Excess flag the terminal variance direction.
	Shortage bool `json:"shortage"`
	Excess   bool `json:"excess"`

	// ByBranch is each branch's required-quantity contribution, keyed by
	// branch code.
	ByBranch map[string]int64 `json:"byBranch"`
}

// CategoryRollup sums the product rows of one category.
type CategoryRollup struct {
	CategoryID     id.ID  `json:"categoryId"`
	CategoryName   string `json:"categoryName"`
	DepartmentID   id.ID  `json:"departmentId"`
	DepartmentName string `json:"departmentName"`

	StageTotals
}

// DepartmentRollup sums the category rollups of one department.
type DepartmentRollup struct {
	DepartmentID   id.ID  `json:"departmentId"`
	DepartmentName string `json:"departmentName"`

	StageTotals
}

// BranchColumn is one dynamic report column: a branch with a non-zero
// contribution in the window, ordered by descending contribution.
type BranchColumn struct {
	BranchCode   string `json:"branchCode"`
	Contribution int64  `json:"contribution"`
}

// ProductFulfillmentReport is the main report shape: the product matrix with
// per-level rollups, dynamic branch columns and grand totals.
type ProductFulfillmentReport struct {
	StartDay busday.Day `json:"startDay"`
	EndDay   busday.Day `json:"endDay"`

	Rows        []ProductRow       `json:"rows"`
	Categories  []CategoryRollup   `json:"categories"`
	Departments []DepartmentRollup `json:"departments"`
	Branches    []BranchColumn     `json:"branches"`

	Totals StageTotals `json:"totals"`

	// SkippedLines counts lines omitted because their product is gone from
	// the catalog. Historical reports stay viewable after catalog pruning.
	SkippedLines int `json:"skippedLines,omitempty"`
}

// BranchSummaryRow is one branch's order rollup in the window.
type BranchSummaryRow struct {
	BranchCode string `json:"branchCode"`

	OrderCount int `json:"orderCount"`
	LiveCount  int `json:"liveCount"`
	StockCount int `json:"stockCount"`

	StageTotals
}

// BranchSummaryReport rolls orders up per branch with the live/stock split.
type BranchSummaryReport struct {
	StartDay busday.Day `json:"startDay"`
	EndDay   busday.Day `json:"endDay"`

	Rows   []BranchSummaryRow `json:"rows"`
	Totals StageTotals        `json:"totals"`
}

// InStockRow is one merged arrival row with the financial amount.
type InStockRow struct {
	DepartmentID   id.ID  `json:"departmentId"`
	DepartmentName string `json:"departmentName"`
	CategoryID     id.ID  `json:"categoryId"`
	CategoryName   string `json:"categoryName"`
	ProductID      id.ID  `json:"productId"`
	ProductName    string `json:"productName"`

	InvoiceNumbers []string `json:"invoiceNumbers"`

	Qty    int64       `json:"qty"`
	Amount types.Money `json:"amount"`

	ByBranch map[string]int64 `json:"byBranch"`
}

// InStockReport is the bill-flavored report over in-stock entries.
type InStockReport struct {
	StartDay busday.Day `json:"startDay"`
	EndDay   busday.Day `json:"endDay"`

	Rows []InStockRow `json:"rows"`

	TotalQty    int64       `json:"totalQty"`
	TotalAmount types.Money `json:"totalAmount"`

	SkippedLines int `json:"skippedLines,omitempty"`
}

// ReturnRow is one merged return row, split by reason.
type ReturnRow struct {
	DepartmentID   id.ID  `json:"departmentId"`
	DepartmentName string `json:"departmentName"`
	CategoryID     id.ID  `json:"categoryId"`
	CategoryName   string `json:"categoryName"`
	ProductID      id.ID  `json:"productId"`
	ProductName    string `json:"productName"`

	Reason returnorder.Reason `json:"reason"`

	InvoiceNumbers []string `json:"invoiceNumbers"`

	Qty int64 `json:"qty"`

	ByBranch map[string]int64 `json:"byBranch"`
}

// ReturnReport is the return-flavored report over return orders.
type ReturnReport struct {
	StartDay busday.Day `json:"startDay"`
	EndDay   busday.Day `json:"endDay"`

	Rows     []ReturnRow `json:"rows"`
	TotalQty int64       `json:"totalQty"`

	SkippedLines int `json:"skippedLines,omitempty"`
}
