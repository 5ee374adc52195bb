package reports

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restock/internal/core/apperror"
	"restock/internal/core/busday"
	"restock/internal/core/id"
	"restock/internal/core/types"
	"restock/internal/domain/documents/returnorder"
	"restock/internal/domain/documents/stockorder"
)

type catalogFixture struct {
	view *CatalogView

	grocery id.ID // department
	dairy   id.ID // category under grocery
	bakery  id.ID // category under grocery

	milk  id.ID
	curd  id.ID
	bread id.ID
}

func newCatalogFixture() *catalogFixture {
	f := &catalogFixture{
		grocery: id.New(),
		dairy:   id.New(),
		bakery:  id.New(),
		milk:    id.New(),
		curd:    id.New(),
		bread:   id.New(),
	}
	f.view = &CatalogView{Products: map[id.ID]ProductInfo{
		f.milk: {
			ID: f.milk, Name: "Milk 1L", Price: types.MustMoney("1.20"),
			CategoryID: f.dairy, CategoryName: "Dairy",
			DepartmentID: f.grocery, DepartmentName: "Grocery",
		},
		f.curd: {
			ID: f.curd, Name: "Curd 200g", Price: types.MustMoney("0.80"),
			CategoryID: f.dairy, CategoryName: "Dairy",
			DepartmentID: f.grocery, DepartmentName: "Grocery",
		},
		f.bread: {
			ID: f.bread, Name: "Rye Bread", Price: types.MustMoney("0.90"),
			CategoryID: f.bakery, CategoryName: "Bakery",
			DepartmentID: f.grocery, DepartmentName: "Grocery",
		},
	}}
	return f
}

func testEngine() *Engine {
	loc, _ := time.LoadLocation("Asia/Bangkok")
	return NewEngine(busday.NewClock(loc))
}

func testScope() Scope {
	return Scope{
		StartDay: busday.NewDay(2026, time.January, 19),
		EndDay:   busday.NewDay(2026, time.January, 21),
	}
}

func orderLine(branchID id.ID, branchCode, invoice string, productID id.ID, required, received int64) OrderLine {
	created := time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)
	receivedAt := created.Add(6 * time.Hour)
	return OrderLine{
		InvoiceNumber: invoice,
		BranchID:      branchID,
		BranchCode:    branchCode,
		CreatedAt:     created,
		DeliveryDate:  created.Add(48 * time.Hour),
		Item: stockorder.Item{
			LineNo:       1,
			ProductID:    productID,
			RequiredQty:  required,
			RequiredDate: &created,
			ReceivedQty:  received,
			ReceivedDate: &receivedAt,
		},
	}
}

func TestEngine_ProductFulfillment_MergesInvoices(t *testing.T) {
	cat := newCatalogFixture()
	e := testEngine()
	saw := id.New()

	// two orders for the same product inside the window
	lines := []OrderLine{
		orderLine(saw, "SAW", "SAW-STC-260120-01", cat.milk, 5, 4),
		orderLine(saw, "SAW", "SAW-STC-260120-02", cat.milk, 3, 3),
	}

	report, err := e.ProductFulfillment(context.Background(), testScope(), lines, cat.view)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, int64(8), row.RequiredQty)
	assert.Equal(t, int64(7), row.ReceivedQty)
	assert.Equal(t, int64(-1), row.DifferenceQty)
	assert.True(t, row.Shortage)
	assert.False(t, row.Excess)
	assert.Equal(t, []string{"SAW-STC-260120-01", "SAW-STC-260120-02"}, row.InvoiceNumbers)
	assert.Equal(t, int64(8), row.ByBranch["SAW"])
}

func TestEngine_ProductFulfillment_MergedTimestampIsLatest(t *testing.T) {
	cat := newCatalogFixture()
	e := testEngine()
	saw := id.New()

	early := orderLine(saw, "SAW", "SAW-STC-260120-01", cat.milk, 5, 5)
	late := orderLine(saw, "SAW", "SAW-STC-260120-02", cat.milk, 2, 2)
	laterAt := late.ReceivedDate.Add(3 * time.Hour)
	late.ReceivedDate = &laterAt

	report, err := e.ProductFulfillment(context.Background(), testScope(), []OrderLine{early, late}, cat.view)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	require.NotNil(t, report.Rows[0].ReceivedDate)
	assert.Equal(t, laterAt, *report.Rows[0].ReceivedDate)
}

func TestEngine_ProductFulfillment_DrillDownStaysUnmerged(t *testing.T) {
	cat := newCatalogFixture()
	e := testEngine()
	saw := id.New()

	lines := []OrderLine{
		orderLine(saw, "SAW", "SAW-STC-260120-01", cat.milk, 5, 4),
		orderLine(saw, "SAW", "SAW-STC-260120-02", cat.milk, 3, 3),
	}

	scope := testScope()
	scope.InvoiceNumber = "SAW-STC-260120-01"
	report, err := e.ProductFulfillment(context.Background(), scope, lines, cat.view)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, int64(5), report.Rows[0].RequiredQty)
	assert.Equal(t, []string{"SAW-STC-260120-01"}, report.Rows[0].InvoiceNumbers)
}

func TestEngine_ProductFulfillment_BranchColumns(t *testing.T) {
	cat := newCatalogFixture()
	e := testEngine()
	saw, hud, ash := id.New(), id.New(), id.New()

	lines := []OrderLine{
		orderLine(saw, "SAW", "SAW-STC-260120-01", cat.milk, 5, 5),
		orderLine(hud, "HUD", "HUD-STC-260120-01", cat.milk, 9, 9),
		orderLine(ash, "ASH", "ASH-STC-260120-01", cat.bread, 9, 9),
		// zero contribution stays out of the columns
		orderLine(id.New(), "ZRO", "ZRO-STC-260120-01", cat.curd, 0, 0),
	}

	report, err := e.ProductFulfillment(context.Background(), testScope(), lines, cat.view)
	require.NoError(t, err)

	// descending contribution, ties broken by code, zero omitted
	require.Len(t, report.Branches, 3)
	assert.Equal(t, BranchColumn{"ASH", 9}, report.Branches[0])
	assert.Equal(t, BranchColumn{"HUD", 9}, report.Branches[1])
	assert.Equal(t, BranchColumn{"SAW", 5}, report.Branches[2])
}

func TestEngine_ProductFulfillment_SkipsPrunedProducts(t *testing.T) {
	cat := newCatalogFixture()
	e := testEngine()
	saw := id.New()

	lines := []OrderLine{
		orderLine(saw, "SAW", "SAW-STC-260120-01", cat.milk, 5, 5),
		orderLine(saw, "SAW", "SAW-STC-260120-02", id.New(), 4, 4), // pruned
	}

	report, err := e.ProductFulfillment(context.Background(), testScope(), lines, cat.view)
	require.NoError(t, err)
	assert.Len(t, report.Rows, 1)
	assert.Equal(t, 1, report.SkippedLines)
	assert.Equal(t, int64(5), report.Totals.RequiredQty)
}

func TestEngine_ProductFulfillment_ForbiddenScope(t *testing.T) {
	cat := newCatalogFixture()
	e := testEngine()
	allowed, outside := id.New(), id.New()

	scope := testScope()
	scope.AllowedBranchIDs = []id.ID{allowed}
	scope.BranchIDs = []id.ID{outside}

	_, err := e.ProductFulfillment(context.Background(), scope, nil, cat.view)
	require.Error(t, err)
	assert.True(t, apperror.IsForbiddenScope(err))
}

func TestEngine_ProductFulfillment_AllowedSetAppliedByDefault(t *testing.T) {
	cat := newCatalogFixture()
	e := testEngine()
	saw, hud := id.New(), id.New()

	lines := []OrderLine{
		orderLine(saw, "SAW", "SAW-STC-260120-01", cat.milk, 5, 5),
		orderLine(hud, "HUD", "HUD-STC-260120-01", cat.milk, 3, 3),
	}

	scope := testScope()
	scope.AllowedBranchIDs = []id.ID{saw}
	report, err := e.ProductFulfillment(context.Background(), scope, lines, cat.view)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, int64(5), report.Rows[0].RequiredQty)
}

func TestEngine_ProductFulfillment_CatalogNarrowing(t *testing.T) {
	cat := newCatalogFixture()
	e := testEngine()
	saw := id.New()

	lines := []OrderLine{
		orderLine(saw, "SAW", "SAW-STC-260120-01", cat.milk, 5, 5),
		orderLine(saw, "SAW", "SAW-STC-260120-01", cat.bread, 2, 2),
	}

	scope := testScope()
	scope.CategoryID = cat.dairy
	report, err := e.ProductFulfillment(context.Background(), scope, lines, cat.view)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "Milk 1L", report.Rows[0].ProductName)
}

func TestEngine_ProductFulfillment_RollupConsistency(t *testing.T) {
	// property: totals at every level equal the sum of their constituents
	cat := newCatalogFixture()
	e := testEngine()
	rng := rand.New(rand.NewSource(42))

	branches := []struct {
		id   id.ID
		code string
	}{
		{id.New(), "SAW"}, {id.New(), "HUD"}, {id.New(), "ASH"},
	}
	products := []id.ID{cat.milk, cat.curd, cat.bread}

	var lines []OrderLine
	for i := 0; i < 200; i++ {
		b := branches[rng.Intn(len(branches))]
		p := products[rng.Intn(len(products))]
		required := int64(rng.Intn(50) + 1)
		received := int64(rng.Intn(60))
		lines = append(lines, orderLine(b.id, b.code, "X-STC-260120-01", p, required, received))
	}

	report, err := e.ProductFulfillment(context.Background(), testScope(), lines, cat.view)
	require.NoError(t, err)

	for _, c := range report.Categories {
		var sum StageTotals
		for _, row := range report.Rows {
			if row.CategoryID == c.CategoryID {
				sum.add(row.StageTotals)
			}
		}
		assert.Equal(t, sum, c.StageTotals, "category %s", c.CategoryName)
	}
	for _, d := range report.Departments {
		var sum StageTotals
		for _, c := range report.Categories {
			if c.DepartmentID == d.DepartmentID {
				sum.add(c.StageTotals)
			}
		}
		assert.Equal(t, sum, d.StageTotals, "department %s", d.DepartmentName)
	}

	var grand StageTotals
	for _, row := range report.Rows {
		grand.add(row.StageTotals)
	}
	assert.Equal(t, grand, report.Totals)
}

func TestEngine_ProductFulfillment_Deterministic(t *testing.T) {
	cat := newCatalogFixture()
	e := testEngine()
	saw, hud := id.New(), id.New()

	lines := []OrderLine{
		orderLine(saw, "SAW", "SAW-STC-260120-01", cat.milk, 5, 4),
		orderLine(hud, "HUD", "HUD-STC-260120-01", cat.bread, 3, 3),
		orderLine(saw, "SAW", "SAW-STC-260120-02", cat.curd, 7, 8),
	}

	first, err := e.ProductFulfillment(context.Background(), testScope(), lines, cat.view)
	require.NoError(t, err)
	second, err := e.ProductFulfillment(context.Background(), testScope(), lines, cat.view)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEngine_BranchSummary(t *testing.T) {
	e := testEngine()
	saw, hud := id.New(), id.New()
	milk := id.New()

	live := orderLine(saw, "SAW", "SAW-STC-260120-01", milk, 5, 5)
	live.DeliveryDate = live.CreatedAt.Add(time.Hour) // same local day

	lines := []OrderLine{
		live,
		orderLine(saw, "SAW", "SAW-STC-260120-02", milk, 3, 2),
		orderLine(hud, "HUD", "HUD-STC-260120-01", milk, 4, 4),
	}

	report, err := e.BranchSummary(context.Background(), testScope(), lines)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	hudRow, sawRow := report.Rows[0], report.Rows[1]
	assert.Equal(t, "HUD", hudRow.BranchCode)
	assert.Equal(t, 1, hudRow.OrderCount)

	assert.Equal(t, "SAW", sawRow.BranchCode)
	assert.Equal(t, 2, sawRow.OrderCount)
	assert.Equal(t, 1, sawRow.LiveCount)
	assert.Equal(t, 1, sawRow.StockCount)
	assert.Equal(t, int64(8), sawRow.RequiredQty)
	assert.Equal(t, int64(-1), sawRow.DifferenceQty)

	assert.Equal(t, int64(12), report.Totals.RequiredQty)
}

func TestEngine_InStock(t *testing.T) {
	cat := newCatalogFixture()
	e := testEngine()
	saw, hud := id.New(), id.New()
	created := time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)

	lines := []InStockLine{
		{InvoiceNumber: "SAW-INS-260120-01", BranchID: saw, BranchCode: "SAW",
			CreatedAt: created, ProductID: cat.milk, Qty: 10, Price: types.MustMoney("1.20")},
		{InvoiceNumber: "HUD-INS-260120-01", BranchID: hud, BranchCode: "HUD",
			CreatedAt: created, ProductID: cat.milk, Qty: 5, Price: types.MustMoney("1.10")},
	}

	report, err := e.InStock(context.Background(), testScope(), lines, cat.view)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)

	row := report.Rows[0]
	assert.Equal(t, int64(15), row.Qty)
	// amounts priced from the lines, not the catalog
	assert.True(t, row.Amount.Equal(types.MustMoney("17.50")), "got %s", row.Amount)
	assert.Equal(t, int64(10), row.ByBranch["SAW"])
	assert.Equal(t, int64(5), row.ByBranch["HUD"])
	assert.True(t, report.TotalAmount.Equal(types.MustMoney("17.50")))
}

func TestEngine_Returns_SplitByReason(t *testing.T) {
	cat := newCatalogFixture()
	e := testEngine()
	saw := id.New()
	created := time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC)

	lines := []ReturnLine{
		{InvoiceNumber: "SAW-RTN-260120-01", BranchID: saw, BranchCode: "SAW",
			CreatedAt: created, ProductID: cat.milk, Qty: 2, Reason: returnorder.ReasonDamaged},
		{InvoiceNumber: "SAW-RTN-260120-02", BranchID: saw, BranchCode: "SAW",
			CreatedAt: created, ProductID: cat.milk, Qty: 3, Reason: returnorder.ReasonDamaged},
		{InvoiceNumber: "SAW-RTN-260120-02", BranchID: saw, BranchCode: "SAW",
			CreatedAt: created, ProductID: cat.milk, Qty: 1, Reason: returnorder.ReasonExpired},
	}

	report, err := e.Returns(context.Background(), testScope(), lines, cat.view)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, returnorder.ReasonDamaged, report.Rows[0].Reason)
	assert.Equal(t, int64(5), report.Rows[0].Qty)
	assert.Equal(t, returnorder.ReasonExpired, report.Rows[1].Reason)
	assert.Equal(t, int64(1), report.Rows[1].Qty)
	assert.Equal(t, int64(6), report.TotalQty)
}

func TestScope_Validate(t *testing.T) {
	scope := Scope{}
	require.Error(t, scope.Validate(), "empty window")

	scope = testScope()
	require.NoError(t, scope.Validate())

	scope.EndDay = busday.NewDay(2026, time.January, 10)
	require.Error(t, scope.Validate(), "inverted window")
}

func TestEngine_StatusFilter(t *testing.T) {
	cat := newCatalogFixture()
	e := testEngine()
	saw := id.New()

	open := orderLine(saw, "SAW", "SAW-STC-260120-01", cat.milk, 5, 0)
	open.ReceivedDate = nil
	closed := orderLine(saw, "SAW", "SAW-STC-260120-02", cat.bread, 3, 3)

	lines := []OrderLine{open, closed}

	scope := testScope()
	scope.Status = StatusOpen
	report, err := e.ProductFulfillment(context.Background(), scope, lines, cat.view)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "Milk 1L", report.Rows[0].ProductName)

	scope.Status = StatusClosed
	report, err = e.ProductFulfillment(context.Background(), scope, lines, cat.view)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "Rye Bread", report.Rows[0].ProductName)
}

func TestEngine_OrderTypeFilter(t *testing.T) {
	cat := newCatalogFixture()
	e := testEngine()
	saw := id.New()

	// delivery on the creation local day makes the order live
	live := orderLine(saw, "SAW", "SAW-STC-260120-01", cat.milk, 5, 5)
	live.DeliveryDate = live.CreatedAt.Add(2 * time.Hour)
	stock := orderLine(saw, "SAW", "SAW-STC-260120-02", cat.bread, 3, 3)

	lines := []OrderLine{live, stock}

	scope := testScope()
	scope.OrderType = OrderTypeLive
	report, err := e.ProductFulfillment(context.Background(), scope, lines, cat.view)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "Milk 1L", report.Rows[0].ProductName)

	scope.OrderType = OrderTypeStock
	report, err = e.ProductFulfillment(context.Background(), scope, lines, cat.view)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Equal(t, "Rye Bread", report.Rows[0].ProductName)
}
