package stockorder

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restock/internal/core/apperror"
	"restock/internal/core/busday"
	"restock/internal/core/id"
	"restock/internal/core/sequence"
	"restock/internal/domain"
	"restock/internal/domain/catalogs/branch"
)

// --- in-memory fakes ---

type fakeBranchRepo struct {
	byID map[id.ID]*branch.Branch
}

func newFakeBranchRepo(branches ...*branch.Branch) *fakeBranchRepo {
	r := &fakeBranchRepo{byID: make(map[id.ID]*branch.Branch)}
	for _, b := range branches {
		r.byID[b.ID] = b
	}
	return r
}

func (r *fakeBranchRepo) Create(_ context.Context, b *branch.Branch) error {
	r.byID[b.ID] = b
	return nil
}

func (r *fakeBranchRepo) GetByID(_ context.Context, branchID id.ID) (*branch.Branch, error) {
	b, ok := r.byID[branchID]
	if !ok {
		return nil, apperror.NewNotFound("branch", branchID)
	}
	return b, nil
}

func (r *fakeBranchRepo) GetByCode(_ context.Context, code string) (*branch.Branch, error) {
	for _, b := range r.byID {
		if b.Code == code {
			return b, nil
		}
	}
	return nil, apperror.NewNotFound("branch", code)
}

func (r *fakeBranchRepo) Update(_ context.Context, b *branch.Branch) error {
	r.byID[b.ID] = b
	return nil
}

func (r *fakeBranchRepo) Delete(_ context.Context, branchID id.ID) error {
	delete(r.byID, branchID)
	return nil
}

func (r *fakeBranchRepo) List(_ context.Context, _ domain.ListFilter) (domain.ListResult[*branch.Branch], error) {
	return domain.ListResult[*branch.Branch]{}, nil
}

func (r *fakeBranchRepo) Exists(_ context.Context, branchID id.ID) (bool, error) {
	_, ok := r.byID[branchID]
	return ok, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[id.ID]*StockOrder
	items  map[id.ID][]Item
	// failCreate simulates an insert failure after allocation succeeded
	failCreate error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: make(map[id.ID]*StockOrder),
		items:  make(map[id.ID][]Item),
	}
}

func (r *fakeOrderRepo) Create(_ context.Context, doc *StockOrder) error {
	if r.failCreate != nil {
		return r.failCreate
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *doc
	cp.Items = nil
	r.orders[doc.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetByID(_ context.Context, orderID id.ID) (*StockOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.orders[orderID]
	if !ok {
		return nil, apperror.NewNotFound("stock order", orderID)
	}
	cp := *doc
	return &cp, nil
}

func (r *fakeOrderRepo) GetByNumber(_ context.Context, number string) (*StockOrder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, doc := range r.orders {
		if doc.Number == number {
			cp := *doc
			return &cp, nil
		}
	}
	return nil, apperror.NewNotFound("stock order", number)
}

func (r *fakeOrderRepo) Update(_ context.Context, doc *StockOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[doc.ID]
	if !ok {
		return apperror.NewNotFound("stock order", doc.ID)
	}
	// optimistic locking: the incoming version must be exactly one ahead
	if doc.Version != stored.Version+1 {
		return apperror.NewStaleVersion("stock order", doc.Number)
	}
	cp := *doc
	cp.Items = nil
	r.orders[doc.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) Delete(_ context.Context, orderID id.ID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.orders, orderID)
	return nil
}

func (r *fakeOrderRepo) List(_ context.Context, _ domain.ListFilter) (domain.ListResult[*StockOrder], error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := domain.ListResult[*StockOrder]{}
	for _, doc := range r.orders {
		cp := *doc
		out.Items = append(out.Items, &cp)
	}
	out.TotalCount = int64(len(out.Items))
	return out, nil
}

func (r *fakeOrderRepo) SaveItems(_ context.Context, orderID id.ID, items []Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]Item, len(items))
	copy(cp, items)
	r.items[orderID] = cp
	return nil
}

func (r *fakeOrderRepo) GetItems(_ context.Context, orderID id.ID) ([]Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := make([]Item, len(r.items[orderID]))
	copy(cp, r.items[orderID])
	return cp, nil
}

type fakeCorrectionStore struct {
	mu      sync.Mutex
	records []Correction
}

func (s *fakeCorrectionStore) Record(_ context.Context, c Correction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, c)
	return nil
}

func (s *fakeCorrectionStore) ListByOrder(_ context.Context, orderID id.ID) ([]Correction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Correction
	for _, c := range s.records {
		if c.OrderID == orderID.String() {
			out = append(out, c)
		}
	}
	return out, nil
}

type nopTxManager struct{}

func (nopTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// --- fixtures ---

type serviceFixture struct {
	svc         *Service
	repo        *fakeOrderRepo
	branches    *fakeBranchRepo
	corrections *fakeCorrectionStore
	allocator   *sequence.MockAllocator
	sawyer      *branch.Branch
	clock       busday.Clock
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	// UTC+7, no DST: boundaries are deterministic
	loc, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)

	sawyer := branch.NewBranch("Sawyer", id.New())
	sawyer.Code = "SAW"

	f := &serviceFixture{
		repo:        newFakeOrderRepo(),
		branches:    newFakeBranchRepo(sawyer),
		corrections: &fakeCorrectionStore{},
		allocator:   sequence.NewMockAllocator(),
		sawyer:      sawyer,
		clock:       busday.NewClock(loc),
	}
	f.svc = NewService(f.repo, f.branches, f.corrections, f.allocator, f.clock, nopTxManager{})
	return f
}

func (f *serviceFixture) createOrder(t *testing.T, items ...CreateItemInput) *StockOrder {
	t.Helper()
	doc, err := f.svc.Create(context.Background(), CreateInput{
		BranchID:     f.sawyer.ID,
		DeliveryDate: time.Now().Add(24 * time.Hour),
		Items:        items,
		CreatedBy:    "test.user",
	})
	require.NoError(t, err)
	return doc
}

// --- tests ---

func TestService_Create_AssignsSequentialNumbers(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	in := CreateInput{
		BranchID:     f.sawyer.ID,
		DeliveryDate: time.Now().Add(24 * time.Hour),
		Items:        []CreateItemInput{{ProductID: id.New(), RequiredQty: 5}},
		CreatedBy:    "test.user",
	}

	first, err := f.svc.Create(ctx, in)
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, in)
	require.NoError(t, err)

	n1, err := sequence.ParseNumber(first.Number)
	require.NoError(t, err)
	n2, err := sequence.ParseNumber(second.Number)
	require.NoError(t, err)

	assert.Equal(t, "SAW", n1.BranchCode)
	assert.Equal(t, sequence.KindStockOrder, n1.Kind)
	assert.Equal(t, f.clock.DayOf(first.CreatedAt), n1.Day)
	assert.Equal(t, 1, n1.Seq)
	assert.Equal(t, 2, n2.Seq)
	assert.NotEqual(t, first.Number, second.Number)
}

func TestService_Create_NumberFormat(t *testing.T) {
	f := newServiceFixture(t)

	day := busday.NewDay(2026, time.January, 20)
	want := "SAW-STC-260120-01"
	assert.Equal(t, want, sequence.FormatNumber("SAW", sequence.KindStockOrder, day, 1))

	doc := f.createOrder(t, CreateItemInput{ProductID: id.New(), RequiredQty: 3})
	parsed, err := sequence.ParseNumber(doc.Number)
	require.NoError(t, err)
	assert.Equal(t, 1, parsed.Seq)
}

func TestService_Create_UnknownBranch(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.svc.Create(context.Background(), CreateInput{
		BranchID:     id.New(),
		DeliveryDate: time.Now(),
		Items:        []CreateItemInput{{ProductID: id.New(), RequiredQty: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsUnknownBranch(err))
}

func TestService_Create_AllocatorFailureAborts(t *testing.T) {
	f := newServiceFixture(t)
	f.allocator.NextFunc = func(context.Context, string, sequence.Kind, busday.Day) (int, error) {
		return 0, apperror.NewAllocationContention("SAW")
	}

	_, err := f.svc.Create(context.Background(), CreateInput{
		BranchID:     f.sawyer.ID,
		DeliveryDate: time.Now(),
		Items:        []CreateItemInput{{ProductID: id.New(), RequiredQty: 1}},
	})
	require.Error(t, err)
	assert.True(t, apperror.IsAllocationContention(err))

	// nothing was written
	list, err := f.repo.List(context.Background(), domain.ListFilter{})
	require.NoError(t, err)
	assert.Zero(t, list.TotalCount)
}

func TestService_Create_InsertFailureLeavesGap(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	in := CreateInput{
		BranchID:     f.sawyer.ID,
		DeliveryDate: time.Now().Add(24 * time.Hour),
		Items:        []CreateItemInput{{ProductID: id.New(), RequiredQty: 1}},
	}

	f.repo.failCreate = apperror.NewInternal(context.DeadlineExceeded)
	_, err := f.svc.Create(ctx, in)
	require.Error(t, err)

	// the consumed sequence value is not reused; a gap, never a duplicate
	f.repo.failCreate = nil
	doc, err := f.svc.Create(ctx, in)
	require.NoError(t, err)
	parsed, err := sequence.ParseNumber(doc.Number)
	require.NoError(t, err)
	assert.Equal(t, 2, parsed.Seq)
}

func TestService_Create_ValidatesItems(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, CreateInput{
		BranchID:     f.sawyer.ID,
		DeliveryDate: time.Now(),
	})
	require.Error(t, err, "no items")

	_, err = f.svc.Create(ctx, CreateInput{
		BranchID:     f.sawyer.ID,
		DeliveryDate: time.Now(),
		Items:        []CreateItemInput{{ProductID: id.New(), RequiredQty: 0}},
	})
	require.Error(t, err, "zero required qty")
}

func TestService_AdvanceStage_FullLifecycle(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	doc := f.createOrder(t, CreateItemInput{ProductID: id.New(), RequiredQty: 10})
	at := time.Now()

	steps := []struct {
		stage Stage
		qty   int64
	}{
		{StageSending, 10},
		{StageConfirmed, 9},
		{StagePicked, 9},
		{StageReceived, 8},
	}

	for _, step := range steps {
		var err error
		doc, err = f.svc.AdvanceStage(ctx, AdvanceInput{
			OrderID: doc.ID,
			LineNo:  1,
			Stage:   step.stage,
			Qty:     step.qty,
			At:      at,
			Actor:   "test.user",
		})
		require.NoError(t, err)
	}

	item := doc.ItemByLineNo(1)
	require.NotNil(t, item)
	assert.True(t, item.Closed())
	assert.Equal(t, int64(-2), item.DifferenceQty)
	assert.Equal(t, OutcomeShortfall, item.StageStatus(StageConfirmed))
	assert.Equal(t, OutcomeOnTarget, item.StageStatus(StagePicked))
	assert.Equal(t, OutcomeShortfall, item.StageStatus(StageReceived))

	// lifecycle advanced the version with each write
	assert.Equal(t, 5, doc.Version)
	assert.Empty(t, mustListCorrections(t, f, doc.ID))
}

func TestService_AdvanceStage_RepeatRejectedThenCorrected(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	doc := f.createOrder(t, CreateItemInput{ProductID: id.New(), RequiredQty: 5})
	at := time.Now()

	doc, err := f.svc.AdvanceStage(ctx, AdvanceInput{
		OrderID: doc.ID, LineNo: 1, Stage: StageSending, Qty: 4, At: at,
	})
	require.NoError(t, err)

	_, err = f.svc.AdvanceStage(ctx, AdvanceInput{
		OrderID: doc.ID, LineNo: 1, Stage: StageSending, Qty: 5, At: at,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsStageAlreadySet(err))

	doc, err = f.svc.AdvanceStage(ctx, AdvanceInput{
		OrderID: doc.ID, LineNo: 1, Stage: StageSending, Qty: 5, At: at,
		Correct: true, Reason: "recount", Actor: "warehouse.lead",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), doc.ItemByLineNo(1).SendingQty)

	corrections := mustListCorrections(t, f, doc.ID)
	require.Len(t, corrections, 1)
	assert.Equal(t, int64(4), corrections[0].OldQty)
	assert.Equal(t, int64(5), corrections[0].NewQty)
	assert.Equal(t, "recount", corrections[0].Reason)
}

func TestService_AdvanceStage_StaleVersion(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	doc := f.createOrder(t, CreateItemInput{ProductID: id.New(), RequiredQty: 5})

	// reader A and reader B both saw version 1; A writes first
	_, err := f.svc.AdvanceStage(ctx, AdvanceInput{
		OrderID: doc.ID, LineNo: 1, Stage: StageSending, Qty: 5, At: time.Now(),
		ExpectedVersion: doc.Version,
	})
	require.NoError(t, err)

	_, err = f.svc.AdvanceStage(ctx, AdvanceInput{
		OrderID: doc.ID, LineNo: 1, Stage: StageConfirmed, Qty: 5, At: time.Now(),
		ExpectedVersion: doc.Version,
	})
	require.Error(t, err)
	assert.True(t, apperror.IsStaleVersion(err))
}

func TestService_AdvanceStage_UnknownLine(t *testing.T) {
	f := newServiceFixture(t)

	doc := f.createOrder(t, CreateItemInput{ProductID: id.New(), RequiredQty: 5})

	_, err := f.svc.AdvanceStage(context.Background(), AdvanceInput{
		OrderID: doc.ID, LineNo: 99, Stage: StageSending, Qty: 5, At: time.Now(),
	})
	require.Error(t, err)
	assert.True(t, apperror.IsNotFound(err))
}

func TestService_GetByNumber(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	doc := f.createOrder(t,
		CreateItemInput{ProductID: id.New(), RequiredQty: 5},
		CreateItemInput{ProductID: id.New(), RequiredQty: 3},
	)

	got, err := f.svc.GetByNumber(ctx, doc.Number)
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Len(t, got.Items, 2)

	_, err = f.svc.GetByNumber(ctx, "SAW-STC-260120-77")
	assert.True(t, apperror.IsNotFound(err))

	_, err = f.svc.GetByNumber(ctx, "not-a-number")
	require.Error(t, err)
}

func TestStockOrder_IsLive(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Bangkok")
	require.NoError(t, err)
	clock := busday.NewClock(loc)

	// created 2026-01-20 23:30 local, delivery 30 minutes later crosses the
	// local midnight, so the order is a stock order, not a live one
	created := time.Date(2026, 1, 20, 16, 30, 0, 0, time.UTC) // 23:30 local
	doc := NewStockOrder(id.New(), "SAW", created.Add(30*time.Minute))
	doc.CreatedAt = created
	assert.False(t, doc.IsLive(clock))

	doc.DeliveryDate = created.Add(10 * time.Minute) // still 23:40 local
	assert.True(t, doc.IsLive(clock))
}

func mustListCorrections(t *testing.T, f *serviceFixture, orderID id.ID) []Correction {
	t.Helper()
	out, err := f.svc.Corrections(context.Background(), orderID)
	require.NoError(t, err)
	return out
}
