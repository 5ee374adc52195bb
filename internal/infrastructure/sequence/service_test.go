package sequence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restock/internal/core/apperror"
	"restock/internal/core/busday"
	coresequence "restock/internal/core/sequence"
)

type fakeRow struct {
	val int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.val
	return nil
}

type fakeQuerier struct {
	calls   int
	results []fakeRow
	lastSQL string
	args    [][]any
}

func (q *fakeQuerier) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	q.lastSQL = sql
	q.args = append(q.args, args)
	r := q.results[q.calls]
	if q.calls < len(q.results)-1 {
		q.calls++
	}
	return r
}

func testDay() busday.Day {
	return busday.NewDay(2026, time.January, 20)
}

func TestService_Next(t *testing.T) {
	q := &fakeQuerier{results: []fakeRow{{val: 7}}}
	svc := New(q)

	got, err := svc.Next(context.Background(), "SAW", coresequence.KindStockOrder, testDay())
	require.NoError(t, err)
	assert.Equal(t, 7, got)

	require.Len(t, q.args, 1)
	assert.Equal(t, []any{"SAW", "STC", "2026-01-20"}, q.args[0])
}

func TestService_Next_RetriesUniqueViolation(t *testing.T) {
	// two first-writers race the counter row into existence; the loser
	// retries and lands on the incremented value
	q := &fakeQuerier{results: []fakeRow{
		{err: &pgconn.PgError{Code: "23505"}},
		{val: 2},
	}}
	svc := New(q)

	got, err := svc.Next(context.Background(), "SAW", coresequence.KindStockOrder, testDay())
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Len(t, q.args, 2)
}

func TestService_Next_ContentionBudgetExhausted(t *testing.T) {
	serialization := fakeRow{err: &pgconn.PgError{Code: "40001"}}
	q := &fakeQuerier{results: []fakeRow{serialization, serialization, serialization, serialization}}
	svc := New(q)

	_, err := svc.Next(context.Background(), "SAW", coresequence.KindStockOrder, testDay())
	require.Error(t, err)
	assert.True(t, apperror.IsAllocationContention(err))
	assert.Len(t, q.args, maxAttempts)
}

func TestService_Next_NonRetryableFailsFast(t *testing.T) {
	q := &fakeQuerier{results: []fakeRow{{err: errors.New("connection refused")}}}
	svc := New(q)

	_, err := svc.Next(context.Background(), "SAW", coresequence.KindStockOrder, testDay())
	require.Error(t, err)
	assert.False(t, apperror.IsAllocationContention(err))
	assert.Len(t, q.args, 1)
}

func TestRetryable(t *testing.T) {
	assert.True(t, retryable(&pgconn.PgError{Code: "40001"}))
	assert.True(t, retryable(&pgconn.PgError{Code: "40P01"}))
	assert.True(t, retryable(&pgconn.PgError{Code: "23505"}))
	assert.False(t, retryable(&pgconn.PgError{Code: "23503"}))
	assert.False(t, retryable(errors.New("plain")))
}
