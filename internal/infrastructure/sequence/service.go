// Package sequence provides the PostgreSQL implementation of document number
// allocation. It implements core/sequence.Allocator.
package sequence

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"restock/internal/core/apperror"
	"restock/internal/core/busday"
	coresequence "restock/internal/core/sequence"
	"restock/pkg/logger"
)

// Querier interface for database operations.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	maxAttempts = 4
	baseBackoff = 15 * time.Millisecond
)

// Service allocates sequence values from the doc_sequences counter table.
// One row per (branch_code, kind, day); allocation is a single atomic
// increment-and-read, so concurrent allocators never observe the same value.
type Service struct {
	querier Querier
}

var _ coresequence.Allocator = (*Service)(nil)

func New(querier Querier) *Service {
	return &Service{querier: querier}
}

// Next returns the next sequence value for the scope. Transient database
// conflicts are retried with jittered backoff; an exhausted budget surfaces
// as ALLOCATION_CONTENTION, never as a silently reused value.
func (s *Service) Next(ctx context.Context, branchCode string, kind coresequence.Kind, day busday.Day) (int, error) {
	scope := fmt.Sprintf("%s/%s/%s", branchCode, kind, day.Compact())

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		var val int64
		err := s.querier.QueryRow(ctx, `
            INSERT INTO doc_sequences (branch_code, kind, day, current_val)
            VALUES ($1, $2, $3, 1)
            ON CONFLICT (branch_code, kind, day)
            DO UPDATE SET current_val = doc_sequences.current_val + 1
            RETURNING current_val
		`, branchCode, string(kind), day.String()).Scan(&val)
		if err == nil {
			return int(val), nil
		}
		if !retryable(err) {
			return 0, fmt.Errorf("allocate %s: %w", scope, err)
		}

		lastErr = err
		logger.Warn(ctx, "sequence allocation conflict, retrying",
			"scope", scope, "attempt", attempt)
		if attempt < maxAttempts {
			select {
			case <-ctx.Done():
				return 0, ctx.Err()
			case <-time.After(backoff(attempt)):
			}
		}
	}

	logger.Error(ctx, "sequence allocation budget exhausted",
		"scope", scope, "attempts", maxAttempts, "error", lastErr)
	return 0, apperror.NewAllocationContention(scope)
}

// retryable reports whether the error is a transient conflict worth another
// attempt: serialization failure, deadlock, or a unique violation from two
// first-writers racing the counter row into existence.
func retryable(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "40001", "40P01", "23505":
		return true
	}
	return false
}

// backoff grows the wait with each attempt and jitters it to spread out
// competing allocators.
func backoff(attempt int) time.Duration {
	d := baseBackoff * time.Duration(attempt)
	jitter := time.Duration(rand.Int63n(int64(d)))
	return d + jitter
}
