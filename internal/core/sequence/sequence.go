// Package sequence provides domain contracts for per-branch-per-day document
// numbering. Implementations live in the infrastructure layer.
package sequence

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"restock/internal/core/busday"
)

// Kind identifies a numbered document family. The value doubles as the tag
// segment inside generated identifiers.
type Kind string

const (
	// KindStockOrder numbers branch stock orders.
	KindStockOrder Kind = "STC"
	// KindInStock numbers in-stock entries.
	KindInStock Kind = "INS"
	// KindReturn numbers return orders.
	KindReturn Kind = "RTN"
)

// Valid reports whether k is a known document kind.
func (k Kind) Valid() bool {
	switch k {
	case KindStockOrder, KindInStock, KindReturn:
		return true
	}
	return false
}

// Allocator issues unique sequence numbers scoped to (branchCode, kind, day).
//
// Implementations must guarantee that no two concurrent callers for the same
// scope receive the same value: the counter is a single owned mutable cell
// updated with one atomic increment-and-read. Counting existing documents and
// adding one is not an acceptable implementation.
type Allocator interface {
	// Next returns the next sequence number for the scope, starting at 1.
	Next(ctx context.Context, branchCode string, kind Kind, day busday.Day) (int, error)
}

// FormatNumber renders the public identifier contract:
// {branchCode}-{kindTag}-{YYMMDD}-{seq}.
//
// The sequence segment is zero-padded to 2 digits as a display convenience and
// widens naturally past 99; consumers must not assume a fixed width.
func FormatNumber(branchCode string, kind Kind, day busday.Day, seq int) string {
	return fmt.Sprintf("%s-%s-%s-%02d", branchCode, kind, day.Compact(), seq)
}

// Number is a parsed document identifier.
type Number struct {
	BranchCode string
	Kind       Kind
	Day        busday.Day
	Seq        int
}

// ParseNumber splits an identifier back into its segments.
func ParseNumber(s string) (Number, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 4 {
		return Number{}, fmt.Errorf("malformed document number %q", s)
	}

	kind := Kind(parts[1])
	if !kind.Valid() {
		return Number{}, fmt.Errorf("unknown document kind %q in %q", parts[1], s)
	}

	if len(parts[2]) != 6 {
		return Number{}, fmt.Errorf("malformed day segment %q in %q", parts[2], s)
	}
	yy, err1 := strconv.Atoi(parts[2][0:2])
	mm, err2 := strconv.Atoi(parts[2][2:4])
	dd, err3 := strconv.Atoi(parts[2][4:6])
	if err1 != nil || err2 != nil || err3 != nil {
		return Number{}, fmt.Errorf("malformed day segment %q in %q", parts[2], s)
	}

	seq, err := strconv.Atoi(parts[3])
	if err != nil || seq < 1 {
		return Number{}, fmt.Errorf("malformed sequence segment %q in %q", parts[3], s)
	}

	// Two-digit years cover 2000-2099; the scheme is younger than both ends.
	day := busday.NewDay(2000+yy, time.Month(mm), dd)

	return Number{
		BranchCode: parts[0],
		Kind:       kind,
		Day:        day,
		Seq:        seq,
	}, nil
}
