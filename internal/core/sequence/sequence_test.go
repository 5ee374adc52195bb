package sequence

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restock/internal/core/busday"
)

func TestFormatNumber(t *testing.T) {
	day := busday.NewDay(2026, time.January, 20)

	tests := []struct {
		name string
		code string
		kind Kind
		seq  int
		want string
	}{
		{"first of day", "SAW", KindStockOrder, 1, "SAW-STC-260120-01"},
		{"second of day", "SAW", KindStockOrder, 2, "SAW-STC-260120-02"},
		{"two digit", "SAW", KindInStock, 42, "SAW-INS-260120-42"},
		{"widens past 99", "SAW", KindReturn, 100, "SAW-RTN-260120-100"},
		{"widens further", "SAW", KindStockOrder, 1234, "SAW-STC-260120-1234"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatNumber(tt.code, tt.kind, day, tt.seq))
		})
	}
}

func TestParseNumber_RoundTrip(t *testing.T) {
	day := busday.NewDay(2026, time.January, 20)

	for _, seq := range []int{1, 9, 99, 100, 4711} {
		formatted := FormatNumber("SAW", KindStockOrder, day, seq)
		parsed, err := ParseNumber(formatted)
		require.NoError(t, err, formatted)
		assert.Equal(t, "SAW", parsed.BranchCode)
		assert.Equal(t, KindStockOrder, parsed.Kind)
		assert.Equal(t, day, parsed.Day)
		assert.Equal(t, seq, parsed.Seq)
	}
}

func TestParseNumber_Malformed(t *testing.T) {
	for _, s := range []string{
		"",
		"SAW-STC-260120",
		"SAW-XXX-260120-01",
		"SAW-STC-2601-01",
		"SAW-STC-260120-00",
		"SAW-STC-260120-ab",
	} {
		_, err := ParseNumber(s)
		assert.Error(t, err, s)
	}
}

func TestMockAllocator_PerScopeCounters(t *testing.T) {
	alloc := NewMockAllocator()
	ctx := context.Background()
	day := busday.NewDay(2026, time.January, 20)

	seq, err := alloc.Next(ctx, "SAW", KindStockOrder, day)
	require.NoError(t, err)
	assert.Equal(t, 1, seq)

	seq, err = alloc.Next(ctx, "SAW", KindStockOrder, day)
	require.NoError(t, err)
	assert.Equal(t, 2, seq)

	// Different kind, branch or day starts over.
	seq, _ = alloc.Next(ctx, "SAW", KindInStock, day)
	assert.Equal(t, 1, seq)
	seq, _ = alloc.Next(ctx, "NRT", KindStockOrder, day)
	assert.Equal(t, 1, seq)
	seq, _ = alloc.Next(ctx, "SAW", KindStockOrder, day.Next())
	assert.Equal(t, 1, seq)
}

func TestMockAllocator_ConcurrentScopeYieldsExactSet(t *testing.T) {
	alloc := NewMockAllocator()
	ctx := context.Background()
	day := busday.NewDay(2026, time.January, 20)

	const n = 100
	results := make(chan int, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := alloc.Next(ctx, "SAW", KindStockOrder, day)
			require.NoError(t, err)
			results <- seq
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int]bool, n)
	for seq := range results {
		assert.False(t, seen[seq], "duplicate sequence %d", seq)
		seen[seq] = true
	}
	// The resulting set is exactly {1..n}.
	for i := 1; i <= n; i++ {
		assert.True(t, seen[i], "missing sequence %d", i)
	}
}
