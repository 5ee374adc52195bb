package busday

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustClock(t *testing.T, name string) Clock {
	t.Helper()
	c, err := LoadClock(name)
	require.NoError(t, err)
	return c
}

func TestDayOf_MidnightBoundary(t *testing.T) {
	// Bangkok is UTC+7 year-round (no DST), so the boundary is stable.
	clock := mustClock(t, "Asia/Bangkok")

	// 23:44 local and 00:14 local the next day are 30 minutes apart in UTC
	// but must land on different business days.
	before := time.Date(2026, 1, 20, 16, 44, 0, 0, time.UTC) // 23:44 Bangkok
	after := time.Date(2026, 1, 20, 17, 14, 0, 0, time.UTC)  // 00:14 Bangkok, Jan 21

	assert.Equal(t, NewDay(2026, time.January, 20), clock.DayOf(before))
	assert.Equal(t, NewDay(2026, time.January, 21), clock.DayOf(after))
}

func TestDayOf_LastSecondStaysInDay(t *testing.T) {
	clock := mustClock(t, "Asia/Bangkok")

	// 23:59:59 local must fall on that local day regardless of the server zone.
	lastSecond := time.Date(2026, 1, 20, 23, 59, 59, 0, clock.Location())

	day := clock.DayOf(lastSecond.UTC())
	assert.Equal(t, NewDay(2026, time.January, 20), day)

	start, end := clock.Window(day, day)
	utc := lastSecond.UTC()
	assert.False(t, utc.Before(start))
	assert.True(t, utc.Before(end))

	// And never in the next day's window.
	nextStart, nextEnd := clock.Window(day.Next(), day.Next())
	assert.True(t, utc.Before(nextStart))
	assert.True(t, utc.Before(nextEnd))
}

func TestWindow_InclusiveDays(t *testing.T) {
	clock := mustClock(t, "Asia/Bangkok")

	from := NewDay(2026, time.January, 1)
	to := NewDay(2026, time.January, 31)

	start, end := clock.Window(from, to)
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, clock.Location()), start)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, clock.Location()), end)
}

func TestDay_Compact(t *testing.T) {
	assert.Equal(t, "260120", NewDay(2026, time.January, 20).Compact())
	assert.Equal(t, "991231", NewDay(1999, time.December, 31).Compact())
	assert.Equal(t, "000101", NewDay(2000, time.January, 1).Compact())
}

func TestDay_Ordering(t *testing.T) {
	a := NewDay(2026, time.January, 20)
	b := NewDay(2026, time.January, 21)
	c := NewDay(2026, time.February, 1)

	assert.True(t, a.Before(b))
	assert.True(t, b.Before(c))
	assert.True(t, c.After(a))
	assert.False(t, a.Before(a))
	assert.Equal(t, b, a.Next())
}

func TestDay_NextNormalizesMonthEnd(t *testing.T) {
	assert.Equal(t, NewDay(2026, time.February, 1), NewDay(2026, time.January, 31).Next())
	assert.Equal(t, NewDay(2027, time.January, 1), NewDay(2026, time.December, 31).Next())
	// 2028 is a leap year.
	assert.Equal(t, NewDay(2028, time.February, 29), NewDay(2028, time.February, 28).Next())
}

func TestParse(t *testing.T) {
	d, err := Parse("2026-01-20")
	require.NoError(t, err)
	assert.Equal(t, NewDay(2026, time.January, 20), d)

	_, err = Parse("20-01-2026")
	assert.Error(t, err)

	_, err = Parse("")
	assert.Error(t, err)
}
