package interval

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, start, end string) Interval {
	t.Helper()
	iv, err := Parse(start, end)
	require.NoError(t, err)
	return iv
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("09:30")
	require.NoError(t, err)
	assert.Equal(t, Clock(9*60+30), c)
	assert.Equal(t, "09:30", c.String())

	for _, bad := range []string{"", "9:3", "24:00", "12:60", "noon", "09:30:00"} {
		_, err := ParseClock(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestIntervalValid(t *testing.T) {
	assert.True(t, mustParse(t, "09:00", "10:00").Valid())
	assert.False(t, mustParse(t, "10:00", "10:00").Valid(), "zero-length interval")
	assert.False(t, mustParse(t, "11:00", "10:00").Valid(), "inverted interval")
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Interval
		want bool
	}{
		{"identical", mustParse(t, "09:00", "10:00"), mustParse(t, "09:00", "10:00"), true},
		{"partial overlap", mustParse(t, "09:00", "10:00"), mustParse(t, "09:30", "10:30"), true},
		{"containment", mustParse(t, "09:00", "12:00"), mustParse(t, "10:00", "11:00"), true},
		{"touching endpoints", mustParse(t, "09:00", "10:00"), mustParse(t, "10:00", "11:00"), false},
		{"disjoint", mustParse(t, "09:00", "10:00"), mustParse(t, "14:00", "15:00"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.a, tt.b))
			assert.Equal(t, tt.want, Overlaps(tt.b, tt.a), "predicate must be symmetric")
		})
	}
}

func TestAnyOverlap(t *testing.T) {
	set := []Interval{
		mustParse(t, "09:00", "10:00"),
		mustParse(t, "11:00", "12:00"),
	}

	assert.False(t, AnyOverlap(mustParse(t, "10:00", "11:00"), set), "slot between two bookings")
	assert.True(t, AnyOverlap(mustParse(t, "09:30", "10:30"), set))
	assert.False(t, AnyOverlap(mustParse(t, "13:00", "14:00"), nil), "empty set never overlaps")
}

func TestSortByStart(t *testing.T) {
	set := []Interval{
		mustParse(t, "14:00", "15:00"),
		mustParse(t, "09:00", "10:00"),
		mustParse(t, "11:30", "12:00"),
	}
	SortByStart(set)

	assert.Equal(t, "09:00-10:00", set[0].String())
	assert.Equal(t, "11:30-12:00", set[1].String())
	assert.Equal(t, "14:00-15:00", set[2].String())
}
