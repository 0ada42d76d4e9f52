package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestWorkdays(t *testing.T) {
	t.Run("reference table from a Wednesday", func(t *testing.T) {
		wed := day(2018, time.August, 1)
		expected := []int{1, 2, 3, 3, 3, 4}
		for i, want := range expected {
			got := Workdays(wed, wed.AddDate(0, 0, i+1))
			assert.Equal(t, want, got, "span of %d days", i+1)
		}
		assert.Equal(t, 8, Workdays(wed, day(2018, time.August, 13)))
	})

	t.Run("aligned whole week", func(t *testing.T) {
		assert.Equal(t, 5, Workdays(day(2018, time.August, 13), day(2018, time.August, 20)))
	})

	t.Run("same day is zero", func(t *testing.T) {
		for _, d := range []time.Time{
			day(2018, time.August, 1),
			day(2018, time.August, 4), // Saturday
			day(2020, time.February, 29),
		} {
			assert.Equal(t, 0, Workdays(d, d))
		}
	})

	t.Run("antisymmetric", func(t *testing.T) {
		pairs := [][2]time.Time{
			{day(2018, time.August, 1), day(2018, time.August, 13)},
			{day(2020, time.January, 6), day(2020, time.March, 2)},
			{day(2019, time.December, 24), day(2020, time.January, 2)},
		}
		for _, p := range pairs {
			assert.Equal(t, Workdays(p[0], p[1]), -Workdays(p[1], p[0]))
		}
	})

	t.Run("weekend only span", func(t *testing.T) {
		// Saturday to Monday contains no workdays.
		assert.Equal(t, 0, Workdays(day(2018, time.August, 4), day(2018, time.August, 6)))
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		from := time.Date(2018, time.August, 1, 17, 30, 12, 0, time.Local)
		to := time.Date(2018, time.August, 2, 9, 0, 0, 0, time.Local)
		assert.Equal(t, 1, Workdays(from, to))
	})
}

func TestWeeks(t *testing.T) {
	assert.Equal(t, 1.0, Weeks(day(2018, time.August, 13), day(2018, time.August, 20)))
	assert.Equal(t, 0.0, Weeks(day(2018, time.August, 13), day(2018, time.August, 13)))
	assert.InDelta(t, 12.0/7, Weeks(day(2018, time.August, 1), day(2018, time.August, 13)), 1e-9)
	assert.Equal(t, -1.0, Weeks(day(2018, time.August, 20), day(2018, time.August, 13)))
}

func TestResolveTime(t *testing.T) {
	t.Run("full and short forms", func(t *testing.T) {
		tod, err := ResolveTime("09:30:15")
		require.NoError(t, err)
		assert.Equal(t, TimeOfDay{9, 30, 15}, tod)

		tod, err = ResolveTime("9:30")
		require.NoError(t, err)
		assert.Equal(t, TimeOfDay{9, 30, 0}, tod)
	})

	t.Run("bare hour retried with minutes", func(t *testing.T) {
		tod, err := ResolveTime("9")
		require.NoError(t, err)
		assert.Equal(t, TimeOfDay{9, 0, 0}, tod)
	})

	t.Run("garbage fails", func(t *testing.T) {
		_, err := ResolveTime("noon-ish")
		require.ErrorIs(t, err, ErrUnparseableTime)
	})
}

func TestResolveDate(t *testing.T) {
	t.Run("strict format first", func(t *testing.T) {
		d, err := ResolveDate("2020-01-06")
		require.NoError(t, err)
		assert.Equal(t, day(2020, time.January, 6), d)
	})

	t.Run("free-form fallback", func(t *testing.T) {
		d, err := ResolveDate("Jan 6, 2020")
		require.NoError(t, err)
		assert.Equal(t, day(2020, time.January, 6), d)
	})

	t.Run("garbage fails", func(t *testing.T) {
		_, err := ResolveDate("notadate")
		require.ErrorIs(t, err, ErrUnparseableDate)
	})
}

func TestResolveDateTime(t *testing.T) {
	fixed := time.Date(2020, time.January, 8, 14, 30, 0, 0, time.Local)
	clock := func() time.Time { return fixed }

	t.Run("date and time", func(t *testing.T) {
		got, err := ResolveDateTime("2020-01-06 09:00", nil, clock)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2020, time.January, 6, 9, 0, 0, 0, time.Local), got)
	})

	t.Run("now uses the clock", func(t *testing.T) {
		got, err := ResolveDateTime("now", nil, clock)
		require.NoError(t, err)
		assert.Equal(t, fixed, got)
	})

	t.Run("lone time borrows the reference date", func(t *testing.T) {
		ref := time.Date(2020, time.January, 6, 9, 0, 0, 0, time.Local)
		got, err := ResolveDateTime("12:00", &ref, clock)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2020, time.January, 6, 12, 0, 0, 0, time.Local), got)
	})

	t.Run("lone time without reference fails", func(t *testing.T) {
		_, err := ResolveDateTime("12:00", nil, clock)
		require.ErrorIs(t, err, ErrMissingTime)
	})

	t.Run("bad date propagates", func(t *testing.T) {
		_, err := ResolveDateTime("notadate 09:00", nil, clock)
		require.ErrorIs(t, err, ErrUnparseableDate)
	})
}
