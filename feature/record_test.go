package feature

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Feature_Build(t *testing.T) {
	testCases := []struct {
		dat string
		hou int
		rec Record
	}{
		// Case 0, 2024-01-15 is a Monday.
		{
			dat: "2024-01-15",
			hou: 10,
			rec: Record{Hou: 10, Dow: 0, Qua: 1, Mon: 1, Yea: 2024, Doy: 15},
		},
		// Case 1, 2024-12-31 is a Tuesday and 2024 is a leap year.
		{
			dat: "2024-12-31",
			hou: 23,
			rec: Record{Hou: 23, Dow: 1, Qua: 4, Mon: 12, Yea: 2024, Doy: 366},
		},
		// Case 2, 2023-12-31 is a Sunday in a common year.
		{
			dat: "2023-12-31",
			hou: 0,
			rec: Record{Hou: 0, Dow: 6, Qua: 4, Mon: 12, Yea: 2023, Doy: 365},
		},
		// Case 3
		{
			dat: "2024-02-29",
			hou: 7,
			rec: Record{Hou: 7, Dow: 3, Qua: 1, Mon: 2, Yea: 2024, Doy: 60},
		},
		// Case 4
		{
			dat: "2025-07-01",
			hou: 18,
			rec: Record{Hou: 18, Dow: 1, Qua: 3, Mon: 7, Yea: 2025, Doy: 182},
		},
	}

	for i, tc := range testCases {
		t.Run(tc.dat, func(t *testing.T) {
			day, err := time.Parse(Layout, tc.dat)
			require.NoError(t, err)

			rec, err := Build(day, tc.hou)
			require.NoError(t, err)

			if dif := cmp.Diff(tc.rec, rec); dif != "" {
				t.Fatalf("case %d: -expected +actual:\n%s", i, dif)
			}
		})
	}
}

func Test_Feature_Build_Hour(t *testing.T) {
	day := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)

	for _, hou := range []int{-1, 24, 100} {
		_, err := Build(day, hou)
		require.Error(t, err)
		assert.True(t, IsInvalidHour(err), "hour %d", hou)
	}

	for hou := 0; hou <= 23; hou++ {
		rec, err := Build(day, hou)
		require.NoError(t, err)
		assert.Equal(t, hou, rec.Hou)
	}
}

func Test_Feature_Build_Ranges(t *testing.T) {
	day := time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 2*366; i++ {
		cur := day.AddDate(0, 0, i)

		rec, err := Build(cur, i%24)
		require.NoError(t, err)

		assert.GreaterOrEqual(t, rec.Dow, 0)
		assert.LessOrEqual(t, rec.Dow, 6)
		assert.GreaterOrEqual(t, rec.Qua, 1)
		assert.LessOrEqual(t, rec.Qua, 4)
		assert.GreaterOrEqual(t, rec.Mon, 1)
		assert.LessOrEqual(t, rec.Mon, 12)
		assert.GreaterOrEqual(t, rec.Doy, 1)
		assert.LessOrEqual(t, rec.Doy, 366)

		assert.Equal(t, cur.Year(), rec.Yea)
		assert.Equal(t, int(cur.Month()), rec.Mon)
		assert.Equal(t, cur.YearDay(), rec.Doy)
		assert.Equal(t, (int(cur.Month())+2)/3, rec.Qua)
	}
}

func Test_Feature_Build_Deterministic(t *testing.T) {
	loc := time.FixedZone("WIB", 7*60*60)

	// The clock time and the location of the given date must not leak into
	// the record.
	a, err := Build(time.Date(2024, time.March, 10, 0, 0, 0, 0, loc), 12)
	require.NoError(t, err)
	b, err := Build(time.Date(2024, time.March, 10, 23, 59, 59, 0, loc), 12)
	require.NoError(t, err)
	c, err := Build(time.Date(2024, time.March, 10, 5, 0, 0, 0, time.UTC), 12)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, a, c)
}

func Test_Feature_Build_Zero(t *testing.T) {
	_, err := Build(time.Time{}, 10)
	require.Error(t, err)
	assert.True(t, IsInvalidDate(err))
}

func Test_Feature_Parse(t *testing.T) {
	rec, err := Parse("2024-01-15", 10)
	require.NoError(t, err)
	assert.Equal(t, Record{Hou: 10, Dow: 0, Qua: 1, Mon: 1, Yea: 2024, Doy: 15}, rec)

	_, err = Parse("15/01/2024", 10)
	require.Error(t, err)
	assert.True(t, IsInvalidDate(err))

	_, err = Parse("2024-01-15", 24)
	require.Error(t, err)
	assert.True(t, IsInvalidHour(err))
}

func Test_Feature_Record_Map(t *testing.T) {
	rec := Record{Hou: 23, Dow: 1, Qua: 4, Mon: 12, Yea: 2024, Doy: 366}

	exp := map[string]int{
		"hour":      23,
		"dayofweek": 1,
		"quarter":   4,
		"month":     12,
		"year":      2024,
		"dayofyear": 366,
	}

	if dif := cmp.Diff(exp, rec.Map()); dif != "" {
		t.Fatalf("-expected +actual:\n%s", dif)
	}

	assert.Equal(t, []int{23, 1, 4, 12, 2024, 366}, rec.Values())
}
