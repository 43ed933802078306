package sales

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	want := time.Date(1997, 2, 3, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"1997-02-03", "1997-02-03 00:00:00", "1997-02-03T00:00:00", "1997-02-03T00:00:00Z"} {
		got, err := ParseDate(s)
		require.NoError(t, err, s)
		assert.True(t, want.Equal(got), "%s parsed as %v", s, got)
	}

	_, err := ParseDate("03/02/1997")
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	base := time.Date(1998, 5, 6, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysBetween(base, base))
	assert.Equal(t, 30, DaysBetween(base.AddDate(0, 0, -30), base))
	assert.Equal(t, 0, DaysBetween(base.Add(-23*time.Hour), base), "partial days are floored")
}

func TestYearMonth(t *testing.T) {
	a := YearMonthOf(time.Date(1996, 12, 31, 0, 0, 0, 0, time.UTC))
	b := YearMonthOf(time.Date(1997, 1, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "1996-12", a.String())
	assert.True(t, a.Before(b))
	assert.False(t, b.Before(a))
	assert.False(t, a.Before(a))
}

func TestYearMonth_MarshalText(t *testing.T) {
	b, err := YearMonth{Year: 1997, Month: time.March}.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "1997-03", string(b))
}
