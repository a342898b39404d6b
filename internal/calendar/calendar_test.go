package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GoldSentinel/internal/model"
)

func testTable() HolidayTable {
	return HolidayTable{
		2026: {
			"2026-01-01": "New Year's Day",
			"2026-04-03": "Good Friday",
			"2026-04-05": "Easter Sunday",
			"2026-12-26": "Boxing Day",
		},
	}
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
}

func TestClassify(t *testing.T) {
	c := NewClassifier(testTable(), DefaultWeekendPolicy(), "Standard hours 9:00-17:00", nil)

	tests := []struct {
		name string
		at   time.Time
		want model.TradingStatus
	}{
		{"holiday on weekday", day(2026, 4, 3), model.ClosedHoliday("Good Friday")},
		{"holiday on sunday wins over weekend", day(2026, 4, 5), model.ClosedHoliday("Easter Sunday")},
		{"holiday on saturday wins over restricted hours", day(2026, 12, 26), model.ClosedHoliday("Boxing Day")},
		{"sunday", day(2026, 3, 8), model.ClosedWeekly("Sunday")},
		{"saturday restricted", day(2026, 3, 7), model.Open("Saturday hours 9:00-13:00")},
		{"weekday", day(2026, 3, 9), model.Open("Standard hours 9:00-17:00")},
		{"year missing from table", day(2027, 3, 9), model.UnknownStatus()},
		{"sunday in missing year is still closed", day(2027, 3, 7), model.ClosedWeekly("Sunday")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(tt.at))
		})
	}
}

func TestClassify_SaturdayClosedPolicy(t *testing.T) {
	policy := WeekendPolicy{ClosedDays: []time.Weekday{time.Saturday, time.Sunday}}
	c := NewClassifier(testTable(), policy, "open", nil)

	assert.Equal(t, model.ClosedWeekly("Saturday"), c.Classify(day(2026, 3, 7)))
	assert.Equal(t, model.ClosedWeekly("Sunday"), c.Classify(day(2026, 3, 8)))
	assert.Equal(t, model.Open("open"), c.Classify(day(2026, 3, 9)))
}

func TestClassify_UsesStoreTimezone(t *testing.T) {
	sydney := time.FixedZone("AEDT", 11*60*60)
	c := NewClassifier(testTable(), DefaultWeekendPolicy(), "open", sydney)

	// 2025-12-31 20:00 UTC is already New Year's Day in Sydney.
	at := time.Date(2025, 12, 31, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, model.ClosedHoliday("New Year's Day"), c.Classify(at))
}

func TestClassify_EmptyTableNeverDefaultsOpen(t *testing.T) {
	c := NewClassifier(nil, DefaultWeekendPolicy(), "open", nil)
	status := c.Classify(day(2026, 3, 9))
	assert.Equal(t, model.StatusUnknown, status.Kind)
	assert.False(t, status.IsClosed())
}

func TestYears(t *testing.T) {
	table := testTable()
	table[2025] = map[string]string{"2025-12-25": "Christmas Day"}
	c := NewClassifier(table, DefaultWeekendPolicy(), "", nil)
	assert.Equal(t, []int{2025, 2026}, c.Years())
	assert.True(t, c.HasYear(2026))
	assert.False(t, c.HasYear(2030))
}

func TestHolidayTableValidate(t *testing.T) {
	require.NoError(t, testTable().Validate())

	bad := HolidayTable{2026: {"2026-13-01": "nope"}}
	assert.Error(t, bad.Validate())

	wrongYear := HolidayTable{2026: {"2027-01-01": "New Year's Day"}}
	assert.Error(t, wrongYear.Validate())
}

func TestParseWeekday(t *testing.T) {
	d, err := ParseWeekday("Saturday")
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, d)

	d, err = ParseWeekday(" sun ")
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, d)

	_, err = ParseWeekday("funday")
	assert.Error(t, err)
}
