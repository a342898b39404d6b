// Package calendar classifies a day as open, closed, or unknown for the retail store.
package calendar

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"GoldSentinel/internal/model"
)

const dateLayout = "2006-01-02"

// HolidayTable maps a year to its holidays, keyed by "2006-01-02" date strings.
type HolidayTable map[int]map[string]string

// WeekendPolicy describes the regular non-trading days and the days that
// trade with restricted hours.
type WeekendPolicy struct {
	ClosedDays     []time.Weekday
	RestrictedDays map[time.Weekday]string // weekday -> hours note
}

// DefaultWeekendPolicy closes on Sunday and trades restricted hours on Saturday.
func DefaultWeekendPolicy() WeekendPolicy {
	return WeekendPolicy{
		ClosedDays:     []time.Weekday{time.Sunday},
		RestrictedDays: map[time.Weekday]string{time.Saturday: "Saturday hours 9:00-13:00"},
	}
}

func (p WeekendPolicy) isClosed(day time.Weekday) bool {
	for _, d := range p.ClosedDays {
		if d == day {
			return true
		}
	}
	return false
}

// Classifier maps a date to a TradingStatus.
type Classifier struct {
	Holidays HolidayTable
	Weekend  WeekendPolicy
	OpenNote string
	Location *time.Location // store timezone, UTC when nil
}

// NewClassifier creates a Classifier.
func NewClassifier(holidays HolidayTable, weekend WeekendPolicy, openNote string, loc *time.Location) *Classifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Classifier{Holidays: holidays, Weekend: weekend, OpenNote: openNote, Location: loc}
}

// Classify returns the trading status for the store-local date of t.
//
// Precedence: holiday match, weekly closed day, missing year (unknown),
// restricted-hours day, standard hours.
func (c *Classifier) Classify(t time.Time) model.TradingStatus {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)

	yearTable, haveYear := c.Holidays[local.Year()]
	if name, ok := yearTable[local.Format(dateLayout)]; ok {
		return model.ClosedHoliday(name)
	}

	day := local.Weekday()
	if c.Weekend.isClosed(day) {
		return model.ClosedWeekly(day.String())
	}

	if !haveYear {
		return model.UnknownStatus()
	}

	if note, ok := c.Weekend.RestrictedDays[day]; ok {
		return model.Open(note)
	}
	return model.Open(c.OpenNote)
}

// HasYear reports whether the holiday table covers the given year.
func (c *Classifier) HasYear(year int) bool {
	_, ok := c.Holidays[year]
	return ok
}

// Years lists the years covered by the holiday table in ascending order.
func (c *Classifier) Years() []int {
	years := make([]int, 0, len(c.Holidays))
	for y := range c.Holidays {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Validate checks that every holiday key is a date inside its year.
func (t HolidayTable) Validate() error {
	for year, days := range t {
		for key := range days {
			date, err := time.Parse(dateLayout, key)
			if err != nil {
				return fmt.Errorf("holiday %q: %w", key, err)
			}
			if date.Year() != year {
				return fmt.Errorf("holiday %q listed under year %d", key, year)
			}
		}
	}
	return nil
}

// ParseWeekday accepts full or three-letter English weekday names.
func ParseWeekday(s string) (time.Weekday, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if name == full || name == full[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", s)
}
