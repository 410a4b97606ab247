// Package daytype classifies timestamps into workdays, weekends, and holidays
// so forecast accuracy can be broken down by day type. Irradiance itself does
// not care about the calendar, but consumption-facing reports do.
package daytype

import (
	"time"

	"github.com/rickar/cal/v2"
	"github.com/rickar/cal/v2/us"
)

// DayType labels a calendar day for score breakdowns.
type DayType string

const (
	Workday DayType = "workday"
	Weekend DayType = "weekend"
	Holiday DayType = "holiday"
)

// Types lists all day types in reporting order.
var Types = []DayType{Workday, Weekend, Holiday}

// Classifier buckets timestamps using a business calendar.
type Classifier struct {
	cal *cal.BusinessCalendar
}

// NewClassifier returns a classifier backed by the standard US holiday
// calendar.
func NewClassifier() *Classifier {
	c := cal.NewBusinessCalendar()
	c.AddHoliday(us.Holidays...)
	return &Classifier{cal: c}
}

// Classify returns the day type of the given timestamp. Holidays take
// precedence over weekends.
func (c *Classifier) Classify(t time.Time) DayType {
	actual, observed, _ := c.cal.IsHoliday(t)
	if actual || observed {
		return Holiday
	}
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return Weekend
	default:
		return Workday
	}
}

// Labels classifies every timestamp, returning one label per input.
func (c *Classifier) Labels(ts []time.Time) []string {
	res := make([]string, len(ts))
	for i, t := range ts {
		res[i] = string(c.Classify(t))
	}
	return res
}
