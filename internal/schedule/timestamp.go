package schedule

import (
	"database/sql/driver"
	"fmt"
	"math"
	"time"
)

// TimeLayout is the only timestamp format accepted and produced by the tool
// surface: no timezone, no seconds.
const TimeLayout = "2006-01-02 15:04"

// storedLayouts are the formats interval bounds may arrive in from the
// store. Postgres hands back time.Time directly; SQLite fixtures store the
// wire layout or the layout with seconds.
var storedLayouts = []string{
	TimeLayout,
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseTimestamp parses a timestamp in TimeLayout. Failures are reported as
// validation errors naming the offending field.
func ParseTimestamp(op, field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, newValidation(op, fmt.Sprintf("campo %s obbligatorio", field))
	}
	t, err := time.Parse(TimeLayout, value)
	if err != nil {
		return time.Time{}, newValidation(op, fmt.Sprintf("formato data non valido per %s: utilizzare YYYY-MM-DD HH:MM", field))
	}
	return t, nil
}

// Window is a query time span. Overlap against stored intervals is always
// strict: an interval conflicts iff start < Window.End and end >
// Window.Start, so back-to-back bookings never conflict.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow parses the two timestamp strings of a requested window.
func ParseWindow(op, startValue, endValue string) (Window, error) {
	start, err := ParseTimestamp(op, "inizio", startValue)
	if err != nil {
		return Window{}, err
	}
	end, err := ParseTimestamp(op, "fine", endValue)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: end}, nil
}

// StartString returns the window start in TimeLayout.
func (w Window) StartString() string { return w.Start.Format(TimeLayout) }

// EndString returns the window end in TimeLayout.
func (w Window) EndString() string { return w.End.Format(TimeLayout) }

// Hours returns the window duration in hours, rounded to one decimal.
func (w Window) Hours() float64 {
	return RoundHours(w.End.Sub(w.Start).Hours())
}

// RoundHours rounds an hour figure to one decimal place, half away from
// zero. All duration figures in reports go through this.
func RoundHours(h float64) float64 {
	return math.Round(h*10) / 10
}

// Timestamp scans interval bounds from the store, accepting both native
// time values and the textual layouts the SQLite fixtures use.
type Timestamp struct {
	time.Time
}

// Scan implements sql.Scanner.
func (ts *Timestamp) Scan(value any) error {
	switch v := value.(type) {
	case time.Time:
		ts.Time = v
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	case nil:
		ts.Time = time.Time{}
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Timestamp", value)
	}
}

// Value implements driver.Valuer, writing the wire layout.
func (ts Timestamp) Value() (driver.Value, error) {
	return ts.Format(TimeLayout), nil
}

func (ts *Timestamp) parse(s string) error {
	for _, layout := range storedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

// String returns the timestamp in TimeLayout.
func (ts Timestamp) String() string {
	return ts.Format(TimeLayout)
}
