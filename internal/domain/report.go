package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const dayLayout = "2006-01-02"

// Window is a half-open time interval [Start, End).
type Window struct {
	Start time.Time
	End   time.Time
}

type Totals struct {
	Revenue   decimal.Decimal
	Profit    decimal.Decimal
	SaleCount int
}

type Summary struct {
	StockValue    decimal.Decimal
	TotalProducts int
	Today         Totals
	Week          Totals
	Month         Totals
	Year          Totals
	LowStock      []Product
	RecentSales   []Sale
}

// Window converts an inclusive filter into a half-open window. Missing bounds
// stay zero and mean unbounded.
func (f SaleFilter) Window() Window {
	var w Window
	if f.From != nil {
		w.Start = *f.From
	}
	if f.To != nil {
		w.End = f.To.Add(time.Millisecond)
	}
	return w
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay is the last millisecond of t's day, the inclusive upper bound of a
// date-range query.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// StartOfWeek returns Monday 00:00 of the week containing t.
func StartOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return StartOfDay(t).AddDate(0, 0, -offset)
}

func TodayWindow(now time.Time) Window {
	start := StartOfDay(now)
	return Window{Start: start, End: start.AddDate(0, 0, 1)}
}

func WeekWindow(now time.Time) Window {
	return Window{Start: StartOfWeek(now), End: StartOfDay(now).AddDate(0, 0, 1)}
}

func MonthWindow(now time.Time) Window {
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: StartOfDay(now).AddDate(0, 0, 1)}
}

func YearWindow(now time.Time) Window {
	start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	return Window{Start: start, End: StartOfDay(now).AddDate(0, 0, 1)}
}

// ParseDay accepts YYYY-MM-DD (interpreted in loc) or an RFC 3339 timestamp.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(dayLayout, value, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
}

// NewSaleFilter turns optional from/to days into a SaleFilter: from starts at
// midnight, to runs through 23:59:59.999.
func NewSaleFilter(from, to string, loc *time.Location) (SaleFilter, error) {
	var filter SaleFilter
	if from != "" {
		t, err := ParseDay(from, loc)
		if err != nil {
			return SaleFilter{}, err
		}
		start := StartOfDay(t)
		filter.From = &start
	}
	if to != "" {
		t, err := ParseDay(to, loc)
		if err != nil {
			return SaleFilter{}, err
		}
		end := EndOfDay(t)
		filter.To = &end
	}
	return filter, nil
}
