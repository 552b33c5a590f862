// Package report builds revenue reports over completed orders: the tabular layout used
// for exports, the aggregate statistics and the per-product breakdown.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/lumishop/shopadmin/internal/shared/biztime"
)

type Type string

const (
	TypeDaily   Type = "daily"
	TypeMonthly Type = "monthly"
	TypeYearly  Type = "yearly"
)

func ParseType(s string) (Type, error) {
	switch t := Type(strings.ToLower(strings.TrimSpace(s))); t {
	case TypeDaily, TypeMonthly, TypeYearly:
		return t, nil
	}
	return "", fmt.Errorf("unknown report type: %q (daily, monthly or yearly)", s)
}

// Window is the business-timezone period a report covers, as an inclusive UTC range.
type Window struct {
	Type  Type
	Label string // "2025-01-15", "2025-01" or "2025"
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the window, both ends inclusive.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// NewWindow resolves the reference date for a report type. Daily reports take YYYY-MM-DD,
// monthly ones YYYY-MM-DD or YYYY-MM, yearly ones YYYY-MM-DD or YYYY.
func NewWindow(t Type, date string) (Window, error) {
	date = strings.TrimSpace(date)

	switch t {
	case TypeDaily:
		day, err := biztime.ParseInBizTimezone("2006-01-02", date)
		if err != nil {
			return Window{}, err
		}
		return Window{
			Type:  t,
			Label: day.Format("2006-01-02"),
			Start: biztime.StartOfDayUTC(day),
			End:   biztime.EndOfDayUTC(day),
		}, nil

	case TypeMonthly:
		ref, err := parseFirst(date, "2006-01-02", "2006-01")
		if err != nil {
			return Window{}, err
		}
		return Window{
			Type:  t,
			Label: ref.Format("2006-01"),
			Start: biztime.StartOfMonthUTC(ref.Year(), ref.Month()),
			End:   biztime.EndOfMonthUTC(ref.Year(), ref.Month()),
		}, nil

	case TypeYearly:
		ref, err := parseFirst(date, "2006-01-02", "2006")
		if err != nil {
			return Window{}, err
		}
		return Window{
			Type:  t,
			Label: ref.Format("2006"),
			Start: biztime.StartOfYearUTC(ref.Year()),
			End:   biztime.EndOfYearUTC(ref.Year()),
		}, nil
	}

	return Window{}, fmt.Errorf("unknown report type: %q", t)
}

func parseFirst(value string, layouts ...string) (time.Time, error) {
	var lastErr error
	for _, layout := range layouts {
		t, err := biztime.ParseInBizTimezone(layout, value)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
