// Package daterange derives the paged seven-day window shown by the schedules view.
package daterange

import (
	"time"

	"github.com/julianstephens/shiftdesk/internal/constants"
)

// Placeholder is shown when the window has no dates.
const Placeholder = "No dates"

// ComputePeriod maps a page number onto the period sent to the backend.
// Paging forward coarsens the period and never returns to base.
func ComputePeriod(pageNumber int, base string) string {
	switch {
	case pageNumber >= 5:
		return constants.PeriodYear
	case pageNumber >= 2:
		return constants.PeriodMonth
	case base == "":
		return constants.PeriodWeek
	default:
		return base
	}
}

// Dates returns WindowDays consecutive local calendar days starting
// (pageNumber-1) weeks after today.
func Dates(pageNumber int, today time.Time) []time.Time {
	start := StartOfDay(today).AddDate(0, 0, (pageNumber-1)*constants.WindowDays)
	dates := make([]time.Time, constants.WindowDays)
	for i := range dates {
		dates[i] = start.AddDate(0, 0, i)
	}
	return dates
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Keys formats dates the way schedule items carry them.
func Keys(dates []time.Time) []string {
	keys := make([]string, len(dates))
	for i, d := range dates {
		keys[i] = d.Format(constants.DateFormat)
	}
	return keys
}

// HeaderRange renders "first - last" for the window.
func HeaderRange(dates []time.Time) string {
	if len(dates) == 0 {
		return Placeholder
	}
	first := dates[0].Format(constants.HeaderDateFormat)
	last := dates[len(dates)-1].Format(constants.HeaderDateFormat)
	return first + " - " + last
}
