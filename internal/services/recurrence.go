package services

import (
	"time"

	"practice-manager-server/internal/models"
)

// MaxOccurrences caps how many occurrences a single expansion pass may
// generate, so an open-ended series never grows without bound.
const MaxOccurrences = 52

// ExpandRecurrence computes the follow-up occurrence dates of a recurring
// series seeded at seed, excluding the seed itself. Each step advances the
// previous date by one frequency interval; weekly and biweekly are fixed
// 7/14 day jumps, every other non-empty frequency takes the monthly branch.
// When until is set, expansion stops as soon as a date's day component would
// land past it, so an occurrence falling exactly on the until date is still
// emitted. The result is chronologically ordered and holds at most
// MaxOccurrences entries.
func ExpandRecurrence(seed time.Time, frequency models.RecurrenceFrequency, until *time.Time) []time.Time {
	var dates []time.Time

	next := seed
	for count := 0; count < MaxOccurrences; count++ {
		switch frequency {
		case models.FrequencyWeekly:
			next = next.AddDate(0, 0, 7)
		case models.FrequencyBiweekly:
			next = next.AddDate(0, 0, 14)
		default:
			next = addCalendarMonth(next)
		}

		if until != nil && truncateToDay(next).After(truncateToDay(*until)) {
			break
		}

		dates = append(dates, next)
	}

	return dates
}

// addCalendarMonth advances t by one calendar month, clamping the day to the
// last day of the target month. time.AddDate would normalize Jan 31 to
// Mar 2/3; a series seeded at the end of a month must stay at the end of
// shorter months instead.
func addCalendarMonth(t time.Time) time.Time {
	year, month, day := t.Date()
	month++

	if last := lastDayOfMonth(year, month); day > last {
		day = last
	}

	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// lastDayOfMonth returns the number of days in the given month. The month
// may be out of the 1-12 range; time.Date normalizes it.
func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// truncateToDay strips the time-of-day component.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
