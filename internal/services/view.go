package services

import (
	"time"

	"calendarsync/internal/domain"
)

// Visible computes the events shown for an anchor date under a granularity.
// It never mutates the store and is referentially transparent given the
// store's current contents.
//
// Daily is exactly the anchor's bucket. Weekly is the union of the buckets
// of the 7-day span containing the anchor, both boundaries inclusive, under
// the given week-start convention, in date order then bucket order. Monthly
// is the union over every day of the anchor's month, in date order.
func Visible(store domain.EventStore, anchor string, granularity domain.Granularity, weekStart domain.WeekStart) ([]*domain.Event, error) {
	day, err := domain.ParseDate(anchor)
	if err != nil {
		return nil, &domain.ValidationError{Fields: []string{"anchor date must be formatted YYYY-MM-DD"}}
	}

	switch granularity {
	case domain.GranularityWeekly:
		return collectRange(store, startOfWeek(day, weekStart), 7), nil
	case domain.GranularityMonthly:
		first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return collectRange(store, first, daysInMonth(day)), nil
	default:
		return store.Bucket(anchor), nil
	}
}

// collectRange unions the buckets of n consecutive days starting at from.
func collectRange(store domain.EventStore, from time.Time, n int) []*domain.Event {
	var out []*domain.Event
	for i := 0; i < n; i++ {
		date := from.AddDate(0, 0, i).Format(domain.DateLayout)
		out = append(out, store.Bucket(date)...)
	}
	return out
}

// startOfWeek returns the first day of the canonical week containing day.
func startOfWeek(day time.Time, weekStart domain.WeekStart) time.Time {
	offset := (int(day.Weekday()) - int(weekStart.Weekday()) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

func daysInMonth(day time.Time) int {
	// Day zero of the next month is the last day of this one.
	return time.Date(day.Year(), day.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
