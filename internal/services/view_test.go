package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"calendarsync/internal/domain"
	"calendarsync/internal/store"
)

func eventOn(id, date string) *domain.Event {
	return &domain.Event{ID: id, Name: "event " + id, Date: date, State: domain.StateSynced}
}

func ids(events []*domain.Event) []string {
	out := make([]string, 0, len(events))
	for _, ev := range events {
		out = append(out, ev.ID)
	}
	return out
}

// weekStore covers the week of Mon 2025-03-10 .. Sun 2025-03-16 plus the
// surrounding days, so boundary conventions are observable.
func weekStore() *store.Store {
	s := store.New()
	s.Upsert(eventOn("sun-9", "2025-03-09"))
	s.Upsert(eventOn("mon-10", "2025-03-10"))
	s.Upsert(eventOn("wed-12", "2025-03-12"))
	s.Upsert(eventOn("sat-15", "2025-03-15"))
	s.Upsert(eventOn("sun-16", "2025-03-16"))
	s.Upsert(eventOn("mon-17", "2025-03-17"))
	s.Upsert(eventOn("apr-1", "2025-04-01"))
	return s
}

func TestVisible_Daily(t *testing.T) {
	s := weekStore()
	s.Upsert(eventOn("mon-10b", "2025-03-10"))

	got, err := Visible(s, "2025-03-10", domain.GranularityDaily, domain.WeekStartSunday)
	require.NoError(t, err)

	// Daily is exactly the anchor's bucket, in bucket order.
	assert.Equal(t, ids(s.Bucket("2025-03-10")), ids(got))
	assert.Equal(t, []string{"mon-10", "mon-10b"}, ids(got))
}

func TestVisible_WeeklySundayStart(t *testing.T) {
	s := weekStore()

	// Anchored on Wed 2025-03-12: a Sunday-start week spans 03-09..03-15.
	got, err := Visible(s, "2025-03-12", domain.GranularityWeekly, domain.WeekStartSunday)
	require.NoError(t, err)

	assert.Equal(t, []string{"sun-9", "mon-10", "wed-12", "sat-15"}, ids(got))
}

func TestVisible_WeeklyMondayStart(t *testing.T) {
	s := weekStore()

	// Same anchor under a Monday-start convention spans 03-10..03-16.
	got, err := Visible(s, "2025-03-12", domain.GranularityWeekly, domain.WeekStartMonday)
	require.NoError(t, err)

	assert.Equal(t, []string{"mon-10", "wed-12", "sat-15", "sun-16"}, ids(got))
}

func TestVisible_WeeklyAnchorOnBoundary(t *testing.T) {
	s := weekStore()

	// Anchoring on the week's first day must not shift the window back.
	got, err := Visible(s, "2025-03-09", domain.GranularityWeekly, domain.WeekStartSunday)
	require.NoError(t, err)
	assert.Equal(t, []string{"sun-9", "mon-10", "wed-12", "sat-15"}, ids(got))

	// Anchoring on the last day keeps the same window.
	got, err = Visible(s, "2025-03-15", domain.GranularityWeekly, domain.WeekStartSunday)
	require.NoError(t, err)
	assert.Equal(t, []string{"sun-9", "mon-10", "wed-12", "sat-15"}, ids(got))
}

func TestVisible_WeeklyIsSupersetOfDaily(t *testing.T) {
	s := weekStore()

	daily, err := Visible(s, "2025-03-12", domain.GranularityDaily, domain.WeekStartSunday)
	require.NoError(t, err)
	weekly, err := Visible(s, "2025-03-12", domain.GranularityWeekly, domain.WeekStartSunday)
	require.NoError(t, err)

	assert.Subset(t, ids(weekly), ids(daily))
}

func TestVisible_Monthly(t *testing.T) {
	s := weekStore()

	got, err := Visible(s, "2025-03-20", domain.GranularityMonthly, domain.WeekStartSunday)
	require.NoError(t, err)

	// Every March event in date order; April stays out.
	assert.Equal(t, []string{"sun-9", "mon-10", "wed-12", "sat-15", "sun-16", "mon-17"}, ids(got))
	for _, ev := range got {
		assert.Equal(t, "2025-03", ev.Date[:7])
	}
}

func TestVisible_MonthlyIsSupersetOfInteriorWeek(t *testing.T) {
	s := weekStore()

	// The Monday-start week 03-10..03-16 lies fully inside March.
	weekly, err := Visible(s, "2025-03-12", domain.GranularityWeekly, domain.WeekStartMonday)
	require.NoError(t, err)
	monthly, err := Visible(s, "2025-03-12", domain.GranularityMonthly, domain.WeekStartMonday)
	require.NoError(t, err)

	assert.Subset(t, ids(monthly), ids(weekly))
}

func TestVisible_ReferentiallyTransparent(t *testing.T) {
	s := weekStore()

	first, err := Visible(s, "2025-03-12", domain.GranularityWeekly, domain.WeekStartSunday)
	require.NoError(t, err)
	second, err := Visible(s, "2025-03-12", domain.GranularityWeekly, domain.WeekStartSunday)
	require.NoError(t, err)

	assert.Equal(t, ids(first), ids(second))
	assert.Equal(t, 7, s.Len(), "visibility computation must not mutate the store")
}

func TestVisible_EmptyStore(t *testing.T) {
	s := store.New()

	for _, g := range []domain.Granularity{domain.GranularityDaily, domain.GranularityWeekly, domain.GranularityMonthly} {
		got, err := Visible(s, "2025-03-12", g, domain.WeekStartSunday)
		require.NoError(t, err)
		assert.Empty(t, got, g.String())
	}
}

func TestVisible_InvalidAnchor(t *testing.T) {
	_, err := Visible(store.New(), "12-03-2025", domain.GranularityDaily, domain.WeekStartSunday)

	var vErr *domain.ValidationError
	assert.ErrorAs(t, err, &vErr)
}

func TestHolidaysInMonth(t *testing.T) {
	holidays := []domain.Holiday{
		{Date: "2024-12-25", Name: "Christmas Day"},
		{Date: "2024-07-04", Name: "Independence Day"},
		{Date: "2024-01-01", Name: "New Year's Day"},
	}

	got, err := HolidaysInMonth(holidays, "2024-12-10")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Christmas Day", got[0].Name)

	got, err = HolidaysInMonth(holidays, "2024-03-01")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = HolidaysInMonth(holidays, "christmas")
	assert.Error(t, err)
}

func TestIsHoliday(t *testing.T) {
	holidays := []domain.Holiday{{Date: "2024-12-25", Name: "Christmas Day"}}

	assert.True(t, IsHoliday(holidays, "2024-12-25"))
	assert.False(t, IsHoliday(holidays, "2024-12-26"))
}
