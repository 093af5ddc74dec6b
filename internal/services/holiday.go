package services

import (
	"strings"

	"calendarsync/internal/domain"
)

// HolidaysInMonth returns the holidays falling in the anchor date's month,
// in the order they appear in the list.
func HolidaysInMonth(holidays []domain.Holiday, anchor string) ([]domain.Holiday, error) {
	day, err := domain.ParseDate(anchor)
	if err != nil {
		return nil, &domain.ValidationError{Fields: []string{"anchor date must be formatted YYYY-MM-DD"}}
	}
	month := day.Format("2006-01")

	var out []domain.Holiday
	for _, h := range holidays {
		if strings.HasPrefix(h.Date, month) {
			out = append(out, h)
		}
	}
	return out, nil
}

// IsHoliday reports whether the given date appears in the holiday list.
func IsHoliday(holidays []domain.Holiday, date string) bool {
	for _, h := range holidays {
		if h.Date == date {
			return true
		}
	}
	return false
}
