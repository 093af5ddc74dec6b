package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDraft() EventDraft {
	return EventDraft{
		Name:        "Standup",
		Date:        "2025-03-10",
		StartTime:   "9:00 AM",
		EndTime:     "9:30 AM",
		Description: "daily sync",
	}
}

func TestEventDraft_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*EventDraft)
		wantErr string // empty means valid
	}{
		{
			name:   "valid draft",
			mutate: func(d *EventDraft) {},
		},
		{
			name:   "place and image are optional",
			mutate: func(d *EventDraft) { d.Place = ""; d.Image = "" },
		},
		{
			name:    "missing name",
			mutate:  func(d *EventDraft) { d.Name = "  " },
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			mutate:  func(d *EventDraft) { d.Description = "" },
			wantErr: "description is required",
		},
		{
			name:    "missing date",
			mutate:  func(d *EventDraft) { d.Date = "" },
			wantErr: "date is required",
		},
		{
			name:    "malformed date",
			mutate:  func(d *EventDraft) { d.Date = "10/03/2025" },
			wantErr: "date must be formatted YYYY-MM-DD",
		},
		{
			name:    "missing start time",
			mutate:  func(d *EventDraft) { d.StartTime = "" },
			wantErr: "startTime is required",
		},
		{
			name:    "24-hour start time rejected",
			mutate:  func(d *EventDraft) { d.StartTime = "21:00" },
			wantErr: "startTime must be a 12-hour clock time like 9:00 AM",
		},
		{
			name:    "missing end time",
			mutate:  func(d *EventDraft) { d.EndTime = "" },
			wantErr: "endTime is required",
		},
		{
			name:    "end before start",
			mutate:  func(d *EventDraft) { d.StartTime = "2:00 PM"; d.EndTime = "1:00 PM" },
			wantErr: "endTime must be after startTime",
		},
		{
			name:    "end equal to start",
			mutate:  func(d *EventDraft) { d.StartTime = "2:00 PM"; d.EndTime = "2:00 PM" },
			wantErr: "endTime must be after startTime",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft()
			tt.mutate(&draft)
			errs := draft.Validate()
			if tt.wantErr == "" {
				assert.Empty(t, errs)
			} else {
				assert.Contains(t, errs, tt.wantErr)
			}
		})
	}
}

func TestNewLocalEvent(t *testing.T) {
	event := NewLocalEvent(validDraft())

	assert.Empty(t, event.ID)
	require.NotEmpty(t, event.LocalKey)
	assert.Equal(t, event.LocalKey, event.Key())
	assert.Equal(t, StateLocal, event.State)
	assert.Equal(t, "Standup", event.Name)

	// Two pending locals never share an identity.
	other := NewLocalEvent(validDraft())
	assert.NotEqual(t, event.Key(), other.Key())
}

func TestEvent_KeyPrefersServerID(t *testing.T) {
	event := NewLocalEvent(validDraft())
	event.ID = "ev-1"
	assert.Equal(t, "ev-1", event.Key())
}

func TestEvent_DisplayTime(t *testing.T) {
	event := &Event{StartTime: "9:00 AM", EndTime: "9:30 AM"}
	assert.Equal(t, "9:00 AM - 9:30 AM", event.DisplayTime())
}

func TestValidationError_Message(t *testing.T) {
	err := &ValidationError{Fields: []string{"name is required", "date is required"}}
	assert.Equal(t, "invalid event: name is required; date is required", err.Error())
}

func TestWeekStart_Weekday(t *testing.T) {
	assert.Equal(t, "Sunday", WeekStartSunday.Weekday().String())
	assert.Equal(t, "Monday", WeekStartMonday.Weekday().String())
}
