package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for calendar dates, e.g. "2025-03-10".
const DateLayout = "2006-01-02"

// ClockLayout is the wire format for times of day, e.g. "9:00 AM".
const ClockLayout = "3:04 PM"

var (
	// ErrNotFound is returned when the backend no longer knows the event id.
	ErrNotFound = errors.New("event not found")

	// ErrMutationPending is returned when a create/update/delete is requested
	// for an event that already has a reconciliation in flight.
	ErrMutationPending = errors.New("a sync for this event is already in flight")

	// ErrTokenExpired is returned by a TokenSource whose credential has expired.
	ErrTokenExpired = errors.New("bearer token has expired")
)

// ValidationError reports required fields that are missing or malformed.
// It is raised before any network call or store mutation.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid event: " + strings.Join(e.Fields, "; ")
}

// SyncError reports a failed exchange with the event backend: a transport
// failure, a non-2xx HTTP status, or a non-200 envelope code.
type SyncError struct {
	Op     string // "fetch", "create", "update", "delete"
	Status int    // HTTP status, 0 on transport failure
	Code   int    // envelope code, 0 if none was decoded
	Err    error  // underlying cause, may be nil
}

func (e *SyncError) Error() string {
	msg := fmt.Sprintf("%s event failed", e.Op)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Code != 0 {
		msg += fmt.Sprintf(" (code %d)", e.Code)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *SyncError) Unwrap() error { return e.Err }

// SyncState tracks how an event in the local store relates to the backend.
type SyncState int

const (
	// StateLocal is an optimistic entry the backend has not acknowledged yet.
	StateLocal SyncState = iota
	// StateSynced carries a server id and the last known server value.
	StateSynced
	// StateDeleting has a delete request in flight.
	StateDeleting
)

func (s SyncState) String() string {
	switch s {
	case StateLocal:
		return "local"
	case StateSynced:
		return "synced"
	case StateDeleting:
		return "deleting"
	default:
		return "unknown"
	}
}

// Event is the record exchanged with the event backend and held locally.
// StartTime and EndTime are the canonical time fields; any combined display
// string is derived, never stored.
type Event struct {
	ID          string `json:"id,omitempty"`
	Name        string `json:"name"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
	Place       string `json:"place,omitempty"`
	Image       string `json:"image,omitempty"`

	// LocalKey identifies a pending entry before the backend assigns an ID.
	LocalKey string    `json:"-"`
	State    SyncState `json:"-"`
}

// Key returns the identity the store indexes by: the server id once
// assigned, otherwise the local key of the pending entry.
func (e *Event) Key() string {
	if e.ID != "" {
		return e.ID
	}
	return e.LocalKey
}

// DisplayTime renders the combined time string shown in event lists,
// e.g. "9:00 AM - 9:30 AM".
func (e *Event) DisplayTime() string {
	return e.StartTime + " - " + e.EndTime
}

// EventDraft is the user-entered form data for a create or update.
type EventDraft struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Description string `json:"description"`
	Place       string `json:"place,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Validate returns a slice of error messages; nil or empty means valid.
// Place and Image are optional and never validated.
func (d EventDraft) Validate() []string {
	var errs []string
	if strings.TrimSpace(d.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(d.Description) == "" {
		errs = append(errs, "description is required")
	}
	if d.Date == "" {
		errs = append(errs, "date is required")
	} else if _, err := ParseDate(d.Date); err != nil {
		errs = append(errs, "date must be formatted YYYY-MM-DD")
	}
	start, startErr := parseClock(d.StartTime)
	if d.StartTime == "" {
		errs = append(errs, "startTime is required")
	} else if startErr != nil {
		errs = append(errs, "startTime must be a 12-hour clock time like 9:00 AM")
	}
	end, endErr := parseClock(d.EndTime)
	if d.EndTime == "" {
		errs = append(errs, "endTime is required")
	} else if endErr != nil {
		errs = append(errs, "endTime must be a 12-hour clock time like 9:30 AM")
	}
	if startErr == nil && endErr == nil && d.StartTime != "" && d.EndTime != "" && !end.After(start) {
		errs = append(errs, "endTime must be after startTime")
	}
	return errs
}

// NewLocalEvent builds the optimistic store entry for a draft that has not
// been sent to the backend yet.
func NewLocalEvent(draft EventDraft) *Event {
	return &Event{
		Name:        draft.Name,
		Date:        draft.Date,
		StartTime:   draft.StartTime,
		EndTime:     draft.EndTime,
		Description: draft.Description,
		Place:       draft.Place,
		Image:       draft.Image,
		LocalKey:    uuid.New().String(),
		State:       StateLocal,
	}
}

// ParseDate parses a wire-format calendar date into a UTC midnight instant.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

func parseClock(s string) (time.Time, error) {
	return time.Parse(ClockLayout, s)
}

// Granularity is the view mode deciding which date buckets are aggregated.
type Granularity int

const (
	GranularityDaily Granularity = iota
	GranularityWeekly
	GranularityMonthly
)

func (g Granularity) String() string {
	switch g {
	case GranularityDaily:
		return "daily"
	case GranularityWeekly:
		return "weekly"
	case GranularityMonthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// WeekStart fixes the boundary convention of the weekly view.
type WeekStart int

const (
	WeekStartSunday WeekStart = iota
	WeekStartMonday
)

// Weekday returns the time.Weekday the week begins on.
func (w WeekStart) Weekday() time.Weekday {
	if w == WeekStartMonday {
		return time.Monday
	}
	return time.Sunday
}

// EventStore is the date-keyed in-memory collection of events, the single
// source of truth for what the user sees.
type EventStore interface {
	// Upsert inserts or replaces an event by identity (Event.Key). If the
	// date changed, the event moves buckets atomically.
	Upsert(event *Event)
	// Remove deletes the event with this key from whichever bucket holds
	// it. Absent keys are a no-op, not an error.
	Remove(key string)
	// Get looks up an event by key.
	Get(key string) (*Event, bool)
	// Bucket returns the events for a date in insertion order. The returned
	// slice is a copy; mutating it does not affect the store.
	Bucket(date string) []*Event
	// All yields every (date, event) pair. The sequence is finite and
	// restartable; ordering across dates is unspecified.
	All() func(yield func(date string, event *Event) bool)
	// Len reports the number of events across all buckets.
	Len() int
}

// EventSyncAPI is the typed adapter over the remote event service. Every
// call surfaces failure exactly once; no retries, no backoff.
type EventSyncAPI interface {
	FetchForDate(ctx context.Context, date string) ([]*Event, error)
	Create(ctx context.Context, draft EventDraft) (*Event, error)
	Update(ctx context.Context, id string, draft EventDraft) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// TokenSource supplies the bearer credential attached to every backend
// request.
type TokenSource interface {
	Token() (string, error)
}

// EventService reconciles user intents against the backend and the store.
type EventService interface {
	// LoadDate fetches the backend's events for a date and reconciles the
	// matching bucket. A later LoadDate supersedes an in-flight one; the
	// superseded call returns context.Canceled and applies nothing.
	LoadDate(ctx context.Context, date string) ([]*Event, error)
	CreateEvent(ctx context.Context, draft EventDraft) (*Event, error)
	UpdateEvent(ctx context.Context, id string, draft EventDraft) (*Event, error)
	DeleteEvent(ctx context.Context, id string) error
}
