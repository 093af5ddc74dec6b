// Package store holds the in-memory, date-bucketed event collection that
// backs the calendar views.
package store

import (
	"sync"

	"calendarsync/internal/domain"
)

// Store maps calendar dates to their events in insertion order. Every event
// lives in exactly one bucket, the one matching its current date. Safe for
// concurrent use; reconciliations may run on separate goroutines. Bucket
// snapshots hand out the stored pointers, so writers change an event by
// upserting a replacement value, not by writing fields of a stored entry.
type Store struct {
	mu      sync.Mutex
	buckets map[string][]*domain.Event
	dates   map[string]string // event key -> bucket date
}

// New returns an empty store.
func New() *Store {
	return &Store{
		buckets: make(map[string][]*domain.Event),
		dates:   make(map[string]string),
	}
}

// Upsert inserts or replaces an event by identity. A pending local entry is
// matched by its local key even after the backend assigned it an id, so
// confirming a create replaces the optimistic entry instead of duplicating
// it. If the event's date changed, it leaves the old bucket and is appended
// to the new one.
func (s *Store) Upsert(event *domain.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	oldKey, oldDate, found := s.locate(event)
	if !found {
		s.buckets[event.Date] = append(s.buckets[event.Date], event)
		s.dates[event.Key()] = event.Date
		return
	}

	if oldDate == event.Date {
		// Replace in place, keeping the bucket position.
		bucket := s.buckets[oldDate]
		for i, ev := range bucket {
			if ev == event || ev.Key() == oldKey {
				bucket[i] = event
				break
			}
		}
	} else {
		bucket := s.buckets[oldDate]
		for i, ev := range bucket {
			if ev == event || ev.Key() == oldKey {
				bucket = append(bucket[:i], bucket[i+1:]...)
				break
			}
		}
		if len(bucket) == 0 {
			delete(s.buckets, oldDate)
		} else {
			s.buckets[oldDate] = bucket
		}
		s.buckets[event.Date] = append(s.buckets[event.Date], event)
	}

	if oldKey != event.Key() {
		delete(s.dates, oldKey)
	}
	s.dates[event.Key()] = event.Date
}

// locate resolves the stored entry this event replaces. Identity is the
// server id when set, falling back to the local key so a freshly synced
// event still matches its optimistic predecessor.
func (s *Store) locate(event *domain.Event) (key, date string, found bool) {
	if event.ID != "" {
		if d, ok := s.dates[event.ID]; ok {
			return event.ID, d, true
		}
	}
	if event.LocalKey != "" {
		if d, ok := s.dates[event.LocalKey]; ok {
			return event.LocalKey, d, true
		}
	}
	return "", "", false
}

// Remove deletes the event with this key. Absent keys are a no-op.
func (s *Store) Remove(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date, ok := s.dates[key]
	if !ok {
		return
	}
	s.removeFromBucket(date, key)
	delete(s.dates, key)
}

func (s *Store) removeFromBucket(date, key string) {
	bucket := s.buckets[date]
	for i, ev := range bucket {
		if ev.Key() == key {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(s.buckets, date)
	} else {
		s.buckets[date] = bucket
	}
}

// Get looks up an event by key.
func (s *Store) Get(key string) (*domain.Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	date, ok := s.dates[key]
	if !ok {
		return nil, false
	}
	for _, ev := range s.buckets[date] {
		if ev.Key() == key {
			return ev, true
		}
	}
	return nil, false
}

// Bucket returns the events for a date in insertion order. The slice is a
// copy; callers may not mutate the store through it.
func (s *Store) Bucket(date string) []*domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	bucket := s.buckets[date]
	out := make([]*domain.Event, len(bucket))
	copy(out, bucket)
	return out
}

// All yields every (date, event) pair. Each range over the returned sequence
// observes a fresh snapshot; ordering across dates is unspecified.
func (s *Store) All() func(yield func(date string, event *domain.Event) bool) {
	return func(yield func(string, *domain.Event) bool) {
		s.mu.Lock()
		snapshot := make(map[string][]*domain.Event, len(s.buckets))
		for date, bucket := range s.buckets {
			events := make([]*domain.Event, len(bucket))
			copy(events, bucket)
			snapshot[date] = events
		}
		s.mu.Unlock()

		for date, events := range snapshot {
			for _, ev := range events {
				if !yield(date, ev) {
					return
				}
			}
		}
	}
}

// Len reports the number of events across all buckets.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, bucket := range s.buckets {
		n += len(bucket)
	}
	return n
}
