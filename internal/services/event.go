package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"calendarsync/internal/domain"
)

type eventService struct {
	store  domain.EventStore
	api    domain.EventSyncAPI
	logger *slog.Logger

	contextTimeout time.Duration

	mu       sync.Mutex
	inflight map[string]struct{} // event keys with a reconciliation pending
	loadGen  uint64
	loadStop context.CancelFunc
}

// NewEventService returns the reconciler that translates user intents into
// optimistic store mutations, exactly one backend call each, and a
// confirming or compensating mutation.
func NewEventService(store domain.EventStore, api domain.EventSyncAPI, logger *slog.Logger, timeout time.Duration) domain.EventService {
	return &eventService{
		store:          store,
		api:            api,
		logger:         logger,
		contextTimeout: timeout,
		inflight:       make(map[string]struct{}),
	}
}

// acquire marks an event identity as having a reconciliation in flight.
// A second mutation for the same identity is rejected, not queued, so the
// store never holds two competing pending states for one event.
func (s *eventService) acquire(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.inflight[key]; ok {
		return domain.ErrMutationPending
	}
	s.inflight[key] = struct{}{}
	return nil
}

func (s *eventService) release(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, key)
}

func (s *eventService) CreateEvent(ctx context.Context, draft domain.EventDraft) (*domain.Event, error) {
	if errs := draft.Validate(); len(errs) > 0 {
		return nil, &domain.ValidationError{Fields: errs}
	}

	event := domain.NewLocalEvent(draft)
	if err := s.acquire(event.Key()); err != nil {
		return nil, err
	}
	defer s.release(event.Key())

	s.store.Upsert(event)

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	created, err := s.api.Create(ctx, draft)
	if err != nil {
		// Roll the optimistic entry back; the store must not keep an
		// event the backend never accepted.
		s.store.Remove(event.Key())
		return nil, fmt.Errorf("create event: %w", err)
	}

	// Confirm the same logical entry with its server identity. The stored
	// pointer is replaced, not written to: bucket readers may hold it.
	// Re-applying an already confirmed entry is a no-op.
	confirmed := *created
	confirmed.LocalKey = event.LocalKey
	confirmed.State = domain.StateSynced
	s.store.Upsert(&confirmed)

	s.logger.Info("event created", "id", confirmed.ID, "date", confirmed.Date)
	return &confirmed, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, id string, draft domain.EventDraft) (*domain.Event, error) {
	if id == "" {
		return nil, &domain.ValidationError{Fields: []string{"id is required; only synced events can be updated"}}
	}
	if errs := draft.Validate(); len(errs) > 0 {
		return nil, &domain.ValidationError{Fields: errs}
	}

	if err := s.acquire(id); err != nil {
		return nil, err
	}
	defer s.release(id)

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	// No optimistic mutation here: for existing events the server is the
	// source of truth, so the store changes only on a confirmed result.
	updated, err := s.api.Update(ctx, id, draft)
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	updated.State = domain.StateSynced
	s.store.Upsert(updated)

	s.logger.Info("event updated", "id", updated.ID, "date", updated.Date)
	return updated, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, id string) error {
	if id == "" {
		return &domain.ValidationError{Fields: []string{"id is required"}}
	}

	if err := s.acquire(id); err != nil {
		return err
	}
	defer s.release(id)

	event, ok := s.store.Get(id)
	if ok {
		// Replace rather than mutate the stored entry; its fields are
		// read without a lock by anyone holding a bucket snapshot.
		marked := *event
		marked.State = domain.StateDeleting
		s.store.Upsert(&marked)
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.api.Delete(ctx, id); err != nil {
		if ok {
			reverted := *event
			reverted.State = domain.StateSynced
			s.store.Upsert(&reverted)
		}
		return fmt.Errorf("delete event: %w", err)
	}

	s.store.Remove(id)
	s.logger.Info("event deleted", "id", id)
	return nil
}

// LoadDate fetches the backend's events for a date and reconciles the
// matching bucket. Changing the anchor while a load is outstanding cancels
// it; if its response still arrives it is discarded (last request wins).
func (s *eventService) LoadDate(ctx context.Context, date string) ([]*domain.Event, error) {
	if _, err := domain.ParseDate(date); err != nil {
		return nil, &domain.ValidationError{Fields: []string{"date must be formatted YYYY-MM-DD"}}
	}

	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	s.mu.Lock()
	if s.loadStop != nil {
		s.loadStop()
	}
	s.loadStop = cancel
	s.loadGen++
	gen := s.loadGen
	s.mu.Unlock()

	// The server snapshot can only speak for events that existed when the
	// fetch was issued. Anything synced into the bucket after this point
	// (say, a create confirmed mid-load) is outside the snapshot and must
	// survive the sweep below.
	sweepable := make(map[string]struct{})
	for _, ev := range s.store.Bucket(date) {
		if ev.State == domain.StateSynced {
			sweepable[ev.Key()] = struct{}{}
		}
	}

	fetched, err := s.api.FetchForDate(ctx, date)

	s.mu.Lock()
	stale := gen != s.loadGen
	if !stale && s.loadStop != nil {
		s.loadStop = nil
	}
	s.mu.Unlock()

	if stale {
		// A newer load owns the anchor now; this result must not touch
		// the store.
		return nil, context.Canceled
	}
	if err != nil {
		return nil, fmt.Errorf("load events for %s: %w", date, err)
	}

	seen := make(map[string]struct{}, len(fetched))
	for _, ev := range fetched {
		ev.State = domain.StateSynced
		s.store.Upsert(ev)
		seen[ev.Key()] = struct{}{}
	}
	// Synced events the server no longer returns for this date are gone;
	// pending locals, in-flight deletes, and entries synced after the
	// fetch began keep their place.
	for _, ev := range s.store.Bucket(date) {
		if ev.State != domain.StateSynced {
			continue
		}
		if _, ok := sweepable[ev.Key()]; !ok {
			continue
		}
		if _, ok := seen[ev.Key()]; !ok {
			s.store.Remove(ev.Key())
		}
	}

	bucket := s.store.Bucket(date)
	s.logger.Debug("loaded events", "date", date, "count", len(bucket))
	return bucket, nil
}
