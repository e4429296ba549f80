// Package livestore keeps in-memory collections synchronized with the
// document store through live query subscriptions, one per entity kind.
package livestore

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"signally/internal/codec"
	"signally/internal/docstore"
	"signally/internal/models"
)

// Store owns one subscription per streamable kind. Every snapshot is decoded
// wholesale and published as a full replacement collection; a document that
// fails to decode is skipped and logged rather than sinking the snapshot.
type Store struct {
	docs   docstore.Store
	logger *zap.Logger

	mu        sync.Mutex
	cancels   map[string]docstore.CancelFunc
	streaming map[string]bool
	gens      map[string]uint64

	signals       []models.Signal
	announcements []models.Announcement
	users         []models.AuthUser

	subs    map[string]map[int]func()
	nextSub int
}

func New(docs docstore.Store, logger *zap.Logger) *Store {
	return &Store{
		docs:      docs,
		logger:    logger,
		cancels:   map[string]docstore.CancelFunc{},
		streaming: map[string]bool{},
		gens:      map[string]uint64{},
		subs:      map[string]map[int]func(){},
	}
}

func ordering(kind string) (*docstore.Ordering, error) {
	switch kind {
	case models.KindSignal, models.KindAnnouncement:
		return &docstore.Ordering{Field: "timestampCreated", Desc: true}, nil
	case models.KindAuthUser:
		return nil, nil
	default:
		return nil, fmt.Errorf("livestore: kind %q is not streamable", kind)
	}
}

// Start opens the subscription for a kind. Idempotent: a second call while
// streaming does not open a duplicate subscription.
func (s *Store) Start(ctx context.Context, kind string) error {
	ord, err := ordering(kind)
	if err != nil {
		return err
	}

	s.mu.Lock()
	if s.streaming[kind] {
		s.mu.Unlock()
		return nil
	}
	s.streaming[kind] = true
	s.gens[kind]++
	gen := s.gens[kind]
	s.mu.Unlock()

	cancel, err := s.docs.Subscribe(ctx, kind, ord, func(snaps []docstore.Snapshot) {
		s.apply(kind, gen, snaps)
	})
	if err != nil {
		s.mu.Lock()
		s.streaming[kind] = false
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.cancels[kind] = cancel
	s.mu.Unlock()
	return nil
}

// Stop releases the subscription for a kind and discards the local copies.
// Safe to call when never started.
func (s *Store) Stop(kind string) {
	s.mu.Lock()
	cancel := s.cancels[kind]
	delete(s.cancels, kind)
	s.streaming[kind] = false
	switch kind {
	case models.KindSignal:
		s.signals = nil
	case models.KindAnnouncement:
		s.announcements = nil
	case models.KindAuthUser:
		s.users = nil
	}
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// StopAll stops every streamable kind, continuing past individual failures.
func (s *Store) StopAll() {
	for _, kind := range models.StreamableKinds() {
		func() {
			defer func() {
				if r := recover(); r != nil && s.logger != nil {
					s.logger.Warn("stop stream panicked", zap.String("kind", kind), zap.Any("panic", r))
				}
			}()
			s.Stop(kind)
		}()
	}
}

func (s *Store) apply(kind string, gen uint64, snaps []docstore.Snapshot) {
	var (
		signals       []models.Signal
		announcements []models.Announcement
		users         []models.AuthUser
	)
	for _, snap := range snaps {
		switch kind {
		case models.KindSignal:
			item, err := codec.DecodeSignal(snap.Data, snap.ID)
			if err != nil {
				s.logDecodeSkip(kind, snap.ID, err)
				continue
			}
			signals = append(signals, *item)
		case models.KindAnnouncement:
			item, err := codec.DecodeAnnouncement(snap.Data, snap.ID)
			if err != nil {
				s.logDecodeSkip(kind, snap.ID, err)
				continue
			}
			announcements = append(announcements, *item)
		case models.KindAuthUser:
			item, err := codec.DecodeAuthUser(snap.Data, snap.ID)
			if err != nil {
				s.logDecodeSkip(kind, snap.ID, err)
				continue
			}
			users = append(users, *item)
		}
	}

	s.mu.Lock()
	// A snapshot that raced a Stop (or a restart) must not be published.
	if !s.streaming[kind] || s.gens[kind] != gen {
		s.mu.Unlock()
		return
	}
	switch kind {
	case models.KindSignal:
		s.signals = signals
	case models.KindAnnouncement:
		s.announcements = announcements
	case models.KindAuthUser:
		s.users = users
	}
	fns := make([]func(), 0, len(s.subs[kind]))
	for _, fn := range s.subs[kind] {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

func (s *Store) logDecodeSkip(kind, id string, err error) {
	if s.logger != nil {
		s.logger.Warn("skipping undecodable document",
			zap.String("kind", kind),
			zap.String("id", id),
			zap.Error(err),
		)
	}
}

// Signals returns the current signal collection, newest first.
func (s *Store) Signals() []models.Signal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Signal(nil), s.signals...)
}

// Announcements returns the current announcement collection, newest first.
func (s *Store) Announcements() []models.Announcement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Announcement(nil), s.announcements...)
}

// AuthUsers returns the current user collection in store-delivered order.
func (s *Store) AuthUsers() []models.AuthUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.AuthUser(nil), s.users...)
}

// OnChange registers a listener invoked after each published collection
// replacement for the kind.
func (s *Store) OnChange(kind string, fn func()) (cancel func()) {
	s.mu.Lock()
	if s.subs[kind] == nil {
		s.subs[kind] = map[int]func(){}
	}
	key := s.nextSub
	s.nextSub++
	s.subs[kind][key] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs[kind], key)
		s.mu.Unlock()
	}
}
