// Package service is the client half of the authenticated mutation pipeline:
// it gates on deployment mode, attaches a freshly minted identity token to
// notification-bearing writes, performs the store write, and fires the
// best-effort fan-out dispatch.
package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"signally/internal/codec"
	"signally/internal/docstore"
	"signally/internal/identity"
	"signally/internal/models"
	"signally/internal/notify"
)

// Mutator performs all privileged writes. Create/update/delete collapse store
// errors into a boolean result (the cause is logged, not propagated); reads
// return the entity or codec.ErrNotFound.
type Mutator struct {
	env        string
	docs       docstore.Store
	session    identity.Session
	dispatcher notify.Dispatcher
	logger     *zap.Logger
}

func NewMutator(env string, docs docstore.Store, sess identity.Session, dispatcher notify.Dispatcher, logger *zap.Logger) *Mutator {
	return &Mutator{env: env, docs: docs, session: sess, dispatcher: dispatcher, logger: logger}
}

// devMode short-circuits every mutation to a synthetic success so demo and
// development flows never need live credentials.
func (m *Mutator) devMode() bool {
	return strings.EqualFold(m.env, "dev")
}

// freshToken mints a token immediately before the call. Tokens are
// short-lived; a value cached across calls could expire mid-flight.
func (m *Mutator) freshToken(ctx context.Context) (string, bool) {
	token, err := m.session.FreshToken(ctx, true)
	if err != nil {
		m.warn("mutation attempted without a session", err)
		return "", false
	}
	return token, true
}

func (m *Mutator) dispatch(ctx context.Context, title, body, token string) {
	if m.dispatcher == nil {
		return
	}
	if err := m.dispatcher.Dispatch(ctx, title, body, token); err != nil {
		// At-most-once side effect: the write already succeeded, so the
		// failure is logged and never surfaced to the caller.
		m.warn("notification dispatch failed", err)
	}
}

func (m *Mutator) warn(msg string, err error) {
	if m.logger != nil {
		m.logger.Warn(msg, zap.Error(err))
	}
}

/* ------------------------------- signals -------------------------------- */

func (m *Mutator) CreateSignal(ctx context.Context, s models.Signal) bool {
	if m.devMode() {
		return true
	}
	token, ok := m.freshToken(ctx)
	if !ok {
		return false
	}
	s.CombineDatetime()
	doc := codec.EncodeSignal(s)
	doc["timestampCreated"] = docstore.ServerTimestamp
	if _, err := m.docs.Create(ctx, models.KindSignal, doc); err != nil {
		m.warn("create signal failed", err)
		return false
	}
	m.dispatch(ctx, "Signal", "New signal added", token)
	return true
}

func (m *Mutator) UpdateSignal(ctx context.Context, id string, s models.Signal) bool {
	if m.devMode() {
		return true
	}
	s.CombineDatetime()
	doc := codec.EncodeSignal(s)
	doc["timestampUpdated"] = docstore.ServerTimestamp
	if err := m.docs.Update(ctx, models.KindSignal, id, doc); err != nil {
		m.warn("update signal failed", err)
		return false
	}
	return true
}

func (m *Mutator) GetSignal(ctx context.Context, id string) (*models.Signal, error) {
	doc, err := m.docs.Get(ctx, models.KindSignal, id)
	if err != nil {
		return nil, err
	}
	return codec.DecodeSignal(doc, id)
}

func (m *Mutator) DeleteSignal(ctx context.Context, id string) bool {
	if m.devMode() {
		return true
	}
	if err := m.docs.Delete(ctx, models.KindSignal, id); err != nil {
		m.warn("delete signal failed", err)
		return false
	}
	return true
}

/* ---------------------------- announcements ----------------------------- */

func (m *Mutator) CreateAnnouncement(ctx context.Context, a models.Announcement) bool {
	if m.devMode() {
		return true
	}
	token, ok := m.freshToken(ctx)
	if !ok {
		return false
	}
	doc := codec.EncodeAnnouncement(a)
	doc["timestampCreated"] = docstore.ServerTimestamp
	if _, err := m.docs.Create(ctx, models.KindAnnouncement, doc); err != nil {
		m.warn("create announcement failed", err)
		return false
	}
	m.dispatch(ctx, "Announcement", "New Announcement added", token)
	return true
}

func (m *Mutator) UpdateAnnouncement(ctx context.Context, id string, a models.Announcement) bool {
	if m.devMode() {
		return true
	}
	// timestampCreated is write-once: it never rides along on an update,
	// whatever the in-memory entity holds.
	doc := codec.Exclude(codec.EncodeAnnouncement(a), "timestampCreated")
	doc["timestampUpdated"] = docstore.ServerTimestamp
	if err := m.docs.Update(ctx, models.KindAnnouncement, id, doc); err != nil {
		m.warn("update announcement failed", err)
		return false
	}
	return true
}

func (m *Mutator) GetAnnouncement(ctx context.Context, id string) (*models.Announcement, error) {
	doc, err := m.docs.Get(ctx, models.KindAnnouncement, id)
	if err != nil {
		return nil, err
	}
	return codec.DecodeAnnouncement(doc, id)
}

func (m *Mutator) DeleteAnnouncement(ctx context.Context, id string) bool {
	if m.devMode() {
		return true
	}
	if err := m.docs.Delete(ctx, models.KindAnnouncement, id); err != nil {
		m.warn("delete announcement failed", err)
		return false
	}
	return true
}

/* ----------------------------- notifications ---------------------------- */

func (m *Mutator) CreateNotification(ctx context.Context, n models.Notification) bool {
	if m.devMode() {
		return true
	}
	token, ok := m.freshToken(ctx)
	if !ok {
		return false
	}
	doc := codec.EncodeNotification(n)
	doc["timestampCreated"] = docstore.ServerTimestamp
	if _, err := m.docs.Create(ctx, models.KindNotification, doc); err != nil {
		m.warn("create notification failed", err)
		return false
	}
	m.dispatch(ctx, n.Title, n.Body, token)
	return true
}

/* --------------------------------- users -------------------------------- */

func (m *Mutator) GetAuthUser(ctx context.Context, id string) (*models.AuthUser, error) {
	doc, err := m.docs.Get(ctx, models.KindAuthUser, id)
	if err != nil {
		return nil, err
	}
	return codec.DecodeAuthUser(doc, id)
}

// SetUserLifetime toggles the one user field the admin surface may mutate.
func (m *Mutator) SetUserLifetime(ctx context.Context, id string, value bool) bool {
	if m.devMode() {
		return true
	}
	err := m.docs.Update(ctx, models.KindAuthUser, id, docstore.Document{"subIsLifetime": value})
	if err != nil {
		m.warn("update user lifetime failed", err)
		return false
	}
	return true
}
