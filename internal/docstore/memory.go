package docstore

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process Store used in tests and dev mode. Snapshot delivery
// is synchronous with the triggering write, which keeps per-subscription
// ordering strict without background machinery.
type Memory struct {
	mu    sync.RWMutex
	kinds map[string]map[string]Document
	order map[string][]string // insertion order per kind

	subMu sync.Mutex
	subs  map[string][]*memorySub
}

type memorySub struct {
	ord *Ordering
	fn  func([]Snapshot)

	deliverMu sync.Mutex
	closed    bool
}

func NewMemory() *Memory {
	return &Memory{
		kinds: map[string]map[string]Document{},
		order: map[string][]string{},
		subs:  map[string][]*memorySub{},
	}
}

func (m *Memory) Get(ctx context.Context, kind, id string) (Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.kinds[kind][id]
	if !ok {
		return nil, nil
	}
	return doc.Clone(), nil
}

func (m *Memory) Create(ctx context.Context, kind string, doc Document) (string, error) {
	id := NewID()
	resolved := resolveServerTimestamps(doc, time.Now().UTC())

	m.mu.Lock()
	if m.kinds[kind] == nil {
		m.kinds[kind] = map[string]Document{}
	}
	m.kinds[kind][id] = resolved
	m.order[kind] = append(m.order[kind], id)
	m.mu.Unlock()

	m.notify(kind)
	return id, nil
}

func (m *Memory) Update(ctx context.Context, kind, id string, doc Document) error {
	resolved := resolveServerTimestamps(doc, time.Now().UTC())

	m.mu.Lock()
	existing, ok := m.kinds[kind][id]
	if !ok {
		existing = Document{}
		if m.kinds[kind] == nil {
			m.kinds[kind] = map[string]Document{}
		}
		m.kinds[kind][id] = existing
		m.order[kind] = append(m.order[kind], id)
	}
	for k, v := range resolved {
		existing[k] = v
	}
	m.mu.Unlock()

	m.notify(kind)
	return nil
}

func (m *Memory) Delete(ctx context.Context, kind, id string) error {
	m.mu.Lock()
	delete(m.kinds[kind], id)
	ids := m.order[kind]
	for i, v := range ids {
		if v == id {
			m.order[kind] = append(ids[:i:i], ids[i+1:]...)
			break
		}
	}
	m.mu.Unlock()

	m.notify(kind)
	return nil
}

func (m *Memory) Subscribe(ctx context.Context, kind string, ord *Ordering, fn func([]Snapshot)) (CancelFunc, error) {
	sub := &memorySub{ord: ord, fn: fn}
	m.subMu.Lock()
	m.subs[kind] = append(m.subs[kind], sub)
	m.subMu.Unlock()

	sub.deliver(m.query(kind, ord))

	cancel := func() {
		sub.deliverMu.Lock()
		sub.closed = true
		sub.deliverMu.Unlock()

		m.subMu.Lock()
		list := m.subs[kind]
		for i, s := range list {
			if s == sub {
				m.subs[kind] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		m.subMu.Unlock()
	}
	return cancel, nil
}

func (m *Memory) DeleteOlderThan(ctx context.Context, kind string, cutoff time.Time) (int64, error) {
	var removed int64

	m.mu.Lock()
	for id, doc := range m.kinds[kind] {
		created, ok := fieldTime(doc["timestampCreated"])
		if !ok || !created.Before(cutoff) {
			continue
		}
		delete(m.kinds[kind], id)
		ids := m.order[kind]
		for i, v := range ids {
			if v == id {
				m.order[kind] = append(ids[:i:i], ids[i+1:]...)
				break
			}
		}
		removed++
	}
	m.mu.Unlock()

	if removed > 0 {
		m.notify(kind)
	}
	return removed, nil
}

func (m *Memory) notify(kind string) {
	m.subMu.Lock()
	subs := append([]*memorySub(nil), m.subs[kind]...)
	m.subMu.Unlock()

	for _, sub := range subs {
		sub.deliver(m.query(kind, sub.ord))
	}
}

func (sub *memorySub) deliver(snaps []Snapshot) {
	sub.deliverMu.Lock()
	defer sub.deliverMu.Unlock()
	if sub.closed {
		return
	}
	sub.fn(snaps)
}

func (m *Memory) query(kind string, ord *Ordering) []Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snaps := make([]Snapshot, 0, len(m.order[kind]))
	for _, id := range m.order[kind] {
		doc, ok := m.kinds[kind][id]
		if !ok {
			continue
		}
		snaps = append(snaps, Snapshot{ID: id, Data: doc.Clone()})
	}
	if ord != nil {
		sort.SliceStable(snaps, func(i, j int) bool {
			ti, iok := fieldTime(snaps[i].Data[ord.Field])
			tj, jok := fieldTime(snaps[j].Data[ord.Field])
			if iok != jok {
				return iok // documents missing the order field sort last
			}
			if ord.Desc {
				return ti.After(tj)
			}
			return ti.Before(tj)
		})
	}
	return snaps
}
