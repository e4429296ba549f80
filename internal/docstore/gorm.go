package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DocumentRow is the gorm model backing the durable store: one JSONB row per
// document, keyed by (kind, doc_id).
type DocumentRow struct {
	ID    uint64 `gorm:"primaryKey;autoIncrement"`
	Kind  string `gorm:"type:varchar(40);not null;uniqueIndex:idx_kind_doc,priority:1"`
	DocID string `gorm:"type:varchar(40);not null;uniqueIndex:idx_kind_doc,priority:2"`

	Data datatypes.JSON `gorm:"type:jsonb;not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
	UpdatedAt time.Time `gorm:"type:timestamptz;autoUpdateTime"`
}

func (DocumentRow) TableName() string {
	return "documents"
}

// Gorm is the postgres-backed Store. Live subscriptions are fed by an
// in-process notifier: every successful write through this store re-queries
// the collection and delivers a fresh snapshot to each subscriber, one at a
// time per subscription.
type Gorm struct {
	db *gorm.DB

	subMu sync.Mutex
	subs  map[string][]*gormSub
}

type gormSub struct {
	ord *Ordering
	fn  func([]Snapshot)

	deliverMu sync.Mutex
	closed    bool
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db, subs: map[string][]*gormSub{}}
}

func (g *Gorm) Get(ctx context.Context, kind, id string) (Document, error) {
	var row DocumentRow
	err := g.db.WithContext(ctx).
		Where("kind = ? AND doc_id = ?", kind, id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return unmarshalDocument(row.Data)
}

func (g *Gorm) Create(ctx context.Context, kind string, doc Document) (string, error) {
	id := NewID()
	data, err := marshalDocument(resolveServerTimestamps(doc, time.Now().UTC()))
	if err != nil {
		return "", err
	}
	row := DocumentRow{Kind: kind, DocID: id, Data: data}
	if err := g.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", err
	}
	g.notify(ctx, kind)
	return id, nil
}

func (g *Gorm) Update(ctx context.Context, kind, id string, doc Document) error {
	resolved := resolveServerTimestamps(doc, time.Now().UTC())
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row DocumentRow
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("kind = ? AND doc_id = ?", kind, id).
			First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("docstore: %s/%s does not exist", kind, id)
		}
		if err != nil {
			return err
		}
		existing, err := unmarshalDocument(row.Data)
		if err != nil {
			return err
		}
		for k, v := range resolved {
			existing[k] = v
		}
		data, err := marshalDocument(existing)
		if err != nil {
			return err
		}
		return tx.Model(&row).Update("data", data).Error
	})
	if err != nil {
		return err
	}
	g.notify(ctx, kind)
	return nil
}

func (g *Gorm) Delete(ctx context.Context, kind, id string) error {
	err := g.db.WithContext(ctx).
		Where("kind = ? AND doc_id = ?", kind, id).
		Delete(&DocumentRow{}).Error
	if err != nil {
		return err
	}
	g.notify(ctx, kind)
	return nil
}

func (g *Gorm) Subscribe(ctx context.Context, kind string, ord *Ordering, fn func([]Snapshot)) (CancelFunc, error) {
	snaps, err := g.query(ctx, kind, ord)
	if err != nil {
		return nil, err
	}

	sub := &gormSub{ord: ord, fn: fn}
	g.subMu.Lock()
	g.subs[kind] = append(g.subs[kind], sub)
	g.subMu.Unlock()

	sub.deliver(snaps)

	cancel := func() {
		sub.deliverMu.Lock()
		sub.closed = true
		sub.deliverMu.Unlock()

		g.subMu.Lock()
		list := g.subs[kind]
		for i, s := range list {
			if s == sub {
				g.subs[kind] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		g.subMu.Unlock()
	}
	return cancel, nil
}

func (g *Gorm) DeleteOlderThan(ctx context.Context, kind string, cutoff time.Time) (int64, error) {
	res := g.db.WithContext(ctx).
		Where("kind = ?", kind).
		Where("created_at < ?", cutoff).
		Delete(&DocumentRow{})
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected > 0 {
		g.notify(ctx, kind)
	}
	return res.RowsAffected, nil
}

func (g *Gorm) notify(ctx context.Context, kind string) {
	g.subMu.Lock()
	subs := append([]*gormSub(nil), g.subs[kind]...)
	g.subMu.Unlock()

	for _, sub := range subs {
		snaps, err := g.query(ctx, kind, sub.ord)
		if err != nil {
			continue // subscriber keeps its last snapshot until the next write
		}
		sub.deliver(snaps)
	}
}

func (sub *gormSub) deliver(snaps []Snapshot) {
	sub.deliverMu.Lock()
	defer sub.deliverMu.Unlock()
	if sub.closed {
		return
	}
	sub.fn(snaps)
}

func (g *Gorm) query(ctx context.Context, kind string, ord *Ordering) ([]Snapshot, error) {
	query := g.db.WithContext(ctx).Where("kind = ?", kind)
	if ord != nil {
		dir := "ASC"
		if ord.Desc {
			dir = "DESC"
		}
		// RFC3339 strings sort chronologically, so ordering the JSONB text
		// value matches ordering the instant.
		query = query.Order(fmt.Sprintf("data->>'%s' %s NULLS LAST", ord.Field, dir))
	} else {
		query = query.Order("id ASC")
	}

	var rows []DocumentRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	snaps := make([]Snapshot, 0, len(rows))
	for _, row := range rows {
		doc, err := unmarshalDocument(row.Data)
		if err != nil {
			continue // malformed rows are the codec's problem, not the feed's
		}
		snaps = append(snaps, Snapshot{ID: row.DocID, Data: doc})
	}
	return snaps, nil
}

func marshalDocument(doc Document) (datatypes.JSON, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func unmarshalDocument(data datatypes.JSON) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
