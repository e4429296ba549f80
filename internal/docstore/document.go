package docstore

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"
)

// Document is a wire record as held by the document store. Timestamp fields
// carry time.Time values in process and RFC3339 strings once they have
// round-tripped through JSON storage; consumers must accept both forms.
type Document map[string]any

// Clone returns a shallow copy so callers can mutate snapshots freely.
func (d Document) Clone() Document {
	if d == nil {
		return nil
	}
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Snapshot is one document within a delivered query result set.
type Snapshot struct {
	ID   string
	Data Document
}

// Ordering names the document field a subscription's results are sorted by.
type Ordering struct {
	Field string
	Desc  bool
}

// CancelFunc releases a live subscription. After it returns, the callback is
// never invoked again.
type CancelFunc func()

type serverTimestamp struct{}

// ServerTimestamp marks a field to be replaced with the store clock at write
// time.
var ServerTimestamp = &serverTimestamp{}

// Store is the document-store surface the rest of the system consumes.
// Get returns (nil, nil) when no document exists under the id; transport
// failures are reported as errors.
type Store interface {
	Get(ctx context.Context, kind, id string) (Document, error)
	Create(ctx context.Context, kind string, doc Document) (string, error)
	Update(ctx context.Context, kind, id string, doc Document) error
	Delete(ctx context.Context, kind, id string) error
	Subscribe(ctx context.Context, kind string, ord *Ordering, fn func([]Snapshot)) (CancelFunc, error)
	DeleteOlderThan(ctx context.Context, kind string, cutoff time.Time) (int64, error)
}

// NewID returns a store-assigned opaque document identifier.
func NewID() string {
	var b [10]byte
	if _, err := rand.Read(b[:]); err != nil {
		return hex.EncodeToString([]byte(time.Now().UTC().Format("20060102150405.000")))[:20]
	}
	return hex.EncodeToString(b[:])
}

func resolveServerTimestamps(doc Document, now time.Time) Document {
	out := doc.Clone()
	for k, v := range out {
		if _, ok := v.(*serverTimestamp); ok {
			out[k] = now
		}
	}
	return out
}

func fieldTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	case string:
		if parsed, err := time.Parse(time.RFC3339Nano, t); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
