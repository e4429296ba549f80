// Package codec maps wire documents to typed entities and back. It performs
// no I/O: decoding converts provider timestamp values to local times (absent
// fields become nil, never a default date) and rejects empty or incomplete
// documents with ErrNotFound; encoding emits only an entity's declared fields.
package codec

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"signally/internal/docstore"
)

// ErrNotFound reports an absent document, an empty document, or one missing a
// required field. "Get by id" misses and removals observed mid-snapshot are
// both represented this way.
var ErrNotFound = errors.New("codec: document not found")

// Required wire fields per kind; a document missing any of them fails closed.
var (
	requiredSignalFields       = []string{"type", "symbol"}
	requiredAnnouncementFields = []string{"title", "description"}
	requiredAuthUserFields     = []string{"email"}
	requiredNotificationFields = []string{"title", "body"}
)

// Exclude removes keys from an encoded document before it is sent to the
// store. Used for write-once fields on the update path.
func Exclude(doc docstore.Document, keys ...string) docstore.Document {
	for _, k := range keys {
		delete(doc, k)
	}
	return doc
}

func checkRequired(doc docstore.Document, keys []string) error {
	if len(doc) == 0 {
		return ErrNotFound
	}
	for _, k := range keys {
		v, ok := doc[k]
		if !ok || v == nil {
			return ErrNotFound
		}
	}
	return nil
}

func getString(doc docstore.Document, key string) string {
	if s, ok := doc[key].(string); ok {
		return s
	}
	return ""
}

func getBool(doc docstore.Document, key string) bool {
	if b, ok := doc[key].(bool); ok {
		return b
	}
	return false
}

func getInt(doc docstore.Document, key string) int {
	switch v := doc[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	return 0
}

// getTime accepts the provider-native forms a timestamp can arrive in: a
// time.Time still in process, or an RFC3339 string after JSON storage.
// Anything else, including absence, is nil.
func getTime(doc docstore.Document, key string) *time.Time {
	switch v := doc[key].(type) {
	case time.Time:
		t := v
		return &t
	case *time.Time:
		return v
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return &t
		}
	}
	return nil
}

func getDecimal(doc docstore.Document, key string) decimal.Decimal {
	switch v := doc[key].(type) {
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(v)
	case json.Number:
		if d, err := decimal.NewFromString(v.String()); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func getDecimalPtr(doc docstore.Document, key string) *decimal.Decimal {
	if v, ok := doc[key]; !ok || v == nil {
		return nil
	}
	d := getDecimal(doc, key)
	return &d
}

func putTime(doc docstore.Document, key string, t *time.Time) {
	if t != nil {
		doc[key] = *t
	}
}
