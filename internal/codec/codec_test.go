package codec

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"signally/internal/docstore"
	"signally/internal/models"
)

func mustDecimal(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("decimal %q: %v", s, err)
	}
	return d
}

func TestSignalRoundTrip(t *testing.T) {
	created := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	tp2 := mustDecimal(t, "112.5")
	in := models.Signal{
		Type:             models.SignalTypeBull,
		Symbol:           "EURUSD",
		Entry:            mustDecimal(t, "1.0845"),
		StopLoss:         mustDecimal(t, "1.0800"),
		TakeProfit1:      mustDecimal(t, "1.0900"),
		TakeProfit2:      &tp2,
		Comment:          "breakout",
		IsActive:         true,
		IsFree:           false,
		TimestampCreated: &created,
	}

	doc := EncodeSignal(in)
	out, err := DecodeSignal(doc, "s1")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.ID != "s1" || out.Type != in.Type || out.Symbol != in.Symbol {
		t.Fatalf("identity fields mismatch: %+v", out)
	}
	if !out.Entry.Equal(in.Entry) || !out.StopLoss.Equal(in.StopLoss) || !out.TakeProfit1.Equal(in.TakeProfit1) {
		t.Fatalf("price levels mismatch: %+v", out)
	}
	if out.TakeProfit2 == nil || !out.TakeProfit2.Equal(tp2) {
		t.Fatalf("takeProfit2 mismatch: %#v", out.TakeProfit2)
	}
	if out.TimestampCreated == nil || !out.TimestampCreated.Equal(created) {
		t.Fatalf("timestampCreated mismatch: %#v", out.TimestampCreated)
	}
	if out.TimestampUpdated != nil {
		t.Fatalf("expected nil timestampUpdated, got %v", out.TimestampUpdated)
	}
}

func TestSignalDecimalsEncodeAsStrings(t *testing.T) {
	doc := EncodeSignal(models.Signal{
		Type:        models.SignalTypeBear,
		Symbol:      "GBPUSD",
		Entry:       mustDecimal(t, "1.2500"),
		StopLoss:    mustDecimal(t, "1.2550"),
		TakeProfit1: mustDecimal(t, "1.2400"),
	})
	if _, ok := doc["entry"].(string); !ok {
		t.Fatalf("entry should encode as string, got %T", doc["entry"])
	}
	if _, ok := doc["takeProfit2"]; ok {
		t.Fatalf("absent takeProfit2 should not be emitted")
	}
}

func TestSignalDecodeTimestampString(t *testing.T) {
	// After JSONB storage timestamps arrive as RFC3339 strings.
	doc := docstore.Document{
		"type":             models.SignalTypeBull,
		"symbol":           "XAUUSD",
		"entry":            "2300.5",
		"stopLoss":         "2290",
		"takeProfit1":      "2320",
		"timestampCreated": "2026-03-01T09:30:00Z",
	}
	out, err := DecodeSignal(doc, "s2")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
	if out.TimestampCreated == nil || !out.TimestampCreated.Equal(want) {
		t.Fatalf("timestampCreated = %#v, want %v", out.TimestampCreated, want)
	}
	if !out.Entry.Equal(mustDecimal(t, "2300.5")) {
		t.Fatalf("entry = %v", out.Entry)
	}
}

func TestDecodeEmptyDocIsNotFound(t *testing.T) {
	if _, err := DecodeSignal(docstore.Document{}, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("empty doc: got %v, want ErrNotFound", err)
	}
	if _, err := DecodeAnnouncement(nil, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("nil doc: got %v, want ErrNotFound", err)
	}
}

func TestDecodeMissingRequiredFieldIsNotFound(t *testing.T) {
	doc := docstore.Document{"symbol": "EURUSD"}
	if _, err := DecodeSignal(doc, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing type: got %v, want ErrNotFound", err)
	}
	doc = docstore.Document{"title": "hello"}
	if _, err := DecodeAnnouncement(doc, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing description: got %v, want ErrNotFound", err)
	}
	if _, err := DecodeNotification(doc, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing body: got %v, want ErrNotFound", err)
	}
}

func TestAnnouncementRoundTrip(t *testing.T) {
	created := time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC)
	in := models.Announcement{
		Title:            "Maintenance",
		Description:      "Scheduled downtime",
		Link:             "https://example.com/status",
		ImageURL:         "https://example.com/banner.png",
		TimestampCreated: &created,
	}
	out, err := DecodeAnnouncement(EncodeAnnouncement(in), "a1")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Title != in.Title || out.Description != in.Description || out.Link != in.Link || out.ImageURL != in.ImageURL {
		t.Fatalf("mismatch: %+v", out)
	}
	if out.TimestampCreated == nil || !out.TimestampCreated.Equal(created) {
		t.Fatalf("timestampCreated = %#v", out.TimestampCreated)
	}
}

func TestAuthUserRoundTrip(t *testing.T) {
	exp := time.Date(2027, 1, 1, 0, 0, 0, 0, time.UTC)
	in := models.AuthUser{
		UID:                   "u1",
		Email:                 "a@b.com",
		FirstName:             "Ada",
		AppBuildNumber:        42,
		IsActive:              true,
		IsNotificationEnabled: true,
		Sub: models.Subscription{
			IsActive:          true,
			IsLifetime:        false,
			ProductIdentifier: "pro_monthly",
			ExpirationDate:    &exp,
		},
	}
	out, err := DecodeAuthUser(EncodeAuthUser(in), "u1")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Email != "a@b.com" || out.AppBuildNumber != 42 {
		t.Fatalf("mismatch: %+v", out)
	}
	if !out.Sub.IsActive || out.Sub.IsLifetime || out.Sub.ProductIdentifier != "pro_monthly" {
		t.Fatalf("subscription mismatch: %+v", out.Sub)
	}
	if out.Sub.ExpirationDate == nil || !out.Sub.ExpirationDate.Equal(exp) {
		t.Fatalf("expiration = %#v", out.Sub.ExpirationDate)
	}
}

func TestExcludeDropsKeys(t *testing.T) {
	doc := docstore.Document{"a": 1, "timestampCreated": time.Now(), "b": 2}
	out := Exclude(doc, "timestampCreated")
	if _, ok := out["timestampCreated"]; ok {
		t.Fatalf("timestampCreated should be gone")
	}
	if out["a"] != 1 || out["b"] != 2 {
		t.Fatalf("other keys must survive: %v", out)
	}
}

func TestAbsentTimestampStaysNil(t *testing.T) {
	doc := docstore.Document{"title": "t", "body": "b"}
	out, err := DecodeNotification(doc, "n1")
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.TimestampCreated != nil {
		t.Fatalf("absent timestamp must decode to nil, got %v", out.TimestampCreated)
	}
}
