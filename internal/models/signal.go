package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Signal direction values.
const (
	SignalTypeBull = "Bull"
	SignalTypeBear = "Bear"
)

// MaxCommentLength bounds the free-text comment on a signal.
const MaxCommentLength = 140

// Signal is a trade call. SignalDate and SignalTime are captured as separate
// inputs; only their combination (SignalDatetime) is meaningful downstream.
type Signal struct {
	ID             string     `json:"id"`
	Type           string     `json:"type"`
	Symbol         string     `json:"symbol"`
	SignalDate     *time.Time `json:"signalDate"`
	SignalTime     *time.Time `json:"signalTime"`
	SignalDatetime *time.Time `json:"signalDatetime"`

	Entry       decimal.Decimal  `json:"entry"`
	StopLoss    decimal.Decimal  `json:"stopLoss"`
	TakeProfit1 decimal.Decimal  `json:"takeProfit1"`
	TakeProfit2 *decimal.Decimal `json:"takeProfit2,omitempty"`

	Comment  string `json:"comment"`
	IsActive bool   `json:"isActive"`
	IsFree   bool   `json:"isFree"`

	TimestampCreated *time.Time `json:"timestampCreated"`
	TimestampUpdated *time.Time `json:"timestampUpdated"`
}

// CombineDatetime merges the date component of SignalDate with the wall-clock
// component of SignalTime into SignalDatetime.
func (s *Signal) CombineDatetime() {
	if s.SignalDate == nil || s.SignalTime == nil {
		return
	}
	d := *s.SignalDate
	t := *s.SignalTime
	dt := time.Date(d.Year(), d.Month(), d.Day(), t.Hour(), t.Minute(), 0, 0, d.Location())
	s.SignalDatetime = &dt
}
