package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventType determines which engine applies to an event
type EventType string

const (
	EventTypeLotto  EventType = "lotto"
	EventTypeCustom EventType = "custom"
	EventTypeOther  EventType = "other"
)

// Frequency controls how often a user may apply to an event
type Frequency string

const (
	FrequencyOnce  Frequency = "once"
	FrequencyDaily Frequency = "daily"
)

// PrizeBlank is the literal name of the non-prize outcome ("꽝")
const PrizeBlank = "꽝"

// TicketRate maps a granted ticket count to a draw percentage.
// Rates are meant to sum to 100 across the table, but this is not enforced;
// any shortfall falls through to a zero-ticket grant.
type TicketRate struct {
	Count int     `bson:"count" json:"count"`
	Rate  float64 `bson:"rate" json:"rate"`
}

// WinRate is one prize bucket in the weighted prize table. CurrentCount is
// the running consumption counter shared by every participant's draw;
// MaxCount of 0 means unlimited inventory.
type WinRate struct {
	Name         string  `bson:"name" json:"name"`
	Rate         float64 `bson:"rate" json:"rate"`
	MaxCount     int     `bson:"maxCount" json:"maxCount"`
	CurrentCount int     `bson:"currentCount" json:"currentCount"`
}

// LottoConfig holds the ticket and prize tables for a lotto event
type LottoConfig struct {
	TicketRates []TicketRate `bson:"ticketRates" json:"ticketRates"`
	WinRates    []WinRate    `bson:"winRates" json:"winRates"`
	Frequency   Frequency    `bson:"frequency" json:"frequency"`
	ShowDetails bool         `bson:"showDetails" json:"showDetails"`
}

// ManualWinner is one admin-announced winner on a custom event. The list is
// declarative and independent of the draw engine.
type ManualWinner struct {
	UserID   string `bson:"userId" json:"userId"`
	Nickname string `bson:"nickname" json:"nickname"`
	Content  string `bson:"content" json:"content"`
	Reward   string `bson:"reward" json:"reward"`
}

// Event represents a community event document
type Event struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title         string             `bson:"title" json:"title"`
	EventType     EventType          `bson:"eventType" json:"eventType"`
	StartAt       time.Time          `bson:"startAt" json:"startAt"`
	EndAt         time.Time          `bson:"endAt" json:"endAt"`
	LottoConfig   *LottoConfig       `bson:"lottoConfig,omitempty" json:"lottoConfig,omitempty"`
	ManualWinners []ManualWinner     `bson:"manualWinners" json:"manualWinners"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsLotto reports whether the draw engines apply to this event
func (e *Event) IsLotto() bool {
	return e.EventType == EventTypeLotto && e.LottoConfig != nil
}

// ApplyFrequency returns the participation frequency for this event.
// Non-lotto events use once semantics.
func (e *Event) ApplyFrequency() Frequency {
	if e.IsLotto() && e.LottoConfig.Frequency == FrequencyDaily {
		return FrequencyDaily
	}
	return FrequencyOnce
}
