package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EntryStatus is the ledger entry state. The absence of a document is the
// implicit "unregistered" state; a drawn entry never transitions back.
type EntryStatus string

const (
	EntryStatusTicketed EntryStatus = "TICKETED"
	EntryStatusDrawn    EntryStatus = "DRAWN"
)

// Application is one participation-ledger entry, uniquely keyed by
// (eventId, userId). TicketCount accumulates across daily participations
// until the draw consumes it; DrawResults, once set, is immutable.
type Application struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	EventID       primitive.ObjectID `bson:"eventId" json:"eventId"`
	UserID        string             `bson:"userId" json:"userId"`
	Nickname      string             `bson:"nickname" json:"nickname"`
	EventTitle    string             `bson:"eventTitle" json:"eventTitle"`
	TicketCount   int                `bson:"ticketCount" json:"ticketCount"`
	Status        EntryStatus        `bson:"status" json:"status"`
	DrawResults   []string           `bson:"drawResults" json:"drawResults"`
	AppliedAt     time.Time          `bson:"appliedAt" json:"appliedAt"`
	LastAppliedAt time.Time          `bson:"lastAppliedAt" json:"lastAppliedAt"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Drawn reports whether the prize draw has already consumed this entry
func (a *Application) Drawn() bool {
	return a.Status == EntryStatusDrawn || len(a.DrawResults) > 0
}
