package services

import (
	"context"
	"errors"

	"github.com/modu-events/lotto-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sentinel errors surfaced to the HTTP layer. Policy violations and missing
// preconditions map to 400/404; everything else is a 500.
var (
	ErrEventNotFound            = errors.New("event not found")
	ErrAlreadyParticipated      = errors.New("already participated")
	ErrAlreadyParticipatedToday = errors.New("already participated today")
	ErrNoParticipation          = errors.New("no participation record")
	ErrNotLottoEvent            = errors.New("event is not a lotto event")
	ErrEmailTaken               = errors.New("email is already registered")
	ErrInvalidCredentials       = errors.New("invalid credentials")
)

// ParticipationService defines the ticket issuance and prize draw operations
type ParticipationService interface {
	// Apply issues tickets for one participation request, subject to the
	// event's frequency policy, and returns the granted ticket count.
	Apply(ctx context.Context, eventID primitive.ObjectID, userID, nickname, eventTitle string) (int, error)

	// MyApplications returns the caller's ledger entries, pruning entries
	// whose parent event has been deleted.
	MyApplications(ctx context.Context, userID string) ([]*models.Application, error)

	// Draw consumes the user's entire ticket balance into a permanent
	// outcome sequence. Repeat calls return the stored sequence with
	// alreadyDrawn set.
	Draw(ctx context.Context, eventID primitive.ObjectID, userID string) (results []string, alreadyDrawn bool, err error)
}

// EventService defines event administration operations
type EventService interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	ListEvents(ctx context.Context, page, limit int) ([]*models.Event, error)
	// DeleteEvent removes the event and cascades to its ledger entries.
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error
	// AnnounceWinners replaces the event's manual winner list verbatim.
	AnnounceWinners(ctx context.Context, id primitive.ObjectID, winners []models.ManualWinner) error
	// EventApplications lists an event's ledger entries in appliedAt order.
	EventApplications(ctx context.Context, id primitive.ObjectID, page, limit int) ([]*models.Application, error)
}

// AuthService defines the interface for authentication operations
type AuthService interface {
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
}
