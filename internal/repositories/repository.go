package repositories

import (
	"context"
	"time"

	"github.com/modu-events/lotto-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventRepository defines the interface for event data operations
type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error)
	FindAll(ctx context.Context, page, limit int) ([]*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// ReplaceManualWinners overwrites the event's manual winner list verbatim.
	ReplaceManualWinners(ctx context.Context, id primitive.ObjectID, winners []models.ManualWinner) error
	// IncrementPrizeCount claims one unit of the named prize's inventory with a
	// compare-and-swap on the observed counter value. It reports false when
	// another draw consumed the counter first.
	IncrementPrizeCount(ctx context.Context, id primitive.ObjectID, prizeName string, observedCount int) (bool, error)
	// AddPrizeCount adjusts a prize counter unconditionally. Used for
	// uncapped prizes and for releasing claims after a lost draw race.
	AddPrizeCount(ctx context.Context, id primitive.ObjectID, prizeName string, delta int) error
}

// ApplicationRepository defines the interface for participation-ledger operations
type ApplicationRepository interface {
	// Create inserts a new ledger entry. A concurrent or repeated insert for
	// the same (eventId, userId) pair fails against the unique index; such
	// errors satisfy IsDuplicate.
	Create(ctx context.Context, app *models.Application) error
	FindByEventAndUser(ctx context.Context, eventID primitive.ObjectID, userID string) (*models.Application, error)
	FindByUserID(ctx context.Context, userID string) ([]*models.Application, error)
	FindByEventID(ctx context.Context, eventID primitive.ObjectID, page, limit int) ([]*models.Application, error)
	// AddTickets accumulates granted tickets with a compare-and-swap on the
	// observed lastAppliedAt, so two same-day applies cannot both commit.
	AddTickets(ctx context.Context, id primitive.ObjectID, count int, observedLastAppliedAt, now time.Time) (bool, error)
	// SetDrawResults transitions the entry TICKETED -> DRAWN and stores the
	// outcome sequence in one conditional update. It reports false when the
	// entry was already drawn.
	SetDrawResults(ctx context.Context, id primitive.ObjectID, results []string) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByEventID(ctx context.Context, eventID primitive.ObjectID) error
	EnsureIndexes(ctx context.Context) error
}

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}
