package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/modu-events/lotto-backend/internal/models"
	"github.com/modu-events/lotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure EventServiceImpl implements EventService
var _ EventService = (*EventServiceImpl)(nil)

// EventServiceImpl handles event administration
type EventServiceImpl struct {
	eventRepo repositories.EventRepository
	appRepo   repositories.ApplicationRepository
}

// NewEventService creates a new EventServiceImpl
func NewEventService(eventRepo repositories.EventRepository, appRepo repositories.ApplicationRepository) *EventServiceImpl {
	return &EventServiceImpl{
		eventRepo: eventRepo,
		appRepo:   appRepo,
	}
}

// CreateEvent validates and stores a new event. Prize consumption counters
// always start at zero regardless of what the request carried. Ticket-rate
// tables are stored as given; a table summing under 100 is tolerated and
// simply inflates the zero-ticket band.
func (s *EventServiceImpl) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.Title == "" {
		return errors.New("title is required")
	}
	switch event.EventType {
	case models.EventTypeLotto, models.EventTypeCustom, models.EventTypeOther:
	default:
		return fmt.Errorf("invalid event type %q", event.EventType)
	}
	if !event.StartAt.IsZero() && !event.EndAt.IsZero() && event.StartAt.After(event.EndAt) {
		return errors.New("start time cannot be after end time")
	}

	if event.EventType == models.EventTypeLotto {
		if event.LottoConfig == nil {
			return errors.New("lotto events require a lotto config")
		}
		if event.LottoConfig.Frequency == "" {
			event.LottoConfig.Frequency = models.FrequencyOnce
		}
		if event.LottoConfig.Frequency != models.FrequencyOnce && event.LottoConfig.Frequency != models.FrequencyDaily {
			return fmt.Errorf("invalid frequency %q", event.LottoConfig.Frequency)
		}
		for i := range event.LottoConfig.WinRates {
			event.LottoConfig.WinRates[i].CurrentCount = 0
		}
	} else {
		event.LottoConfig = nil
	}

	if event.ManualWinners == nil {
		event.ManualWinners = []models.ManualWinner{}
	}
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	slog.Info("event created", "eventId", event.ID.Hex(), "type", event.EventType, "title", event.Title)
	return nil
}

// GetEvent retrieves an event by ID
func (s *EventServiceImpl) GetEvent(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return event, nil
}

// ListEvents retrieves events with pagination
func (s *EventServiceImpl) ListEvents(ctx context.Context, page, limit int) ([]*models.Event, error) {
	return s.eventRepo.FindAll(ctx, page, limit)
}

// DeleteEvent removes an event and cascades to its ledger entries
func (s *EventServiceImpl) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.eventRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to load event: %w", err)
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	if err := s.appRepo.DeleteByEventID(ctx, id); err != nil {
		// The event is gone; remaining entries are pruned lazily on read.
		slog.Warn("failed to cascade-delete participation records", "eventId", id.Hex(), "error", err)
	}
	slog.Info("event deleted", "eventId", id.Hex())
	return nil
}

// AnnounceWinners replaces the event's manual winner list verbatim. The list
// is not merged with the previous one and is not validated against
// participation records; it is a declarative channel separate from the draw
// engine.
func (s *EventServiceImpl) AnnounceWinners(ctx context.Context, id primitive.ObjectID, winners []models.ManualWinner) error {
	if winners == nil {
		winners = []models.ManualWinner{}
	}
	err := s.eventRepo.ReplaceManualWinners(ctx, id, winners)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to store manual winners: %w", err)
	}
	slog.Info("manual winners announced", "eventId", id.Hex(), "count", len(winners))
	return nil
}

// EventApplications lists an event's ledger entries in first-participation order
func (s *EventServiceImpl) EventApplications(ctx context.Context, id primitive.ObjectID, page, limit int) ([]*models.Application, error) {
	if _, err := s.eventRepo.FindByID(ctx, id); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to load event: %w", err)
	}
	return s.appRepo.FindByEventID(ctx, id, page, limit)
}
