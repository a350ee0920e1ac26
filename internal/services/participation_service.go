package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/modu-events/lotto-backend/internal/models"
	"github.com/modu-events/lotto-backend/internal/repositories"
	"github.com/modu-events/lotto-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/exp/slog"
)

// Compile-time check to ensure ParticipationServiceImpl implements ParticipationService
var _ ParticipationService = (*ParticipationServiceImpl)(nil)

// claimRetries bounds the compare-and-swap attempts on a contended prize
// counter before the ticket degrades to a blank outcome.
const claimRetries = 3

// ParticipationServiceImpl handles ticket issuance and prize draws
type ParticipationServiceImpl struct {
	eventRepo repositories.EventRepository
	appRepo   repositories.ApplicationRepository

	mu  sync.Mutex
	rng *rand.Rand

	now func() time.Time
}

// NewParticipationService creates a new ParticipationServiceImpl
func NewParticipationService(eventRepo repositories.EventRepository, appRepo repositories.ApplicationRepository) *ParticipationServiceImpl {
	return &ParticipationServiceImpl{
		eventRepo: eventRepo,
		appRepo:   appRepo,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
	}
}

// randPercent draws one uniform value in [0, 100)
func (s *ParticipationServiceImpl) randPercent() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() * 100
}

// Apply issues tickets for one participation request.
//
// The frequency gate runs twice: once against the loaded ledger entry, and
// again at the storage layer (unique index on create, compare-and-swap on
// lastAppliedAt for accumulation) so concurrent applies cannot both commit.
func (s *ParticipationServiceImpl) Apply(ctx context.Context, eventID primitive.ObjectID, userID, nickname, eventTitle string) (int, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrEventNotFound
		}
		return 0, fmt.Errorf("failed to load event: %w", err)
	}

	now := s.now()

	app, err := s.appRepo.FindByEventAndUser(ctx, eventID, userID)
	if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
		return 0, fmt.Errorf("failed to load participation record: %w", err)
	}

	if app != nil {
		switch event.ApplyFrequency() {
		case models.FrequencyDaily:
			if utils.SameCalendarDate(app.LastAppliedAt, now) {
				return 0, ErrAlreadyParticipatedToday
			}
		default:
			return 0, ErrAlreadyParticipated
		}
	}

	tickets := 0
	if event.IsLotto() {
		tickets = s.sampleTicketCount(event.LottoConfig.TicketRates)
	}

	if app == nil {
		app = &models.Application{
			EventID:       eventID,
			UserID:        userID,
			Nickname:      nickname,
			EventTitle:    eventTitle,
			TicketCount:   tickets,
			Status:        models.EntryStatusTicketed,
			DrawResults:   []string{},
			AppliedAt:     now,
			LastAppliedAt: now,
		}
		if err := s.appRepo.Create(ctx, app); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				// A concurrent first apply won the unique-index race.
				if event.ApplyFrequency() == models.FrequencyDaily {
					return 0, ErrAlreadyParticipatedToday
				}
				return 0, ErrAlreadyParticipated
			}
			return 0, fmt.Errorf("failed to create participation record: %w", err)
		}
	} else {
		ok, err := s.appRepo.AddTickets(ctx, app.ID, tickets, app.LastAppliedAt, now)
		if err != nil {
			return 0, fmt.Errorf("failed to accumulate tickets: %w", err)
		}
		if !ok {
			// lastAppliedAt moved under us: a concurrent apply already
			// committed for this date.
			return 0, ErrAlreadyParticipatedToday
		}
	}

	slog.Info("participation applied",
		"eventId", eventID.Hex(), "userId", userID, "tickets", tickets)
	return tickets, nil
}

// sampleTicketCount walks the ticket-rate table in order, accumulating each
// entry's rate; the first bucket whose cumulative sum reaches the random
// draw wins. A table summing under 100 leaves a fallthrough band that
// grants zero tickets, which is tolerated rather than rejected.
func (s *ParticipationServiceImpl) sampleTicketCount(rates []models.TicketRate) int {
	r := s.randPercent()
	cum := 0.0
	for _, tr := range rates {
		cum += tr.Rate
		if cum >= r {
			return tr.Count
		}
	}
	return 0
}

// MyApplications returns the caller's ledger entries. Entries whose parent
// event has been deleted are pruned on read.
func (s *ParticipationServiceImpl) MyApplications(ctx context.Context, userID string) ([]*models.Application, error) {
	apps, err := s.appRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load participation records: %w", err)
	}

	kept := make([]*models.Application, 0, len(apps))
	for _, app := range apps {
		_, err := s.eventRepo.FindByID(ctx, app.EventID)
		if errors.Is(err, mongo.ErrNoDocuments) {
			if delErr := s.appRepo.Delete(ctx, app.ID); delErr != nil {
				slog.Warn("failed to prune orphaned participation record",
					"applicationId", app.ID.Hex(), "error", delErr)
			}
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to load event for participation record: %w", err)
		}
		kept = append(kept, app)
	}
	return kept, nil
}

// Draw consumes the user's entire ticket balance into a permanent outcome
// sequence, one weighted draw per ticket against the event's live prize
// inventory. The sequence is committed with a TICKETED -> DRAWN test-and-set;
// a draw that loses that race releases its inventory claims and returns the
// winner's stored results instead.
func (s *ParticipationServiceImpl) Draw(ctx context.Context, eventID primitive.ObjectID, userID string) ([]string, bool, error) {
	app, err := s.appRepo.FindByEventAndUser(ctx, eventID, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, ErrNoParticipation
		}
		return nil, false, fmt.Errorf("failed to load participation record: %w", err)
	}

	if app.Drawn() {
		return app.DrawResults, true, nil
	}

	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, ErrEventNotFound
		}
		return nil, false, fmt.Errorf("failed to load event: %w", err)
	}
	if !event.IsLotto() {
		return nil, false, ErrNotLottoEvent
	}

	// Local view of the inventory counters, refreshed when a claim loses a
	// compare-and-swap race.
	counts := make(map[string]int, len(event.LottoConfig.WinRates))
	for _, w := range event.LottoConfig.WinRates {
		counts[w.Name] = w.CurrentCount
	}
	claimed := make(map[string]int)

	results := make([]string, 0, app.TicketCount)
	for i := 0; i < app.TicketCount; i++ {
		outcome, err := s.drawOne(ctx, eventID, event.LottoConfig.WinRates, counts, claimed)
		if err != nil {
			s.releaseClaims(ctx, eventID, claimed)
			return nil, false, err
		}
		results = append(results, outcome)
	}

	committed, err := s.appRepo.SetDrawResults(ctx, app.ID, results)
	if err != nil {
		s.releaseClaims(ctx, eventID, claimed)
		return nil, false, fmt.Errorf("failed to persist draw results: %w", err)
	}
	if !committed {
		// A concurrent draw on the same entry committed first. Its results
		// are the permanent record; ours never happened.
		s.releaseClaims(ctx, eventID, claimed)
		stored, err := s.appRepo.FindByEventAndUser(ctx, eventID, userID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load stored draw results: %w", err)
		}
		return stored.DrawResults, true, nil
	}

	slog.Info("draw completed",
		"eventId", eventID.Hex(), "userId", userID, "tickets", app.TicketCount)
	return results, false, nil
}

// drawOne draws a single ticket. The candidate comes from the weighted walk
// over the prize table; exhausted inventory, persistent claim contention and
// an under-100 table all degrade to the blank outcome.
func (s *ParticipationServiceImpl) drawOne(ctx context.Context, eventID primitive.ObjectID, winRates []models.WinRate, counts, claimed map[string]int) (string, error) {
	r := s.randPercent()
	cum := 0.0
	var candidate *models.WinRate
	for i := range winRates {
		cum += winRates[i].Rate
		if cum >= r {
			candidate = &winRates[i]
			break
		}
	}
	if candidate == nil || candidate.Name == models.PrizeBlank {
		return models.PrizeBlank, nil
	}

	// Uncapped prizes only track consumption; no bound to enforce.
	if candidate.MaxCount == 0 {
		if err := s.eventRepo.AddPrizeCount(ctx, eventID, candidate.Name, 1); err != nil {
			return "", fmt.Errorf("failed to record prize consumption: %w", err)
		}
		counts[candidate.Name]++
		claimed[candidate.Name]++
		return candidate.Name, nil
	}

	for attempt := 0; attempt < claimRetries; attempt++ {
		if counts[candidate.Name] >= candidate.MaxCount {
			return models.PrizeBlank, nil
		}
		ok, err := s.eventRepo.IncrementPrizeCount(ctx, eventID, candidate.Name, counts[candidate.Name])
		if err != nil {
			return "", fmt.Errorf("failed to claim prize inventory: %w", err)
		}
		if ok {
			counts[candidate.Name]++
			claimed[candidate.Name]++
			return candidate.Name, nil
		}

		// Lost the race: refresh the live counter and re-check.
		fresh, err := s.eventRepo.FindByID(ctx, eventID)
		if err != nil {
			return "", fmt.Errorf("failed to refresh prize inventory: %w", err)
		}
		cur, found := currentCountOf(fresh, candidate.Name)
		if !found {
			return models.PrizeBlank, nil
		}
		counts[candidate.Name] = cur
	}

	slog.Warn("prize claim contention exhausted retries, degrading to blank",
		"eventId", eventID.Hex(), "prize", candidate.Name)
	return models.PrizeBlank, nil
}

// releaseClaims returns claimed inventory after a draw that did not commit
func (s *ParticipationServiceImpl) releaseClaims(ctx context.Context, eventID primitive.ObjectID, claimed map[string]int) {
	for name, n := range claimed {
		if n == 0 {
			continue
		}
		if err := s.eventRepo.AddPrizeCount(ctx, eventID, name, -n); err != nil {
			slog.Error("failed to release claimed prize inventory",
				"eventId", eventID.Hex(), "prize", name, "count", n, "error", err)
		}
	}
}

func currentCountOf(event *models.Event, prizeName string) (int, bool) {
	if event.LottoConfig == nil {
		return 0, false
	}
	for _, w := range event.LottoConfig.WinRates {
		if w.Name == prizeName {
			return w.CurrentCount, true
		}
	}
	return 0, false
}
