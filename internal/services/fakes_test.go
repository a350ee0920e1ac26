package services

import (
	"context"
	"sync"
	"time"

	"github.com/modu-events/lotto-backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// In-memory repositories for service tests. They reproduce the storage
// semantics the services rely on: copies on read, conditional updates under
// a lock, duplicate-key errors from the unique (eventId, userId) index.

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[primitive.ObjectID]*models.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[primitive.ObjectID]*models.Event)}
}

func cloneEvent(e *models.Event) *models.Event {
	c := *e
	if e.LottoConfig != nil {
		cfg := *e.LottoConfig
		cfg.TicketRates = append([]models.TicketRate(nil), e.LottoConfig.TicketRates...)
		cfg.WinRates = append([]models.WinRate(nil), e.LottoConfig.WinRates...)
		c.LottoConfig = &cfg
	}
	if e.ManualWinners != nil {
		c.ManualWinners = make([]models.ManualWinner, len(e.ManualWinners))
		copy(c.ManualWinners, e.ManualWinners)
	}
	return &c
}

func (r *fakeEventRepo) Create(ctx context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	r.events[event.ID] = cloneEvent(event)
	return nil
}

func (r *fakeEventRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneEvent(e), nil
}

func (r *fakeEventRepo) FindAll(ctx context.Context, page, limit int) ([]*models.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.Event, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, cloneEvent(e))
	}
	return out, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *models.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = cloneEvent(event)
	return nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) ReplaceManualWinners(ctx context.Context, id primitive.ObjectID, winners []models.ManualWinner) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok {
		return mongo.ErrNoDocuments
	}
	e.ManualWinners = append([]models.ManualWinner(nil), winners...)
	return nil
}

func (r *fakeEventRepo) IncrementPrizeCount(ctx context.Context, id primitive.ObjectID, prizeName string, observedCount int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.LottoConfig == nil {
		return false, nil
	}
	for i := range e.LottoConfig.WinRates {
		w := &e.LottoConfig.WinRates[i]
		if w.Name == prizeName && w.CurrentCount == observedCount {
			w.CurrentCount++
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeEventRepo) AddPrizeCount(ctx context.Context, id primitive.ObjectID, prizeName string, delta int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.events[id]
	if !ok || e.LottoConfig == nil {
		return nil
	}
	for i := range e.LottoConfig.WinRates {
		if e.LottoConfig.WinRates[i].Name == prizeName {
			e.LottoConfig.WinRates[i].CurrentCount += delta
			return nil
		}
	}
	return nil
}

type appKey struct {
	eventID primitive.ObjectID
	userID  string
}

type fakeAppRepo struct {
	mu   sync.Mutex
	apps map[primitive.ObjectID]*models.Application
	keys map[appKey]primitive.ObjectID
}

func newFakeAppRepo() *fakeAppRepo {
	return &fakeAppRepo{
		apps: make(map[primitive.ObjectID]*models.Application),
		keys: make(map[appKey]primitive.ObjectID),
	}
}

func cloneApp(a *models.Application) *models.Application {
	c := *a
	c.DrawResults = append([]string(nil), a.DrawResults...)
	return &c
}

func (r *fakeAppRepo) EnsureIndexes(ctx context.Context) error { return nil }

func (r *fakeAppRepo) Create(ctx context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := appKey{app.EventID, app.UserID}
	if _, exists := r.keys[key]; exists {
		return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
	}
	if app.ID.IsZero() {
		app.ID = primitive.NewObjectID()
	}
	r.keys[key] = app.ID
	r.apps[app.ID] = cloneApp(app)
	return nil
}

func (r *fakeAppRepo) FindByEventAndUser(ctx context.Context, eventID primitive.ObjectID, userID string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.keys[appKey{eventID, userID}]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return cloneApp(r.apps[id]), nil
}

func (r *fakeAppRepo) FindByUserID(ctx context.Context, userID string) ([]*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Application
	for _, a := range r.apps {
		if a.UserID == userID {
			out = append(out, cloneApp(a))
		}
	}
	return out, nil
}

func (r *fakeAppRepo) FindByEventID(ctx context.Context, eventID primitive.ObjectID, page, limit int) ([]*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*models.Application
	for _, a := range r.apps {
		if a.EventID == eventID {
			out = append(out, cloneApp(a))
		}
	}
	return out, nil
}

func (r *fakeAppRepo) AddTickets(ctx context.Context, id primitive.ObjectID, count int, observedLastAppliedAt, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok || !a.LastAppliedAt.Equal(observedLastAppliedAt) {
		return false, nil
	}
	a.TicketCount += count
	a.LastAppliedAt = now
	return true, nil
}

func (r *fakeAppRepo) SetDrawResults(ctx context.Context, id primitive.ObjectID, results []string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if !ok || a.Status != models.EntryStatusTicketed {
		return false, nil
	}
	a.Status = models.EntryStatusDrawn
	a.DrawResults = append([]string(nil), results...)
	return true, nil
}

func (r *fakeAppRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.apps[id]
	if ok {
		delete(r.keys, appKey{a.EventID, a.UserID})
		delete(r.apps, id)
	}
	return nil
}

func (r *fakeAppRepo) DeleteByEventID(ctx context.Context, eventID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, a := range r.apps {
		if a.EventID == eventID {
			delete(r.keys, appKey{a.EventID, a.UserID})
			delete(r.apps, id)
		}
	}
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	c := *user
	r.users[user.Email] = &c
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.ID == id {
			c := *u
			return &c, nil
		}
	}
	return nil, mongo.ErrNoDocuments
}
