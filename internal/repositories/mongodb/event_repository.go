package mongodb

import (
	"context"
	"time"

	"github.com/modu-events/lotto-backend/internal/models"
	"github.com/modu-events/lotto-backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EventRepository implements the repositories.EventRepository interface
type EventRepository struct {
	collection *mongo.Collection
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *mongo.Database) repositories.EventRepository {
	return &EventRepository{
		collection: db.Collection("events"),
	}
}

// Create creates a new event
func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	event.CreatedAt = time.Now()
	event.UpdatedAt = time.Now()
	res, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		return err
	}
	event.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByID finds an event by ID
func (r *EventRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Event, error) {
	var event models.Event
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&event)
	if err != nil {
		return nil, err // Returns mongo.ErrNoDocuments if not found
	}
	return &event, nil
}

// FindAll finds events, newest first, with page/limit pagination
func (r *EventRepository) FindAll(ctx context.Context, page, limit int) ([]*models.Event, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.M{"createdAt": -1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []*models.Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	if events == nil {
		events = []*models.Event{}
	}
	return events, nil
}

// Update replaces an event document
func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now()
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": event.ID}, event)
	return err
}

// Delete deletes an event by ID
func (r *EventRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// ReplaceManualWinners overwrites the manual winner list verbatim
func (r *EventRepository) ReplaceManualWinners(ctx context.Context, id primitive.ObjectID, winners []models.ManualWinner) error {
	update := bson.M{
		"$set": bson.M{
			"manualWinners": winners,
			"updatedAt":     time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// IncrementPrizeCount claims one unit of prize inventory. The filter matches
// the prize element only at the counter value the caller observed, so a
// concurrent claim makes this a no-op and the caller must re-read and retry.
func (r *EventRepository) IncrementPrizeCount(ctx context.Context, id primitive.ObjectID, prizeName string, observedCount int) (bool, error) {
	filter := bson.M{
		"_id": id,
		"lottoConfig.winRates": bson.M{
			"$elemMatch": bson.M{
				"name":         prizeName,
				"currentCount": observedCount,
			},
		},
	}
	update := bson.M{
		"$inc": bson.M{"lottoConfig.winRates.$.currentCount": 1},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// AddPrizeCount adjusts a prize counter unconditionally
func (r *EventRepository) AddPrizeCount(ctx context.Context, id primitive.ObjectID, prizeName string, delta int) error {
	filter := bson.M{
		"_id":                       id,
		"lottoConfig.winRates.name": prizeName,
	}
	update := bson.M{
		"$inc": bson.M{"lottoConfig.winRates.$.currentCount": delta},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}
