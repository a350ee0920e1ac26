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

// ApplicationRepository implements the repositories.ApplicationRepository interface
type ApplicationRepository struct {
	collection *mongo.Collection
}

// NewApplicationRepository creates a new ApplicationRepository
func NewApplicationRepository(db *mongo.Database) repositories.ApplicationRepository {
	return &ApplicationRepository{
		collection: db.Collection("applications"),
	}
}

// EnsureIndexes creates the unique (eventId, userId) index the ledger
// depends on. Double-applies race against this index, not application code.
func (r *ApplicationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "eventId", Value: 1}, {Key: "userId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "userId", Value: 1}, {Key: "appliedAt", Value: -1}},
		},
	})
	return err
}

// Create inserts a new ledger entry
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	app.CreatedAt = time.Now()
	app.UpdatedAt = time.Now()
	if app.DrawResults == nil {
		app.DrawResults = []string{}
	}
	res, err := r.collection.InsertOne(ctx, app)
	if err != nil {
		return err
	}
	app.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

// FindByEventAndUser finds the ledger entry for an (event, user) pair
func (r *ApplicationRepository) FindByEventAndUser(ctx context.Context, eventID primitive.ObjectID, userID string) (*models.Application, error) {
	var app models.Application
	err := r.collection.FindOne(ctx, bson.M{"eventId": eventID, "userId": userID}).Decode(&app)
	if err != nil {
		return nil, err // Returns mongo.ErrNoDocuments if not found
	}
	return &app, nil
}

// FindByUserID finds all ledger entries for a user, newest first
func (r *ApplicationRepository) FindByUserID(ctx context.Context, userID string) ([]*models.Application, error) {
	opts := options.Find().SetSort(bson.M{"appliedAt": -1})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var apps []*models.Application
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []*models.Application{}
	}
	return apps, nil
}

// FindByEventID finds an event's ledger entries in first-participation order
func (r *ApplicationRepository) FindByEventID(ctx context.Context, eventID primitive.ObjectID, page, limit int) ([]*models.Application, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 50
	}
	opts := options.Find().
		SetSort(bson.M{"appliedAt": 1}).
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit))
	cursor, err := r.collection.Find(ctx, bson.M{"eventId": eventID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var apps []*models.Application
	if err := cursor.All(ctx, &apps); err != nil {
		return nil, err
	}
	if apps == nil {
		apps = []*models.Application{}
	}
	return apps, nil
}

// AddTickets accumulates granted tickets. The filter matches the entry only
// at the lastAppliedAt the caller loaded, so two same-day applies cannot
// both commit against the daily gate.
func (r *ApplicationRepository) AddTickets(ctx context.Context, id primitive.ObjectID, count int, observedLastAppliedAt, now time.Time) (bool, error) {
	filter := bson.M{
		"_id":           id,
		"lastAppliedAt": observedLastAppliedAt,
	}
	update := bson.M{
		"$inc": bson.M{"ticketCount": count},
		"$set": bson.M{
			"lastAppliedAt": now,
			"updatedAt":     time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

// SetDrawResults stores the outcome sequence and marks the entry drawn in a
// single conditional update, so only one concurrent draw can ever commit.
func (r *ApplicationRepository) SetDrawResults(ctx context.Context, id primitive.ObjectID, results []string) (bool, error) {
	filter := bson.M{
		"_id":    id,
		"status": models.EntryStatusTicketed,
	}
	update := bson.M{
		"$set": bson.M{
			"status":      models.EntryStatusDrawn,
			"drawResults": results,
			"updatedAt":   time.Now(),
		},
	}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount == 1, nil
}

// Delete deletes a ledger entry by ID
func (r *ApplicationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// DeleteByEventID deletes every ledger entry of an event (cascade on event delete)
func (r *ApplicationRepository) DeleteByEventID(ctx context.Context, eventID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"eventId": eventID})
	return err
}
