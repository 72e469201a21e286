package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/joshua-takyi/devevent/internal/errs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UsersColName    = "users"
	EventsColName   = "events"
	BookingsColName = "bookings"
)

// ClientProvider hands out the shared Mongo client, dialing on first use.
type ClientProvider interface {
	Connect(ctx context.Context) (*mongo.Client, error)
}

type MongodbRepo struct {
	provider ClientProvider
	dbName   string
}

func MongodbNewRepo(provider ClientProvider, dbName string) *MongodbRepo {
	return &MongodbRepo{
		provider: provider,
		dbName:   dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(ctx context.Context, colName string) (*mongo.Collection, error) {
	if mdb.provider == nil {
		return nil, errs.Configuration("mongodb client is not initialized")
	}
	client, err := mdb.provider.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return client.Database(mdb.dbName).Collection(colName), nil
}

// EnsureIndexes creates the indexes every collection relies on. Unique indexes
// are what make email, slug and (eventId, email) uniqueness hold under
// concurrent writes.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	plan := map[string][]mongo.IndexModel{
		UsersColName: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("email_unique"),
			},
			{
				Keys:    bson.D{{Key: "role", Value: 1}},
				Options: options.Index().SetName("role_idx"),
			},
			{
				Keys:    bson.D{{Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("created_at_idx"),
			},
		},
		EventsColName: {
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("slug_unique"),
			},
			{
				Keys:    bson.D{{Key: "tags", Value: 1}},
				Options: options.Index().SetName("tags_idx"),
			},
			{
				Keys:    bson.D{{Key: "date", Value: 1}},
				Options: options.Index().SetName("date_idx"),
			},
			{
				Keys:    bson.D{{Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("created_at_idx"),
			},
		},
		BookingsColName: {
			// one booking per email per event
			{
				Keys: bson.D{
					{Key: "eventId", Value: 1},
					{Key: "email", Value: 1},
				},
				Options: options.Index().SetUnique(true).SetName("event_email_unique"),
			},
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetName("email_idx"),
			},
			{
				Keys: bson.D{
					{Key: "eventId", Value: 1},
					{Key: "createdAt", Value: -1},
				},
				Options: options.Index().SetName("event_created_at_idx"),
			},
			{
				Keys:    bson.D{{Key: "userId", Value: 1}},
				Options: options.Index().SetName("user_id_idx"),
			},
			{
				Keys:    bson.D{{Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("created_at_idx"),
			},
		},
	}

	for colName, indexes := range plan {
		col, err := mdb.GetCollection(ctx, colName)
		if err != nil {
			return fmt.Errorf("error getting collection %s: %w", colName, err)
		}
		if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
			return errs.Internal(fmt.Sprintf("error creating indexes on %s", colName), err)
		}
	}
	return nil
}

// storeError maps driver errors onto the domain taxonomy. Duplicate keys
// become Conflict with the given message and a missing document NotFound.
func storeError(err error, conflictMsg, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case mongo.IsDuplicateKeyError(err):
		return errs.Conflict(conflictMsg)
	case errors.Is(err, mongo.ErrNoDocuments):
		return errs.NotFound(notFoundMsg)
	case errors.As(err, new(*errs.Error)):
		return err
	default:
		return errs.Internal("database operation failed", err)
	}
}
