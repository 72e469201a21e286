package models

import (
	"context"
	"fmt"

	"github.com/joshua-takyi/devevent/internal/errs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	slugTakenMsg     = "An event with this title already exists"
	eventNotFoundMsg = "Event not found"
)

type EventRepo interface {
	CreateEvent(ctx context.Context, event *Event) (*Event, error)
	GetEventBySlug(ctx context.Context, slug string) (*Event, error)
	EventExists(ctx context.Context, id primitive.ObjectID) (bool, error)
	ListEvents(ctx context.Context, offset, limit int) ([]*Event, int64, error)
	ListSimilarEvents(ctx context.Context, event *Event, limit int) ([]*Event, error)
	// ReplaceEvent stores an already normalized event over its previous version.
	ReplaceEvent(ctx context.Context, event *Event) (*Event, error)
	DeleteEvent(ctx context.Context, id primitive.ObjectID) error
}

func (mdb *MongodbRepo) CreateEvent(ctx context.Context, event *Event) (*Event, error) {
	if err := event.BeforeCreate(); err != nil {
		return nil, err
	}
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, err
	}
	if _, err := col.InsertOne(ctx, event); err != nil {
		return nil, storeError(err, slugTakenMsg, eventNotFoundMsg)
	}
	return event, nil
}

func (mdb *MongodbRepo) GetEventBySlug(ctx context.Context, slug string) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, err
	}
	var event Event
	if err := col.FindOne(ctx, bson.M{"slug": slug}).Decode(&event); err != nil {
		return nil, storeError(err, slugTakenMsg, eventNotFoundMsg)
	}
	return &event, nil
}

func (mdb *MongodbRepo) EventExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return false, err
	}
	n, err := col.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	if err != nil {
		return false, storeError(err, "", "")
	}
	return n > 0, nil
}

func (mdb *MongodbRepo) ListEvents(ctx context.Context, offset, limit int) ([]*Event, int64, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, 0, err
	}
	total, err := col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, storeError(err, "", "")
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	events, err := mdb.findEvents(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (mdb *MongodbRepo) ListSimilarEvents(ctx context.Context, event *Event, limit int) ([]*Event, error) {
	filter := bson.M{
		"_id":  bson.M{"$ne": event.ID},
		"tags": bson.M{"$in": event.Tags},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}}).
		SetLimit(int64(limit))
	return mdb.findEvents(ctx, filter, opts)
}

func (mdb *MongodbRepo) findEvents(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, err
	}
	cursor, err := col.Find(ctx, filter, opts)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	defer cursor.Close(ctx)

	events := make([]*Event, 0)
	if err := cursor.All(ctx, &events); err != nil {
		return nil, storeError(fmt.Errorf("error decoding events: %w", err), "", "")
	}
	return events, nil
}

func (mdb *MongodbRepo) ReplaceEvent(ctx context.Context, event *Event) (*Event, error) {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return nil, err
	}
	res, err := col.ReplaceOne(ctx, bson.M{"_id": event.ID}, event)
	if err != nil {
		return nil, storeError(err, slugTakenMsg, eventNotFoundMsg)
	}
	if res.MatchedCount == 0 {
		return nil, errs.NotFound(eventNotFoundMsg)
	}
	return event, nil
}

func (mdb *MongodbRepo) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, EventsColName)
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeError(err, "", eventNotFoundMsg)
	}
	if res.DeletedCount == 0 {
		return errs.NotFound(eventNotFoundMsg)
	}
	return nil
}
