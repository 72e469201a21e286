package models

import (
	"context"
	"fmt"
	"time"

	"github.com/joshua-takyi/devevent/internal/errs"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	bookingExistsMsg   = "This email has already booked this event"
	bookingNotFoundMsg = "Booking not found"
)

type BookingRepo interface {
	CreateBooking(ctx context.Context, booking *Booking) (*Booking, error)
	GetBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error)
	CountBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error)
	ListBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*Booking, error)
	ListBookingsByUser(ctx context.Context, userID primitive.ObjectID) ([]*BookingWithEvent, error)
	UpdateBookingEvent(ctx context.Context, id, eventID primitive.ObjectID) (*Booking, error)
	DeleteBooking(ctx context.Context, id primitive.ObjectID) error
}

func (mdb *MongodbRepo) CreateBooking(ctx context.Context, booking *Booking) (*Booking, error) {
	if err := booking.BeforeCreate(); err != nil {
		return nil, err
	}
	col, err := mdb.GetCollection(ctx, BookingsColName)
	if err != nil {
		return nil, err
	}
	// the (eventId, email) unique index rejects concurrent duplicates
	if _, err := col.InsertOne(ctx, booking); err != nil {
		return nil, storeError(err, bookingExistsMsg, bookingNotFoundMsg)
	}
	return booking, nil
}

func (mdb *MongodbRepo) GetBookingByID(ctx context.Context, id primitive.ObjectID) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingsColName)
	if err != nil {
		return nil, err
	}
	var booking Booking
	if err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&booking); err != nil {
		return nil, storeError(err, bookingExistsMsg, bookingNotFoundMsg)
	}
	return &booking, nil
}

func (mdb *MongodbRepo) CountBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	col, err := mdb.GetCollection(ctx, BookingsColName)
	if err != nil {
		return 0, err
	}
	n, err := col.CountDocuments(ctx, bson.M{"eventId": eventID})
	if err != nil {
		return 0, storeError(err, "", "")
	}
	return n, nil
}

func (mdb *MongodbRepo) ListBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingsColName)
	if err != nil {
		return nil, err
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := col.Find(ctx, bson.M{"eventId": eventID}, opts)
	if err != nil {
		return nil, storeError(err, "", "")
	}
	defer cursor.Close(ctx)

	bookings := make([]*Booking, 0)
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, storeError(fmt.Errorf("error decoding bookings: %w", err), "", "")
	}
	return bookings, nil
}

// ListBookingsByUser returns the user's bookings, newest first, each joined
// with a summary of its event.
func (mdb *MongodbRepo) ListBookingsByUser(ctx context.Context, userID primitive.ObjectID) ([]*BookingWithEvent, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"userId": userID}}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         EventsColName,
			"localField":   "eventId",
			"foreignField": "_id",
			"as":           "event",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$event", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: eventSummaryProjection("event", bson.M{
			"eventId": 1, "email": 1, "userId": 1, "createdAt": 1, "updatedAt": 1,
		})}},
	}
	bookings := make([]*BookingWithEvent, 0)
	if err := mdb.aggregate(ctx, BookingsColName, pipeline, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (mdb *MongodbRepo) UpdateBookingEvent(ctx context.Context, id, eventID primitive.ObjectID) (*Booking, error) {
	col, err := mdb.GetCollection(ctx, BookingsColName)
	if err != nil {
		return nil, err
	}
	update := bson.M{"$set": bson.M{"eventId": eventID, "updatedAt": time.Now().UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var booking Booking
	if err := col.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&booking); err != nil {
		return nil, storeError(err, bookingExistsMsg, bookingNotFoundMsg)
	}
	return &booking, nil
}

func (mdb *MongodbRepo) DeleteBooking(ctx context.Context, id primitive.ObjectID) error {
	col, err := mdb.GetCollection(ctx, BookingsColName)
	if err != nil {
		return err
	}
	res, err := col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return storeError(err, "", bookingNotFoundMsg)
	}
	if res.DeletedCount == 0 {
		return errs.NotFound(bookingNotFoundMsg)
	}
	return nil
}

// eventSummaryProjection keeps the listed fields plus the summary fields of a
// joined event stored under prefix.
func eventSummaryProjection(prefix string, fields bson.M) bson.M {
	for _, f := range []string{"_id", "title", "slug", "date", "time", "location", "image"} {
		fields[prefix+"."+f] = 1
	}
	return fields
}
