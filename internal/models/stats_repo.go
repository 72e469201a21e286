package models

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"
)

type OverviewStats struct {
	TotalEvents   int64 `json:"totalEvents"`
	TotalBookings int64 `json:"totalBookings"`
	TotalUsers    int64 `json:"totalUsers"`
}

type PopularEvent struct {
	ID           primitive.ObjectID `bson:"_id" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Slug         string             `bson:"slug" json:"slug"`
	Date         string             `bson:"date" json:"date"`
	Location     string             `bson:"location" json:"location"`
	BookingCount int64              `bson:"bookingCount" json:"bookingCount"`
}

type RecentBooking struct {
	ID        primitive.ObjectID `bson:"_id" json:"id"`
	Email     string             `bson:"email" json:"email"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	Event     *EventSummary      `bson:"event,omitempty" json:"event"`
	User      *UserSummary       `bson:"user,omitempty" json:"user"`
}

type PeriodCounts struct {
	Weekly  int64 `json:"weekly"`
	Monthly int64 `json:"monthly"`
}

type GrowthStats struct {
	Bookings PeriodCounts `json:"bookings"`
	Users    PeriodCounts `json:"users"`
}

type EventStats struct {
	Upcoming int64            `json:"upcoming"`
	Past     int64            `json:"past"`
	ByMode   map[string]int64 `json:"byMode"`
}

type StatsRepo interface {
	OverviewStats(ctx context.Context) (*OverviewStats, error)
	PopularEvents(ctx context.Context, limit int) ([]*PopularEvent, error)
	UpcomingEvents(ctx context.Context, today string, limit int) ([]*Event, error)
	RecentBookings(ctx context.Context, limit int) ([]*RecentBooking, error)
	GrowthStats(ctx context.Context, now time.Time) (*GrowthStats, error)
	EventStats(ctx context.Context, today string) (*EventStats, error)
}

type countQuery struct {
	col    string
	filter bson.M
	dst    *int64
}

// countAll runs the counts concurrently and stops at the first failure.
func (mdb *MongodbRepo) countAll(ctx context.Context, queries ...countQuery) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, q := range queries {
		q := q
		g.Go(func() error {
			col, err := mdb.GetCollection(ctx, q.col)
			if err != nil {
				return err
			}
			n, err := col.CountDocuments(ctx, q.filter)
			if err != nil {
				return storeError(fmt.Errorf("error counting %s: %w", q.col, err), "", "")
			}
			*q.dst = n
			return nil
		})
	}
	return g.Wait()
}

func (mdb *MongodbRepo) OverviewStats(ctx context.Context) (*OverviewStats, error) {
	var s OverviewStats
	err := mdb.countAll(ctx,
		countQuery{EventsColName, bson.M{}, &s.TotalEvents},
		countQuery{BookingsColName, bson.M{}, &s.TotalBookings},
		countQuery{UsersColName, bson.M{}, &s.TotalUsers},
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// PopularEvents ranks every event by its number of bookings, including events
// nobody has booked yet.
func (mdb *MongodbRepo) PopularEvents(ctx context.Context, limit int) ([]*PopularEvent, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$lookup", Value: bson.M{
			"from":         BookingsColName,
			"localField":   "_id",
			"foreignField": "eventId",
			"as":           "bookings",
		}}},
		{{Key: "$project", Value: bson.M{
			"title":        1,
			"slug":         1,
			"date":         1,
			"location":     1,
			"createdAt":    1,
			"bookingCount": bson.M{"$size": "$bookings"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "bookingCount", Value: -1}, {Key: "createdAt", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
	}
	events := make([]*PopularEvent, 0)
	if err := mdb.aggregate(ctx, EventsColName, pipeline, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (mdb *MongodbRepo) UpcomingEvents(ctx context.Context, today string, limit int) ([]*Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}).
		SetLimit(int64(limit))
	return mdb.findEvents(ctx, bson.M{"date": bson.M{"$gte": today}}, opts)
}

func (mdb *MongodbRepo) RecentBookings(ctx context.Context, limit int) ([]*RecentBooking, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{
			"from":         EventsColName,
			"localField":   "eventId",
			"foreignField": "_id",
			"as":           "event",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$event", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         UsersColName,
			"localField":   "userId",
			"foreignField": "_id",
			"as":           "user",
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$user", "preserveNullAndEmptyArrays": true}}},
		{{Key: "$project", Value: bson.M{
			"email":       1,
			"createdAt":   1,
			"event.title": 1,
			"event.slug":  1,
			"user.name":   1,
			"user.email":  1,
		}}},
	}
	bookings := make([]*RecentBooking, 0)
	if err := mdb.aggregate(ctx, BookingsColName, pipeline, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (mdb *MongodbRepo) GrowthStats(ctx context.Context, now time.Time) (*GrowthStats, error) {
	lastWeek := bson.M{"createdAt": bson.M{"$gte": now.Add(-7 * 24 * time.Hour)}}
	lastMonth := bson.M{"createdAt": bson.M{"$gte": now.Add(-30 * 24 * time.Hour)}}

	var s GrowthStats
	err := mdb.countAll(ctx,
		countQuery{BookingsColName, lastWeek, &s.Bookings.Weekly},
		countQuery{BookingsColName, lastMonth, &s.Bookings.Monthly},
		countQuery{UsersColName, lastWeek, &s.Users.Weekly},
		countQuery{UsersColName, lastMonth, &s.Users.Monthly},
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (mdb *MongodbRepo) EventStats(ctx context.Context, today string) (*EventStats, error) {
	var upcoming, past, online, offline, hybrid int64
	err := mdb.countAll(ctx,
		countQuery{EventsColName, bson.M{"date": bson.M{"$gte": today}}, &upcoming},
		countQuery{EventsColName, bson.M{"date": bson.M{"$lt": today}}, &past},
		countQuery{EventsColName, bson.M{"mode": ModeOnline}, &online},
		countQuery{EventsColName, bson.M{"mode": ModeOffline}, &offline},
		countQuery{EventsColName, bson.M{"mode": ModeHybrid}, &hybrid},
	)
	if err != nil {
		return nil, err
	}
	return &EventStats{
		Upcoming: upcoming,
		Past:     past,
		ByMode: map[string]int64{
			ModeOnline:  online,
			ModeOffline: offline,
			ModeHybrid:  hybrid,
		},
	}, nil
}

func (mdb *MongodbRepo) aggregate(ctx context.Context, colName string, pipeline mongo.Pipeline, out interface{}) error {
	col, err := mdb.GetCollection(ctx, colName)
	if err != nil {
		return err
	}
	cursor, err := col.Aggregate(ctx, pipeline)
	if err != nil {
		return storeError(err, "", "")
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		return storeError(fmt.Errorf("error decoding %s aggregation: %w", colName, err), "", "")
	}
	return nil
}
