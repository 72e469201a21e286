package models

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/joshua-takyi/devevent/internal/connect"
	"github.com/joshua-takyi/devevent/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	mongoOnce      sync.Once
	mongoURI       string
	mongoErr       error
	mongoContainer testcontainers.Container
)

func TestMain(m *testing.M) {
	code := m.Run()
	if mongoContainer != nil {
		_ = mongoContainer.Terminate(context.Background())
	}
	os.Exit(code)
}

func startMongo(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping MongoDB integration test in short mode")
	}
	if uri := os.Getenv("MONGODB_TEST_URI"); uri != "" {
		return uri
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	mongoOnce.Do(func() {
		ctx := context.Background()
		req := testcontainers.ContainerRequest{
			Image:        "mongo:7",
			ExposedPorts: []string{"27017/tcp"},
			WaitingFor:   wait.ForListeningPort("27017/tcp").WithStartupTimeout(90 * time.Second),
		}
		mongoContainer, mongoErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if mongoErr != nil {
			return
		}
		endpoint, err := mongoContainer.Endpoint(ctx, "")
		if err != nil {
			mongoErr = err
			return
		}
		mongoURI = "mongodb://" + endpoint
	})
	require.NoError(t, mongoErr)
	return mongoURI
}

// newTestRepo returns a repository on a fresh database with indexes in place.
func newTestRepo(t *testing.T) *MongodbRepo {
	uri := startMongo(t)
	connector := connect.NewMongoConnector(uri, "")
	dbName := fmt.Sprintf("devevent_test_%d", time.Now().UnixNano())
	repo := MongodbNewRepo(connector, dbName)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, repo.EnsureIndexes(ctx))

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if client, err := connector.Connect(ctx); err == nil {
			_ = client.Database(dbName).Drop(ctx)
		}
		_ = connector.Disconnect(ctx)
	})
	return repo
}

func TestUserRepoDuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created, err := repo.CreateUser(ctx, &User{Name: "Ada", Email: "a@b.com", Password: "password123"})
	require.NoError(t, err)
	assert.Empty(t, created.Password)

	_, err = repo.CreateUser(ctx, &User{Name: "Ada Again", Email: " A@B.com ", Password: "password123"})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindConflict))

	withHash, err := repo.GetUserByEmail(ctx, "a@b.com", true)
	require.NoError(t, err)
	assert.True(t, withHash.ComparePassword("password123"))

	withoutHash, err := repo.GetUserByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Empty(t, withoutHash.Password)
}

func TestUserRepoRoleAndProfile(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	ada, err := repo.CreateUser(ctx, &User{Name: "Ada", Email: "ada@example.com", Password: "password123", Role: RoleAdmin})
	require.NoError(t, err)
	bob, err := repo.CreateUser(ctx, &User{Name: "Bob", Email: "bob@example.com", Password: "password123"})
	require.NoError(t, err)

	admins, err := repo.CountUsersByRole(ctx, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, int64(1), admins)

	promoted, err := repo.UpdateUserRole(ctx, bob.ID, RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, promoted.Role)

	_, err = repo.UpdateUserProfile(ctx, bob.ID, "Bob", ada.Email)
	assert.True(t, errs.Is(err, errs.KindConflict))

	_, err = repo.UpdateUserRole(ctx, primitive.NewObjectID(), RoleUser)
	assert.True(t, errs.Is(err, errs.KindNotFound))

	users, err := repo.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestEventRepoSlugConflict(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.CreateEvent(ctx, validEvent())
	require.NoError(t, err)
	assert.Equal(t, "my-amazing-event", first.Slug)

	_, err = repo.CreateEvent(ctx, validEvent())
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindConflict))

	found, err := repo.GetEventBySlug(ctx, "my-amazing-event")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	_, err = repo.GetEventBySlug(ctx, "missing")
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestEventRepoListSimilarAndDelete(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a := validEvent()
	a.Title, a.Tags = "Go Summit", []string{"go"}
	b := validEvent()
	b.Title, b.Tags = "Cloud Native Day", []string{"cloud", "go"}
	c := validEvent()
	c.Title, c.Tags = "Design Systems", []string{"design"}
	for _, e := range []*Event{a, b, c} {
		_, err := repo.CreateEvent(ctx, e)
		require.NoError(t, err)
	}

	similar, err := repo.ListSimilarEvents(ctx, a, 10)
	require.NoError(t, err)
	require.Len(t, similar, 1)
	assert.Equal(t, "cloud-native-day", similar[0].Slug)

	events, total, err := repo.ListEvents(ctx, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, events, 2)

	require.NoError(t, repo.DeleteEvent(ctx, c.ID))
	assert.True(t, errs.Is(repo.DeleteEvent(ctx, c.ID), errs.KindNotFound))
}

func TestBookingRepoUniquePerEvent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first, err := repo.CreateEvent(ctx, validEvent())
	require.NoError(t, err)
	other := validEvent()
	other.Title = "Another Event"
	second, err := repo.CreateEvent(ctx, other)
	require.NoError(t, err)

	_, err = repo.CreateBooking(ctx, &Booking{EventID: first.ID, Email: "guest@example.com"})
	require.NoError(t, err)

	_, err = repo.CreateBooking(ctx, &Booking{EventID: first.ID, Email: "  GUEST@example.com"})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindConflict))

	moved, err := repo.CreateBooking(ctx, &Booking{EventID: second.ID, Email: "guest@example.com"})
	require.NoError(t, err)

	_, err = repo.UpdateBookingEvent(ctx, moved.ID, first.ID)
	assert.True(t, errs.Is(err, errs.KindConflict))

	n, err := repo.CountBookingsByEvent(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestBookingRepoConcurrentDuplicates(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	event, err := repo.CreateEvent(ctx, validEvent())
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.CreateBooking(ctx, &Booking{EventID: event.ID, Email: "race@example.com"})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var ok, conflicts int
	for err := range results {
		switch {
		case err == nil:
			ok++
		case errs.Is(err, errs.KindConflict):
			conflicts++
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, attempts-1, conflicts)
}

func TestBookingRepoListByUserJoinsEvent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, &User{Name: "Ada", Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)
	event, err := repo.CreateEvent(ctx, validEvent())
	require.NoError(t, err)

	booking, err := repo.CreateBooking(ctx, &Booking{EventID: event.ID, Email: user.Email, UserID: &user.ID})
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), booking.OwnerID())

	list, err := repo.ListBookingsByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Event)
	assert.Equal(t, event.Slug, list[0].Event.Slug)

	require.NoError(t, repo.DeleteBooking(ctx, booking.ID))
	_, err = repo.GetBookingByID(ctx, booking.ID)
	assert.True(t, errs.Is(err, errs.KindNotFound))
}

func TestStatsRepo(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	user, err := repo.CreateUser(ctx, &User{Name: "Ada", Email: "ada@example.com", Password: "password123"})
	require.NoError(t, err)

	popular := validEvent()
	popular.Title, popular.Date, popular.Mode = "Popular", "2999-01-01", ModeOnline
	quiet := validEvent()
	quiet.Title, quiet.Date, quiet.Mode = "Quiet", "2000-01-01", ModeOffline
	for _, e := range []*Event{popular, quiet} {
		_, err := repo.CreateEvent(ctx, e)
		require.NoError(t, err)
	}
	for _, email := range []string{"one@example.com", "two@example.com"} {
		_, err := repo.CreateBooking(ctx, &Booking{EventID: popular.ID, Email: email, UserID: &user.ID})
		require.NoError(t, err)
	}

	overview, err := repo.OverviewStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, OverviewStats{TotalEvents: 2, TotalBookings: 2, TotalUsers: 1}, *overview)

	ranked, err := repo.PopularEvents(ctx, 5)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "popular", ranked[0].Slug)
	assert.Equal(t, int64(2), ranked[0].BookingCount)
	assert.Equal(t, int64(0), ranked[1].BookingCount)

	today := time.Now().UTC().Format(time.DateOnly)
	upcoming, err := repo.UpcomingEvents(ctx, today, 5)
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "popular", upcoming[0].Slug)

	recent, err := repo.RecentBookings(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	require.NotNil(t, recent[0].Event)
	require.NotNil(t, recent[0].User)
	assert.Equal(t, "Ada", recent[0].User.Name)

	growth, err := repo.GrowthStats(ctx, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, int64(2), growth.Bookings.Weekly)
	assert.Equal(t, int64(1), growth.Users.Monthly)

	eventStats, err := repo.EventStats(ctx, today)
	require.NoError(t, err)
	assert.Equal(t, int64(1), eventStats.Upcoming)
	assert.Equal(t, int64(1), eventStats.Past)
	assert.Equal(t, int64(1), eventStats.ByMode[ModeOnline])
	assert.Equal(t, int64(0), eventStats.ByMode[ModeHybrid])
}
