package models

import (
	"strings"
	"testing"

	"github.com/joshua-takyi/devevent/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

func validEvent() *Event {
	return &Event{
		Title:       "  My Amazing Event!  ",
		Description: "A deep dive into building services",
		Overview:    "One day, many talks",
		Image:       "https://res.cloudinary.com/demo/image/upload/event.png",
		Venue:       "Main Hall",
		Location:    "Accra, Ghana",
		Date:        "December 25, 2025",
		Time:        "9:30 am",
		Mode:        ModeHybrid,
		Audience:    "Developers",
		Agenda:      []string{" Keynote ", "Workshops"},
		Organizer:   "DevEvent",
		Tags:        []string{"go", " cloud ", "go", ""},
	}
}

func TestEventBeforeCreateNormalizes(t *testing.T) {
	e := validEvent()
	require.NoError(t, e.BeforeCreate())

	assert.Equal(t, "My Amazing Event!", e.Title)
	assert.Equal(t, "my-amazing-event", e.Slug)
	assert.Equal(t, "2025-12-25", e.Date)
	assert.Equal(t, "09:30", e.Time)
	assert.Equal(t, []string{"Keynote", "Workshops"}, e.Agenda)
	assert.Equal(t, []string{"go", "cloud"}, e.Tags)
	assert.False(t, e.ID.IsZero())
	assert.False(t, e.CreatedAt.IsZero())
}

func TestEventValidation(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(e *Event)
		field   string
		message string
	}{
		{"missing title", func(e *Event) { e.Title = "   " }, "title", "required"},
		{"long title", func(e *Event) { e.Title = strings.Repeat("a", 101) }, "title", "cannot exceed 100"},
		{"long description", func(e *Event) { e.Description = strings.Repeat("a", 1001) }, "description", "cannot exceed 1000"},
		{"long overview", func(e *Event) { e.Overview = strings.Repeat("a", 501) }, "overview", "cannot exceed 500"},
		{"bad mode", func(e *Event) { e.Mode = "remote" }, "mode", "online, offline, hybrid"},
		{"empty agenda", func(e *Event) { e.Agenda = []string{} }, "agenda", "agenda"},
		{"blank tags", func(e *Event) { e.Tags = []string{"  ", ""} }, "tags", "tags"},
		{"bad date", func(e *Event) { e.Date = "invalid-date" }, "date", "Invalid date"},
		{"bad time", func(e *Event) { e.Time = "25:00" }, "time", "Invalid time"},
		{"slugless title", func(e *Event) { e.Title = "!!!" }, "title", "letter or digit"},
		{"missing venue", func(e *Event) { e.Venue = "" }, "venue", "required"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := validEvent()
			tc.mutate(e)
			err := e.BeforeCreate()
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.KindValidation))
			assert.Equal(t, tc.field, errs.FieldOf(err))
			assert.Contains(t, err.Error(), tc.message)
		})
	}
}

func TestEventApplyUpdateKeepsSlugUnlessTitleChanges(t *testing.T) {
	e := validEvent()
	require.NoError(t, e.BeforeCreate())

	desc := "Updated description"
	require.NoError(t, e.ApplyUpdate(EventUpdate{Description: &desc}))
	assert.Equal(t, "my-amazing-event", e.Slug)
	assert.Equal(t, desc, e.Description)

	same := " My Amazing Event! "
	require.NoError(t, e.ApplyUpdate(EventUpdate{Title: &same}))
	assert.Equal(t, "my-amazing-event", e.Slug)

	title := "Go Summit 2026"
	date := "2026/03/01"
	clock := "1:15 PM"
	require.NoError(t, e.ApplyUpdate(EventUpdate{Title: &title, Date: &date, Time: &clock}))
	assert.Equal(t, "go-summit-2026", e.Slug)
	assert.Equal(t, "2026-03-01", e.Date)
	assert.Equal(t, "13:15", e.Time)
}

func TestEventApplyUpdateRejectsInvalid(t *testing.T) {
	e := validEvent()
	require.NoError(t, e.BeforeCreate())

	mode := "virtual"
	err := e.ApplyUpdate(EventUpdate{Mode: &mode})
	require.Error(t, err)
	assert.Equal(t, "mode", errs.FieldOf(err))

	assert.True(t, EventUpdate{}.IsEmpty())
	assert.False(t, EventUpdate{Mode: &mode}.IsEmpty())
}

func TestUserBeforeCreateHashesPassword(t *testing.T) {
	u := &User{Name: "  Ada Lovelace ", Email: "  ADA@Example.com ", Password: "password123"}
	require.NoError(t, u.BeforeCreate())

	assert.Equal(t, "Ada Lovelace", u.Name)
	assert.Equal(t, "ada@example.com", u.Email)
	assert.Equal(t, RoleUser, u.Role)
	cost, err := bcrypt.Cost([]byte(u.Password))
	require.NoError(t, err)
	assert.Equal(t, passwordCost, cost)
	assert.True(t, u.ComparePassword("password123"))
	assert.False(t, u.ComparePassword("password124"))
}

func TestUserBeforeCreateHashesHashShapedPassword(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("whatever1"), passwordCost)
	require.NoError(t, err)
	submitted := string(hashed)

	u := &User{Name: "Ada", Email: "ada@example.com", Password: submitted}
	require.NoError(t, u.BeforeCreate())

	assert.NotEqual(t, submitted, u.Password)
	assert.True(t, u.ComparePassword(submitted))
	assert.False(t, u.ComparePassword("whatever1"))
}

func TestUserPasswordLengthLimits(t *testing.T) {
	short := &User{Name: "Ada", Email: "ada@example.com", Password: "1234567"}
	err := short.BeforeCreate()
	require.Error(t, err)
	assert.Equal(t, "password", errs.FieldOf(err))
	assert.Equal(t, "password must be at least 8 characters", errs.MessageOf(err))

	long := &User{Name: "Ada", Email: "ada@example.com", Password: strings.Repeat("p", 73)}
	err = long.BeforeCreate()
	require.Error(t, err)
	assert.Equal(t, "password", errs.FieldOf(err))
	assert.Contains(t, errs.MessageOf(err), "72 bytes")
}

func TestBeforeCreateAssignsFreshIDs(t *testing.T) {
	supplied := primitive.NewObjectID()

	e := validEvent()
	e.ID = supplied
	require.NoError(t, e.BeforeCreate())
	assert.False(t, e.ID.IsZero())
	assert.NotEqual(t, supplied, e.ID)

	u := &User{ID: supplied, Name: "Ada", Email: "ada@example.com", Password: "password123"}
	require.NoError(t, u.BeforeCreate())
	assert.NotEqual(t, supplied, u.ID)

	b := &Booking{ID: supplied, EventID: primitive.NewObjectID(), Email: "guest@example.com"}
	require.NoError(t, b.BeforeCreate())
	assert.NotEqual(t, supplied, b.ID)
}

func TestUserValidation(t *testing.T) {
	cases := []struct {
		name  string
		user  User
		field string
	}{
		{"short name", User{Name: "A", Email: "a@b.com", Password: "password123"}, "name"},
		{"long name", User{Name: strings.Repeat("n", 51), Email: "a@b.com", Password: "password123"}, "name"},
		{"bad email", User{Name: "Ada", Email: "not-an-email", Password: "password123"}, "email"},
		{"short password", User{Name: "Ada", Email: "a@b.com", Password: "short"}, "password"},
		{"bad role", User{Name: "Ada", Email: "a@b.com", Password: "password123", Role: "owner"}, "role"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := tc.user
			err := u.BeforeCreate()
			require.Error(t, err)
			assert.True(t, errs.Is(err, errs.KindValidation))
			assert.Equal(t, tc.field, errs.FieldOf(err))
		})
	}
}

func TestComparePasswordMalformedHash(t *testing.T) {
	u := &User{Password: "not-a-hash"}
	ok, err := u.ComparePasswordErr("anything")
	assert.False(t, ok)
	assert.True(t, errs.Is(err, errs.KindInternal))
	assert.False(t, u.ComparePassword("anything"))
}

func TestNormalizeProfile(t *testing.T) {
	name, email, err := NormalizeProfile("  Grace ", " GRACE@Navy.mil ")
	require.NoError(t, err)
	assert.Equal(t, "Grace", name)
	assert.Equal(t, "grace@navy.mil", email)

	_, _, err = NormalizeProfile("Grace", "grace")
	assert.Equal(t, "email", errs.FieldOf(err))
}

func TestBookingBeforeCreate(t *testing.T) {
	b := &Booking{EventID: primitive.NewObjectID(), Email: "  Guest@Example.COM "}
	require.NoError(t, b.BeforeCreate())
	assert.Equal(t, "guest@example.com", b.Email)
	assert.Equal(t, "", b.OwnerID())

	err := (&Booking{Email: "guest@example.com"}).BeforeCreate()
	assert.Equal(t, "eventId", errs.FieldOf(err))

	for _, email := range []string{"", "invalid..email@example.com", "user@example", "user name@example.com"} {
		err := (&Booking{EventID: primitive.NewObjectID(), Email: email}).BeforeCreate()
		require.Error(t, err, email)
		assert.Equal(t, "email", errs.FieldOf(err), email)
	}
}
