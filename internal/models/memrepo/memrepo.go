// Package memrepo is an in-memory implementation of the repositories for
// tests. It enforces the same unique keys as the MongoDB indexes: user email,
// event slug and booking (eventId, email).
package memrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/joshua-takyi/devevent/internal/errs"
	"github.com/joshua-takyi/devevent/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Store struct {
	mu       sync.Mutex
	users    map[primitive.ObjectID]models.User
	events   map[primitive.ObjectID]models.Event
	bookings map[primitive.ObjectID]models.Booking
}

func New() *Store {
	return &Store{
		users:    map[primitive.ObjectID]models.User{},
		events:   map[primitive.ObjectID]models.Event{},
		bookings: map[primitive.ObjectID]models.Booking{},
	}
}

func (m *Store) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	if err := user.BeforeCreate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == user.Email {
			return nil, errs.Conflict("User with this email already exists")
		}
	}
	m.users[user.ID] = *user
	out := *user
	out.Password = ""
	return &out, nil
}

func (m *Store) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, errs.NotFound("User not found")
	}
	u.Password = ""
	return &u, nil
}

func (m *Store) GetUserByEmail(ctx context.Context, email string, withPassword bool) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			if !withPassword {
				u.Password = ""
			}
			return &u, nil
		}
	}
	return nil, errs.NotFound("User not found")
}

func (m *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.User, 0, len(m.users))
	for _, u := range m.users {
		u := u
		u.Password = ""
		out = append(out, &u)
	}
	return out, nil
}

func (m *Store) CountUsersByRole(ctx context.Context, role string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, u := range m.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (m *Store) UpdateUserRole(ctx context.Context, id primitive.ObjectID, role string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, errs.NotFound("User not found")
	}
	u.Role = role
	m.users[id] = u
	u.Password = ""
	return &u, nil
}

func (m *Store) UpdateUserProfile(ctx context.Context, id primitive.ObjectID, name, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return nil, errs.NotFound("User not found")
	}
	for oid, other := range m.users {
		if oid != id && other.Email == email {
			return nil, errs.Conflict("Email is already in use")
		}
	}
	u.Name, u.Email = name, email
	m.users[id] = u
	u.Password = ""
	return &u, nil
}

func (m *Store) CreateEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	if err := event.BeforeCreate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.Slug == event.Slug {
			return nil, errs.Conflict("An event with this title already exists")
		}
	}
	m.events[event.ID] = *event
	return event, nil
}

func (m *Store) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.Slug == slug {
			return &e, nil
		}
	}
	return nil, errs.NotFound("Event not found")
}

func (m *Store) EventExists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.events[id]
	return ok, nil
}

func (m *Store) ListEvents(ctx context.Context, offset, limit int) ([]*models.Event, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	all := make([]*models.Event, 0, len(m.events))
	for _, e := range m.events {
		e := e
		all = append(all, &e)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	total := int64(len(all))
	if offset > len(all) {
		offset = len(all)
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, total, nil
}

func (m *Store) ListSimilarEvents(ctx context.Context, event *models.Event, limit int) ([]*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	tags := map[string]bool{}
	for _, t := range event.Tags {
		tags[t] = true
	}
	out := []*models.Event{}
	for id, e := range m.events {
		e := e
		if id == event.ID {
			continue
		}
		for _, t := range e.Tags {
			if tags[t] {
				out = append(out, &e)
				break
			}
		}
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *Store) ReplaceEvent(ctx context.Context, event *models.Event) (*models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[event.ID]; !ok {
		return nil, errs.NotFound("Event not found")
	}
	for id, e := range m.events {
		if id != event.ID && e.Slug == event.Slug {
			return nil, errs.Conflict("An event with this title already exists")
		}
	}
	m.events[event.ID] = *event
	return event, nil
}

func (m *Store) DeleteEvent(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return errs.NotFound("Event not found")
	}
	delete(m.events, id)
	return nil
}

func (m *Store) CreateBooking(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if err := booking.BeforeCreate(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bookings {
		if b.EventID == booking.EventID && b.Email == booking.Email {
			return nil, errs.Conflict("This email has already booked this event")
		}
	}
	m.bookings[booking.ID] = *booking
	return booking, nil
}

func (m *Store) GetBookingByID(ctx context.Context, id primitive.ObjectID) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, errs.NotFound("Booking not found")
	}
	return &b, nil
}

func (m *Store) CountBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, b := range m.bookings {
		if b.EventID == eventID {
			n++
		}
	}
	return n, nil
}

func (m *Store) ListBookingsByEvent(ctx context.Context, eventID primitive.ObjectID) ([]*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.Booking{}
	for _, b := range m.bookings {
		b := b
		if b.EventID == eventID {
			out = append(out, &b)
		}
	}
	return out, nil
}

func (m *Store) ListBookingsByUser(ctx context.Context, userID primitive.ObjectID) ([]*models.BookingWithEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*models.BookingWithEvent{}
	for _, b := range m.bookings {
		if b.UserID == nil || *b.UserID != userID {
			continue
		}
		row := &models.BookingWithEvent{Booking: b}
		if e, ok := m.events[b.EventID]; ok {
			row.Event = &models.EventSummary{ID: e.ID, Title: e.Title, Slug: e.Slug, Date: e.Date}
		}
		out = append(out, row)
	}
	return out, nil
}

func (m *Store) UpdateBookingEvent(ctx context.Context, id, eventID primitive.ObjectID) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, errs.NotFound("Booking not found")
	}
	for oid, other := range m.bookings {
		if oid != id && other.EventID == eventID && other.Email == b.Email {
			return nil, errs.Conflict("This email has already booked this event")
		}
	}
	b.EventID = eventID
	b.UpdatedAt = time.Now().UTC()
	m.bookings[id] = b
	return &b, nil
}

func (m *Store) DeleteBooking(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[id]; !ok {
		return errs.NotFound("Booking not found")
	}
	delete(m.bookings, id)
	return nil
}

var (
	_ models.UserRepo    = (*Store)(nil)
	_ models.EventRepo   = (*Store)(nil)
	_ models.BookingRepo = (*Store)(nil)
)
