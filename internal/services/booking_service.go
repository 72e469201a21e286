package services

import (
	"context"

	"github.com/joshua-takyi/devevent/internal/errs"
	"github.com/joshua-takyi/devevent/internal/helpers"
	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/joshua-takyi/devevent/internal/policy"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const missingEventMsg = "referenced event does not exist"

type BookingService struct {
	bookingRepo models.BookingRepo
	eventRepo   models.EventRepo
}

func NewBookingService(bookingRepo models.BookingRepo, eventRepo models.EventRepo) *BookingService {
	return &BookingService{
		bookingRepo: bookingRepo,
		eventRepo:   eventRepo,
	}
}

// CreateBooking books eventID for email. With a session the booking is linked
// to the user and the email defaults to the session's.
func (bs *BookingService) CreateBooking(ctx context.Context, eventID, email string, session *helpers.Claims) (*models.Booking, error) {
	oid, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, errs.Validation("eventId", missingEventMsg)
	}
	if err := bs.ensureEvent(ctx, oid); err != nil {
		return nil, err
	}

	booking := &models.Booking{EventID: oid, Email: email}
	if session != nil {
		if helpers.StringTrim(booking.Email) == "" {
			booking.Email = session.Email
		}
		if uid, err := primitive.ObjectIDFromHex(session.UserID); err == nil {
			booking.UserID = &uid
		}
	}
	return bs.bookingRepo.CreateBooking(ctx, booking)
}

// BookEvent is CreateBooking addressed by event slug.
func (bs *BookingService) BookEvent(ctx context.Context, slug, email string, session *helpers.Claims) (*models.Booking, error) {
	if !helpers.IsValidSlug(slug) {
		return nil, errs.Validation("slug", "Invalid slug format")
	}
	event, err := bs.eventRepo.GetEventBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return bs.CreateBooking(ctx, event.ID.Hex(), email, session)
}

// UserBookings lists a user's bookings. Only the user or an admin may look.
func (bs *BookingService) UserBookings(ctx context.Context, actor policy.Actor, userID string) ([]*models.BookingWithEvent, error) {
	oid, err := parseID(userID, "userId")
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && !actor.IsOwner(oid.Hex()) {
		return nil, errs.Forbidden("You can only view your own bookings")
	}
	return bs.bookingRepo.ListBookingsByUser(ctx, oid)
}

// ReassignBooking moves a booking to another event.
func (bs *BookingService) ReassignBooking(ctx context.Context, actor policy.Actor, bookingID, eventID string) (*models.Booking, error) {
	if !actor.IsAdmin() {
		return nil, errs.Forbidden("Only admins can modify bookings")
	}
	id, err := parseID(bookingID, "bookingId")
	if err != nil {
		return nil, err
	}
	newEvent, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, errs.Validation("eventId", missingEventMsg)
	}
	if err := bs.ensureEvent(ctx, newEvent); err != nil {
		return nil, err
	}
	return bs.bookingRepo.UpdateBookingEvent(ctx, id, newEvent)
}

func (bs *BookingService) CancelBooking(ctx context.Context, actor policy.Actor, bookingID string) error {
	id, err := parseID(bookingID, "bookingId")
	if err != nil {
		return err
	}
	booking, err := bs.bookingRepo.GetBookingByID(ctx, id)
	if err != nil {
		return err
	}
	if !policy.CanCancelBooking(actor, policy.BookingRef{UserID: booking.OwnerID()}) {
		return errs.Forbidden("You can only cancel your own bookings")
	}
	return bs.bookingRepo.DeleteBooking(ctx, id)
}

func (bs *BookingService) ensureEvent(ctx context.Context, id primitive.ObjectID) error {
	ok, err := bs.eventRepo.EventExists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return errs.Validation("eventId", missingEventMsg)
	}
	return nil
}
