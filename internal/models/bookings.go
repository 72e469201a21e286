package models

import (
	"time"

	"github.com/joshua-takyi/devevent/internal/errs"
	"github.com/joshua-takyi/devevent/internal/helpers"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Booking struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	EventID   primitive.ObjectID  `bson:"eventId" json:"eventId"`
	Email     string              `bson:"email" json:"email" validate:"required,max=254"`
	UserID    *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// BookingWithEvent is a booking joined with the event it belongs to.
type BookingWithEvent struct {
	Booking `bson:",inline"`
	Event   *EventSummary `bson:"event,omitempty" json:"event,omitempty"`
}

func (b *Booking) Sanitize() {
	b.Email = helpers.NormalizeEmail(b.Email)
}

func (b *Booking) ValidateBooking() error {
	if b.EventID.IsZero() {
		return errs.Validation("eventId", "eventId is required")
	}
	if err := Validate.Struct(b); err != nil {
		return validationError(err)
	}
	if !helpers.IsValidBookingEmail(b.Email) {
		return errs.Validation("email", "Please provide a valid email address")
	}
	return nil
}

func (b *Booking) BeforeCreate() error {
	b.Sanitize()
	if err := b.ValidateBooking(); err != nil {
		return err
	}
	b.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

// OwnerID is the hex id of the booking's user, or empty for anonymous bookings.
func (b *Booking) OwnerID() string {
	if b.UserID == nil {
		return ""
	}
	return b.UserID.Hex()
}
