package services

import (
	"context"
	"fmt"
	"io"

	"github.com/joshua-takyi/devevent/internal/errs"
	"github.com/joshua-takyi/devevent/internal/helpers"
	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/joshua-takyi/devevent/internal/policy"
)

const (
	defaultPageSize     = 20
	maxPageSize         = 100
	defaultSimilarLimit = 6
)

// ImageUploader stores an event image and returns its public URL.
type ImageUploader interface {
	UploadImage(ctx context.Context, r io.Reader, filename string) (string, error)
}

// ImageFile is an uploaded image waiting to be stored.
type ImageFile struct {
	Reader   io.Reader
	Filename string
}

type EventService struct {
	eventRepo   models.EventRepo
	bookingRepo models.BookingRepo
	images      ImageUploader
}

// NewEventService wires the event service. images may be nil when uploads are
// not configured; events must then carry an image URL.
func NewEventService(eventRepo models.EventRepo, bookingRepo models.BookingRepo, images ImageUploader) *EventService {
	return &EventService{
		eventRepo:   eventRepo,
		bookingRepo: bookingRepo,
		images:      images,
	}
}

func (es *EventService) CreateEvent(ctx context.Context, event *models.Event, image *ImageFile) (*models.Event, error) {
	if image != nil {
		url, err := es.upload(ctx, image)
		if err != nil {
			return nil, err
		}
		event.Image = url
	}
	return es.eventRepo.CreateEvent(ctx, event)
}

func (es *EventService) ListEvents(ctx context.Context, offset, limit int) ([]*models.Event, int64, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return es.eventRepo.ListEvents(ctx, offset, limit)
}

func (es *EventService) GetEventBySlug(ctx context.Context, slug string) (*models.Event, error) {
	if !helpers.IsValidSlug(slug) {
		return nil, errs.Validation("slug", "Invalid slug format")
	}
	return es.eventRepo.GetEventBySlug(ctx, slug)
}

// SimilarEvents lists other events sharing at least one tag with slug's event.
func (es *EventService) SimilarEvents(ctx context.Context, slug string, limit int) ([]*models.Event, error) {
	event, err := es.GetEventBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxPageSize {
		limit = defaultSimilarLimit
	}
	return es.eventRepo.ListSimilarEvents(ctx, event, limit)
}

func (es *EventService) UpdateEvent(ctx context.Context, slug string, update models.EventUpdate, image *ImageFile) (*models.Event, error) {
	if update.IsEmpty() && image == nil {
		return nil, errs.Validation("body", "No fields to update")
	}
	event, err := es.GetEventBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if image != nil {
		url, err := es.upload(ctx, image)
		if err != nil {
			return nil, err
		}
		update.Image = &url
	}
	if err := event.ApplyUpdate(update); err != nil {
		return nil, err
	}
	return es.eventRepo.ReplaceEvent(ctx, event)
}

// DeleteEvent removes an event that nobody has booked. Bookings created
// between the count and the delete are not detected.
func (es *EventService) DeleteEvent(ctx context.Context, slug string) error {
	event, err := es.GetEventBySlug(ctx, slug)
	if err != nil {
		return err
	}
	count, err := es.bookingRepo.CountBookingsByEvent(ctx, event.ID)
	if err != nil {
		return err
	}
	if !policy.CanDeleteEvent(count) {
		return errs.Conflict(fmt.Sprintf(
			"Cannot delete event with existing bookings. This event has %d booking(s).", count))
	}
	return es.eventRepo.DeleteEvent(ctx, event.ID)
}

func (es *EventService) EventBookings(ctx context.Context, slug string) ([]*models.Booking, error) {
	event, err := es.GetEventBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return es.bookingRepo.ListBookingsByEvent(ctx, event.ID)
}

func (es *EventService) upload(ctx context.Context, image *ImageFile) (string, error) {
	if es.images == nil {
		return "", errs.Configuration("image uploads are not configured")
	}
	url, err := es.images.UploadImage(ctx, image.Reader, image.Filename)
	if err != nil {
		return "", errs.Internal("failed to upload image", err)
	}
	return url, nil
}
