package models

import (
	"time"

	"github.com/joshua-takyi/devevent/internal/errs"
	"github.com/joshua-takyi/devevent/internal/helpers"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ModeOnline  = "online"
	ModeOffline = "offline"
	ModeHybrid  = "hybrid"
)

type Event struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title" validate:"required,max=100"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description" validate:"required,max=1000"`
	Overview    string             `bson:"overview" json:"overview" validate:"required,max=500"`
	Image       string             `bson:"image" json:"image" validate:"required"`
	Venue       string             `bson:"venue" json:"venue" validate:"required"`
	Location    string             `bson:"location" json:"location" validate:"required"`
	Date        string             `bson:"date" json:"date" validate:"required"` // YYYY-MM-DD
	Time        string             `bson:"time" json:"time" validate:"required"` // HH:MM, 24h
	Mode        string             `bson:"mode" json:"mode" validate:"required,oneof=online offline hybrid"`
	Audience    string             `bson:"audience" json:"audience" validate:"required"`
	Agenda      []string           `bson:"agenda" json:"agenda" validate:"required,min=1,dive,required"`
	Organizer   string             `bson:"organizer" json:"organizer" validate:"required"`
	Tags        []string           `bson:"tags" json:"tags" validate:"required,min=1,dive,required"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EventUpdate carries a partial edit; nil fields are left as they are.
type EventUpdate struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Overview    *string   `json:"overview,omitempty"`
	Image       *string   `json:"image,omitempty"`
	Venue       *string   `json:"venue,omitempty"`
	Location    *string   `json:"location,omitempty"`
	Date        *string   `json:"date,omitempty"`
	Time        *string   `json:"time,omitempty"`
	Mode        *string   `json:"mode,omitempty"`
	Audience    *string   `json:"audience,omitempty"`
	Agenda      *[]string `json:"agenda,omitempty"`
	Organizer   *string   `json:"organizer,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

func (e *Event) Sanitize() {
	e.Title = helpers.StringTrim(e.Title)
	e.Description = helpers.StringTrim(e.Description)
	e.Overview = helpers.StringTrim(e.Overview)
	e.Image = helpers.StringTrim(e.Image)
	e.Venue = helpers.StringTrim(e.Venue)
	e.Location = helpers.StringTrim(e.Location)
	e.Date = helpers.StringTrim(e.Date)
	e.Time = helpers.StringTrim(e.Time)
	e.Mode = helpers.StringTrim(e.Mode)
	e.Audience = helpers.StringTrim(e.Audience)
	e.Organizer = helpers.StringTrim(e.Organizer)
	e.Agenda = helpers.TrimAll(e.Agenda)
	e.Tags = helpers.RemoveDuplicates(helpers.TrimAll(e.Tags))
}

// normalize validates the sanitized fields, canonicalizes date and time and
// derives the slug when the title is new or changed.
func (e *Event) normalize(titleChanged bool) error {
	e.Sanitize()
	if err := Validate.Struct(e); err != nil {
		return validationError(err)
	}
	date, err := helpers.NormalizeDate(e.Date)
	if err != nil {
		return err
	}
	clock, err := helpers.NormalizeTime(e.Time)
	if err != nil {
		return err
	}
	e.Date, e.Time = date, clock

	if titleChanged || e.Slug == "" {
		e.Slug = helpers.Slugify(e.Title)
	}
	if e.Slug == "" {
		return errs.Validation("title", "title must contain at least one letter or digit")
	}
	return nil
}

func (e *Event) BeforeCreate() error {
	if err := e.normalize(true); err != nil {
		return err
	}
	e.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

// ApplyUpdate merges u into e and re-runs normalization. The slug is only
// regenerated when the title actually changes.
func (e *Event) ApplyUpdate(u EventUpdate) error {
	titleChanged := false
	if u.Title != nil && helpers.StringTrim(*u.Title) != e.Title {
		e.Title = *u.Title
		titleChanged = true
	}
	setString(&e.Description, u.Description)
	setString(&e.Overview, u.Overview)
	setString(&e.Image, u.Image)
	setString(&e.Venue, u.Venue)
	setString(&e.Location, u.Location)
	setString(&e.Date, u.Date)
	setString(&e.Time, u.Time)
	setString(&e.Mode, u.Mode)
	setString(&e.Audience, u.Audience)
	setString(&e.Organizer, u.Organizer)
	if u.Agenda != nil {
		e.Agenda = *u.Agenda
	}
	if u.Tags != nil {
		e.Tags = *u.Tags
	}
	if err := e.normalize(titleChanged); err != nil {
		return err
	}
	e.UpdatedAt = time.Now().UTC()
	return nil
}

func (u EventUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Overview == nil && u.Image == nil &&
		u.Venue == nil && u.Location == nil && u.Date == nil && u.Time == nil && u.Mode == nil &&
		u.Audience == nil && u.Agenda == nil && u.Organizer == nil && u.Tags == nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// EventSummary is the slice of an event embedded in booking and stats payloads.
type EventSummary struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title    string             `bson:"title" json:"title"`
	Slug     string             `bson:"slug" json:"slug"`
	Date     string             `bson:"date,omitempty" json:"date,omitempty"`
	Time     string             `bson:"time,omitempty" json:"time,omitempty"`
	Location string             `bson:"location,omitempty" json:"location,omitempty"`
	Image    string             `bson:"image,omitempty" json:"image,omitempty"`
}
