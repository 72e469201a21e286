package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevent/internal/errs"
	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/joshua-takyi/devevent/internal/services"
)

const maxImageBytes = 10 << 20

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// formList reads a list field sent either as a JSON array string or as
// repeated form values.
func formList(c *gin.Context, name string) ([]string, bool, error) {
	values, ok := c.GetPostFormArray(name)
	if !ok {
		return nil, false, nil
	}
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var list []string
		if err := json.Unmarshal([]byte(values[0]), &list); err != nil {
			return nil, true, errs.Validation(name, name+" must be a JSON array of strings")
		}
		return list, true, nil
	}
	return values, true, nil
}

// formImage opens the optional "image" upload. The returned closer is never nil.
func formImage(c *gin.Context) (*services.ImageFile, io.Closer, error) {
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, io.NopCloser(nil), nil
	}
	if err != nil {
		return nil, io.NopCloser(nil), errs.Validation("image", "Invalid image upload")
	}
	if header.Size > maxImageBytes {
		return nil, io.NopCloser(nil), errs.Validation("image", "Image must be 10MB or smaller")
	}
	f, err := header.Open()
	if err != nil {
		return nil, io.NopCloser(nil), errs.Internal("failed to read uploaded image", err)
	}
	return &services.ImageFile{Reader: f, Filename: header.Filename}, f, nil
}

// eventUpdateFromForm collects the form fields that were actually sent.
func eventUpdateFromForm(c *gin.Context) (models.EventUpdate, error) {
	var u models.EventUpdate
	fields := map[string]**string{
		"title":       &u.Title,
		"description": &u.Description,
		"overview":    &u.Overview,
		"image":       &u.Image,
		"venue":       &u.Venue,
		"location":    &u.Location,
		"date":        &u.Date,
		"time":        &u.Time,
		"mode":        &u.Mode,
		"audience":    &u.Audience,
		"organizer":   &u.Organizer,
	}
	for name, dst := range fields {
		if v, ok := c.GetPostForm(name); ok {
			*dst = &v
		}
	}
	for name, dst := range map[string]**[]string{"agenda": &u.Agenda, "tags": &u.Tags} {
		list, ok, err := formList(c, name)
		if err != nil {
			return u, err
		}
		if ok {
			*dst = &list
		}
	}
	return u, nil
}

func eventFromUpdate(u models.EventUpdate) *models.Event {
	e := &models.Event{}
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	e.Title = deref(u.Title)
	e.Description = deref(u.Description)
	e.Overview = deref(u.Overview)
	e.Image = deref(u.Image)
	e.Venue = deref(u.Venue)
	e.Location = deref(u.Location)
	e.Date = deref(u.Date)
	e.Time = deref(u.Time)
	e.Mode = deref(u.Mode)
	e.Audience = deref(u.Audience)
	e.Organizer = deref(u.Organizer)
	if u.Agenda != nil {
		e.Agenda = *u.Agenda
	}
	if u.Tags != nil {
		e.Tags = *u.Tags
	}
	return e
}

// CreateEvent accepts either a JSON event or a multipart form with an optional
// "image" file that is uploaded before the event is stored.
func CreateEvent(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			event *models.Event
			image *services.ImageFile
		)
		if isMultipart(c) {
			u, err := eventUpdateFromForm(c)
			if err != nil {
				fail(c, err)
				return
			}
			event = eventFromUpdate(u)

			img, closer, err := formImage(c)
			if err != nil {
				fail(c, err)
				return
			}
			defer closer.Close()
			image = img
		} else {
			event = &models.Event{}
			if err := c.ShouldBindJSON(event); err != nil {
				badPayload(c, err)
				return
			}
		}

		created, err := e.CreateEvent(c.Request.Context(), event, image)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(created, "Event created successfully"))
	}
}

func ListEvents(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := queryInt(c, "limit", 20)
		if err != nil {
			fail(c, err)
			return
		}
		offset, err := queryInt(c, "offset", 0)
		if err != nil {
			fail(c, err)
			return
		}
		if limit == 0 {
			limit = 20
		}

		events, total, err := e.ListEvents(c.Request.Context(), offset, limit)
		if err != nil {
			fail(c, err)
			return
		}
		page := (offset / limit) + 1
		c.JSON(http.StatusOK, models.PaginatedResponse(events, page, limit, int(total)))
	}
}

func GetEvent(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		event, err := e.GetEventBySlug(c.Request.Context(), c.Param("slug"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, ""))
	}
}

func SimilarEvents(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := queryInt(c, "limit", 0)
		if err != nil {
			fail(c, err)
			return
		}
		events, err := e.SimilarEvents(c.Request.Context(), c.Param("slug"), limit)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(events, ""))
	}
}

func UpdateEvent(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var (
			update models.EventUpdate
			image  *services.ImageFile
		)
		if isMultipart(c) {
			u, err := eventUpdateFromForm(c)
			if err != nil {
				fail(c, err)
				return
			}
			update = u

			img, closer, err := formImage(c)
			if err != nil {
				fail(c, err)
				return
			}
			defer closer.Close()
			image = img
		} else if err := c.ShouldBindJSON(&update); err != nil {
			badPayload(c, err)
			return
		}

		event, err := e.UpdateEvent(c.Request.Context(), c.Param("slug"), update, image)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(event, "Event updated successfully"))
	}
}

func DeleteEvent(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := e.DeleteEvent(c.Request.Context(), c.Param("slug")); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Event deleted successfully"))
	}
}

func EventBookings(e *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := e.EventBookings(c.Request.Context(), c.Param("slug"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(bookings, ""))
	}
}
