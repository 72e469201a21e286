package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/joshua-takyi/devevent/internal/services"
)

type bookingRequest struct {
	EventID string `json:"eventId" form:"eventId"`
	Email   string `json:"email" form:"email"`
}

// BookEvent books the event named in the path. Anonymous callers must send an
// email; signed-in callers default to their session email.
func BookEvent(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bookingRequest
		if c.Request.ContentLength != 0 {
			if err := c.ShouldBind(&req); err != nil {
				badPayload(c, err)
				return
			}
		}

		booking, err := b.BookEvent(c.Request.Context(), c.Param("slug"), req.Email, session(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(booking, "Booking created successfully"))
	}
}

func CreateBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bookingRequest
		if err := c.ShouldBind(&req); err != nil {
			badPayload(c, err)
			return
		}

		booking, err := b.CreateBooking(c.Request.Context(), req.EventID, req.Email, session(c))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, models.SuccessResponse(booking, "Booking created successfully"))
	}
}

func UserBookings(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		bookings, err := b.UserBookings(c.Request.Context(), sessionActor(c), c.Param("userId"))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(bookings, ""))
	}
}

func ReassignBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req bookingRequest
		if err := c.ShouldBind(&req); err != nil {
			badPayload(c, err)
			return
		}

		booking, err := b.ReassignBooking(c.Request.Context(), sessionActor(c), c.Param("id"), req.EventID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(booking, "Booking updated successfully"))
	}
}

func CancelBooking(b *services.BookingService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := b.CancelBooking(c.Request.Context(), sessionActor(c), c.Param("id")); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(nil, "Booking cancelled successfully"))
	}
}
