package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/joshua-takyi/devevent/internal/services"
)

// statsHandler adapts a stats query that takes an optional limit.
func statsHandler[T any](load func(ctx context.Context, limit int) (T, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, err := queryInt(c, "limit", 0)
		if err != nil {
			fail(c, err)
			return
		}
		v, err := load(c.Request.Context(), limit)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, models.SuccessResponse(v, ""))
	}
}

func StatsOverview(s *services.StatsService) gin.HandlerFunc {
	return statsHandler(func(ctx context.Context, _ int) (*models.OverviewStats, error) {
		return s.Overview(ctx)
	})
}

func PopularEvents(s *services.StatsService) gin.HandlerFunc {
	return statsHandler(s.PopularEvents)
}

func UpcomingEvents(s *services.StatsService) gin.HandlerFunc {
	return statsHandler(s.UpcomingEvents)
}

func RecentBookings(s *services.StatsService) gin.HandlerFunc {
	return statsHandler(s.RecentBookings)
}

func GrowthStats(s *services.StatsService) gin.HandlerFunc {
	return statsHandler(func(ctx context.Context, _ int) (*models.GrowthStats, error) {
		return s.Growth(ctx)
	})
}

func EventStats(s *services.StatsService) gin.HandlerFunc {
	return statsHandler(func(ctx context.Context, _ int) (*models.EventStats, error) {
		return s.EventStats(ctx)
	})
}
