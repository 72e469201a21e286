package container

import (
	"log/slog"

	"github.com/joshua-takyi/devevent/internal/config"
	"github.com/joshua-takyi/devevent/internal/connect"
	"github.com/joshua-takyi/devevent/internal/helpers"
	"github.com/joshua-takyi/devevent/internal/models"
	"github.com/joshua-takyi/devevent/internal/services"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *slog.Logger
	Mongo  *connect.MongoConnector
	Repo   *models.MongodbRepo
	Tokens *helpers.TokenManager

	UserService    *services.UserService
	EventService   *services.EventService
	BookingService *services.BookingService
	StatsService   *services.StatsService
}

// Options carries the optional integrations. Nil fields switch the matching
// feature off.
type Options struct {
	Images     services.ImageUploader
	StatsCache services.StatsCache
}

// NewContainer creates a new dependency injection container
func NewContainer(
	cfg *config.Config,
	logger *slog.Logger,
	mongo *connect.MongoConnector,
	tokens *helpers.TokenManager,
	opts Options,
) *Container {
	repo := models.MongodbNewRepo(mongo, cfg.MongoDBDatabase)

	return &Container{
		Config:         cfg,
		Logger:         logger,
		Mongo:          mongo,
		Repo:           repo,
		Tokens:         tokens,
		UserService:    services.NewUserService(repo, tokens),
		EventService:   services.NewEventService(repo, repo, opts.Images),
		BookingService: services.NewBookingService(repo, repo),
		StatsService:   services.NewStatsService(repo, opts.StatsCache, cfg.StatsCacheTTL, logger),
	}
}
