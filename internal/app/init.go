package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/consultora/consulting-tracker/internal/messaging"
	"github.com/consultora/consulting-tracker/internal/repository"
	cacheRepo "github.com/consultora/consulting-tracker/internal/repository/cache"
	"github.com/consultora/consulting-tracker/internal/repository/postgres"
	"github.com/consultora/consulting-tracker/internal/service"
	redisClient "github.com/consultora/consulting-tracker/pkg/cache"
	"github.com/consultora/consulting-tracker/pkg/config"
	"github.com/consultora/consulting-tracker/pkg/database"
	"github.com/consultora/consulting-tracker/pkg/logger"
)

// Repositories holds the data store repositories
type Repositories struct {
	ProjectRepository repository.ProjectRepository
	VisitRepository   repository.VisitRepository
	ProjectCache      repository.ProjectCache
}

// Services holds the business services
type Services struct {
	ProjectService *service.ProjectService
	VisitService   *service.VisitService
}

// Application holds every component of the application with an explicit
// lifecycle: constructed once at process start, closed on shutdown
type Application struct {
	Config       *config.Config
	DB           *sqlx.DB
	Redis        *redisClient.Redis
	Producer     *messaging.KafkaProducer
	Logger       logger.Logger
	Repositories *Repositories
	Services     *Services
}

// NewApplication creates a new application with initialized components
func NewApplication(ctx context.Context, cfg *config.Config, log logger.Logger) (*Application, error) {
	pg, err := database.NewPostgres(ctx, &cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}

	app := &Application{
		Config: cfg,
		DB:     pg.DB,
		Logger: log,
	}

	// Redis and Kafka are optional collaborators; the API works without them
	if cfg.Redis.Enabled {
		redis, err := redisClient.NewRedis(ctx, &cfg.Redis, log)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis: %w", err)
		}
		app.Redis = redis
	}

	if cfg.Kafka.Enabled {
		app.Producer = messaging.NewKafkaProducer(cfg.Kafka.Brokers, map[string]string{
			messaging.EventTypeProjectCreated:  cfg.Kafka.Topics.ProjectCreated,
			messaging.EventTypeProjectUpdated:  cfg.Kafka.Topics.ProjectUpdated,
			messaging.EventTypeProjectArchived: cfg.Kafka.Topics.ProjectArchived,
			messaging.EventTypeVisitCreated:    cfg.Kafka.Topics.VisitCreated,
			messaging.EventTypeVisitDeleted:    cfg.Kafka.Topics.VisitDeleted,
		}, log)
	}

	app.Repositories = initRepositories(app, cfg, log)
	app.Services = initServices(app, log)

	return app, nil
}

// Close shuts down every external connection
func (app *Application) Close() {
	if app.Producer != nil {
		if err := app.Producer.Close(); err != nil {
			app.Logger.Error("Error closing Kafka producer", err)
		}
	}

	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			app.Logger.Error("Error closing Redis connection", err)
		}
	}

	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			app.Logger.Error("Error closing PostgreSQL connection", err)
		}
	}
}

func initRepositories(app *Application, cfg *config.Config, log logger.Logger) *Repositories {
	repos := &Repositories{
		ProjectRepository: postgres.NewProjectRepository(app.DB, log, cfg.Database.QueryTimeout),
		VisitRepository:   postgres.NewVisitRepository(app.DB, log, cfg.Database.QueryTimeout),
	}

	if app.Redis != nil {
		repos.ProjectCache = cacheRepo.NewRedisRepository(app.Redis.Client, log, cfg.Redis.DefaultTTL)
	}

	return repos
}

func initServices(app *Application, log logger.Logger) *Services {
	var producer messaging.Publisher
	if app.Producer != nil {
		producer = app.Producer
	}

	return &Services{
		ProjectService: service.NewProjectService(app.Repositories.ProjectRepository, app.Repositories.ProjectCache, producer, log),
		VisitService:   service.NewVisitService(app.Repositories.VisitRepository, producer, log),
	}
}
