package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/phrazzld/wordstone/internal/api"
	"github.com/phrazzld/wordstone/internal/config"
	"github.com/phrazzld/wordstone/internal/domain"
	"github.com/phrazzld/wordstone/internal/events"
	"github.com/phrazzld/wordstone/internal/generation"
	"github.com/phrazzld/wordstone/internal/platform/gemini"
	"github.com/phrazzld/wordstone/internal/platform/postgres"
	"github.com/phrazzld/wordstone/internal/platform/redis"
	"github.com/phrazzld/wordstone/internal/progression"
	"github.com/phrazzld/wordstone/internal/scoring"
	"github.com/phrazzld/wordstone/internal/service"
	"github.com/phrazzld/wordstone/internal/service/auth"
	"github.com/phrazzld/wordstone/internal/store"
)

// reapInterval is how often expired sessions are dropped from the registry.
const reapInterval = time.Minute

// application holds the shared dependencies of the server so they can be
// torn down in order on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	outcomes   store.OutcomeStore
	activities store.ActivityStore
	cache      store.SnapshotCache
	redis      *redis.Cache

	jwtService auth.JWTService
	games      service.GameService
	insights   service.InsightService

	emitter *events.AsyncEmitter
}

// newApplication wires stores, the sentence source, the event pipeline and
// the services. db must already be connected.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}

	difficulties, err := domain.NewDifficultyTable(cfg.Game.DifficultyPresets())
	if err != nil {
		return nil, fmt.Errorf("invalid difficulty presets: %w", err)
	}

	app.outcomes = postgres.NewPostgresOutcomeStore(db, logger)
	app.activities = postgres.NewPostgresActivityStore(db, logger)

	if cfg.Redis.Enabled {
		app.redis, err = redis.NewCache(ctx, cfg.Redis, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect snapshot cache: %w", err)
		}
		app.cache = app.redis
		logger.Info("snapshot cache enabled", slog.Duration("ttl", cfg.Redis.CacheTTL))
	} else {
		app.cache = redis.NoopCache{}
		logger.Info("snapshot cache disabled")
	}

	source, err := setupSentenceSource(ctx, cfg, difficulties, logger)
	if err != nil {
		app.cleanup(ctx)
		return nil, err
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	layout := generation.NewLayoutGenerator(rand.New(rand.NewSource(seed)))
	layout.MaxAttempts = cfg.Game.MaxLayoutAttempts
	builder := generation.NewBuilder(difficulties, layout, logger)
	builder.MaxSourceDraws = cfg.Game.MaxSourceDraws

	inMemory := events.NewInMemoryEventEmitter(logger)
	inMemory.RegisterHandler(service.NewActivityRecorder(app.activities, logger))
	inMemory.RegisterHandler(service.NewCacheInvalidator(app.cache, logger))
	app.emitter = events.NewAsyncEmitter(inMemory, events.AsyncConfig{
		QueueSize:   cfg.Events.QueueSize,
		WorkerCount: cfg.Events.WorkerCount,
	}, logger)
	app.emitter.Start()

	app.games, err = service.NewGameService(service.GameDependencies{
		DB:                  db,
		Outcomes:            app.outcomes,
		Activities:          app.activities,
		Builder:             builder,
		Source:              source,
		Scorer:              scoring.NewServiceWithParams(scoring.NewParams(cfg.Scoring)),
		Difficulties:        difficulties,
		Emitter:             app.emitter,
		HesitationThreshold: cfg.Game.HesitationThreshold(),
		SessionTTL:          cfg.Game.SessionTTL,
		DefaultLanguage:     cfg.Game.DefaultLanguage,
	}, logger)
	if err != nil {
		app.cleanup(ctx)
		return nil, fmt.Errorf("failed to create game service: %w", err)
	}

	app.insights, err = service.NewInsightService(
		app.outcomes,
		app.activities,
		progression.NewServiceWithParams(progression.NewParams(cfg.Progression)),
		app.cache,
		logger,
	)
	if err != nil {
		app.cleanup(ctx)
		return nil, fmt.Errorf("failed to create insight service: %w", err)
	}

	logger.Info("application initialized",
		slog.Int("difficulty_levels", len(difficulties)),
		slog.Int64("seed", seed))
	return app, nil
}

// setupSentenceSource returns the configured sentence pool, fronted by
// Gemini when an API key is set.
func setupSentenceSource(
	ctx context.Context,
	cfg *config.Config,
	difficulties domain.DifficultyTable,
	logger *slog.Logger,
) (generation.SentenceSource, error) {
	// Seeded separately from the layout generator so either can change alone.
	pool := generation.NewStaticSource(cfg.Game.Sentences, rand.New(rand.NewSource(time.Now().UnixNano())))
	if cfg.LLM.GeminiAPIKey == "" {
		return pool, nil
	}

	llm, err := gemini.NewSentenceSource(ctx, cfg.LLM, difficulties, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize LLM sentence source: %w", err)
	}
	logger.Info("LLM sentence source enabled", slog.String("model", cfg.LLM.ModelName))
	return &generation.FallbackSource{Primary: llm, Secondary: pool, Logger: logger}, nil
}

// healthChecks returns the dependency probes served on /api/health.
func (app *application) healthChecks() map[string]api.HealthCheck {
	checks := map[string]api.HealthCheck{
		"database": app.db.PingContext,
	}
	if app.redis != nil {
		checks["cache"] = app.redis.Ping
	}
	return checks
}

// Run serves HTTP until ctx is canceled, reaping expired sessions meanwhile.
func (app *application) Run(ctx context.Context) error {
	reapCtx, stopReaper := context.WithCancel(ctx)
	defer stopReaper()
	go app.games.Run(reapCtx, reapInterval)

	err := app.startHTTPServer(ctx, app.setupRouter())
	stopReaper()

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.config.Server.ShutdownTimeout)
	defer cancel()
	app.cleanup(shutdownCtx)

	if err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup drains pending events, then closes the cache and the database.
func (app *application) cleanup(ctx context.Context) {
	if app.emitter != nil {
		if err := app.emitter.Stop(ctx); err != nil {
			app.logger.Error("failed to drain event queue", slog.String("error", err.Error()))
		}
	}
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("failed to close snapshot cache", slog.String("error", err.Error()))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
