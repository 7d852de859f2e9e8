package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/skanelive/matchcenter/external/cms"
	"github.com/skanelive/matchcenter/external/sportdata"
	"github.com/skanelive/matchcenter/internal/config"
	"github.com/skanelive/matchcenter/internal/infrastructure/repository/memory"
	"github.com/skanelive/matchcenter/internal/infrastructure/repository/postgres"
	"github.com/skanelive/matchcenter/internal/interfaces/httpapi"
	"github.com/skanelive/matchcenter/internal/platform/cache"
	"github.com/skanelive/matchcenter/internal/platform/logging"
	"github.com/skanelive/matchcenter/internal/platform/resilience"
	"github.com/skanelive/matchcenter/internal/usecase"
)

// App owns the wired service graph: upstream clients, resolver, HTTP server
// and the shared poll worker pool. Build one with New and release it with
// Close on shutdown.
type App struct {
	Server *http.Server
	Poll   *usecase.PollController

	db *sqlx.DB
}

func New(cfg config.Config, logger *slog.Logger, svcLogger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if svcLogger == nil {
		svcLogger = logging.Default()
	}

	cmsClient := cms.NewClient(cms.ClientConfig{
		BaseURL:    cfg.CMSBaseURL,
		Token:      cfg.CMSToken,
		Timeout:    cfg.CMSTimeout,
		MaxRetries: cfg.CMSMaxRetries,
		Logger:     svcLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CMSCircuitEnabled,
			FailureThreshold: cfg.CMSCircuitFailureCount,
			OpenTimeout:      cfg.CMSCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.CMSCircuitHalfOpenMaxReq,
		},
	})

	providerClient := sportdata.NewClient(sportdata.ClientConfig{
		BaseURL:      cfg.SportDataBaseURL,
		APIKey:       cfg.SportDataAPIKey,
		Timeout:      cfg.SportDataTimeout,
		MaxRetries:   cfg.SportDataMaxRetries,
		RetryBackoff: cfg.SportDataRetryBackoff,
		Logger:       svcLogger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.SportDataCircuitEnabled,
			FailureThreshold: cfg.SportDataCircuitFailureCount,
			OpenTimeout:      cfg.SportDataCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.SportDataCircuitHalfOpenMaxReq,
		},
	})

	var (
		db      *sqlx.DB
		archive usecase.MatchArchive
	)
	if cfg.DBEnabled {
		var err error
		db, err = openDB(cfg.DBURL)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		archive = postgres.NewMatchArchiveRepository(db)
	} else {
		logger.Warn("database disabled, archiving finished matches in memory only")
		archive = memory.NewMatchArchiveRepository()
	}

	store := cache.NewStore(cfg.UpcomingCacheTTL)

	matchService := usecase.NewMatchService(cmsClient, providerClient, store, archive, svcLogger)
	timelineService := usecase.NewTimelineService(providerClient, svcLogger)
	pageService := usecase.NewMatchPageService(matchService, timelineService, cmsClient, providerClient, svcLogger)

	poll, err := usecase.NewPollController(matchService, cfg.PollWorkerPoolSize, usecase.PollConfig{
		LiveInterval:    cfg.PollLiveInterval,
		DefaultInterval: cfg.PollDefaultInterval,
	}, svcLogger)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, fmt.Errorf("init poll controller: %w", err)
	}

	handler := httpapi.NewHandler(matchService, timelineService, pageService, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &App{
		Server: server,
		Poll:   poll,
		db:     db,
	}, nil
}

func openDB(rawURL string) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(rawURL, true)

	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)

	return db, nil
}

// Close stops the poll worker pool and releases the database handle. The
// HTTP server is shut down by the caller before Close so in-flight requests
// drain first.
func (a *App) Close(ctx context.Context) error {
	a.Poll.Close()

	if a.db != nil {
		done := make(chan error, 1)
		go func() { done <- a.db.Close() }()
		select {
		case err := <-done:
			return err
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
