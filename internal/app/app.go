package app

import (
	"fmt"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/sportserve/matchcenter/external/cms"
	"github.com/sportserve/matchcenter/external/statsfeed"
	"github.com/sportserve/matchcenter/internal/config"
	"github.com/sportserve/matchcenter/internal/domain/snapshot"
	"github.com/sportserve/matchcenter/internal/infrastructure/repository/postgres"
	"github.com/sportserve/matchcenter/internal/interfaces/httpapi"
	"github.com/sportserve/matchcenter/internal/platform/logging"
	"github.com/sportserve/matchcenter/internal/platform/resilience"
	"github.com/sportserve/matchcenter/internal/usecase"
)

// NewHTTPServer wires configuration into the full service graph. The
// returned cleanup closes the snapshot archive connection, if any.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	cleanup := func() error { return nil }

	var archive snapshot.Repository
	var snapshots httpapi.SnapshotReader
	if cfg.ArchiveEnabled {
		db, err := otelsqlx.Open("postgres", normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
			otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
			otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
			otelsql.WithQueryFormatter(formatDBQueryForTrace),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("open archive db: %w", err)
		}
		repo := postgres.NewSnapshotRepository(db)
		archive = repo
		snapshots = repo
		cleanup = db.Close
	}

	feedClient := statsfeed.NewClient(statsfeed.ClientConfig{
		BaseURL:  cfg.FeedBaseURL,
		Username: cfg.FeedUsername,
		Password: cfg.FeedPassword,
		Timeout:  cfg.FeedTimeout,
		TTLs: statsfeed.FeedTTLs{
			Fixtures:    cfg.FeedFixturesTTL,
			Standings:   cfg.FeedStandingsTTL,
			MatchDetail: cfg.FeedMatchDetailTTL,
			Commentary:  cfg.FeedCommentaryTTL,
			SeasonStats: cfg.FeedSeasonStatsTTL,
			Squads:      cfg.FeedSquadsTTL,
		},
		Logger: logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.FeedCircuitEnabled,
			FailureThreshold: cfg.FeedCircuitFailureCount,
			OpenTimeout:      cfg.FeedCircuitOpenTimeout,
			ProbeBudget:      cfg.FeedCircuitProbeBudget,
		},
		Archive: archive,
	})

	cmsClient := cms.NewClient(cms.ClientConfig{
		BaseURL: cfg.CMSBaseURL,
		APIKey:  cfg.CMSAPIKey,
		Timeout: cfg.CMSTimeout,
		Logger:  logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.CMSCircuitEnabled,
			FailureThreshold: cfg.CMSCircuitFailureCount,
			OpenTimeout:      cfg.CMSCircuitOpenTimeout,
			ProbeBudget:      cfg.CMSCircuitProbeBudget,
		},
	})

	matchCenterSvc := usecase.NewMatchCenterService(feedClient, cmsClient, usecase.MatchCenterConfig{
		FeedTimeout: cfg.FeedTimeout,
		CMSTimeout:  cfg.CMSTimeout,
	}, logger)
	liveStateSvc := usecase.NewLiveStateService(feedClient, cfg.FeedTimeout, logger)
	squadSvc := usecase.NewSquadService(feedClient, cmsClient, cfg.FeedTimeout, cfg.CMSTimeout, logger)
	refreshSvc := usecase.NewRefreshService(feedClient, usecase.RefreshConfig{
		Targets:    refreshTargets(cfg.RefreshTargets),
		MaxWorkers: cfg.RefreshMaxWorkers,
	}, logger)

	handler := httpapi.NewHandler(matchCenterSvc, liveStateSvc, squadSvc, refreshSvc, snapshots, logger)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, cleanup, nil
}

func refreshTargets(targets []config.RefreshTarget) []usecase.RefreshTarget {
	out := make([]usecase.RefreshTarget, 0, len(targets))
	for _, t := range targets {
		out = append(out, usecase.RefreshTarget{CompetitionID: t.CompetitionID, SeasonID: t.SeasonID})
	}

	return out
}
