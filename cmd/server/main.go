package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cryptadb/crypta/internal/config"
	"github.com/cryptadb/crypta/internal/db"
	"github.com/cryptadb/crypta/internal/directory"
	"github.com/cryptadb/crypta/internal/export"
	"github.com/cryptadb/crypta/internal/facet"
	"github.com/cryptadb/crypta/internal/httpapi"
	"github.com/cryptadb/crypta/internal/permissions"
	"github.com/cryptadb/crypta/internal/projection"
	"github.com/cryptadb/crypta/internal/repository"
	"github.com/cryptadb/crypta/internal/stats"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfg, err := config.Load(".")
	if err != nil {
		logger.Fatal("failed to load configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn, err := db.NewConnection(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer conn.Close()

	if err := db.RunMigrations(cfg.Database.URL()); err != nil {
		logger.Fatal("failed to run migrations", zap.Error(err))
	}

	personRepo := repository.NewPersonRepository(conn.Pool)
	locationRepo := repository.NewLocationRepository(conn.Pool)
	facetRepo := repository.NewFacetRepository(conn.Pool)

	resolver := permissions.NewResolver(permissions.DefaultRelations(), logger)
	projector := projection.New(
		projection.WithTitleCase(cfg.Projection.TitleCase),
		projection.WithLogger(logger),
	)
	dirService, err := directory.NewService(directory.Config{
		Resolver:   resolver,
		Projector:  projector,
		Summarizer: stats.NewSummarizer(logger),
		Facets:     facet.NewBuilder(facetRepo, directory.DefaultFacetLabels(), logger),
		Persons:    personRepo,
		Locations:  locationRepo,
		Logger:     logger,
	})
	if err != nil {
		logger.Fatal("failed to build directory service", zap.Error(err))
	}

	exportService := export.NewService(dirService, resolver,
		export.WithExportDirectory(cfg.Export.Directory),
		export.WithJobTimeout(cfg.Export.JobTimeout),
		export.WithDownloadToken(cfg.Export.DownloadSecret, cfg.Export.DownloadTokenTTL),
		export.WithLogger(logger),
	)

	sources := []permissions.Source{
		permissions.NewHeaderSource(cfg.Auth.GrantsHeader, logger),
		permissions.NewTokenSource("queryPermissions", logger),
	}
	if cfg.Auth.PermissionsURL != "" {
		client := resty.New().SetBaseURL(cfg.Auth.PermissionsURL)
		sources = append(sources, permissions.NewRemoteSource(client, logger))
	}

	router := httpapi.NewRouter(httpapi.RouterConfig{
		Directory:      dirService,
		Exports:        export.NewHandler(exportService),
		GrantSource:    permissions.NewChain(sources...),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Logger:         logger,
	})

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}
	logger.Info("server exited")
}
