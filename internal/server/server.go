package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/OFFIS-RIT/newsgraph/internal/bootstrap"
	"github.com/OFFIS-RIT/newsgraph/internal/config"
	"github.com/OFFIS-RIT/newsgraph/internal/queue"
	mid "github.com/OFFIS-RIT/newsgraph/internal/server/middleware"
	"github.com/OFFIS-RIT/newsgraph/pkg/logger"
	"github.com/OFFIS-RIT/newsgraph/pkg/metrics"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/go-playground/validator"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i any) error {
	if err := cv.validator.Struct(i); err != nil {
		return err
	}
	return nil
}

// New builds the echo instance serving app.
func New(app *mid.App) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(mid.AppContextMiddleware(app))
	e.Use(mid.MetricsMiddleware)
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit("1M"))

	RegisterRoutes(e, app)
	return e
}

// Init opens the graph store, the ingest queue and the JWKS, then serves
// until ctx is canceled.
func Init(ctx context.Context, cfg *config.Config) error {
	storage, err := bootstrap.NewGraphStorage(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := storage.Close(closeCtx); err != nil {
			logger.Error("Failed to close graph store", "err", err)
		}
	}()

	app := &mid.App{
		Storage:          storage,
		Metrics:          metrics.DefaultRegistry(),
		MasterAPIKey:     cfg.Server.MasterAPIKey,
		MaxSubgraphDepth: cfg.Server.MaxSubgraphDepth,
	}

	if cfg.Server.AuthURL != "" {
		k, err := keyfunc.NewDefault([]string{cfg.Server.AuthURL + "/jwks"})
		if err != nil {
			return err
		}
		app.KeyFunc = k.Keyfunc
	}

	que, err := queue.Init(ctx, cfg.RabbitMQ.URL(), cfg.Store.ConnectRetries)
	if err != nil {
		logger.Warn("RabbitMQ unavailable, ingest endpoint disabled", "err", err)
	} else {
		defer que.Close()
		ch, err := que.Channel()
		if err != nil {
			return err
		}
		defer ch.Close()
		if err := queue.SetupQueues(ch, []string{queue.IngestQueue}); err != nil {
			return err
		}
		app.Queue = ch
	}

	e := New(app)

	go func() {
		logger.Info("Starting server", "port", cfg.Server.Port)
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed shutting down server", "err", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Failed to shutdown server", "err", err)
	}
	return nil
}
