package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/emberlit/guessparty/internal/infrastructure/configs"
	"github.com/emberlit/guessparty/internal/infrastructure/metrics"
	"github.com/emberlit/guessparty/internal/infrastructure/ratelimiter"
	healthHandler "github.com/emberlit/guessparty/internal/presentation/handler/health"
	sessionsHandler "github.com/emberlit/guessparty/internal/presentation/handler/sessions"
)

type Application struct {
	config          configs.Config
	sessionsHandler *sessionsHandler.Handler
	healthHandler   healthHandler.Handler
	metrics         *metrics.Metrics
	logger          *zap.SugaredLogger
	ratelimiter     ratelimiter.Limiter
}

func NewApplication(
	config configs.Config,
	sessionsHandler *sessionsHandler.Handler,
	healthHandler healthHandler.Handler,
	m *metrics.Metrics,
	logger *zap.SugaredLogger,
	ratelimiter ratelimiter.Limiter,
) *Application {
	return &Application{
		config:          config,
		sessionsHandler: sessionsHandler,
		healthHandler:   healthHandler,
		metrics:         m,
		logger:          logger,
		ratelimiter:     ratelimiter,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(app.loggerMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(app.prometheusMiddleware)
	r.Use(app.rateLimiterMiddleware)
	r.Use(app.enableCors)

	r.Route("/api", func(r chi.Router) {
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", app.sessionsHandler.Create)
			r.Get("/{sessionId}", app.sessionsHandler.Get)
			r.Post("/{sessionId}/join", app.sessionsHandler.Join)
			r.Post("/{sessionId}/start", app.sessionsHandler.StartRound)
			r.Post("/{sessionId}/guess", app.sessionsHandler.Guess)
			r.Post("/{sessionId}/leave", app.sessionsHandler.Leave)
			r.Get("/{sessionId}/leaderboard", app.sessionsHandler.Leaderboard)
			r.Get("/{sessionId}/ws", app.sessionsHandler.Subscribe)
		})

		r.Get("/health", app.healthHandler.GetHealth)
		r.Get("/healthz", app.healthHandler.GetHealth)
		r.Get("/ready", app.healthHandler.GetHealth)
		r.Get("/live", app.healthHandler.GetHealth)
	})

	r.Handle("/metrics", app.metrics.Handler())

	return r
}

func (app *Application) Run(mux http.Handler) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", app.config.HTTP.Host, app.config.HTTP.Port),
		Handler:      mux,
		WriteTimeout: time.Second * 30,
		ReadTimeout:  time.Second * 10,
		IdleTimeout:  time.Minute,
	}

	shutdown := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)

		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		app.logger.Infow("signal caught", "signal", s.String())

		shutdown <- srv.Shutdown(ctx)
	}()

	app.logger.Infow("server has started", "addr", srv.Addr)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdown
	if err != nil {
		return err
	}

	app.logger.Infow("server has stopped", "addr", srv.Addr)

	return nil
}
