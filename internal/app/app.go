package app

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gigflow/internal/auth"
	"gigflow/internal/config"
	"gigflow/internal/controller"
	"gigflow/internal/realtime"
	"gigflow/internal/repository"
	"gigflow/internal/router"
	"gigflow/internal/service"

	log "github.com/sirupsen/logrus"
)

type App struct {
	store      repository.Store
	pg         *repository.Repository
	hub        *realtime.Hub
	service    *service.Service
	controller *controller.Controller
	stopSig    chan os.Signal
	cfg        *config.Config

	Done chan struct{}
}

type option func(*App)

func WithConfig(cfg *config.Config) option {
	return func(app *App) {
		app.cfg = cfg
	}
}

// WithStore swaps the postgres-backed store for another implementation, such
// as the in-memory one used by tests.
func WithStore(store repository.Store) option {
	return func(app *App) {
		app.store = store
	}
}

func NewApp(opts ...option) (*App, error) {
	var err error

	app := &App{
		stopSig: make(chan os.Signal, 2),
		Done:    make(chan struct{}),
	}

	for _, opt := range opts {
		opt(app)
	}

	if app.cfg == nil {
		cfg, err := config.NewConfig()
		if err != nil {
			return nil, err
		}
		app.cfg = cfg
	}

	setupLogger(app.cfg.LogLevel)

	if app.store == nil {
		app.pg, err = repository.NewRepository(nil, &app.cfg.PostgresConfig)
		if err != nil {
			return nil, err
		}
		app.store = app.pg
	}

	app.hub = realtime.NewHub()
	app.service = service.NewService(app.store)

	tokens := auth.NewJWTManager(app.cfg.JWTSecret, app.cfg.TokenTTL)
	app.controller = controller.NewController(app.service, tokens, app.hub)

	return app, nil
}

func (app *App) Run() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		signal.Notify(app.stopSig, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
		sig := <-app.stopSig
		log.WithField("signal", sig.String()).Info("received signal")
		cancel()
	}()

	server := http.Server{
		Addr:         app.cfg.ServerAddress,
		Handler:      router.NewRouter(app.controller, app.hub),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		err := server.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http server error")
		}
	}()

	log.WithField("addr", app.cfg.ServerAddress).Info("server started, listening for connections")
	<-ctx.Done()

	timeout, tcancel := context.WithTimeout(context.Background(), time.Second*10)
	defer tcancel()
	log.Info("shutting down http server")
	server.Shutdown(timeout)

	if app.pg != nil {
		log.Info("closing repository")
		err := app.pg.Close()
		if err != nil {
			log.WithError(err).Error("repository closing error")
		}
	}

	close(app.Done)
	log.Info("exiting app")
}

func setupLogger(level string) {
	log.SetFormatter(&log.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05Z07:00",
	})
	log.SetOutput(os.Stdout)

	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
}
