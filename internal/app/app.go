package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gestfin/gestfin/internal/config"
	"github.com/gestfin/gestfin/internal/database"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, database, router, and server lifecycle.
type Application struct {
	cfg  config.Application
	conn *database.Connection
	deps *Dependencies
	srv  *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication(configPath string) (*Application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	// Opens the store and applies the schema on first use.
	conn := database.NewConnection(cfg.Database)
	db, err := conn.Get(context.Background())
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	deps := BuildDependencies(db, cfg)
	SetupMiddleware(r, deps)
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Listen,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, conn: conn, deps: deps, srv: srv}, nil
}

// Run serves HTTP until SIGINT or SIGTERM, then closes the store.
func (a *Application) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer a.deps.Close()
	defer a.conn.Close()

	errs := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		errs <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	}
}
