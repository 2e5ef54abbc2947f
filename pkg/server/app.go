package server

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	xhttp "CardScout/pkg/http"
	applogger "CardScout/pkg/logger"
)

// Resource is a backend closed on shutdown, in reverse registration order.
type Resource struct {
	Name   string
	Closer io.Closer
}

// Stopper is a background component stopped before resources are closed.
type Stopper interface {
	Close()
}

// App owns the HTTP server and the backends it was built with.
type App struct {
	log             *applogger.Logger
	httpServer      *xhttp.Server
	shutdownTimeout time.Duration
	stoppers        []Stopper
	resources       []Resource
}

func New(l *applogger.Logger, srv *xhttp.Server, shutdownTimeout time.Duration) *App {
	if l == nil {
		l = applogger.Nop()
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &App{log: l, httpServer: srv, shutdownTimeout: shutdownTimeout}
}

// OnStop registers components such as the websocket hub.
func (a *App) OnStop(s ...Stopper) *App {
	a.stoppers = append(a.stoppers, s...)
	return a
}

// Manage registers a backend to close on shutdown. Nil closers are ignored.
func (a *App) Manage(name string, c io.Closer) *App {
	if c != nil {
		a.resources = append(a.resources, Resource{Name: name, Closer: c})
	}
	return a
}

// Run starts serving and blocks until SIGINT/SIGTERM or ctx is done.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.httpServer.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}

	<-ctx.Done()
	a.log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	return a.Shutdown(shutdownCtx)
}

// Shutdown stops the HTTP server, then background components, then closes
// backends. Every step runs; the errors are joined.
func (a *App) Shutdown(ctx context.Context) error {
	a.log.Info("shutting down...")
	var errs []error

	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.log.Error("http shutdown error", applogger.Error(err))
			errs = append(errs, err)
		}
	}
	for _, s := range a.stoppers {
		s.Close()
	}
	for i := len(a.resources) - 1; i >= 0; i-- {
		r := a.resources[i]
		if err := r.Closer.Close(); err != nil {
			a.log.Warn("close error", applogger.String("resource", r.Name), applogger.Error(err))
			errs = append(errs, err)
		}
	}

	a.log.Info("shutdown complete")
	return errors.Join(errs...)
}
