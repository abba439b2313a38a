package internal

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// HTTP server limits. Writes get more room than reads because a newsletter
// publish waits on the whole fan-out before answering.
const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	writeTimeout      = 60 * time.Second
	idleTimeout       = 120 * time.Second
	maxHeaderBytes    = 1 << 20
)

// server owns one http.Server for the lifetime of a Run call.
type server struct {
	http *http.Server
	cfg  *runConfig
	log  *slog.Logger
}

func newServer(addr string, h http.Handler, cfg *runConfig) *server {
	log := cfg.logger
	return &server{
		cfg: cfg,
		log: log,
		http: &http.Server{
			Addr:              addr,
			Handler:           h,
			ReadHeaderTimeout: readHeaderTimeout,
			ReadTimeout:       readTimeout,
			WriteTimeout:      writeTimeout,
			IdleTimeout:       idleTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
			ErrorLog:          slog.NewLogLogger(log.Handler(), slog.LevelWarn),
		},
	}
}

// listener returns the preconfigured listener or binds the server address.
func (s *server) listener() (net.Listener, error) {
	if s.cfg.listener != nil {
		return s.cfg.listener, nil
	}
	return net.Listen("tcp", s.http.Addr)
}

// run serves until the base context is cancelled or SIGINT/SIGTERM arrives,
// then drains connections and runs the shutdown hooks.
func (s *server) run() error {
	ctx, stop := signal.NotifyContext(s.cfg.baseCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	ln, err := s.listener()
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		s.log.Info("listening", slog.String("addr", ln.Addr().String()))
		err := s.http.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		serveErr <- err
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	return s.shutdown()
}

// shutdown gives in-flight requests and every hook one shared deadline.
func (s *server) shutdown() error {
	s.log.Info("shutting down", slog.Duration("timeout", s.cfg.shutdownTimeout))

	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := s.http.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	for i, hook := range s.cfg.shutdownHooks {
		if err := hook(ctx); err != nil {
			s.log.Error("shutdown hook failed", slog.Int("hook", i), slog.Any("error", err))
			errs = append(errs, err)
		}
	}

	if err := errors.Join(errs...); err != nil {
		return err
	}
	s.log.Info("stopped")
	return nil
}
