package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/vitistack/dnsmasq-hosts/internal/api/handlers/hosts"
	"github.com/vitistack/dnsmasq-hosts/internal/api/routes"
	"github.com/vitistack/dnsmasq-hosts/internal/metrics"
	"github.com/vitistack/dnsmasq-hosts/pkg/bslog"
	"github.com/vitistack/dnsmasq-hosts/pkg/rest/middleware"
	"github.com/vitistack/dnsmasq-hosts/pkg/rest/response"
)

const ShutdownTimeout = 10 * time.Second

var ErrBind = errors.New("unable to bind listen address")

type Server struct {
	addr     string
	router   *http.ServeMux
	srv      *http.Server
	listener net.Listener
}

func NewServer(addr string, hs *hosts.HostsService) *Server {
	s := &Server{
		addr:   addr,
		router: http.NewServeMux(),
	}

	logger := slog.Default()
	chain := middleware.Chain(
		middleware.WithIncomingRequestLogging(logger),
		middleware.WithResponseLogging(logger),
		middleware.WithMetrics(metrics.ObserveRequest),
		middleware.WithRecovery(),
	)
	handle := func(pattern string, h middleware.HandlerFunc) {
		s.router.HandleFunc(pattern, chain(middleware.WithErrorHandling(h)))
	}

	handle(routes.INDEX, hs.Index)
	handle(routes.GET_HOSTS, hs.GetHosts)
	handle(routes.ADD_HOST, hs.AddHost)
	handle(routes.DELETE_HOST, hs.DeleteHost)
	handle(routes.EDIT_HOST, hs.EditHost)
	handle(routes.NOT_FOUND, notFound)
	s.router.Handle(routes.METRICS, metrics.Handler())

	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       90 * time.Second,
		ErrorLog:          slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
	}
	return s
}

func notFound(w http.ResponseWriter, r *http.Request) error {
	return response.NotFound("Route %s:%s not found", r.Method, r.URL.Path)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Listen binds the address. It fails with ErrBind if the port is taken.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("%w %s: %w", ErrBind, s.addr, err)
	}
	s.listener = ln
	bslog.Info(fmt.Sprintf("Server listening on http://%s", ln.Addr().String()))
	return nil
}

// Addr is the bound address, or the configured one before Listen
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.addr
}

// Serve handles requests until ctx is done, then drains open connections
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.srv.Serve(s.listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	bslog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
