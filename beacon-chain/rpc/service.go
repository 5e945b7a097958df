// Package rpc hosts the node's HTTP API surface. Namespace handlers are
// supplied by their owning services; this package only owns the router
// and server lifecycle.
package rpc

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "rpc")

// Namespaces routable under /eth/v1.
const (
	BeaconNamespace    = "beacon"
	ConfigNamespace    = "config"
	DebugNamespace     = "debug"
	EventsNamespace    = "events"
	NodeNamespace      = "node"
	ValidatorNamespace = "validator"
	AdminNamespace     = "admin"
)

const shutdownTimeout = 5 * time.Second

// Service serves the HTTP API.
type Service struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cfg      *config
	router   *mux.Router
	server   *http.Server
	listener net.Listener
}

type config struct {
	host     string
	port     int
	handlers map[string]http.Handler
}

// NewService initializes the server and mounts the configured namespace
// handlers.
func NewService(ctx context.Context, opts ...Option) (*Service, error) {
	ctx, cancel := context.WithCancel(ctx)
	s := &Service{
		ctx:    ctx,
		cancel: cancel,
		cfg: &config{
			handlers: make(map[string]http.Handler),
		},
		router: mux.NewRouter(),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			cancel()
			return nil, err
		}
	}
	for namespace, handler := range s.cfg.handlers {
		s.router.PathPrefix("/eth/v1/" + namespace).Handler(handler)
	}
	s.server = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: time.Second,
	}
	return s, nil
}

// Start binds the listener and serves until stopped.
func (s *Service) Start() {
	address := fmt.Sprintf("%s:%d", s.cfg.host, s.cfg.port)
	lis, err := net.Listen("tcp", address)
	if err != nil {
		log.WithError(err).WithField("address", address).Fatal("Could not listen on RPC address")
	}
	s.listener = lis
	log.WithField("address", lis.Addr().String()).Info("HTTP API listening")
	go func() {
		if err := s.server.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("HTTP API server stopped unexpectedly")
		}
	}()
}

// Stop drains in-flight requests and closes the listener.
func (s *Service) Stop() error {
	defer s.cancel()
	if s.listener == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Status reports whether the server is listening.
func (s *Service) Status() error {
	if s.listener == nil {
		return errors.New("rpc server is not serving")
	}
	return nil
}

// Addr returns the bound listen address, usable when the configured port
// was 0.
func (s *Service) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}
