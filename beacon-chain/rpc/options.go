package rpc

import (
	"net/http"

	"github.com/pkg/errors"
)

// Option configures the RPC service during construction.
type Option func(*Service) error

// WithHost sets the listen host.
func WithHost(host string) Option {
	return func(s *Service) error {
		s.cfg.host = host
		return nil
	}
}

// WithPort sets the listen port. Zero picks an ephemeral port.
func WithPort(port int) Option {
	return func(s *Service) error {
		s.cfg.port = port
		return nil
	}
}

// WithNamespaceHandler mounts a handler under /eth/v1/<namespace>.
func WithNamespaceHandler(namespace string, handler http.Handler) Option {
	return func(s *Service) error {
		if handler == nil {
			return errors.Errorf("nil handler for namespace %s", namespace)
		}
		if _, ok := s.cfg.handlers[namespace]; ok {
			return errors.Errorf("duplicate handler for namespace %s", namespace)
		}
		s.cfg.handlers[namespace] = handler
		return nil
	}
}
