package execution

import (
	"github.com/ethereum/go-ethereum/common"
)

// Option configures the execution monitor during construction.
type Option func(*Service) error

// WithHTTPEndpoint sets the web3 endpoint to dial.
func WithHTTPEndpoint(endpoint string) Option {
	return func(s *Service) error {
		s.cfg.endpoint = endpoint
		return nil
	}
}

// WithDepositContract sets the deposit contract to watch.
func WithDepositContract(address common.Address) Option {
	return func(s *Service) error {
		s.cfg.depositContract = address
		return nil
	}
}
