// Package execution watches the deposit contract on the execution chain
// and detects the beacon chain's genesis condition.
package execution

import (
	"context"
	"encoding/binary"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/config/params"
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("prefix", "execution")

// Selectors of the deposit contract's view functions.
var (
	getDepositCountSelector = []byte{0x62, 0x1f, 0xd1, 0x30}
	getDepositRootSelector  = []byte{0xc5, 0xf2, 0x89, 0x2f}
)

const chainStartPollInterval = 13 * time.Second

// ChainStartData describes the detected genesis condition.
type ChainStartData struct {
	GenesisTime           time.Time
	GenesisValidatorsRoot [32]byte
	DepositCount          uint64
}

// ChainStartFetcher blocks until the deposit contract satisfies the
// genesis condition.
type ChainStartFetcher interface {
	WaitForChainStart(ctx context.Context) (*ChainStartData, error)
}

// Service polls the execution chain for the genesis condition.
type Service struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config
	client *ethclient.Client
}

type config struct {
	endpoint        string
	depositContract common.Address
}

// NewService initializes the monitor for the given endpoint and deposit
// contract.
func NewService(ctx context.Context, opts ...Option) (*Service, error) {
	ctx, cancel := context.WithCancel(ctx)
	s := &Service{
		ctx:    ctx,
		cancel: cancel,
		cfg:    &config{},
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			cancel()
			return nil, err
		}
	}
	if s.cfg.endpoint == "" {
		cancel()
		return nil, errors.New("execution monitor requires a web3 endpoint")
	}
	if s.cfg.depositContract == (common.Address{}) {
		cancel()
		return nil, errors.New("execution monitor requires a deposit contract address")
	}
	return s, nil
}

// Start dials the endpoint. Dial failures are fatal: a configured monitor
// that cannot reach its chain cannot detect genesis.
func (s *Service) Start() {
	client, err := ethclient.DialContext(s.ctx, s.cfg.endpoint)
	if err != nil {
		log.WithError(err).WithField("endpoint", s.cfg.endpoint).Fatal("Could not dial execution endpoint")
	}
	s.client = client
	log.WithField("endpoint", s.cfg.endpoint).Info("Connected to execution chain")
}

// Stop disconnects from the endpoint.
func (s *Service) Stop() error {
	s.cancel()
	if s.client != nil {
		s.client.Close()
	}
	return nil
}

// Status reports whether the endpoint connection is up.
func (s *Service) Status() error {
	if s.client == nil {
		return errors.New("not connected to execution chain")
	}
	return nil
}

// WaitForChainStart polls the deposit contract until enough deposits have
// accumulated and the minimum genesis time has passed, then derives the
// genesis parameters from the contract state.
func (s *Service) WaitForChainStart(ctx context.Context) (*ChainStartData, error) {
	ticker := time.NewTicker(chainStartPollInterval)
	defer ticker.Stop()
	for {
		data, ok, err := s.checkChainStart(ctx)
		if err != nil {
			log.WithError(err).Warn("Could not check chain start condition")
		} else if ok {
			log.WithFields(logrus.Fields{
				"genesisTime": data.GenesisTime,
				"deposits":    data.DepositCount,
			}).Info("Execution chain reached the genesis condition")
			return data, nil
		}
		select {
		case <-ticker.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

func (s *Service) checkChainStart(ctx context.Context) (*ChainStartData, bool, error) {
	header, err := s.client.HeaderByNumber(ctx, nil)
	if err != nil {
		return nil, false, errors.Wrap(err, "could not fetch chain head")
	}
	count, err := s.DepositCount(ctx)
	if err != nil {
		return nil, false, err
	}
	cfg := params.BeaconConfig()
	if count < cfg.MinGenesisActiveValidatorCount || header.Time < cfg.MinGenesisTime {
		return nil, false, nil
	}
	root, err := s.depositRoot(ctx)
	if err != nil {
		return nil, false, err
	}
	return &ChainStartData{
		GenesisTime:           time.Unix(int64(header.Time+cfg.GenesisDelay), 0),
		GenesisValidatorsRoot: root,
		DepositCount:          count,
	}, true, nil
}

// DepositCount reads the deposit contract's current deposit count.
func (s *Service) DepositCount(ctx context.Context) (uint64, error) {
	out, err := s.client.CallContract(ctx, ethereum.CallMsg{
		To:   &s.cfg.depositContract,
		Data: getDepositCountSelector,
	}, nil)
	if err != nil {
		return 0, errors.Wrap(err, "could not call get_deposit_count")
	}
	return parseDepositCount(out)
}

func (s *Service) depositRoot(ctx context.Context) ([32]byte, error) {
	out, err := s.client.CallContract(ctx, ethereum.CallMsg{
		To:   &s.cfg.depositContract,
		Data: getDepositRootSelector,
	}, nil)
	if err != nil {
		return [32]byte{}, errors.Wrap(err, "could not call get_deposit_root")
	}
	if len(out) < 32 {
		return [32]byte{}, errors.Errorf("deposit root response too short: %d bytes", len(out))
	}
	var root [32]byte
	copy(root[:], out[:32])
	return root, nil
}

// parseDepositCount decodes the ABI-encoded little-endian bytes8 returned
// by get_deposit_count.
func parseDepositCount(out []byte) (uint64, error) {
	// ABI layout: offset word, length word, then the 8 count bytes.
	if len(out) < 72 {
		return 0, errors.Errorf("deposit count response too short: %d bytes", len(out))
	}
	return binary.LittleEndian.Uint64(out[64:72]), nil
}
