package node

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/core/helpers"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/scheduler"
	regularsync "github.com/ralexstokes/nimbus-eth2/beacon-chain/sync"
)

// Option configures the beacon node during construction.
type Option func(*BeaconNode) error

type config struct {
	dataDir             string
	p2pTCPPort          uint
	rpcHost             string
	rpcPort             int
	web3Endpoint        string
	depositContract     common.Address
	checkpointStatePath string
	genesisStatePath    string
	validatorsDir       string
	validatorKeys       [][48]byte
	wsCheckpoint        *helpers.Checkpoint
	forceGC             bool

	processor      regularsync.MessageProcessor
	syncChecker    regularsync.SyncChecker
	requestManager regularsync.RequestManager
	head           scheduler.HeadUpdater
	duties         scheduler.DutiesHandler
	finalization   scheduler.FinalizationProvider
	rpcHandlers    map[string]http.Handler
}

// WithDataDir sets the root directory for the databases, the network key
// and the node record.
func WithDataDir(dir string) Option {
	return func(b *BeaconNode) error {
		b.cfg.dataDir = dir
		return nil
	}
}

// WithP2PTCPPort sets the libp2p listen port.
func WithP2PTCPPort(port uint) Option {
	return func(b *BeaconNode) error {
		b.cfg.p2pTCPPort = port
		return nil
	}
}

// WithRPCEndpoint sets the host and port of the HTTP API server.
func WithRPCEndpoint(host string, port int) Option {
	return func(b *BeaconNode) error {
		b.cfg.rpcHost = host
		b.cfg.rpcPort = port
		return nil
	}
}

// WithWeb3Endpoint sets the execution chain endpoint used for genesis
// detection and deposit watching.
func WithWeb3Endpoint(endpoint string) Option {
	return func(b *BeaconNode) error {
		b.cfg.web3Endpoint = endpoint
		return nil
	}
}

// WithDepositContract sets the deposit contract address on the execution
// chain.
func WithDepositContract(addr common.Address) Option {
	return func(b *BeaconNode) error {
		b.cfg.depositContract = addr
		return nil
	}
}

// WithCheckpointState points at a serialized state to sync from instead of
// genesis.
func WithCheckpointState(path string) Option {
	return func(b *BeaconNode) error {
		b.cfg.checkpointStatePath = path
		return nil
	}
}

// WithGenesisState points at a baked serialized genesis state.
func WithGenesisState(path string) Option {
	return func(b *BeaconNode) error {
		b.cfg.genesisStatePath = path
		return nil
	}
}

// WithValidatorsDir enables the validator components and places the
// slashing protection database under the given directory.
func WithValidatorsDir(dir string) Option {
	return func(b *BeaconNode) error {
		b.cfg.validatorsDir = dir
		return nil
	}
}

// WithValidatorKeys attaches validator public keys to the node's pool.
func WithValidatorKeys(keys [][48]byte) Option {
	return func(b *BeaconNode) error {
		b.cfg.validatorKeys = keys
		return nil
	}
}

// WithWeakSubjectivityCheckpoint supplies the trusted checkpoint the node
// must verify it is still within range of.
func WithWeakSubjectivityCheckpoint(cp *helpers.Checkpoint) Option {
	return func(b *BeaconNode) error {
		b.cfg.wsCheckpoint = cp
		return nil
	}
}

// WithForcedGC runs the garbage collector at every slot start.
func WithForcedGC(enabled bool) Option {
	return func(b *BeaconNode) error {
		b.cfg.forceGC = enabled
		return nil
	}
}

// WithMessageProcessor attaches the consensus backend consuming gossip
// payloads.
func WithMessageProcessor(p regularsync.MessageProcessor) Option {
	return func(b *BeaconNode) error {
		b.cfg.processor = p
		return nil
	}
}

// WithSyncChecker attaches the initial sync manager's progress surface.
func WithSyncChecker(c regularsync.SyncChecker) Option {
	return func(b *BeaconNode) error {
		b.cfg.syncChecker = c
		return nil
	}
}

// WithRequestManager attaches the by-root block request backend.
func WithRequestManager(rm regularsync.RequestManager) Option {
	return func(b *BeaconNode) error {
		b.cfg.requestManager = rm
		return nil
	}
}

// WithHeadUpdater attaches the fork choice surface driven every slot.
func WithHeadUpdater(h scheduler.HeadUpdater) Option {
	return func(b *BeaconNode) error {
		b.cfg.head = h
		return nil
	}
}

// WithDutiesHandler attaches the validator duty driver.
func WithDutiesHandler(d scheduler.DutiesHandler) Option {
	return func(b *BeaconNode) error {
		b.cfg.duties = d
		return nil
	}
}

// WithFinalizationProvider attaches the finalized epoch source for the
// finalization-delay metric.
func WithFinalizationProvider(f scheduler.FinalizationProvider) Option {
	return func(b *BeaconNode) error {
		b.cfg.finalization = f
		return nil
	}
}

// WithRPCHandler mounts an HTTP handler under the given API namespace.
func WithRPCHandler(namespace string, handler http.Handler) Option {
	return func(b *BeaconNode) error {
		if b.cfg.rpcHandlers == nil {
			b.cfg.rpcHandlers = make(map[string]http.Handler)
		}
		b.cfg.rpcHandlers[namespace] = handler
		return nil
	}
}
