// Package node assembles the beacon node: it opens the databases, resolves
// genesis, constructs the services and drives their lifecycle from start to
// interrupt-triggered shutdown.
package node

import (
	"bytes"
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/core/helpers"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/db/kv"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/execution"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/p2p"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/quarantine"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/rpc"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/scheduler"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/startup"
	regularsync "github.com/ralexstokes/nimbus-eth2/beacon-chain/sync"
	"github.com/ralexstokes/nimbus-eth2/config/params"
	"github.com/ralexstokes/nimbus-eth2/runtime"
	"github.com/ralexstokes/nimbus-eth2/runtime/fdlimits"
	"github.com/ralexstokes/nimbus-eth2/runtime/nodestate"
	"github.com/ralexstokes/nimbus-eth2/runtime/version"
	"github.com/ralexstokes/nimbus-eth2/time/slots"
	"github.com/ralexstokes/nimbus-eth2/validator/pool"
	"github.com/sirupsen/logrus"

	valkv "github.com/ralexstokes/nimbus-eth2/validator/db/kv"
)

var log = logrus.WithField("prefix", "node")

const (
	beaconChainDBDirName     = "beaconchaindata"
	slashingProtectionDBName = "slashing_protection"
	pidFileName              = "beacon_node.pid"
)

// BeaconNode owns the databases and the service registry. Construction
// resolves genesis and wires every service; Start launches them and blocks
// until an interrupt arrives.
type BeaconNode struct {
	ctx    context.Context
	cancel context.CancelFunc
	cfg    *config

	services    *runtime.ServiceRegistry
	db          *kv.Store
	validatorDB *valkv.Store
	pool        *pool.Pool
	clock       *startup.Clock

	stop chan struct{}
}

// New constructs a fully wired beacon node. Any failure here is an
// initialization error and the caller should exit nonzero.
func New(ctx context.Context, opts ...Option) (*BeaconNode, error) {
	nodestate.Advance(nodestate.Starting)
	ctx, cancel := context.WithCancel(ctx)
	b := &BeaconNode{
		ctx:      ctx,
		cancel:   cancel,
		cfg:      &config{},
		services: runtime.NewServiceRegistry(),
		pool:     pool.NewPool(),
		stop:     make(chan struct{}),
	}
	for _, opt := range opts {
		if err := opt(b); err != nil {
			cancel()
			return nil, err
		}
	}
	if b.cfg.dataDir == "" {
		cancel()
		return nil, errors.New("beacon node requires a data directory")
	}

	if err := fdlimits.SetMaxFdLimits(); err != nil {
		log.WithError(err).Warn("Could not raise file descriptor limits")
	}

	if err := b.startDB(ctx); err != nil {
		cancel()
		return nil, err
	}
	if err := b.resolveGenesis(ctx); err != nil {
		b.db.Close()
		cancel()
		return nil, err
	}
	if err := b.checkWeakSubjectivity(); err != nil {
		b.db.Close()
		cancel()
		return nil, err
	}
	if err := b.startValidatorComponents(ctx); err != nil {
		b.db.Close()
		cancel()
		return nil, err
	}
	if err := b.registerServices(ctx); err != nil {
		b.closeDBs()
		cancel()
		return nil, err
	}
	return b, nil
}

func (b *BeaconNode) startDB(ctx context.Context) error {
	dbPath := filepath.Join(b.cfg.dataDir, beaconChainDBDirName)
	log.WithField("databasePath", dbPath).Info("Checking DB")
	store, err := kv.NewKVStore(ctx, dbPath)
	if err != nil {
		return errors.Wrap(err, "could not open beacon chain database")
	}
	b.db = store
	return nil
}

// checkWeakSubjectivity aborts startup when the supplied checkpoint is
// older than the weak subjectivity period. The active validator count is
// floored at the genesis minimum since the node has no state yet.
func (b *BeaconNode) checkWeakSubjectivity() error {
	if b.cfg.wsCheckpoint == nil {
		return nil
	}
	cfg := params.BeaconConfig()
	currentEpoch := slots.ToEpoch(b.clock.SlotOrZero())
	if !helpers.IsWithinWeakSubjectivityPeriod(currentEpoch, cfg.MinGenesisActiveValidatorCount, *b.cfg.wsCheckpoint, cfg) {
		return errors.Errorf(
			"weak subjectivity checkpoint from epoch %d is stale at epoch %d, provide a more recent one",
			b.cfg.wsCheckpoint.Epoch, currentEpoch,
		)
	}
	return nil
}

// startValidatorComponents opens the slashing protection database when a
// validator directory is configured, binding it to the genesis validators
// root so keys cannot cross networks.
func (b *BeaconNode) startValidatorComponents(ctx context.Context) error {
	for _, key := range b.cfg.validatorKeys {
		b.pool.AddValidator(key)
	}
	if b.cfg.validatorsDir == "" {
		return nil
	}
	store, err := valkv.NewKVStore(ctx, filepath.Join(b.cfg.validatorsDir, slashingProtectionDBName))
	if err != nil {
		return errors.Wrap(err, "could not open slashing protection database")
	}
	genesisRoot := b.clock.GenesisValidatorsRoot()
	existing, err := store.GenesisValidatorsRoot(ctx)
	if err != nil {
		store.Close()
		return err
	}
	if existing == nil {
		if err := store.SaveGenesisValidatorsRoot(ctx, genesisRoot[:]); err != nil {
			store.Close()
			return err
		}
	} else if !bytes.Equal(existing, genesisRoot[:]) {
		store.Close()
		return errors.Errorf(
			"slashing protection database belongs to a different network: has root %#x, expected %#x",
			existing, genesisRoot,
		)
	}
	b.validatorDB = store
	return nil
}

// registerServices wires the service graph in start order: networking
// first, then gossip handling, the slot scheduler, and the RPC surface.
func (b *BeaconNode) registerServices(ctx context.Context) error {
	// Port zero asks the host for an ephemeral port.
	p2pService, err := p2p.NewService(ctx,
		p2p.WithDataDir(b.cfg.dataDir),
		p2p.WithTCPPort(b.cfg.p2pTCPPort),
		p2p.WithGenesisValidatorsRoot(b.rootSlice()),
	)
	if err != nil {
		return errors.Wrap(err, "could not register p2p service")
	}
	if err := b.services.RegisterService(p2pService); err != nil {
		return err
	}

	// The deposit contract only matters to nodes that will propose; an
	// observer node skips the execution chain entirely.
	if b.pool.HasValidators() && b.cfg.web3Endpoint != "" {
		executionService, err := execution.NewService(ctx,
			execution.WithHTTPEndpoint(b.cfg.web3Endpoint),
			execution.WithDepositContract(b.cfg.depositContract),
		)
		if err != nil {
			return errors.Wrap(err, "could not register execution monitor")
		}
		if err := b.services.RegisterService(executionService); err != nil {
			return err
		}
	}

	q, err := quarantine.New()
	if err != nil {
		return errors.Wrap(err, "could not create quarantine")
	}
	processor := b.cfg.processor
	if processor == nil {
		processor = discardProcessor{}
	}
	syncService, err := regularsync.NewService(ctx,
		regularsync.WithP2P(p2pService),
		regularsync.WithClock(b.clock),
		regularsync.WithQuarantine(q),
		regularsync.WithSyncChecker(b.cfg.syncChecker),
		regularsync.WithRequestManager(b.cfg.requestManager),
		regularsync.WithSubnetsProvider(b.pool),
		regularsync.WithProcessor(processor),
	)
	if err != nil {
		return errors.Wrap(err, "could not register sync service")
	}
	if err := b.services.RegisterService(syncService); err != nil {
		return err
	}

	schedulerOpts := []scheduler.Option{
		scheduler.WithClock(b.clock),
		scheduler.WithGossipController(syncService),
		scheduler.WithForcedGC(b.cfg.forceGC),
	}
	if b.cfg.head != nil {
		schedulerOpts = append(schedulerOpts, scheduler.WithHeadUpdater(b.cfg.head))
	}
	if b.cfg.duties != nil {
		schedulerOpts = append(schedulerOpts, scheduler.WithDutiesHandler(b.cfg.duties))
	}
	if b.cfg.finalization != nil {
		schedulerOpts = append(schedulerOpts, scheduler.WithFinalizationProvider(b.cfg.finalization))
	}
	schedulerService, err := scheduler.NewService(ctx, schedulerOpts...)
	if err != nil {
		return errors.Wrap(err, "could not register slot scheduler")
	}
	if err := b.services.RegisterService(schedulerService); err != nil {
		return err
	}

	rpcOpts := []rpc.Option{
		rpc.WithHost(b.cfg.rpcHost),
		rpc.WithPort(b.cfg.rpcPort),
	}
	for namespace, handler := range b.cfg.rpcHandlers {
		rpcOpts = append(rpcOpts, rpc.WithNamespaceHandler(namespace, handler))
	}
	rpcService, err := rpc.NewService(ctx, rpcOpts...)
	if err != nil {
		return errors.Wrap(err, "could not register rpc service")
	}
	return b.services.RegisterService(rpcService)
}

func (b *BeaconNode) rootSlice() []byte {
	root := b.clock.GenesisValidatorsRoot()
	return root[:]
}

// Start launches every registered service and blocks until the context is
// cancelled, Close is called, or an interrupt signal arrives.
func (b *BeaconNode) Start() {
	log.WithFields(logrus.Fields{
		"version": version.Version(),
		"dataDir": b.cfg.dataDir,
	}).Info("Starting beacon node")

	b.services.StartAll()
	nodestate.Advance(nodestate.Running)
	if err := b.writePIDFile(); err != nil {
		log.WithError(err).Warn("Could not write pid file")
	}

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)

	select {
	case sig := <-sigc:
		log.WithField("signal", sig.String()).Info("Received interrupt, shutting down")
	case <-b.stop:
	case <-b.ctx.Done():
	}
	b.shutdown()
}

// Close triggers the same shutdown path as an interrupt. It is safe to call
// once; the Start loop performs the actual teardown.
func (b *BeaconNode) Close() {
	select {
	case <-b.stop:
	default:
		close(b.stop)
	}
}

// shutdown stops the services in reverse registration order and closes the
// databases last, so a stopping service can still read.
func (b *BeaconNode) shutdown() {
	nodestate.Advance(nodestate.Stopping)
	b.services.StopAll()
	b.closeDBs()
	b.removePIDFile()
	b.cancel()
	log.Info("Stopping beacon node")
}

func (b *BeaconNode) closeDBs() {
	if b.validatorDB != nil {
		if err := b.validatorDB.Close(); err != nil {
			log.WithError(err).Error("Failed to close slashing protection database")
		}
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			log.WithError(err).Error("Failed to close beacon chain database")
		}
	}
}

func (b *BeaconNode) writePIDFile() error {
	path := filepath.Join(b.cfg.dataDir, pidFileName)
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func (b *BeaconNode) removePIDFile() {
	path := filepath.Join(b.cfg.dataDir, pidFileName)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Could not remove pid file")
	}
}

// discardProcessor drops gossip payloads. It stands in when no block
// processor is attached, which keeps an observer node subscribable without
// a consensus backend.
type discardProcessor struct{}

func (discardProcessor) OnBlock(context.Context, []byte) error { return nil }

func (discardProcessor) OnAttestation(context.Context, uint64, []byte) error { return nil }

func (discardProcessor) OnAggregateAndProof(context.Context, []byte) error { return nil }

func (discardProcessor) OnVoluntaryExit(context.Context, []byte) error { return nil }

func (discardProcessor) OnProposerSlashing(context.Context, []byte) error { return nil }

func (discardProcessor) OnAttesterSlashing(context.Context, []byte) error { return nil }

var _ regularsync.MessageProcessor = discardProcessor{}
