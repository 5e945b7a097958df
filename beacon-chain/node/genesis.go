package node

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/execution"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/startup"
	"github.com/ralexstokes/nimbus-eth2/encoding/bytesutil"
	"github.com/sirupsen/logrus"
)

// resolveGenesis determines the network's genesis and builds the node
// clock. Precedence: a checkpoint state file, then whatever the database
// already holds, then a baked genesis state file, then live detection on
// the deposit contract. The loaded state bytes are a one-shot buffer,
// released as soon as the database has consumed them.
func (b *BeaconNode) resolveGenesis(ctx context.Context) error {
	var genesisBytes []byte
	switch {
	case b.cfg.checkpointStatePath != "":
		blob, err := os.ReadFile(b.cfg.checkpointStatePath)
		if err != nil {
			return errors.Wrap(err, "could not read checkpoint state file")
		}
		log.WithField("path", b.cfg.checkpointStatePath).Info("Loading checkpoint state")
		genesisBytes = blob
	case b.hasStoredGenesis(ctx):
		// Nothing to load, the database already carries genesis.
	case b.cfg.genesisStatePath != "":
		blob, err := os.ReadFile(b.cfg.genesisStatePath)
		if err != nil {
			return errors.Wrap(err, "could not read genesis state file")
		}
		log.WithField("path", b.cfg.genesisStatePath).Info("Loading genesis state")
		genesisBytes = blob
	case b.cfg.web3Endpoint != "":
		blob, err := b.awaitChainStart(ctx)
		if err != nil {
			return err
		}
		genesisBytes = blob
	default:
		return errors.New("no genesis source available: provide a genesis state, a checkpoint, or a web3 endpoint")
	}

	if genesisBytes != nil {
		if err := b.db.LoadGenesis(ctx, bytes.NewReader(genesisBytes)); err != nil {
			return errors.Wrap(err, "could not store genesis")
		}
		genesisBytes = nil
	}

	genesisTime, err := b.db.GenesisTime(ctx)
	if err != nil {
		return err
	}
	rootBytes, err := b.db.GenesisValidatorsRoot(ctx)
	if err != nil {
		return err
	}
	root := bytesutil.ToBytes32(rootBytes)
	b.clock = startup.NewClock(time.Unix(int64(genesisTime), 0), root)
	log.WithFields(logrus.Fields{
		"genesisTime":           genesisTime,
		"genesisValidatorsRoot": fmt.Sprintf("%#x", root),
	}).Info("Genesis resolved")
	return nil
}

func (b *BeaconNode) hasStoredGenesis(ctx context.Context) bool {
	root, err := b.db.GenesisValidatorsRoot(ctx)
	return err == nil && root != nil
}

// awaitChainStart blocks on the deposit contract until the genesis
// condition is met, then synthesizes a minimal genesis blob carrying the
// time and validators root.
func (b *BeaconNode) awaitChainStart(ctx context.Context) ([]byte, error) {
	monitor, err := execution.NewService(ctx,
		execution.WithHTTPEndpoint(b.cfg.web3Endpoint),
		execution.WithDepositContract(b.cfg.depositContract),
	)
	if err != nil {
		return nil, errors.Wrap(err, "could not create execution monitor")
	}
	monitor.Start()
	defer func() {
		if err := monitor.Stop(); err != nil {
			log.WithError(err).Error("Failed to stop execution monitor")
		}
	}()

	log.Info("Waiting for the deposit contract to reach the genesis condition")
	data, err := monitor.WaitForChainStart(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "could not detect chain start")
	}
	return genesisBlob(uint64(data.GenesisTime.Unix()), data.GenesisValidatorsRoot), nil
}

// genesisBlob lays out the genesis time and validators root the way a
// serialized genesis state opens, so LoadGenesis can parse it.
func genesisBlob(genesisTime uint64, validatorsRoot [32]byte) []byte {
	blob := make([]byte, 40)
	binary.LittleEndian.PutUint64(blob[0:8], genesisTime)
	copy(blob[8:40], validatorsRoot[:])
	return blob
}
