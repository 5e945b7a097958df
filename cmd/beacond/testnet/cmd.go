// Package testnet writes the configuration artifacts a private network
// needs to boot: a chain config file and a matching genesis state stub.
package testnet

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/cmd/beacond/flags"
	"github.com/ralexstokes/nimbus-eth2/config/params"
	"github.com/ralexstokes/nimbus-eth2/crypto/hash"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v2"
)

var log = logrus.WithField("prefix", "testnet")

// Command creates the files for a new test network.
var Command = &cli.Command{
	Name:  "createTestnet",
	Usage: "Write a chain config file and genesis state for a private network",
	Flags: []cli.Flag{
		flags.OutputDirFlag,
		flags.NumValidatorsFlag,
		flags.DepositContractFlag,
	},
	Action: createTestnet,
}

// testnetConfig is the subset of chain parameters a private network
// typically overrides.
type testnetConfig struct {
	MinGenesisTime                 uint64 `yaml:"MIN_GENESIS_TIME"`
	MinGenesisActiveValidatorCount uint64 `yaml:"MIN_GENESIS_ACTIVE_VALIDATOR_COUNT"`
	GenesisDelay                   uint64 `yaml:"GENESIS_DELAY"`
	SecondsPerSlot                 uint64 `yaml:"SECONDS_PER_SLOT"`
	DepositContractAddress         string `yaml:"DEPOSIT_CONTRACT_ADDRESS"`
}

func createTestnet(cliCtx *cli.Context) error {
	outputDir := cliCtx.String(flags.OutputDirFlag.Name)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errors.Wrap(err, "could not create output directory")
	}

	cfg := params.BeaconConfig()
	genesisTime := uint64(time.Now().Unix()) + cfg.GenesisDelay
	tc := testnetConfig{
		MinGenesisTime:                 genesisTime,
		MinGenesisActiveValidatorCount: uint64(cliCtx.Int(flags.NumValidatorsFlag.Name)),
		GenesisDelay:                   cfg.GenesisDelay,
		SecondsPerSlot:                 cfg.SecondsPerSlot,
		DepositContractAddress:         cliCtx.String(flags.DepositContractFlag.Name),
	}
	configBytes, err := yaml.Marshal(tc)
	if err != nil {
		return errors.Wrap(err, "could not marshal chain config")
	}
	configPath := filepath.Join(outputDir, "config.yaml")
	if err := os.WriteFile(configPath, configBytes, 0o644); err != nil {
		return errors.Wrap(err, "could not write chain config")
	}

	// The validators root of a config-only network is derived from the
	// config itself, so two testnets with different parameters never share
	// gossip topics.
	root := hash.Hash(configBytes)
	genesisPath := filepath.Join(outputDir, "genesis.ssz")
	if err := os.WriteFile(genesisPath, genesisStub(genesisTime, root), 0o644); err != nil {
		return errors.Wrap(err, "could not write genesis state")
	}

	log.WithFields(logrus.Fields{
		"config":  configPath,
		"genesis": genesisPath,
	}).Info("Created testnet files")
	return nil
}

func genesisStub(genesisTime uint64, validatorsRoot [32]byte) []byte {
	blob := make([]byte, 40)
	binary.LittleEndian.PutUint64(blob[0:8], genesisTime)
	copy(blob[8:40], validatorsRoot[:])
	return blob
}
