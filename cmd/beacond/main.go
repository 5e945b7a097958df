// beacond is the beacon node binary: the default action runs the node, and
// subcommands cover testnet bootstrapping, deposits and wallets.
package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/core/helpers"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/node"
	"github.com/ralexstokes/nimbus-eth2/cmd/beacond/deposits"
	"github.com/ralexstokes/nimbus-eth2/cmd/beacond/flags"
	"github.com/ralexstokes/nimbus-eth2/cmd/beacond/testnet"
	"github.com/ralexstokes/nimbus-eth2/cmd/beacond/wallets"
	"github.com/ralexstokes/nimbus-eth2/config/params"
	"github.com/ralexstokes/nimbus-eth2/encoding/bytesutil"
	"github.com/ralexstokes/nimbus-eth2/runtime/version"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "main")

func main() {
	app := &cli.App{
		Name:    "beacond",
		Usage:   "Ethereum beacon chain node",
		Version: version.Version(),
		Action:  runNode,
		Flags: []cli.Flag{
			flags.DataDirFlag,
			flags.NetworkFlag,
			flags.ChainConfigFileFlag,
			flags.P2PTCPPortFlag,
			flags.RPCHostFlag,
			flags.RPCPortFlag,
			flags.Web3EndpointFlag,
			flags.DepositContractFlag,
			flags.GenesisStateFlag,
			flags.CheckpointStateFlag,
			flags.WeakSubjectivityCheckpointFlag,
			flags.ValidatorsDirFlag,
			flags.ForceGCFlag,
		},
		Commands: []*cli.Command{
			testnet.Command,
			deposits.Command,
			wallets.Command,
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Error("beacond exited with error")
		os.Exit(1)
	}
}

func runNode(cliCtx *cli.Context) error {
	if err := configureNetwork(cliCtx); err != nil {
		return err
	}

	opts := []node.Option{
		node.WithDataDir(cliCtx.String(flags.DataDirFlag.Name)),
		node.WithP2PTCPPort(cliCtx.Uint(flags.P2PTCPPortFlag.Name)),
		node.WithRPCEndpoint(cliCtx.String(flags.RPCHostFlag.Name), cliCtx.Int(flags.RPCPortFlag.Name)),
		node.WithForcedGC(cliCtx.Bool(flags.ForceGCFlag.Name)),
	}
	if endpoint := cliCtx.String(flags.Web3EndpointFlag.Name); endpoint != "" {
		opts = append(opts, node.WithWeb3Endpoint(endpoint))
	}
	if addr := depositContractAddress(cliCtx); addr != (common.Address{}) {
		opts = append(opts, node.WithDepositContract(addr))
	}
	if path := cliCtx.String(flags.GenesisStateFlag.Name); path != "" {
		opts = append(opts, node.WithGenesisState(path))
	}
	if path := cliCtx.String(flags.CheckpointStateFlag.Name); path != "" {
		opts = append(opts, node.WithCheckpointState(path))
	}
	if dir := cliCtx.String(flags.ValidatorsDirFlag.Name); dir != "" {
		opts = append(opts, node.WithValidatorsDir(dir))
		keys, err := loadValidatorKeys(dir)
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			opts = append(opts, node.WithValidatorKeys(keys))
		}
	}
	if input := cliCtx.String(flags.WeakSubjectivityCheckpointFlag.Name); input != "" {
		cp, err := helpers.ParseWeakSubjectivityInputString(input)
		if err != nil {
			return err
		}
		opts = append(opts, node.WithWeakSubjectivityCheckpoint(cp))
	}

	beacon, err := node.New(context.Background(), opts...)
	if err != nil {
		return errors.Wrap(err, "could not initialize beacon node")
	}
	beacon.Start()
	return nil
}

// configureNetwork applies the named network configuration, then any chain
// config file on top. A field fixed by the network may not be supplied on
// the command line as well.
func configureNetwork(cliCtx *cli.Context) error {
	switch network := cliCtx.String(flags.NetworkFlag.Name); network {
	case "mainnet":
		params.OverrideBeaconConfig(params.MainnetConfig())
	case "minimal":
		params.OverrideBeaconConfig(params.MinimalSpecConfig())
	default:
		return errors.Errorf("unknown network: %q", network)
	}

	if params.BeaconConfig().DepositContractAddress != "" && cliCtx.IsSet(flags.DepositContractFlag.Name) {
		return errors.Errorf(
			"the %s network already fixes the deposit contract address, remove --%s",
			cliCtx.String(flags.NetworkFlag.Name), flags.DepositContractFlag.Name,
		)
	}

	if path := cliCtx.String(flags.ChainConfigFileFlag.Name); path != "" {
		cfg, err := params.LoadChainConfigFile(path)
		if err != nil {
			return err
		}
		params.OverrideBeaconConfig(cfg)
	}
	return nil
}

// loadValidatorKeys reads the public keys written by `deposits import`.
// A missing file means the node runs without attached validators.
func loadValidatorKeys(validatorsDir string) ([][48]byte, error) {
	blob, err := os.ReadFile(filepath.Join(validatorsDir, "validators.json"))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "could not read validator keys")
	}
	var pubkeys []string
	if err := json.Unmarshal(blob, &pubkeys); err != nil {
		return nil, errors.Wrap(err, "could not parse validator keys")
	}
	keys := make([][48]byte, 0, len(pubkeys))
	for _, encoded := range pubkeys {
		decoded, err := bytesutil.DecodeHexWithLength(strings.TrimPrefix(encoded, "0x"), 48)
		if err != nil {
			return nil, errors.Wrapf(err, "invalid validator public key %s", encoded)
		}
		var key [48]byte
		copy(key[:], decoded)
		keys = append(keys, key)
	}
	return keys, nil
}

func depositContractAddress(cliCtx *cli.Context) common.Address {
	if cliCtx.IsSet(flags.DepositContractFlag.Name) {
		return common.HexToAddress(cliCtx.String(flags.DepositContractFlag.Name))
	}
	return common.HexToAddress(params.BeaconConfig().DepositContractAddress)
}
