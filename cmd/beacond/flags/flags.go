// Package flags defines the command line flags of the beacond binary.
package flags

import (
	"github.com/urfave/cli/v2"
)

var (
	// DataDirFlag sets the root directory for databases and keys.
	DataDirFlag = &cli.StringFlag{
		Name:  "datadir",
		Usage: "Data directory for the databases, network key and node record",
		Value: "./beacond",
	}
	// NetworkFlag selects a named network configuration.
	NetworkFlag = &cli.StringFlag{
		Name:  "network",
		Usage: "Name of the network configuration to run (mainnet, minimal)",
		Value: "mainnet",
	}
	// ChainConfigFileFlag loads protocol parameter overrides from a YAML file.
	ChainConfigFileFlag = &cli.StringFlag{
		Name:  "chain-config-file",
		Usage: "Path to a YAML file with chain config values",
	}
	// P2PTCPPortFlag sets the libp2p listening port.
	P2PTCPPortFlag = &cli.UintFlag{
		Name:  "p2p-tcp-port",
		Usage: "TCP port used by the libp2p host",
		Value: 13000,
	}
	// RPCHostFlag sets the HTTP API listen host.
	RPCHostFlag = &cli.StringFlag{
		Name:  "rpc-host",
		Usage: "Host on which the HTTP API server listens",
		Value: "127.0.0.1",
	}
	// RPCPortFlag sets the HTTP API listen port.
	RPCPortFlag = &cli.IntFlag{
		Name:  "rpc-port",
		Usage: "Port on which the HTTP API server listens",
		Value: 3500,
	}
	// Web3EndpointFlag points at the execution chain JSON-RPC endpoint.
	Web3EndpointFlag = &cli.StringFlag{
		Name:  "web3-endpoint",
		Usage: "JSON-RPC endpoint of an execution chain node",
	}
	// DepositContractFlag sets the deposit contract address.
	DepositContractFlag = &cli.StringFlag{
		Name:  "deposit-contract",
		Usage: "Address of the validator deposit contract",
	}
	// GenesisStateFlag points at a baked serialized genesis state.
	GenesisStateFlag = &cli.StringFlag{
		Name:  "genesis-state",
		Usage: "Path to a serialized genesis state file",
	}
	// CheckpointStateFlag points at a trusted checkpoint state to start from.
	CheckpointStateFlag = &cli.StringFlag{
		Name:  "checkpoint-state",
		Usage: "Path to a serialized state within the weak subjectivity period",
	}
	// WeakSubjectivityCheckpointFlag supplies a block_root:epoch pair the
	// node verifies before syncing.
	WeakSubjectivityCheckpointFlag = &cli.StringFlag{
		Name:  "weak-subjectivity-checkpoint",
		Usage: "Trusted checkpoint as block_root:epoch_number",
	}
	// ValidatorsDirFlag enables the validator components.
	ValidatorsDirFlag = &cli.StringFlag{
		Name:  "validators-dir",
		Usage: "Directory holding validator keys and the slashing protection database",
	}
	// ForceGCFlag runs the garbage collector every slot.
	ForceGCFlag = &cli.BoolFlag{
		Name:  "force-gc-at-slot",
		Usage: "Run a garbage collection cycle at the start of every slot",
	}
	// WalletDirFlag is where wallets are created and listed.
	WalletDirFlag = &cli.StringFlag{
		Name:  "wallet-dir",
		Usage: "Directory containing wallets",
		Value: "./wallets",
	}
	// MnemonicFlag supplies a recovery phrase to restore or derive from.
	MnemonicFlag = &cli.StringFlag{
		Name:  "mnemonic",
		Usage: "BIP-39 recovery phrase",
	}
	// NumValidatorsFlag sets how many validator keys to derive.
	NumValidatorsFlag = &cli.IntFlag{
		Name:  "num-validators",
		Usage: "Number of validator keys to derive",
		Value: 1,
	}
	// OutputDirFlag is the destination for generated files.
	OutputDirFlag = &cli.StringFlag{
		Name:  "output-dir",
		Usage: "Directory for generated files",
		Value: ".",
	}
)
