// Package deposits derives validator keys and produces the deposit data
// consumed by the deposit contract tooling.
package deposits

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/common"
	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/beacon-chain/execution"
	"github.com/ralexstokes/nimbus-eth2/cmd/beacond/flags"
	"github.com/ralexstokes/nimbus-eth2/config/params"
	"github.com/ralexstokes/nimbus-eth2/crypto/hash"
	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/tyler-smith/go-bip39"
	"github.com/urfave/cli/v2"
	util "github.com/wealdtech/go-eth2-util"
)

var log = logrus.WithField("prefix", "deposits")

// EIP-2334 derivation paths for the signing and withdrawal keys of the
// validator at the given index.
const (
	signingKeyPathTemplate    = "m/12381/3600/%d/0/0"
	withdrawalKeyPathTemplate = "m/12381/3600/%d/0"
)

// depositAmountGwei is the full validator stake.
const depositAmountGwei = 32 * 1e9

const depositDataFileName = "deposit_data.json"

// Command groups the deposit subcommands.
var Command = &cli.Command{
	Name:  "deposits",
	Usage: "Derive validator keys and manage deposit data",
	Subcommands: []*cli.Command{
		{
			Name:  "create",
			Usage: "Derive validator keys from a mnemonic and write deposit data",
			Flags: []cli.Flag{
				flags.MnemonicFlag,
				flags.NumValidatorsFlag,
				flags.OutputDirFlag,
			},
			Action: createDeposits,
		},
		{
			Name:  "import",
			Usage: "Import deposit data public keys into a validators directory",
			Flags: []cli.Flag{
				flags.OutputDirFlag,
				flags.ValidatorsDirFlag,
			},
			Action: importDeposits,
		},
		{
			Name:  "status",
			Usage: "Report the deposit contract's current deposit count",
			Flags: []cli.Flag{
				flags.Web3EndpointFlag,
				flags.DepositContractFlag,
			},
			Action: depositStatus,
		},
	},
}

// depositData is the unsigned deposit record for one validator. Signing
// happens in the operator's key management tooling, which holds the BLS
// signer.
type depositData struct {
	PubKey                string `json:"pubkey"`
	WithdrawalCredentials string `json:"withdrawal_credentials"`
	Amount                uint64 `json:"amount"`
	ForkVersion           string `json:"fork_version"`
}

func createDeposits(cliCtx *cli.Context) error {
	mnemonic := cliCtx.String(flags.MnemonicFlag.Name)
	if mnemonic == "" {
		entropy, err := bip39.NewEntropy(256)
		if err != nil {
			return err
		}
		mnemonic, err = bip39.NewMnemonic(entropy)
		if err != nil {
			return err
		}
		fmt.Printf("Generated a new mnemonic, store it safely:\n\n%s\n\n", mnemonic)
	}
	if !bip39.IsMnemonicValid(mnemonic) {
		return errors.New("invalid mnemonic")
	}
	seed := bip39.NewSeed(mnemonic, "")

	count := cliCtx.Int(flags.NumValidatorsFlag.Name)
	if count < 1 {
		return errors.New("number of validators must be positive")
	}
	outputDir := cliCtx.String(flags.OutputDirFlag.Name)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return errors.Wrap(err, "could not create output directory")
	}

	bar := progressbar.Default(int64(count), "Deriving validator keys")
	records := make([]depositData, 0, count)
	for i := 0; i < count; i++ {
		record, err := deriveDeposit(seed, i)
		if err != nil {
			return errors.Wrapf(err, "could not derive validator %d", i)
		}
		records = append(records, record)
		if err := bar.Add(1); err != nil {
			return err
		}
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(outputDir, depositDataFileName)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.Wrap(err, "could not write deposit data")
	}
	log.WithFields(logrus.Fields{
		"validators": count,
		"path":       path,
	}).Info("Wrote deposit data")
	return nil
}

func deriveDeposit(seed []byte, index int) (depositData, error) {
	signingKey, err := util.PrivateKeyFromSeedAndPath(seed, fmt.Sprintf(signingKeyPathTemplate, index))
	if err != nil {
		return depositData{}, err
	}
	withdrawalKey, err := util.PrivateKeyFromSeedAndPath(seed, fmt.Sprintf(withdrawalKeyPathTemplate, index))
	if err != nil {
		return depositData{}, err
	}
	// BLS withdrawal credentials: zero prefix byte, then the tail of the
	// hashed withdrawal public key.
	credentials := hash.Hash(withdrawalKey.PublicKey().Marshal())
	credentials[0] = 0
	return depositData{
		PubKey:                "0x" + hex.EncodeToString(signingKey.PublicKey().Marshal()),
		WithdrawalCredentials: "0x" + hex.EncodeToString(credentials[:]),
		Amount:                depositAmountGwei,
		ForkVersion:           "0x" + hex.EncodeToString(params.BeaconConfig().GenesisForkVersion),
	}, nil
}

func importDeposits(cliCtx *cli.Context) error {
	validatorsDir := cliCtx.String(flags.ValidatorsDirFlag.Name)
	if validatorsDir == "" {
		return errors.New("a validators directory is required")
	}
	sourcePath := filepath.Join(cliCtx.String(flags.OutputDirFlag.Name), depositDataFileName)
	blob, err := os.ReadFile(sourcePath)
	if err != nil {
		return errors.Wrap(err, "could not read deposit data")
	}
	var records []depositData
	if err := json.Unmarshal(blob, &records); err != nil {
		return errors.Wrap(err, "could not parse deposit data")
	}
	if len(records) == 0 {
		return errors.New("deposit data holds no validators")
	}
	pubkeys := make([]string, 0, len(records))
	for _, record := range records {
		pubkeys = append(pubkeys, record.PubKey)
	}
	out, err := json.MarshalIndent(pubkeys, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(validatorsDir, 0o755); err != nil {
		return errors.Wrap(err, "could not create validators directory")
	}
	destPath := filepath.Join(validatorsDir, "validators.json")
	if err := os.WriteFile(destPath, out, 0o644); err != nil {
		return errors.Wrap(err, "could not write validator keys")
	}
	log.WithFields(logrus.Fields{
		"validators": len(pubkeys),
		"path":       destPath,
	}).Info("Imported validator keys")
	return nil
}

func depositStatus(cliCtx *cli.Context) error {
	endpoint := cliCtx.String(flags.Web3EndpointFlag.Name)
	if endpoint == "" {
		return errors.New("a web3 endpoint is required")
	}
	contract := cliCtx.String(flags.DepositContractFlag.Name)
	if contract == "" {
		contract = params.BeaconConfig().DepositContractAddress
	}
	if contract == "" {
		return errors.New("a deposit contract address is required")
	}

	monitor, err := execution.NewService(cliCtx.Context,
		execution.WithHTTPEndpoint(endpoint),
		execution.WithDepositContract(common.HexToAddress(contract)),
	)
	if err != nil {
		return err
	}
	monitor.Start()
	defer func() {
		if err := monitor.Stop(); err != nil {
			log.WithError(err).Error("Failed to stop execution monitor")
		}
	}()

	count, err := monitor.DepositCount(context.Background())
	if err != nil {
		return errors.Wrap(err, "could not read deposit count")
	}
	needed := params.BeaconConfig().MinGenesisActiveValidatorCount
	log.WithFields(logrus.Fields{
		"deposits":         count,
		"neededForGenesis": needed,
	}).Info("Deposit contract status")
	return nil
}
