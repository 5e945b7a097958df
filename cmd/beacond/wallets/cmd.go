// Package wallets creates, restores and lists the mnemonic-backed wallets
// validator keys are derived from.
package wallets

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/ralexstokes/nimbus-eth2/cmd/beacond/flags"
	"github.com/ralexstokes/nimbus-eth2/crypto/hash"
	"github.com/sirupsen/logrus"
	"github.com/tyler-smith/go-bip39"
	"github.com/urfave/cli/v2"
)

var log = logrus.WithField("prefix", "wallets")

const walletFileName = "wallet.json"

// Command groups the wallet subcommands.
var Command = &cli.Command{
	Name:  "wallets",
	Usage: "Create, restore and list validator wallets",
	Subcommands: []*cli.Command{
		{
			Name:      "create",
			Usage:     "Create a new wallet with a freshly generated mnemonic",
			ArgsUsage: "[name]",
			Flags:     []cli.Flag{flags.WalletDirFlag},
			Action:    createWallet,
		},
		{
			Name:      "restore",
			Usage:     "Restore a wallet from an existing mnemonic",
			ArgsUsage: "[name]",
			Flags: []cli.Flag{
				flags.WalletDirFlag,
				flags.MnemonicFlag,
			},
			Action: restoreWallet,
		},
		{
			Name:   "list",
			Usage:  "List the wallets in the wallet directory",
			Flags:  []cli.Flag{flags.WalletDirFlag},
			Action: listWallets,
		},
	},
}

// walletFile identifies a wallet without storing any secret: the
// fingerprint is a hash of the seed, enough to tell two wallets apart.
type walletFile struct {
	Name        string `json:"name"`
	Fingerprint string `json:"fingerprint"`
	CreatedAt   string `json:"created_at"`
}

func createWallet(cliCtx *cli.Context) error {
	entropy, err := bip39.NewEntropy(256)
	if err != nil {
		return err
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return err
	}
	name := walletName(cliCtx)
	if err := writeWallet(cliCtx.String(flags.WalletDirFlag.Name), name, mnemonic); err != nil {
		return err
	}
	fmt.Printf("Created wallet %q. Write down the mnemonic, it is shown only once:\n\n%s\n\n", name, mnemonic)
	return nil
}

func restoreWallet(cliCtx *cli.Context) error {
	mnemonic := cliCtx.String(flags.MnemonicFlag.Name)
	if mnemonic == "" {
		return errors.New("a mnemonic is required to restore a wallet")
	}
	name := walletName(cliCtx)
	if err := writeWallet(cliCtx.String(flags.WalletDirFlag.Name), name, mnemonic); err != nil {
		return err
	}
	log.WithField("wallet", name).Info("Restored wallet")
	return nil
}

func listWallets(cliCtx *cli.Context) error {
	walletDir := cliCtx.String(flags.WalletDirFlag.Name)
	entries, err := os.ReadDir(walletDir)
	if os.IsNotExist(err) {
		log.WithField("walletDir", walletDir).Info("No wallets found")
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "could not read wallet directory")
	}
	found := 0
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		blob, err := os.ReadFile(filepath.Join(walletDir, entry.Name(), walletFileName))
		if err != nil {
			continue
		}
		var w walletFile
		if err := json.Unmarshal(blob, &w); err != nil {
			continue
		}
		fmt.Printf("%s\t%s\t%s\n", w.Name, w.Fingerprint, w.CreatedAt)
		found++
	}
	if found == 0 {
		log.WithField("walletDir", walletDir).Info("No wallets found")
	}
	return nil
}

func walletName(cliCtx *cli.Context) string {
	if name := cliCtx.Args().First(); name != "" {
		return name
	}
	return "primary"
}

func writeWallet(walletDir, name, mnemonic string) error {
	if !bip39.IsMnemonicValid(mnemonic) {
		return errors.New("invalid mnemonic")
	}
	dir := filepath.Join(walletDir, name)
	if _, err := os.Stat(filepath.Join(dir, walletFileName)); err == nil {
		return errors.Errorf("wallet %q already exists", name)
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "could not create wallet directory")
	}
	seed := bip39.NewSeed(mnemonic, "")
	fingerprint := hash.Hash(seed)
	w := walletFile{
		Name:        name,
		Fingerprint: "0x" + hex.EncodeToString(fingerprint[:8]),
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	blob, err := json.MarshalIndent(w, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, walletFileName), blob, 0o600)
}
