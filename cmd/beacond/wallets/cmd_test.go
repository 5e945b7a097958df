package wallets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ralexstokes/nimbus-eth2/testing/assert"
	"github.com/ralexstokes/nimbus-eth2/testing/require"
	"github.com/urfave/cli/v2"
)

// A valid BIP-39 test vector phrase.
const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func runWallets(t *testing.T, args ...string) error {
	t.Helper()
	app := &cli.App{Commands: []*cli.Command{Command}}
	return app.Run(append([]string{"beacond", "wallets"}, args...))
}

func TestWallets_CreateAndList(t *testing.T) {
	walletDir := t.TempDir()
	require.NoError(t, runWallets(t, "create", "--wallet-dir", walletDir, "testwallet"))

	blob, err := os.ReadFile(filepath.Join(walletDir, "testwallet", walletFileName))
	require.NoError(t, err)
	var w walletFile
	require.NoError(t, json.Unmarshal(blob, &w))
	assert.Equal(t, "testwallet", w.Name)
	assert.NotEqual(t, "", w.Fingerprint)

	require.NoError(t, runWallets(t, "list", "--wallet-dir", walletDir))
}

func TestWallets_CreateRejectsDuplicate(t *testing.T) {
	walletDir := t.TempDir()
	require.NoError(t, runWallets(t, "create", "--wallet-dir", walletDir, "dup"))
	require.ErrorContains(t, "already exists", runWallets(t, "create", "--wallet-dir", walletDir, "dup"))
}

func TestWallets_RestoreDeterministicFingerprint(t *testing.T) {
	firstDir := t.TempDir()
	secondDir := t.TempDir()
	require.NoError(t, runWallets(t, "restore", "--wallet-dir", firstDir, "--mnemonic", testMnemonic, "a"))
	require.NoError(t, runWallets(t, "restore", "--wallet-dir", secondDir, "--mnemonic", testMnemonic, "b"))

	read := func(dir, name string) walletFile {
		blob, err := os.ReadFile(filepath.Join(dir, name, walletFileName))
		require.NoError(t, err)
		var w walletFile
		require.NoError(t, json.Unmarshal(blob, &w))
		return w
	}
	assert.Equal(t, read(firstDir, "a").Fingerprint, read(secondDir, "b").Fingerprint)
}

func TestWallets_RestoreRejectsBadMnemonic(t *testing.T) {
	require.ErrorContains(t, "invalid mnemonic",
		runWallets(t, "restore", "--wallet-dir", t.TempDir(), "--mnemonic", "not a real phrase"))
}
