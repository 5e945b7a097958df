package deposits

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ralexstokes/nimbus-eth2/testing/assert"
	"github.com/ralexstokes/nimbus-eth2/testing/require"
	"github.com/tyler-smith/go-bip39"
	"github.com/urfave/cli/v2"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

func runDeposits(t *testing.T, args ...string) error {
	t.Helper()
	app := &cli.App{Commands: []*cli.Command{Command}}
	return app.Run(append([]string{"beacond", "deposits"}, args...))
}

func TestDepositsCreate_DerivesKeys(t *testing.T) {
	outputDir := t.TempDir()
	require.NoError(t, runDeposits(t,
		"create",
		"--mnemonic", testMnemonic,
		"--num-validators", "3",
		"--output-dir", outputDir,
	))

	blob, err := os.ReadFile(filepath.Join(outputDir, depositDataFileName))
	require.NoError(t, err)
	var records []depositData
	require.NoError(t, json.Unmarshal(blob, &records))
	require.Equal(t, 3, len(records))

	seen := make(map[string]bool)
	for _, record := range records {
		// 48-byte public key and 32-byte credentials, both 0x-prefixed.
		assert.Equal(t, 2+96, len(record.PubKey))
		assert.Equal(t, 2+64, len(record.WithdrawalCredentials))
		assert.Equal(t, true, strings.HasPrefix(record.WithdrawalCredentials, "0x00"))
		assert.Equal(t, uint64(depositAmountGwei), record.Amount)
		assert.Equal(t, false, seen[record.PubKey], "duplicate key %s", record.PubKey)
		seen[record.PubKey] = true
	}
}

func TestDepositsCreate_Deterministic(t *testing.T) {
	read := func() []depositData {
		outputDir := t.TempDir()
		require.NoError(t, runDeposits(t,
			"create", "--mnemonic", testMnemonic, "--num-validators", "2", "--output-dir", outputDir,
		))
		blob, err := os.ReadFile(filepath.Join(outputDir, depositDataFileName))
		require.NoError(t, err)
		var records []depositData
		require.NoError(t, json.Unmarshal(blob, &records))
		return records
	}
	require.DeepEqual(t, read(), read())
}

func TestDepositsCreate_RejectsBadInput(t *testing.T) {
	require.ErrorContains(t, "invalid mnemonic", runDeposits(t,
		"create", "--mnemonic", "nonsense phrase", "--output-dir", t.TempDir(),
	))
	require.ErrorContains(t, "must be positive", runDeposits(t,
		"create", "--mnemonic", testMnemonic, "--num-validators", "0", "--output-dir", t.TempDir(),
	))
}

func TestDepositsImport_ExtractsPubkeys(t *testing.T) {
	outputDir := t.TempDir()
	require.NoError(t, runDeposits(t,
		"create", "--mnemonic", testMnemonic, "--num-validators", "2", "--output-dir", outputDir,
	))

	validatorsDir := t.TempDir()
	require.NoError(t, runDeposits(t,
		"import", "--output-dir", outputDir, "--validators-dir", validatorsDir,
	))

	blob, err := os.ReadFile(filepath.Join(validatorsDir, "validators.json"))
	require.NoError(t, err)
	var pubkeys []string
	require.NoError(t, json.Unmarshal(blob, &pubkeys))
	require.Equal(t, 2, len(pubkeys))
	for _, key := range pubkeys {
		assert.Equal(t, true, strings.HasPrefix(key, "0x"))
	}
}

func TestMnemonicVectorIsValid(t *testing.T) {
	assert.Equal(t, true, bip39.IsMnemonicValid(testMnemonic))
}
