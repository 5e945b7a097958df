package node

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ralexstokes/nimbus-eth2/beacon-chain/core/helpers"
	"github.com/ralexstokes/nimbus-eth2/config/params"
	"github.com/ralexstokes/nimbus-eth2/runtime/nodestate"
	"github.com/ralexstokes/nimbus-eth2/testing/assert"
	"github.com/ralexstokes/nimbus-eth2/testing/require"
)

func writeGenesisFile(t *testing.T, dir string, genesisTime uint64, root [32]byte) string {
	t.Helper()
	path := filepath.Join(dir, "genesis.ssz")
	blob := make([]byte, 40)
	binary.LittleEndian.PutUint64(blob[0:8], genesisTime)
	copy(blob[8:40], root[:])
	require.NoError(t, os.WriteFile(path, blob, 0o644))
	return path
}

func TestNew_RequiresDataDir(t *testing.T) {
	_, err := New(context.Background())
	require.ErrorContains(t, "requires a data directory", err)
}

func TestNew_ResolvesGenesisFromFile(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	dataDir := t.TempDir()
	genesisTime := uint64(time.Now().Add(time.Hour).Unix())
	root := [32]byte{0xde, 0xad, 0xbe, 0xef}
	genesisPath := writeGenesisFile(t, t.TempDir(), genesisTime, root)

	b, err := New(context.Background(),
		WithDataDir(dataDir),
		WithGenesisState(genesisPath),
	)
	require.NoError(t, err)

	assert.Equal(t, genesisTime, uint64(b.clock.GenesisTime().Unix()))
	assert.DeepEqual(t, root, b.clock.GenesisValidatorsRoot())

	// The genesis source is now persistent: a second node over the same
	// data directory needs no genesis file.
	b.closeDBs()
	b2, err := New(context.Background(), WithDataDir(dataDir))
	require.NoError(t, err)
	assert.Equal(t, genesisTime, uint64(b2.clock.GenesisTime().Unix()))
	b2.closeDBs()
}

func TestNew_NoGenesisSource(t *testing.T) {
	_, err := New(context.Background(), WithDataDir(t.TempDir()))
	require.ErrorContains(t, "no genesis source available", err)
}

func TestNew_StaleWeakSubjectivityCheckpoint(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	cfg := params.BeaconConfig()
	secondsPerEpoch := cfg.SecondsPerSlot * uint64(cfg.SlotsPerEpoch)
	genesisTime := uint64(time.Now().Unix()) - 2000*secondsPerEpoch
	genesisPath := writeGenesisFile(t, t.TempDir(), genesisTime, [32]byte{1})

	_, err := New(context.Background(),
		WithDataDir(t.TempDir()),
		WithGenesisState(genesisPath),
		WithWeakSubjectivityCheckpoint(&helpers.Checkpoint{Epoch: 0}),
	)
	require.ErrorContains(t, "stale", err)
}

func TestNew_RecentWeakSubjectivityCheckpoint(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	genesisTime := uint64(time.Now().Unix())
	genesisPath := writeGenesisFile(t, t.TempDir(), genesisTime, [32]byte{1})

	b, err := New(context.Background(),
		WithDataDir(t.TempDir()),
		WithGenesisState(genesisPath),
		WithWeakSubjectivityCheckpoint(&helpers.Checkpoint{Epoch: 0}),
	)
	require.NoError(t, err)
	b.closeDBs()
}

func TestNew_SlashingProtectionBoundToNetwork(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	validatorsDir := t.TempDir()
	genesisTime := uint64(time.Now().Unix())

	first, err := New(context.Background(),
		WithDataDir(t.TempDir()),
		WithGenesisState(writeGenesisFile(t, t.TempDir(), genesisTime, [32]byte{1})),
		WithValidatorsDir(validatorsDir),
		WithValidatorKeys([][48]byte{{0xaa}}),
	)
	require.NoError(t, err)
	assert.Equal(t, true, first.pool.HasValidators())
	first.closeDBs()

	// Same validators directory, different network: the slashing
	// protection database must refuse to serve.
	_, err = New(context.Background(),
		WithDataDir(t.TempDir()),
		WithGenesisState(writeGenesisFile(t, t.TempDir(), genesisTime, [32]byte{2})),
		WithValidatorsDir(validatorsDir),
	)
	require.ErrorContains(t, "different network", err)
}

func TestNode_StartAndShutdown(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	dataDir := t.TempDir()
	genesisTime := uint64(time.Now().Add(time.Hour).Unix())
	genesisPath := writeGenesisFile(t, t.TempDir(), genesisTime, [32]byte{3})

	// Port zero everywhere so parallel test runs never collide.
	b, err := New(context.Background(),
		WithDataDir(dataDir),
		WithGenesisState(genesisPath),
		WithRPCEndpoint("127.0.0.1", 0),
	)
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Start()
	}()

	// Start writes the PID file once the services are up.
	pidPath := filepath.Join(dataDir, pidFileName)
	deadline := time.Now().Add(10 * time.Second)
	for {
		if _, err := os.Stat(pidPath); err == nil {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("node did not come up in time")
		}
		time.Sleep(10 * time.Millisecond)
	}

	b.Close()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("node did not shut down in time")
	}

	_, err = os.Stat(pidPath)
	assert.Equal(t, true, os.IsNotExist(err))
	assert.Equal(t, nodestate.Stopping, nodestate.Get())

	// Close is idempotent.
	b.Close()
}

func TestNode_StartFromStoredCheckpoint(t *testing.T) {
	params.SetupTestConfigCleanup(t)
	genesisTime := uint64(time.Now().Add(time.Hour).Unix())
	root := [32]byte{0xcc}
	checkpointPath := writeGenesisFile(t, t.TempDir(), genesisTime, root)

	b, err := New(context.Background(),
		WithDataDir(t.TempDir()),
		WithCheckpointState(checkpointPath),
	)
	require.NoError(t, err)
	assert.Equal(t, genesisTime, uint64(b.clock.GenesisTime().Unix()))
	assert.DeepEqual(t, root, b.clock.GenesisValidatorsRoot())
	b.closeDBs()
}

func TestPIDFile(t *testing.T) {
	dataDir := t.TempDir()
	b := &BeaconNode{cfg: &config{dataDir: dataDir}}
	require.NoError(t, b.writePIDFile())

	blob, err := os.ReadFile(filepath.Join(dataDir, pidFileName))
	require.NoError(t, err)
	if len(blob) == 0 {
		t.Fatal("pid file is empty")
	}
	for _, c := range blob {
		if c < '0' || c > '9' {
			t.Fatalf("pid file is not a decimal number: %q", blob)
		}
	}

	b.removePIDFile()
	_, err = os.Stat(filepath.Join(dataDir, pidFileName))
	assert.Equal(t, true, os.IsNotExist(err))
}

func TestGenesisBlob_RoundTrip(t *testing.T) {
	root := [32]byte{7, 7, 7}
	blob := genesisBlob(123456, root)
	assert.Equal(t, 40, len(blob))
	assert.Equal(t, uint64(123456), binary.LittleEndian.Uint64(blob[0:8]))
	assert.DeepEqual(t, root[:], blob[8:40])
}
