package helpers_test

import (
	"fmt"
	"testing"

	"github.com/ralexstokes/nimbus-eth2/beacon-chain/core/helpers"
	"github.com/ralexstokes/nimbus-eth2/config/params"
	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
	"github.com/ralexstokes/nimbus-eth2/testing/assert"
	"github.com/ralexstokes/nimbus-eth2/testing/require"
)

func TestComputeWeakSubjectivityPeriod(t *testing.T) {
	cfg := params.BeaconConfig()
	tests := []struct {
		active uint64
		want   primitives.Epoch
	}{
		// Zero active validators degenerate to the withdrawability delay.
		{active: 0, want: 256},
		// Below one churn unit the quotient truncates to zero.
		{active: 3, want: 256},
		{active: 100, want: 257},
		{active: 32768, want: 665},
		// At and above the saturation point the churn limit quotient
		// applies directly.
		{active: 262144, want: 3532},
		{active: 1 << 21, want: 3532},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("active_%d", tt.active), func(t *testing.T) {
			got := helpers.ComputeWeakSubjectivityPeriod(tt.active, cfg)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsWithinWeakSubjectivityPeriod(t *testing.T) {
	cfg := params.BeaconConfig()
	checkpoint := helpers.Checkpoint{Root: [32]byte{1}, Epoch: 42}
	// 32768 active validators give a period of 665 epochs.
	assert.Equal(t, true, helpers.IsWithinWeakSubjectivityPeriod(707, 32768, checkpoint, cfg))
	assert.Equal(t, false, helpers.IsWithinWeakSubjectivityPeriod(708, 32768, checkpoint, cfg))
}

func TestParseWeakSubjectivityInputString(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      *helpers.Checkpoint
		wantedErr string
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name:      "too many separators",
			input:     "0x010203:123:456",
			wantedErr: "block_root:epoch_number",
		},
		{
			name:      "root too short",
			input:     "0x010203:987",
			wantedErr: "not length of 32",
		},
		{
			name:      "epoch not a number",
			input:     "0x" + fmt.Sprintf("%064x", 1) + ":abc",
			wantedErr: "invalid epoch number",
		},
		{
			name:  "valid with 0x prefix",
			input: "0x" + fmt.Sprintf("%064x", 255) + ":123456789",
			want: &helpers.Checkpoint{
				Epoch: 123456789,
			},
		},
		{
			name:  "valid without prefix",
			input: fmt.Sprintf("%064x", 255) + ":42",
			want: &helpers.Checkpoint{
				Epoch: 42,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := helpers.ParseWeakSubjectivityInputString(tt.input)
			if tt.wantedErr != "" {
				require.ErrorContains(t, tt.wantedErr, err)
				return
			}
			require.NoError(t, err)
			if tt.want == nil {
				if got != nil {
					t.Fatalf("expected nil checkpoint, got %v", got)
				}
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want.Epoch, got.Epoch)
			assert.Equal(t, byte(255), got.Root[31])
		})
	}
}
