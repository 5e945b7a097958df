package params

import (
	"math"
	"time"
)

// MainnetConfig returns the configuration to be used in the main network.
func MainnetConfig() *BeaconChainConfig {
	return mainnetBeaconConfig
}

var mainnetNetworkConfig = &NetworkConfig{
	AttestationSubnetCount:          64,
	AttestationPropagationSlotRange: 32,
	MaximumGossipClockDisparity:     500 * time.Millisecond,
	GossipMaxSize:                   1 << 20, // 1 MiB
	MaxChunkSize:                    1 << 20, // 1 MiB
	ETH2Key:                         "eth2",
	AttSubnetKey:                    "attnets",
	// Note: contract was deployed in block 11052984 but no transactions
	// were sent until 11184524.
	ContractDeploymentBlock: 11184524,
	BootstrapNodes:          []string{},
}

var mainnetBeaconConfig = &BeaconChainConfig{
	// Constants (non-configurable).
	FarFutureEpoch:                 math.MaxUint64,
	FarFutureSlot:                  math.MaxUint64,
	GenesisSlot:                    0,
	GenesisEpoch:                   0,
	GenesisDelay:                   604800,     // 1 week.
	MinGenesisTime:                 1606824000, // Dec 1, 2020, 12pm UTC.
	MinGenesisActiveValidatorCount: 16384,

	// Time parameter constants.
	SecondsPerSlot:                   12,
	SlotsPerEpoch:                    32,
	IntervalsPerSlot:                 3,
	SecondsPerETH1Block:              14,
	Eth1FollowDistance:               2048,
	MinValidatorWithdrawabilityDelay: 256,

	// Validator churn.
	MinPerEpochChurnLimit: 4,
	ChurnLimitQuotient:    1 << 16,

	// Weak subjectivity.
	SafetyDecay: 10,

	// Fork versions.
	GenesisForkVersion: []byte{0, 0, 0, 0},

	// Subnet subscription parameters.
	RandomSubnetsPerValidator:         1 << 0,
	EpochsPerRandomSubnetSubscription: 1 << 8,

	// Deposit contract.
	DepositChainID:         1,
	DepositNetworkID:       1,
	DepositContractAddress: "0x00000000219ab540356cBB839Cbe05303d7705Fa",
}
