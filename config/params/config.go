// Package params defines the protocol configuration for the beacon node:
// chain constants, network constants, and the active-config singleton.
package params

import (
	"sync"
	"time"

	"github.com/ralexstokes/nimbus-eth2/consensus-types/primitives"
)

// BeaconChainConfig contains the protocol constants the node orchestration
// core depends on. Values follow the phase0 mainnet configuration unless
// overridden by a network preset or a YAML file.
type BeaconChainConfig struct {
	// Constants (non-configurable).
	FarFutureEpoch                 primitives.Epoch `yaml:"FAR_FUTURE_EPOCH"`
	FarFutureSlot                  primitives.Slot  `yaml:"FAR_FUTURE_SLOT"`
	GenesisSlot                    primitives.Slot  `yaml:"GENESIS_SLOT"`
	GenesisEpoch                   primitives.Epoch `yaml:"GENESIS_EPOCH"`
	GenesisDelay                   uint64           `yaml:"GENESIS_DELAY"`
	MinGenesisTime                 uint64           `yaml:"MIN_GENESIS_TIME"`
	MinGenesisActiveValidatorCount uint64           `yaml:"MIN_GENESIS_ACTIVE_VALIDATOR_COUNT"`

	// Time parameters.
	SecondsPerSlot                   uint64           `yaml:"SECONDS_PER_SLOT"`
	SlotsPerEpoch                    primitives.Slot  `yaml:"SLOTS_PER_EPOCH"`
	IntervalsPerSlot                 uint64           `yaml:"INTERVALS_PER_SLOT"`
	SecondsPerETH1Block              uint64           `yaml:"SECONDS_PER_ETH1_BLOCK"`
	Eth1FollowDistance               uint64           `yaml:"ETH1_FOLLOW_DISTANCE"`
	MinValidatorWithdrawabilityDelay primitives.Epoch `yaml:"MIN_VALIDATOR_WITHDRAWABILITY_DELAY"`

	// Validator churn.
	MinPerEpochChurnLimit uint64 `yaml:"MIN_PER_EPOCH_CHURN_LIMIT"`
	ChurnLimitQuotient    uint64 `yaml:"CHURN_LIMIT_QUOTIENT"`

	// Weak subjectivity.
	SafetyDecay uint64 `yaml:"SAFETY_DECAY"`

	// Fork versions.
	GenesisForkVersion []byte `yaml:"GENESIS_FORK_VERSION"`

	// Subnet subscription parameters.
	RandomSubnetsPerValidator         uint64           `yaml:"RANDOM_SUBNETS_PER_VALIDATOR"`
	EpochsPerRandomSubnetSubscription primitives.Epoch `yaml:"EPOCHS_PER_RANDOM_SUBNET_SUBSCRIPTION"`

	// Deposit contract.
	DepositChainID         uint64 `yaml:"DEPOSIT_CHAIN_ID"`
	DepositNetworkID       uint64 `yaml:"DEPOSIT_NETWORK_ID"`
	DepositContractAddress string `yaml:"DEPOSIT_CONTRACT_ADDRESS"`
}

// NetworkConfig defines the networking constants consumed by the gossip and
// discovery layers.
type NetworkConfig struct {
	AttestationSubnetCount          uint64
	AttestationPropagationSlotRange primitives.Slot
	MaximumGossipClockDisparity     time.Duration
	GossipMaxSize                   uint64
	MaxChunkSize                    uint64
	ETH2Key                         string
	AttSubnetKey                    string
	ContractDeploymentBlock         uint64
	BootstrapNodes                  []string
}

var (
	cfgLock       sync.RWMutex
	beaconConfig  = MainnetConfig()
	networkConfig = mainnetNetworkConfig
)

// BeaconConfig returns the active beacon chain configuration.
func BeaconConfig() *BeaconChainConfig {
	cfgLock.RLock()
	defer cfgLock.RUnlock()
	return beaconConfig
}

// BeaconNetworkConfig returns the active network configuration.
func BeaconNetworkConfig() *NetworkConfig {
	cfgLock.RLock()
	defer cfgLock.RUnlock()
	return networkConfig
}

// OverrideBeaconConfig replaces the active beacon chain configuration.
// Network presets and tests use this at startup, before any service reads
// the config.
func OverrideBeaconConfig(c *BeaconChainConfig) {
	cfgLock.Lock()
	defer cfgLock.Unlock()
	beaconConfig = c
}

// OverrideBeaconNetworkConfig replaces the active network configuration.
func OverrideBeaconNetworkConfig(c *NetworkConfig) {
	cfgLock.Lock()
	defer cfgLock.Unlock()
	networkConfig = c
}

// Copy returns a deep value copy of the config.
func (b *BeaconChainConfig) Copy() *BeaconChainConfig {
	c := *b
	c.GenesisForkVersion = append([]byte{}, b.GenesisForkVersion...)
	return &c
}
