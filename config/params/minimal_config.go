package params

// MinimalSpecConfig retrieves the minimal preset config, used by local
// testnets and fast-running tests.
func MinimalSpecConfig() *BeaconChainConfig {
	minimal := mainnetBeaconConfig.Copy()
	minimal.SecondsPerSlot = 6
	minimal.SlotsPerEpoch = 8
	minimal.MinGenesisTime = 0
	minimal.MinGenesisActiveValidatorCount = 64
	minimal.GenesisDelay = 300
	minimal.ChurnLimitQuotient = 32
	minimal.Eth1FollowDistance = 16
	minimal.GenesisForkVersion = []byte{0, 0, 0, 1}
	minimal.DepositChainID = 5
	minimal.DepositNetworkID = 5
	return minimal
}
