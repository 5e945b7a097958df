package params

import "testing"

// SetupTestConfigCleanup preserves the global config registries and
// restores them when the test completes, so tests can freely override.
func SetupTestConfigCleanup(t testing.TB) {
	prevConfig := BeaconConfig().Copy()
	prevNetwork := BeaconNetworkConfig()
	t.Cleanup(func() {
		OverrideBeaconConfig(prevConfig)
		OverrideBeaconNetworkConfig(prevNetwork)
	})
}
