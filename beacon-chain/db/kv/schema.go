package kv

// The schema will define how to store and retrieve data from the db.
// We can prefix or suffix certain values such as `block` with attributes
// for prefix scan queries and value look ups.
var (
	chainMetadataBucket = []byte("chain-metadata")
	genesisInfoBucket   = []byte("genesis-info-bucket")

	// Keys in the chain metadata bucket.
	depositContractAddressKey = []byte("deposit-contract")

	// Keys in the genesis info bucket.
	genesisTimeKey           = []byte("genesis-time")
	genesisValidatorsRootKey = []byte("genesis-validators-root")
	genesisStateKey          = []byte("genesis-state")
)
