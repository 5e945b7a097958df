package kv

var (
	genesisInfoBucket           = []byte("genesis-info-bucket")
	lowestSignedProposalsBucket = []byte("lowest-signed-proposals-bucket")
	lowestSignedSourceBucket    = []byte("lowest-signed-source-bucket")
	lowestSignedTargetBucket    = []byte("lowest-signed-target-bucket")

	genesisValidatorsRootKey = []byte("genesis-validators-root")
)
