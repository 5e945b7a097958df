package primitives

// ValidatorIndex in the registry.
type ValidatorIndex uint64

// CommitteeIndex within a slot.
type CommitteeIndex uint64
