package quarantine

import (
	"testing"

	"github.com/ralexstokes/nimbus-eth2/testing/assert"
	"github.com/ralexstokes/nimbus-eth2/testing/require"
)

func root(b byte) [32]byte {
	var r [32]byte
	r[0] = b
	return r
}

func TestQuarantine_MissingAncestors_Dedup(t *testing.T) {
	q, err := New()
	require.NoError(t, err)

	// Two orphans share a parent, a third has its own.
	q.AddOrphan(root(1), root(10))
	q.AddOrphan(root(2), root(10))
	q.AddOrphan(root(3), root(11))

	missing := q.MissingAncestors()
	require.Equal(t, 2, len(missing))
	got := map[[32]byte]bool{}
	for _, r := range missing {
		got[r] = true
	}
	assert.Equal(t, true, got[root(10)])
	assert.Equal(t, true, got[root(11)])
}

func TestQuarantine_MissingAncestors_SkipsQuarantinedParents(t *testing.T) {
	q, err := New()
	require.NoError(t, err)

	// 2's parent 1 is itself quarantined; only 1's parent should surface.
	q.AddOrphan(root(1), root(10))
	q.AddOrphan(root(2), root(1))

	missing := q.MissingAncestors()
	require.Equal(t, 1, len(missing))
	assert.Equal(t, root(10), missing[0])
}

func TestQuarantine_MarkRequested_Backoff(t *testing.T) {
	q, err := New()
	require.NoError(t, err)

	q.AddOrphan(root(1), root(10))
	missing := q.MissingAncestors()
	require.Equal(t, 1, len(missing))

	q.MarkRequested(missing)
	assert.Equal(t, 0, len(q.MissingAncestors()), "requested root should be suppressed")
}

func TestQuarantine_Resolve(t *testing.T) {
	q, err := New()
	require.NoError(t, err)

	q.AddOrphan(root(1), root(10))
	require.Equal(t, 1, q.OrphanCount())
	q.Resolve(root(1))
	require.Equal(t, 0, q.OrphanCount())
	assert.Equal(t, 0, len(q.MissingAncestors()))
}
