// Package quarantine tracks orphan blocks whose ancestors have not arrived
// yet and schedules which parent roots should be fetched next.
package quarantine

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/patrickmn/go-cache"
	"github.com/pkg/errors"
)

const (
	// orphanExpiration bounds how long an orphan is remembered. Anything
	// older either arrived through sync or is junk.
	orphanExpiration = 4 * time.Minute
	// orphanCleanupInterval is how often expired orphans are evicted.
	orphanCleanupInterval = time.Minute
	// requestBackoff is how long a parent root is suppressed after a fetch
	// was dispatched for it.
	requestBackoff = 10 * time.Second
	// seenCacheSize bounds the recently-requested root cache.
	seenCacheSize = 1 << 12
)

// Quarantine records orphan blocks by root and parent root. Orphans expire
// if their ancestry is not resolved within a bounded window. The zero value
// is not usable, construct with New.
type Quarantine struct {
	lock    sync.RWMutex
	orphans *cache.Cache
	// recentlyRequested suppresses duplicate fetches for the same parent
	// while a request is in flight.
	recentlyRequested *lru.Cache
}

// New creates an empty quarantine.
func New() (*Quarantine, error) {
	seen, err := lru.New(seenCacheSize)
	if err != nil {
		return nil, errors.Wrap(err, "could not create seen cache")
	}
	return &Quarantine{
		orphans:           cache.New(orphanExpiration, orphanCleanupInterval),
		recentlyRequested: seen,
	}, nil
}

// AddOrphan records a block whose parent is unknown.
func (q *Quarantine) AddOrphan(root, parentRoot [32]byte) {
	q.lock.Lock()
	defer q.lock.Unlock()
	q.orphans.SetDefault(string(root[:]), parentRoot)
}

// Resolve removes an orphan once its ancestry connected.
func (q *Quarantine) Resolve(root [32]byte) {
	q.lock.Lock()
	defer q.lock.Unlock()
	q.orphans.Delete(string(root[:]))
}

// OrphanCount returns the number of unresolved orphans.
func (q *Quarantine) OrphanCount() int {
	q.lock.RLock()
	defer q.lock.RUnlock()
	return q.orphans.ItemCount()
}

// MissingAncestors returns the deduplicated parent roots of all unresolved
// orphans that are neither quarantined themselves nor recently requested.
func (q *Quarantine) MissingAncestors() [][32]byte {
	q.lock.RLock()
	defer q.lock.RUnlock()

	items := q.orphans.Items()
	out := make([][32]byte, 0, len(items))
	dedup := make(map[[32]byte]bool, len(items))
	for _, item := range items {
		parent, ok := item.Object.([32]byte)
		if !ok {
			continue
		}
		if dedup[parent] {
			continue
		}
		dedup[parent] = true
		// A quarantined parent will surface its own ancestor instead.
		if _, known := q.orphans.Get(string(parent[:])); known {
			continue
		}
		if deadline, requested := q.recentlyRequested.Get(parent); requested {
			if time.Now().Before(deadline.(time.Time)) {
				continue
			}
		}
		out = append(out, parent)
	}
	return out
}

// MarkRequested records that a fetch has been dispatched for the given
// roots, suppressing them from MissingAncestors for the backoff window.
func (q *Quarantine) MarkRequested(roots [][32]byte) {
	q.lock.Lock()
	defer q.lock.Unlock()
	deadline := time.Now().Add(requestBackoff)
	for _, root := range roots {
		q.recentlyRequested.Add(root, deadline)
	}
}
