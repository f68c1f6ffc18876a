// Copyright (c) 2025 The Nova developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	lru "github.com/hashicorp/golang-lru"

	"github.com/novachain/nova/account"
	"github.com/novachain/nova/kv"
	"github.com/novachain/nova/nova"
)

const recordCacheSize = 8192

// Stater opens states at committed roots over a shared database and a shared
// record cache. Cached records are keyed by (root, address), so entries stay
// valid across reorgs.
type Stater struct {
	db    kv.Store
	cache *recordCache
}

// NewStater creates a stater.
func NewStater(db kv.Store) *Stater {
	return &Stater{
		db:    db,
		cache: newRecordCache(recordCacheSize),
	}
}

// NewState opens a state at the given root.
func (sr *Stater) NewState(root nova.Bytes32) (*State, error) {
	return newState(root, sr.db, sr.cache)
}

type cacheKey struct {
	root nova.Bytes32
	addr nova.Address
}

// recordCache caches decoded committed records. A nil record marks a known
// absent account.
type recordCache struct {
	arc *lru.ARCCache
}

func newRecordCache(size int) *recordCache {
	arc, err := lru.NewARC(size)
	if err != nil {
		panic(err)
	}
	return &recordCache{arc: arc}
}

func (c *recordCache) get(root nova.Bytes32, addr nova.Address) (account.Record, bool) {
	v, ok := c.arc.Get(cacheKey{root, addr})
	if !ok {
		return nil, false
	}
	if v == nil {
		return nil, true
	}
	// copies leave the cached record immutable
	return v.(account.Record).Copy(), true
}

func (c *recordCache) put(root nova.Bytes32, addr nova.Address, rec account.Record) {
	if rec == nil {
		c.arc.Add(cacheKey{root, addr}, nil)
		return
	}
	c.arc.Add(cacheKey{root, addr}, rec.Copy())
}
