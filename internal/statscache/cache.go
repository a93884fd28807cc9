package statscache

import (
	"context"
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"math"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"trade-stats/internal/interfaces"
	"trade-stats/internal/types"
)

// Cache memoises snapshots per transaction-list version. The engine stays
// stateless; invalidation happens by presenting a new version token.
type Cache struct {
	engine     interfaces.StatsEngine
	store      *gocache.Cache
	resolution time.Duration
}

// New caches snapshots built by engine for ttl. Snapshot instants are
// rounded down to a resolution slot of the local day when forming the key,
// so calls within the same slot share a snapshot; resolution <= 0 keys on
// the exact instant.
func New(engine interfaces.StatsEngine, ttl, resolution time.Duration) *Cache {
	return &Cache{
		engine:     engine,
		store:      gocache.New(ttl, 2*ttl),
		resolution: resolution,
	}
}

// slotStart rounds now down to a multiple of the resolution counted from
// local midnight in now's location, so a slot never starts on the previous
// calendar day. Resolutions of a day or more collapse to local midnight.
func (c *Cache) slotStart(now time.Time) time.Time {
	if c.resolution <= 0 {
		return now
	}
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if c.resolution >= 24*time.Hour {
		return midnight
	}
	return midnight.Add(now.Sub(midnight).Truncate(c.resolution))
}

func (c *Cache) key(version string, slot time.Time) string {
	return version + "@" + slot.Format(time.RFC3339Nano)
}

// Snapshot returns the cached snapshot for (version, now) or builds and
// stores a new one. Failed builds are not cached.
func (c *Cache) Snapshot(ctx context.Context, version string, txs []types.TransactionRecord, now time.Time) (*types.StatisticsSnapshot, bool, error) {
	slot := c.slotStart(now)
	k := c.key(version, slot)
	if v, ok := c.store.Get(k); ok {
		return v.(*types.StatisticsSnapshot), true, nil
	}
	snap, err := c.engine.Build(ctx, txs, slot)
	if err != nil {
		return nil, false, err
	}
	c.store.Set(k, snap, gocache.DefaultExpiration)
	return snap, false, nil
}

// Invalidate drops every cached snapshot.
func (c *Cache) Invalidate() {
	c.store.Flush()
}

func (c *Cache) Len() int {
	return c.store.ItemCount()
}

// VersionOf derives a version token from the content of txs. Any change to
// a record, or to the order of records, yields a different token.
func VersionOf(txs []types.TransactionRecord) string {
	h := fnv.New64a()
	var buf [8]byte
	writeString := func(s string) {
		h.Write([]byte(s))
		h.Write([]byte{0})
	}
	writeUint := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	for _, t := range txs {
		writeString(t.ID)
		writeString(t.ItemKey)
		writeString(t.ItemName)
		writeString(t.ItemType)
		writeUint(uint64(len(t.Tags)))
		for _, tag := range t.Tags {
			writeString(tag)
		}
		writeString(string(t.Direction))
		writeUint(math.Float64bits(t.Price))
		writeUint(uint64(t.Quantity))
		writeUint(uint64(t.OccurredAt.UnixNano()))
	}
	return fmt.Sprintf("%d-%016x", len(txs), h.Sum64())
}
