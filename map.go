package swisstable

import (
	"encoding/binary"
	"reflect"

	"github.com/gopherlibc/swisscore/wyhash"
)

type entry[K comparable, V any] struct {
	key   K
	value V
}

// Map is a generic hash map built on RawTable, playing the role the
// standard map keyword plays for types that aren't comparable enough
// for the compiler to hash for free, plus the usual SwissTable
// benefits of group-parallel probing.
type Map[K comparable, V any] struct {
	table *RawTable[entry[K, V]]
	hash  func(K) uint64
}

// Option configures a Map constructed by New.
type Option[K comparable] func(*mapConfig[K])

type mapConfig[K comparable] struct {
	hasher func(K) uint64
}

// WithHasher overrides the default key hash function. It is required
// for key types New cannot hash on its own; see New.
func WithHasher[K comparable](h func(K) uint64) Option[K] {
	return func(c *mapConfig[K]) { c.hasher = h }
}

// New constructs a Map sized to hold at least capacityHint elements
// without growing.
//
// New can hash string and integer key types on its own. For any other
// key type, pass WithHasher; New panics if it cannot determine a
// hasher, the same way it would panic on a nil map operation rather
// than silently doing the wrong thing.
func New[K comparable, V any](capacityHint int, opts ...Option[K]) *Map[K, V] {
	cfg := mapConfig[K]{hasher: defaultHasher[K]()}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.hasher == nil {
		panic("swisstable: New: no hasher available for this key type, pass WithHasher")
	}

	m := &Map[K, V]{hash: cfg.hasher}
	hashOf := func(e entry[K, V]) uint64 { return m.hash(e.key) }
	equal := func(a, b entry[K, V]) bool { return a.key == b.key }
	m.table = NewRawTable[entry[K, V]](capacityHint, hashOf, equal)
	return m
}

// Get returns the value associated with key, if any.
func (m *Map[K, V]) Get(key K) (V, bool) {
	e, ok := m.table.Find(entry[K, V]{key: key})
	return e.value, ok
}

// Set sets the value associated with key, replacing any prior value.
func (m *Map[K, V]) Set(key K, value V) {
	m.table.Set(entry[K, V]{key: key, value: value})
}

// Delete deletes the value associated with key, if any, and reports
// whether anything was deleted.
func (m *Map[K, V]) Delete(key K) bool {
	return m.table.Delete(entry[K, V]{key: key})
}

// Len returns the count of elements stored in the map.
func (m *Map[K, V]) Len() int { return m.table.Len() }

// Range calls f for each key/value pair in unspecified order, until f
// returns false. See RawTable.Range for the mutation-during-iteration
// guarantees this carries over from sync.Map.Range.
func (m *Map[K, V]) Range(f func(key K, value V) bool) {
	m.table.Range(func(e entry[K, V]) bool { return f(e.key, e.value) })
}

// defaultHasher returns the hash function New uses automatically for
// common key kinds, or nil if K needs an explicit WithHasher.
func defaultHasher[K comparable]() func(K) uint64 {
	var zero K
	switch any(zero).(type) {
	case string:
		return func(k K) uint64 { return wyhash.Sum64String(any(k).(string), 0) }
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, uintptr:
		return hashInteger[K]
	default:
		return nil
	}
}

// hashInteger hashes any of the builtin integer kinds by reflecting
// out its 64-bit representation and feeding that to wyhash; Go has no
// common numeric interface to avoid the reflect call here, and this
// runs once per key rather than once per byte, so the cost is the
// reflection call, not an extra pass over the key.
func hashInteger[K comparable](k K) uint64 {
	v := reflect.ValueOf(k)
	var buf [8]byte
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		binary.LittleEndian.PutUint64(buf[:], uint64(v.Int()))
	default:
		binary.LittleEndian.PutUint64(buf[:], v.Uint())
	}
	return wyhash.Sum64(buf[:], 0)
}
