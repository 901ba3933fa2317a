// Package hsearch implements the POSIX hcreate/hsearch/hdestroy
// family on top of swisstable.RawTable, following the fixed-capacity,
// never-resizes lifecycle of LLVM-libc's search/hashtable rather than
// the auto-growing table the rest of this module otherwise uses.
package hsearch

import (
	"errors"

	swisstable "github.com/gopherlibc/swisscore"
	"github.com/gopherlibc/swisscore/wyhash"
)

// Entry is the key/data pair hsearch operates on, the Go rendering of
// POSIX's struct ENTRY { char *key; void *data; }.
type Entry struct {
	Key  string
	Data any
}

// Action selects hsearch's behavior on a lookup miss.
type Action int

const (
	Find  Action = iota // look up only; a miss is not an error the caller must recover from, just a negative result
	Enter               // look up, inserting item if not already present
)

var (
	// ErrInvalid is returned for a nil or destroyed table, a non-positive
	// nel, and a second Hcreate without an intervening Hdestroy.
	ErrInvalid = errors.New("hsearch: invalid argument")
	// ErrNoMemory is returned when Enter cannot find a free slot in a fixed-capacity table.
	ErrNoMemory = errors.New("hsearch: table full")
	// ErrNotFound is returned by Find when item's key is absent.
	ErrNotFound = errors.New("hsearch: key not found")
)

func hashEntry(e Entry) uint64   { return wyhash.Sum64String(e.Key, 0) }
func equalEntryKey(a, b Entry) bool { return a.Key == b.Key }

// Table is a reentrant hash table, the hsearch_r family's htab.
type Table struct {
	raw *swisstable.RawTable[Entry]
}

// HcreateR is hcreate_r: it allocates a fixed-capacity table sized to
// hold at least nel entries without ever resizing, unlike
// swisstable.Map, which grows freely.
func HcreateR(nel int) (*Table, error) {
	if nel <= 0 {
		return nil, ErrInvalid
	}
	return &Table{raw: swisstable.NewRawTable[Entry](nel, hashEntry, equalEntryKey)}, nil
}

// HdestroyR is hdestroy_r. The table's storage is simply dropped; Go's
// garbage collector plays the role glibc's free() plays in the
// original.
func HdestroyR(htab *Table) {
	if htab == nil {
		return
	}
	htab.raw = nil
}

// HsearchR is hsearch_r. For action == Find, a miss returns
// ErrNotFound. For action == Enter, a miss inserts item; a hit
// updates item's data in place and returns the updated entry, the
// update-in-place behavior this module's hsearch tests exercise
// beyond what strict POSIX hsearch specifies (it leaves a duplicate
// Enter's effect on the stored data unspecified).
func HsearchR(htab *Table, item Entry, action Action) (Entry, error) {
	if htab == nil || htab.raw == nil {
		return Entry{}, ErrInvalid
	}
	if found, ok := htab.raw.Find(item); ok {
		if action == Enter {
			htab.raw.Set(item)
			return item, nil
		}
		return found, nil
	}
	if action == Find {
		return Entry{}, ErrNotFound
	}

	_, _, ok := htab.raw.SetNoGrow(item)
	if !ok {
		return Entry{}, ErrNoMemory
	}
	return item, nil
}

// Len reports how many entries are currently stored in htab.
func (htab *Table) Len() int {
	if htab == nil || htab.raw == nil {
		return 0
	}
	return htab.raw.Len()
}
