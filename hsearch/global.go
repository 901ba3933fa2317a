package hsearch

import "sync"

// global is the process-wide table the non-reentrant hcreate/hsearch/
// hdestroy family operates on, mirroring libc's
// search/hashtable/global.{h,cpp} lazy-singleton lifecycle: the first
// Hcreate creates it, and a second Hcreate without an intervening
// Hdestroy fails rather than silently replacing the existing table.
var (
	globalMu    sync.Mutex
	globalTable *Table
)

// Hcreate is hcreate. It fails if a global table already exists.
func Hcreate(nel int) error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalTable != nil {
		return ErrInvalid
	}
	t, err := HcreateR(nel)
	if err != nil {
		return err
	}
	globalTable = t
	return nil
}

// Hdestroy is hdestroy. It is a no-op if no global table exists.
func Hdestroy() {
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalTable == nil {
		return
	}
	HdestroyR(globalTable)
	globalTable = nil
}

// Hsearch is hsearch, operating on the global table. It fails with
// ErrInvalid if Hcreate has not been called.
func Hsearch(item Entry, action Action) (Entry, error) {
	globalMu.Lock()
	t := globalTable
	globalMu.Unlock()
	if t == nil {
		return Entry{}, ErrInvalid
	}
	return HsearchR(t, item, action)
}
