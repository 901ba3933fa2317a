package swisstable

import (
	"fmt"
	"testing"

	"github.com/gopherlibc/swisscore/internal/group"
)

func newIntTable(capacityHint int) *RawTable[int] {
	hashOf := func(v int) uint64 { return hashInteger(v) }
	equal := func(a, b int) bool { return a == b }
	return NewRawTable[int](capacityHint, hashOf, equal)
}

func TestRawTableSetGet(t *testing.T) {
	tests := []struct {
		v int
	}{
		{1}, {3}, {8}, {1_000_000},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("value %d", tt.v), func(t *testing.T) {
			tbl := newIntTable(16)
			tbl.Set(tt.v)
			if got := tbl.Len(); got != 1 {
				t.Errorf("Len() = %d, want 1", got)
			}
			got, ok := tbl.Find(tt.v)
			if !ok || got != tt.v {
				t.Errorf("Find(%d) = (%d, %v), want (%d, true)", tt.v, got, ok, tt.v)
			}
		})
	}
}

func TestRawTableUpdateInPlace(t *testing.T) {
	hashOf := func(v [2]int) uint64 { return hashInteger(v[0]) }
	equal := func(a, b [2]int) bool { return a[0] == b[0] }
	tbl := NewRawTable[[2]int](16, hashOf, equal)

	tbl.Set([2]int{1, 100})
	old, replaced := tbl.Set([2]int{1, 200})
	if !replaced || old[1] != 100 {
		t.Fatalf("Set() = (%v, %v), want ({_,100}, true)", old, replaced)
	}
	if got := tbl.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	v, ok := tbl.Find([2]int{1, 0})
	if !ok || v[1] != 200 {
		t.Fatalf("Find() = (%v, %v), want ({_,200}, true)", v, ok)
	}
}

func TestRawTableDelete(t *testing.T) {
	tbl := newIntTable(16)
	tbl.Set(42)
	if !tbl.Delete(42) {
		t.Fatal("Delete(42) = false, want true")
	}
	if _, ok := tbl.Find(42); ok {
		t.Fatal("Find(42) after Delete = true, want false")
	}
	if tbl.Delete(42) {
		t.Fatal("second Delete(42) = true, want false")
	}
}

func TestRawTableDeleteThenReinsertDoesNotLeakTombstones(t *testing.T) {
	tbl := newIntTable(8)
	for i := 0; i < 1000; i++ {
		tbl.Set(i)
		tbl.Delete(i)
	}
	tbl.Set(999)
	if got, ok := tbl.Find(999); !ok || got != 999 {
		t.Fatalf("Find(999) = (%d, %v), want (999, true)", got, ok)
	}
	if got := tbl.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
}

func TestRawTableGrowthPreservesAllElements(t *testing.T) {
	tbl := newIntTable(0)
	const n = 10_000
	for i := 0; i < n; i++ {
		tbl.Set(i)
	}
	if got := tbl.Len(); got != n {
		t.Fatalf("Len() = %d, want %d", got, n)
	}
	for i := 0; i < n; i++ {
		if got, ok := tbl.Find(i); !ok || got != i {
			t.Fatalf("Find(%d) = (%d, %v), want (%d, true)", i, got, ok, i)
		}
	}
}

func TestRawTableGetMissingReturnsZeroValue(t *testing.T) {
	tbl := newIntTable(16)
	tbl.Set(1)
	got, ok := tbl.Find(999_999)
	if ok {
		t.Fatalf("Find(999999) ok = true, want false")
	}
	if got != 0 {
		t.Fatalf("Find(999999) value = %d, want 0", got)
	}
}

func TestRawTableRangeVisitsEveryElement(t *testing.T) {
	tbl := newIntTable(16)
	want := map[int]bool{1: true, 2: true, 3: true, 42: true}
	for v := range want {
		tbl.Set(v)
	}
	got := map[int]bool{}
	tbl.Range(func(v int) bool {
		got[v] = true
		return true
	})
	if len(got) != len(want) {
		t.Fatalf("Range visited %d elements, want %d", len(got), len(want))
	}
	for v := range want {
		if !got[v] {
			t.Errorf("Range did not visit %d", v)
		}
	}
}

func TestNewRawTableZeroCapacitySharesEmptySingletonUntilFirstWrite(t *testing.T) {
	tbl := newIntTable(0)
	if !tbl.sharedEmpty {
		t.Fatal("sharedEmpty = false immediately after NewRawTable(0), want true")
	}
	if _, ok := tbl.Find(42); ok {
		t.Fatal("Find on an empty singleton table = true, want false")
	}
	if tbl.Delete(42) {
		t.Fatal("Delete on an empty singleton table = true, want false")
	}
	visited := 0
	tbl.Range(func(int) bool { visited++; return true })
	if visited != 0 {
		t.Fatalf("Range on an empty singleton table visited %d elements, want 0", visited)
	}

	tbl.Set(1)
	if tbl.sharedEmpty {
		t.Fatal("sharedEmpty = true after Set, want false (materialize should have run)")
	}
	if got, ok := tbl.Find(1); !ok || got != 1 {
		t.Fatalf("Find(1) after materializing = (%d, %v), want (1, true)", got, ok)
	}
}

func TestRawTableControlTailMirrorsHead(t *testing.T) {
	tbl := newIntTable(8)
	for i := 0; i < 50; i++ {
		tbl.Set(i)
	}
	bytesCap := tbl.bytesCapacity()
	head := tbl.ctrl[:group.Width]
	tail := tbl.ctrl[bytesCap:]
	for i := range tail {
		if tail[i] != head[i] {
			t.Fatalf("ctrl tail[%d] = %#x, want %#x (mirroring head)", i, tail[i], head[i])
		}
	}
}

func TestRawTableRehashInPlaceReclaimsTombstonesWithoutGrowing(t *testing.T) {
	// An identity hash makes every group's fill order deterministic:
	// small values collide at byte position 0 and spill into later
	// groups strictly in probe order. Inserting bytesCap keys (the
	// table grows once on the way) and then deleting all but key 0
	// leaves a table that is mostly tombstones, so growOrRehash must
	// take the in-place path; key 0 already sits at its own rehash
	// target, so this checks tombstone reclamation and lookup after the
	// rehash rather than the relocate-and-swap branch.
	identity := func(v int) uint64 { return uint64(v) }
	equal := func(a, b int) bool { return a == b }
	tbl := NewRawTable[int](0, identity, equal)
	tbl.init(2)

	bytesCap := tbl.bytesCapacity()
	for i := uint64(0); i < bytesCap; i++ {
		tbl.Set(int(i))
	}
	if got := tbl.Len(); uint64(got) != bytesCap {
		t.Fatalf("Len() after filling table = %d, want %d", got, bytesCap)
	}

	for i := uint64(1); i < bytesCap; i++ {
		tbl.Delete(int(i))
	}
	if tbl.used != int(bytesCap) || tbl.size != 1 {
		t.Fatalf("before rehash: used = %d, size = %d, want used = %d, size = 1", tbl.used, tbl.size, bytesCap)
	}

	groupsBefore := tbl.groups
	tbl.growOrRehash()

	if tbl.groups != groupsBefore {
		t.Fatalf("groups = %d after growOrRehash on a mostly-tombstoned table, want unchanged %d", tbl.groups, groupsBefore)
	}
	if tbl.used != tbl.size {
		t.Fatalf("used = %d, size = %d after rehashInPlace, want equal (no leftover tombstones)", tbl.used, tbl.size)
	}
	if got, ok := tbl.Find(0); !ok || got != 0 {
		t.Fatalf("Find(0) after rehashInPlace = (%d, %v), want (0, true)", got, ok)
	}

	tbl.Set(1000)
	if got, ok := tbl.Find(1000); !ok || got != 1000 {
		t.Fatalf("Find(1000) after rehash and a fresh insert = (%d, %v), want (1000, true)", got, ok)
	}
}

func TestRawTableRangeStopsEarly(t *testing.T) {
	tbl := newIntTable(16)
	for i := 0; i < 10; i++ {
		tbl.Set(i)
	}
	var count int
	tbl.Range(func(v int) bool {
		count++
		return count < 3
	})
	if count != 3 {
		t.Fatalf("Range visited %d elements before stopping, want 3", count)
	}
}
