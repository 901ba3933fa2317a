package swisstable

import (
	"fmt"
	"testing"
)

func TestMapSetGet(t *testing.T) {
	tests := []struct {
		key   string
		value int
	}{
		{"a", 2}, {"bb", 4}, {"ccc", 1_000_000_000}, {"", 42},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("key %q", tt.key), func(t *testing.T) {
			m := New[string, int](256)
			m.Set(tt.key, tt.value)

			if got := m.Len(); got != 1 {
				t.Errorf("Len() = %d, want 1", got)
			}
			gotV, gotOK := m.Get(tt.key)
			if !gotOK {
				t.Errorf("Get() ok = false, want true")
			}
			if gotV != tt.value {
				t.Errorf("Get() = %d, want %d", gotV, tt.value)
			}

			if _, ok := m.Get("definitely-not-present"); ok {
				t.Errorf("Get() of missing key ok = true, want false")
			}
		})
	}
}

func TestMapSetUpdatesExistingKey(t *testing.T) {
	m := New[string, int](16)
	m.Set("x", 1)
	m.Set("x", 2)
	if got := m.Len(); got != 1 {
		t.Fatalf("Len() = %d, want 1", got)
	}
	if v, ok := m.Get("x"); !ok || v != 2 {
		t.Fatalf("Get(\"x\") = (%d, %v), want (2, true)", v, ok)
	}
}

func TestMapDelete(t *testing.T) {
	m := New[string, int](16)
	m.Set("x", 1)
	if !m.Delete("x") {
		t.Fatal("Delete(\"x\") = false, want true")
	}
	if _, ok := m.Get("x"); ok {
		t.Fatal("Get(\"x\") after Delete = true, want false")
	}
	if m.Delete("x") {
		t.Fatal("second Delete(\"x\") = true, want false")
	}
}

func TestMapForceFillThenLookupEveryKey(t *testing.T) {
	const size = 10_000
	m := New[int, int64](size)
	for i := 0; i < size; i++ {
		m.Set(i, int64(i)*int64(i))
	}
	if got := m.Len(); got != size {
		t.Fatalf("Len() = %d, want %d", got, size)
	}
	for i := 0; i < size; i++ {
		v, ok := m.Get(i)
		if !ok || v != int64(i)*int64(i) {
			t.Fatalf("Get(%d) = (%d, %v), want (%d, true)", i, v, ok, int64(i)*int64(i))
		}
	}
}

func TestMapRange(t *testing.T) {
	m := New[string, int](16)
	want := map[string]int{"a": 1, "b": 2, "c": 3}
	for k, v := range want {
		m.Set(k, v)
	}
	got := map[string]int{}
	m.Range(func(k string, v int) bool {
		got[k] = v
		return true
	})
	if len(got) != len(want) {
		t.Fatalf("Range visited %d pairs, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("Range missing or wrong value for %q: got %d, want %d", k, got[k], v)
		}
	}
}

type point struct{ x, y int }

func TestMapWithHasherForUnsupportedKeyType(t *testing.T) {
	m := New[point, string](16, WithHasher(func(p point) uint64 {
		return hashInteger(p.x)<<32 | hashInteger(p.y)&0xFFFFFFFF
	}))
	m.Set(point{1, 2}, "a")
	m.Set(point{3, 4}, "b")
	if v, ok := m.Get(point{1, 2}); !ok || v != "a" {
		t.Fatalf("Get({1,2}) = (%q, %v), want (\"a\", true)", v, ok)
	}
	if v, ok := m.Get(point{3, 4}); !ok || v != "b" {
		t.Fatalf("Get({3,4}) = (%q, %v), want (\"b\", true)", v, ok)
	}
}

func TestNewPanicsWithoutHasherForUnsupportedKeyType(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("New[point, int] did not panic without WithHasher")
		}
	}()
	New[point, int](16)
}
