package symtable

import (
	"fmt"
	"testing"
)

func TestHashKnownValues(t *testing.T) {
	testCases := []struct {
		key         string
		bucketCount int
		want        int
	}{
		{"", 509, 0},
		{"a", 509, 97},
		{"ab", 509, 192}, // 97*65599 + 98 = 6363201
		{"a", 7, 97 % 7},
		{"\xff", 1021, 255},
	}

	for _, tc := range testCases {
		if got := Hash(tc.key, tc.bucketCount); got != tc.want {
			t.Errorf("Hash(%q, %d) = %d, expected %d", tc.key, tc.bucketCount, got, tc.want)
		}
	}
}

func TestHashInRange(t *testing.T) {
	for _, n := range bucketCounts {
		for i := 0; i < 2000; i++ {
			key := fmt.Sprintf("key/%d/%d", n, i)
			h := Hash(key, n)
			if h < 0 || h >= n {
				t.Fatalf("Hash(%q, %d) = %d out of range", key, n, h)
			}
			if h != Hash(key, n) {
				t.Fatalf("Hash(%q, %d) is not deterministic", key, n)
			}
		}
	}
}

func TestHashPanicsOnZeroBuckets(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for zero bucket count")
		}
	}()
	Hash("a", 0)
}

func TestNextBucketCount(t *testing.T) {
	testCases := []struct {
		n    int
		want int
		ok   bool
	}{
		{509, 1021, true},
		{1021, 2039, true},
		{32749, 65521, true},
		{65521, 65521, false},
	}
	for _, tc := range testCases {
		got, ok := nextBucketCount(tc.n)
		if got != tc.want || ok != tc.ok {
			t.Errorf("nextBucketCount(%d) = %d, %v; expected %d, %v", tc.n, got, ok, tc.want, tc.ok)
		}
	}
}

// checkPlacement verifies every binding sits in the bucket its key hashes to
// and that size matches the reachable bindings.
func checkPlacement[V any](t *testing.T, tbl *Table[V]) {
	t.Helper()
	count := 0
	for i, b := range tbl.buckets {
		for ; b != nil; b = b.next {
			count++
			if want := tbl.index(b.key); want != i {
				t.Fatalf("Key %q in bucket %d, hashes to %d", b.key, i, want)
			}
		}
	}
	if count != tbl.size {
		t.Fatalf("Size %d, reachable bindings %d", tbl.size, count)
	}
}

func TestPlacementAfterGrowth(t *testing.T) {
	tbl := New[int]()
	defer tbl.Free()

	for i := 0; i < 5000; i++ {
		tbl.Put(fmt.Sprintf("entry-%d", i), i)
		if i%1000 == 0 {
			checkPlacement(t, tbl)
		}
	}
	checkPlacement(t, tbl)
	if len(tbl.buckets) != 8191 {
		t.Errorf("Expected 8191 buckets, got %d", len(tbl.buckets))
	}
}

func TestExpandStopsAtLargestSize(t *testing.T) {
	tbl := New[int]()
	defer tbl.Free()
	tbl.Put("a", 1)

	grown := 0
	for tbl.expand() {
		grown++
	}
	if grown != len(bucketCounts)-1 {
		t.Errorf("Expected %d expansions, got %d", len(bucketCounts)-1, grown)
	}
	if len(tbl.buckets) != 65521 {
		t.Errorf("Expected 65521 buckets, got %d", len(tbl.buckets))
	}
	if tbl.expand() {
		t.Error("Expand succeeded at the largest size")
	}
	checkPlacement(t, tbl)
}

func TestExpandFailureIsTolerated(t *testing.T) {
	const n = 509
	key := func(i int) string { return fmt.Sprintf("k%04d", i) }

	limit := bucketArrayCost(n) + (n+1)*bindingCost(key(0))
	tbl, err := NewWithOptions[int](Options{MemoryLimit: limit})
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	defer tbl.Free()

	for i := 0; i <= n; i++ {
		if !tbl.Put(key(i), i) {
			t.Fatalf("Put %d failed", i)
		}
	}

	if len(tbl.buckets) != n {
		t.Errorf("Expected growth to be skipped, have %d buckets", len(tbl.buckets))
	}
	if tbl.size != n+1 {
		t.Errorf("Expected size %d, got %d", n+1, tbl.size)
	}
	checkPlacement(t, tbl)
}

func constantHash(string) uint64 { return 0 }

func TestChainOrder(t *testing.T) {
	tbl, err := NewWithOptions[int](Options{Hash: constantHash})
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	defer tbl.Free()

	for i, k := range []string{"a", "b", "c", "d"} {
		tbl.Put(k, i)
	}

	var order []string
	tbl.Map(func(key string, _ int) { order = append(order, key) })
	if fmt.Sprint(order) != "[d c b a]" {
		t.Fatalf("Expected most recent first, got %v", order)
	}

	// Removing from the middle keeps the rest in order.
	tbl.Remove("c")
	order = order[:0]
	tbl.Map(func(key string, _ int) { order = append(order, key) })
	if fmt.Sprint(order) != "[d b a]" {
		t.Errorf("Expected [d b a] after remove, got %v", order)
	}
}

func TestFreeReleasesBudget(t *testing.T) {
	tbl, err := NewWithOptions[int](Options{MemoryLimit: 1 << 20})
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	for i := 0; i < 1000; i++ {
		tbl.Put(fmt.Sprintf("k%d", i), i)
	}
	tbl.Free()
	if tbl.mem.used != 0 {
		t.Errorf("Expected no bytes in use after free, got %d", tbl.mem.used)
	}
}
