package symtable

import (
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// bucketCounts is the growth sequence. Tables start at the first entry and
// never grow past the last.
var bucketCounts = []int{509, 1021, 2039, 4093, 8191, 16381, 32749, 65521}

// Options configures a Table.
type Options struct {
	// Hash selects the key hash. Defaults to MultiplicativeHash.
	Hash HashFunc

	// MemoryLimit caps the approximate number of bytes held by the bucket
	// array and bindings. Zero means no limit.
	MemoryLimit int64

	// Logger receives growth events. Defaults to the logrus standard logger.
	Logger log.FieldLogger
}

// Table is a hash table with separate chaining.
type Table[V any] struct {
	buckets []*binding[V]
	size    int
	hash    HashFunc
	mem     budget
	log     log.FieldLogger
}

// New returns an empty table with default options. It panics if the
// table cannot be allocated, which only happens with a memory limit.
func New[V any]() *Table[V] {
	t, err := NewWithOptions[V](Options{})
	if err != nil {
		panic(err)
	}
	return t
}

// NewWithOptions returns an empty table configured by opts. It returns
// ErrOutOfMemory if the initial bucket array does not fit opts.MemoryLimit.
func NewWithOptions[V any](opts Options) (*Table[V], error) {
	t := &Table[V]{
		hash: opts.Hash,
		mem:  budget{limit: opts.MemoryLimit},
		log:  opts.Logger,
	}
	if t.hash == nil {
		t.hash = MultiplicativeHash
	}
	if t.log == nil {
		t.log = log.StandardLogger()
	}

	n := bucketCounts[0]
	if !t.mem.charge(bucketArrayCost(n)) {
		return nil, errors.Wrapf(ErrOutOfMemory, "allocate %d buckets", n)
	}
	t.buckets = make([]*binding[V], n)
	return t, nil
}

func (t *Table[V]) mustLive() {
	if t == nil || t.buckets == nil {
		panic("symtable: use of nil or freed table")
	}
}

func (t *Table[V]) index(key string) int {
	return int(t.hash(key) % uint64(len(t.buckets)))
}

func (t *Table[V]) find(key string) *binding[V] {
	for b := t.buckets[t.index(key)]; b != nil; b = b.next {
		if b.key == key {
			return b
		}
	}
	return nil
}

// Len returns the number of bindings.
func (t *Table[V]) Len() int {
	t.mustLive()
	return t.size
}

// BucketCount returns the current number of buckets.
func (t *Table[V]) BucketCount() int {
	t.mustLive()
	return len(t.buckets)
}

// Put binds key to value if key is not already bound and reports whether
// it did. A false result means the key was present or the memory limit was
// reached; use Insert to tell the two apart.
func (t *Table[V]) Put(key string, value V) bool {
	return t.put(key, value) == nil
}

// Insert is Put with an error result: ErrDuplicateKey or ErrOutOfMemory.
func (t *Table[V]) Insert(key string, value V) error {
	if err := t.put(key, value); err != nil {
		return errors.Wrapf(err, "insert %q", key)
	}
	return nil
}

func (t *Table[V]) put(key string, value V) error {
	t.mustLive()

	i := t.index(key)
	for b := t.buckets[i]; b != nil; b = b.next {
		if b.key == key {
			return ErrDuplicateKey
		}
	}

	if !t.mem.charge(bindingCost(key)) {
		return ErrOutOfMemory
	}
	t.buckets[i] = &binding[V]{key: strings.Clone(key), value: value, next: t.buckets[i]}
	t.size++

	// A failed expand leaves the table at its current capacity.
	if t.size > len(t.buckets) {
		t.expand()
	}
	return nil
}

// Replace sets the value of an existing binding and returns the previous
// value. If key is not bound the table is unchanged and ok is false.
func (t *Table[V]) Replace(key string, value V) (old V, ok bool) {
	t.mustLive()
	b := t.find(key)
	if b == nil {
		return old, false
	}
	old, b.value = b.value, value
	return old, true
}

// Contains reports whether key is bound.
func (t *Table[V]) Contains(key string) bool {
	t.mustLive()
	return t.find(key) != nil
}

// Get returns the value bound to key.
func (t *Table[V]) Get(key string) (value V, ok bool) {
	t.mustLive()
	b := t.find(key)
	if b == nil {
		return value, false
	}
	return b.value, true
}

// Lookup is Get with an error result wrapping ErrKeyNotFound.
func (t *Table[V]) Lookup(key string) (V, error) {
	v, ok := t.Get(key)
	if !ok {
		return v, errors.Wrapf(ErrKeyNotFound, "lookup %q", key)
	}
	return v, nil
}

// Remove deletes the binding for key and returns its value. The order of
// the remaining bindings in the chain is preserved. The bucket array is
// never shrunk.
func (t *Table[V]) Remove(key string) (old V, ok bool) {
	t.mustLive()
	for p := &t.buckets[t.index(key)]; *p != nil; p = &(*p).next {
		b := *p
		if b.key != key {
			continue
		}
		*p = b.next
		b.next = nil
		t.size--
		t.mem.release(bindingCost(b.key))
		return b.value, true
	}
	return old, false
}

// Map calls visit once for every binding. Buckets are visited in index
// order and each chain from the most recently inserted binding. visit must
// not modify the table.
func (t *Table[V]) Map(visit func(key string, value V)) {
	t.mustLive()
	for _, b := range t.buckets {
		for ; b != nil; b = b.next {
			visit(b.key, b.value)
		}
	}
}

// Free releases every binding and the bucket array. The table must not be
// used afterwards.
func (t *Table[V]) Free() {
	t.mustLive()
	for i, b := range t.buckets {
		for b != nil {
			next := b.next
			t.mem.release(bindingCost(b.key))
			b.next = nil
			b = next
		}
		t.buckets[i] = nil
	}
	t.mem.release(bucketArrayCost(len(t.buckets)))
	t.buckets = nil
	t.size = 0
}

// nextBucketCount returns the first bucket count larger than n.
func nextBucketCount(n int) (int, bool) {
	for _, c := range bucketCounts {
		if c > n {
			return c, true
		}
	}
	return n, false
}

// expand moves every binding into a larger bucket array. It returns false,
// leaving the table unchanged, when the table is already at the largest
// size or the new array does not fit the memory limit.
func (t *Table[V]) expand() bool {
	n, ok := nextBucketCount(len(t.buckets))
	if !ok {
		return false
	}

	fields := log.Fields{"from": len(t.buckets), "to": n, "size": t.size}
	if !t.mem.charge(bucketArrayCost(n)) {
		t.log.WithFields(fields).Debug("bucket growth skipped, memory limit reached")
		return false
	}

	buckets := make([]*binding[V], n)
	for _, b := range t.buckets {
		for b != nil {
			next := b.next
			i := t.hash(b.key) % uint64(n)
			b.next = buckets[i]
			buckets[i] = b
			b = next
		}
	}

	t.mem.release(bucketArrayCost(len(t.buckets)))
	t.buckets = buckets
	t.log.WithFields(fields).Debug("buckets grown")
	return true
}

// Stats describes the shape of a table.
type Stats struct {
	Size         int
	Buckets      int
	UsedBuckets  int
	LongestChain int
	LoadFactor   float64
	MemoryBytes  int64
}

// Stats walks every chain and reports occupancy.
func (t *Table[V]) Stats() Stats {
	t.mustLive()
	s := Stats{
		Size:        t.size,
		Buckets:     len(t.buckets),
		LoadFactor:  float64(t.size) / float64(len(t.buckets)),
		MemoryBytes: t.mem.used,
	}
	for _, b := range t.buckets {
		if b == nil {
			continue
		}
		s.UsedBuckets++
		n := 0
		for ; b != nil; b = b.next {
			n++
		}
		if n > s.LongestChain {
			s.LongestChain = n
		}
	}
	return s
}
