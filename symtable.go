package symtable

import (
	"github.com/pkg/errors"
)

var (
	// ErrOutOfMemory is returned when an allocation would exceed the
	// table's memory budget. The table is left unchanged.
	ErrOutOfMemory = errors.New("symtable: out of memory")

	// ErrDuplicateKey is returned by Insert when the key is already bound.
	ErrDuplicateKey = errors.New("symtable: duplicate key")

	// ErrKeyNotFound is returned by Lookup when the key is not bound.
	ErrKeyNotFound = errors.New("symtable: key not found")
)

// SymTable is the operation set shared by Table and List.
//
// The boolean results of Replace, Get and Remove report whether the key was
// bound; when false the returned value is the zero value of V.
type SymTable[V any] interface {
	Len() int
	Put(key string, value V) bool
	Replace(key string, value V) (V, bool)
	Contains(key string) bool
	Get(key string) (V, bool)
	Remove(key string) (V, bool)
	Map(visit func(key string, value V))
	Free()
}

var (
	_ SymTable[any] = (*Table[any])(nil)
	_ SymTable[any] = (*List[any])(nil)
)

// binding is a single key/value association. The key is owned by the table.
type binding[V any] struct {
	key   string
	value V
	next  *binding[V]
}

// Approximate sizes charged against a memory budget.
const (
	slotBytes    = 8
	bindingBytes = 48
)

func bindingCost(key string) int64 {
	return bindingBytes + int64(len(key))
}

func bucketArrayCost(n int) int64 {
	return int64(n) * slotBytes
}

// budget tracks bytes charged by a table. A zero limit means unlimited.
type budget struct {
	limit int64
	used  int64
}

func (b *budget) charge(n int64) bool {
	if b.limit > 0 && b.used+n > b.limit {
		return false
	}
	b.used += n
	return true
}

func (b *budget) release(n int64) {
	b.used -= n
}
