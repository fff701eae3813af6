/*
Package symtable provides an in-memory symbol table mapping string keys to
values of any type.

Table is a hash table with separate chaining. It starts with 509 buckets and
grows through a fixed sequence of prime bucket counts (509, 1021, 2039, 4093,
8191, 16381, 32749, 65521) whenever the number of bindings exceeds the number
of buckets. Growth relinks the existing bindings into the new bucket array;
nothing is copied. Once the largest size is reached the table keeps working
and chains simply get longer.

Basic usage:

	import "github.com/theflywheel/symtable"

	t := symtable.New[int]()
	defer t.Free()

	t.Put("x", 10)       // true
	t.Put("x", 20)       // false, key already present
	v, ok := t.Get("x")  // 10, true
	old, _ := t.Replace("x", 20)
	old, _ = t.Remove("x")

Features:

  - Generic value type; values are stored as given and never copied
  - Keys are cloned on insertion, so the caller may reuse its buffers
  - Multiplicative string hash (h = h*65599 + b), or xxhash via Options
  - Optional memory budget that turns allocations into ErrOutOfMemory
  - List, a linked-list variant with the same contract

Tables are not safe for concurrent use. Callers that share a table between
goroutines must guard it with their own lock.

Implementation Details:

Each bucket holds a singly linked chain of bindings. New bindings are pushed at
the head of their chain, so Map visits buckets in index order and each chain
from most to least recently inserted. Removal never shrinks the bucket array.
*/
package symtable
