package symtable

import "strings"

// List is a symbol table backed by a single linked list. Every operation
// is linear in the number of bindings; it is meant for small tables and as a
// reference for Table.
type List[V any] struct {
	head *binding[V]
	size int
	live bool
}

// NewList returns an empty list.
func NewList[V any]() *List[V] {
	return &List[V]{live: true}
}

func (l *List[V]) mustLive() {
	if l == nil || !l.live {
		panic("symtable: use of nil or freed list")
	}
}

func (l *List[V]) find(key string) *binding[V] {
	for b := l.head; b != nil; b = b.next {
		if b.key == key {
			return b
		}
	}
	return nil
}

// Len returns the number of bindings.
func (l *List[V]) Len() int {
	l.mustLive()
	return l.size
}

// Put binds key to value at the head of the list unless key is present.
func (l *List[V]) Put(key string, value V) bool {
	l.mustLive()
	if l.find(key) != nil {
		return false
	}
	l.head = &binding[V]{key: strings.Clone(key), value: value, next: l.head}
	l.size++
	return true
}

// Replace sets the value of an existing binding and returns the previous one.
func (l *List[V]) Replace(key string, value V) (old V, ok bool) {
	l.mustLive()
	b := l.find(key)
	if b == nil {
		return old, false
	}
	old, b.value = b.value, value
	return old, true
}

// Contains reports whether key is bound.
func (l *List[V]) Contains(key string) bool {
	l.mustLive()
	return l.find(key) != nil
}

// Get returns the value bound to key.
func (l *List[V]) Get(key string) (value V, ok bool) {
	l.mustLive()
	b := l.find(key)
	if b == nil {
		return value, false
	}
	return b.value, true
}

// Remove unlinks the binding for key and returns its value.
func (l *List[V]) Remove(key string) (old V, ok bool) {
	l.mustLive()
	for p := &l.head; *p != nil; p = &(*p).next {
		b := *p
		if b.key != key {
			continue
		}
		*p = b.next
		b.next = nil
		l.size--
		return b.value, true
	}
	return old, false
}

// Map visits bindings from the most recently inserted.
func (l *List[V]) Map(visit func(key string, value V)) {
	l.mustLive()
	for b := l.head; b != nil; b = b.next {
		visit(b.key, b.value)
	}
}

// Free releases every binding. The list must not be used afterwards.
func (l *List[V]) Free() {
	l.mustLive()
	for b := l.head; b != nil; {
		next := b.next
		b.next = nil
		b = next
	}
	l.head = nil
	l.size = 0
	l.live = false
}
