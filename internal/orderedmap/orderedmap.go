// Package orderedmap implements a map that remembers insertion order
// and rejects duplicate keys. The scanner uses it to collect element
// attributes: XML requires attribute names to be unique per element,
// while a faithful reformatter must not reshuffle them.
package orderedmap

import (
	"errors"
	"iter"
)

var ErrDuplicateEntry = errors.New("duplicate entry")

type pair[K comparable, V any] struct {
	key   K
	value V
}

type Map[K comparable, V any] struct {
	pairs []pair[K, V]
	index map[K]int
}

func New[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		index: make(map[K]int),
	}
}

// Set appends key/value to the map. Setting a key that is already
// present fails with ErrDuplicateEntry and leaves the map unchanged.
func (m *Map[K, V]) Set(key K, value V) error {
	if _, exists := m.index[key]; exists {
		return ErrDuplicateEntry
	}
	m.index[key] = len(m.pairs)
	m.pairs = append(m.pairs, pair[K, V]{key: key, value: value})
	return nil
}

// Get returns the value stored under key.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if i, exists := m.index[key]; exists {
		return m.pairs[i].value, true
	}
	var zero V
	return zero, false
}

func (m *Map[K, V]) Len() int {
	return len(m.pairs)
}

// Range yields the entries in insertion order.
func (m *Map[K, V]) Range() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, p := range m.pairs {
			if !yield(p.key, p.value) {
				break
			}
		}
	}
}
