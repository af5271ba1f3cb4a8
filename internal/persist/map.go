// Package persist provides an immutable string-keyed hash map.
//
// Every update returns a new Map and leaves the receiver untouched, while
// sharing all unchanged trie nodes with it. The matcher threads its
// working substitution through one, so abandoning a failed branch is just
// dropping a reference.
package persist

import (
	"iter"
	"math/bits"
	"slices"

	"github.com/cespare/xxhash/v2"
)

// Hash array mapped trie, six hash bits per level.
const (
	trieBits  = 6
	trieWidth = 1 << trieBits // 64
	trieMask  = trieWidth - 1
	hashBits  = 64
)

// Map is an immutable map from strings to V. The zero value and the nil
// *Map are both empty maps.
type Map[V any] struct {
	root  *node[V]
	count int
}

// node is an interior trie node, or a collision bucket once the hash bits
// are exhausted. Children are entry[V] or *node[V].
type node[V any] struct {
	bitmap uint64
	kids   []any
}

type entry[V any] struct {
	hash  uint64
	key   string
	value V
}

// Empty returns an empty map.
func Empty[V any]() *Map[V] {
	return &Map[V]{}
}

// From builds a map holding the entries of m.
func From[V any](m map[string]V) *Map[V] {
	result := Empty[V]()
	for k, v := range m {
		result = result.Put(k, v)
	}
	return result
}

func (m *Map[V]) Len() int {
	if m == nil {
		return 0
	}
	return m.count
}

// Get returns the value stored under key.
func (m *Map[V]) Get(key string) (V, bool) {
	if m == nil || m.root == nil {
		var zero V
		return zero, false
	}
	return m.root.get(xxhash.Sum64String(key), key, 0)
}

// Has reports whether key is present.
func (m *Map[V]) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Put returns a map with key bound to value.
func (m *Map[V]) Put(key string, value V) *Map[V] {
	root := &node[V]{}
	count := 0
	if m != nil {
		count = m.count
		if m.root != nil {
			root = m.root
		}
	}
	newRoot, added := root.put(xxhash.Sum64String(key), key, value, 0)
	if added {
		count++
	}
	return &Map[V]{root: newRoot, count: count}
}

// Remove returns a map without key. The receiver itself is returned when
// key is absent.
func (m *Map[V]) Remove(key string) *Map[V] {
	if m == nil || m.root == nil {
		return m
	}
	newRoot, removed := m.root.remove(xxhash.Sum64String(key), key, 0)
	if !removed {
		return m
	}
	return &Map[V]{root: newRoot, count: m.count - 1}
}

// All iterates over the entries in hash order.
func (m *Map[V]) All() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		if m != nil && m.root != nil {
			m.root.each(yield)
		}
	}
}

// Keys returns the keys, sorted.
func (m *Map[V]) Keys() []string {
	keys := make([]string, 0, m.Len())
	for k := range m.All() {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// ToMap copies the entries into a built-in map.
func (m *Map[V]) ToMap() map[string]V {
	out := make(map[string]V, m.Len())
	for k, v := range m.All() {
		out[k] = v
	}
	return out
}

func (n *node[V]) get(hash uint64, key string, shift uint) (V, bool) {
	if shift >= hashBits {
		for _, kid := range n.kids {
			if e := kid.(entry[V]); e.key == key {
				return e.value, true
			}
		}
		var zero V
		return zero, false
	}

	bit := uint64(1) << ((hash >> shift) & trieMask)
	if n.bitmap&bit == 0 {
		var zero V
		return zero, false
	}
	switch kid := n.kids[n.index(bit)].(type) {
	case entry[V]:
		if kid.key == key {
			return kid.value, true
		}
	case *node[V]:
		return kid.get(hash, key, shift+trieBits)
	}
	var zero V
	return zero, false
}

func (n *node[V]) index(bit uint64) int {
	return bits.OnesCount64(n.bitmap & (bit - 1))
}

func (n *node[V]) clone() *node[V] {
	return &node[V]{bitmap: n.bitmap, kids: slices.Clone(n.kids)}
}

func (n *node[V]) put(hash uint64, key string, value V, shift uint) (*node[V], bool) {
	e := entry[V]{hash: hash, key: key, value: value}

	if shift >= hashBits {
		bucket := n.clone()
		for i, kid := range bucket.kids {
			if kid.(entry[V]).key == key {
				bucket.kids[i] = e
				return bucket, false
			}
		}
		bucket.kids = append(bucket.kids, e)
		return bucket, true
	}

	bit := uint64(1) << ((hash >> shift) & trieMask)
	pos := n.index(bit)
	newNode := n.clone()

	if n.bitmap&bit == 0 {
		newNode.bitmap |= bit
		newNode.kids = slices.Insert(newNode.kids, pos, any(e))
		return newNode, true
	}

	switch kid := n.kids[pos].(type) {
	case entry[V]:
		if kid.key == key {
			newNode.kids[pos] = e
			return newNode, false
		}
		// Two keys share this slot: push both one level down.
		child := &node[V]{}
		child, _ = child.put(kid.hash, kid.key, kid.value, shift+trieBits)
		child, _ = child.put(hash, key, value, shift+trieBits)
		newNode.kids[pos] = child
		return newNode, true
	case *node[V]:
		child, added := kid.put(hash, key, value, shift+trieBits)
		newNode.kids[pos] = child
		return newNode, added
	}
	return newNode, false
}

func (n *node[V]) remove(hash uint64, key string, shift uint) (*node[V], bool) {
	if shift >= hashBits {
		for i, kid := range n.kids {
			if kid.(entry[V]).key == key {
				return &node[V]{kids: slices.Delete(slices.Clone(n.kids), i, i+1)}, true
			}
		}
		return n, false
	}

	bit := uint64(1) << ((hash >> shift) & trieMask)
	if n.bitmap&bit == 0 {
		return n, false
	}
	pos := n.index(bit)

	switch kid := n.kids[pos].(type) {
	case entry[V]:
		if kid.key != key {
			return n, false
		}
		return n.without(bit, pos), true
	case *node[V]:
		child, removed := kid.remove(hash, key, shift+trieBits)
		if !removed {
			return n, false
		}
		newNode := n.clone()
		switch {
		case len(child.kids) == 0:
			return n.without(bit, pos), true
		case len(child.kids) == 1:
			// A lone entry moves up; a lone subtrie stays where it is.
			if e, ok := child.kids[0].(entry[V]); ok {
				newNode.kids[pos] = e
				return newNode, true
			}
		}
		newNode.kids[pos] = child
		return newNode, true
	}
	return n, false
}

func (n *node[V]) without(bit uint64, pos int) *node[V] {
	return &node[V]{
		bitmap: n.bitmap &^ bit,
		kids:   slices.Delete(slices.Clone(n.kids), pos, pos+1),
	}
}

func (n *node[V]) each(yield func(string, V) bool) bool {
	for _, kid := range n.kids {
		switch kid := kid.(type) {
		case entry[V]:
			if !yield(kid.key, kid.value) {
				return false
			}
		case *node[V]:
			if !kid.each(yield) {
				return false
			}
		}
	}
	return true
}
