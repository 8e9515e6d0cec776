package concurrency

import (
	"sync"
	"sync/atomic"
)

// AtomicMap is a typed map safe for concurrent use that also tracks its
// length. The zero value is empty and ready to use.
type AtomicMap[K comparable, V any] struct {
	m      sync.Map
	length atomic.Value
	mut    sync.Mutex
}

func (m *AtomicMap[K, V]) Get(key K) V {
	load, ok := m.m.Load(key)
	if !ok {
		var zero V
		return zero
	}
	return load.(V)
}

func (m *AtomicMap[K, V]) Contains(key K) bool {
	_, ok := m.m.Load(key)
	return ok
}

func (m *AtomicMap[K, V]) Length() int {
	load := m.length.Load()
	if load == nil {
		return 0
	}
	return load.(int)
}

func (m *AtomicMap[K, V]) Put(key K, value V) {
	m.mut.Lock()
	if !m.Contains(key) {
		m.length.Store(m.Length() + 1)
	}
	m.m.Store(key, value)
	m.mut.Unlock()
}

func (m *AtomicMap[K, V]) ClearAll() {
	m.mut.Lock()
	m.length.Store(0)
	m.m.Range(func(k any, _ any) bool {
		m.m.Delete(k)
		return true
	})
	m.mut.Unlock()
}

func (m *AtomicMap[K, V]) Delete(key K) {
	m.mut.Lock()
	if m.Contains(key) {
		m.length.Store(m.Length() - 1)
	}
	m.m.Delete(key)
	m.mut.Unlock()
}

func (m *AtomicMap[K, V]) Range(f func(key K, value V) bool) {
	m.m.Range(func(k any, v any) bool {
		return f(k.(K), v.(V))
	})
}
