package concurrency

import "sync/atomic"

// AtomicBool is a boolean that is safe for concurrent use. The zero value is
// false and ready to use.
type AtomicBool struct {
	value atomic.Value
}

func (b *AtomicBool) Get() bool {
	load := b.value.Load()
	if load == nil {
		return false
	}
	return load.(bool)
}

func (b *AtomicBool) Set(value bool) {
	b.value.Store(value)
}
