/*
 * © 2023 Bugtrail Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package nativeevents bridges the platform runtime's error hooks onto Go
// handlers. The native side emits events into the bus; the client registers
// handlers through the NativeEvents contract.
package nativeevents

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type Origin string

const (
	OriginUncaught Origin = "uncaughtError"
	OriginTrace    Origin = "trace"
)

// Event is one native error occurrence.
type Event struct {
	Origin  Origin
	Message string
	Err     error
}

// Bus fans native events out to at most one handler per origin. Emit never
// blocks the native callback thread as long as the buffer has room.
type Bus struct {
	events chan Event
	stop   chan bool

	mu       sync.Mutex
	started  bool
	uncaught func(err error)
	trace    func(message string, err error)
}

func NewBus() *Bus {
	return &Bus{
		events: make(chan Event, 100),
		stop:   make(chan bool, 1),
	}
}

// Emit is called from the native side.
func (b *Bus) Emit(event Event) {
	b.events <- event
}

func (b *Bus) OnUncaughtError(handler func(err error)) {
	b.mu.Lock()
	b.uncaught = handler
	b.mu.Unlock()
	b.ensureListener()
}

func (b *Bus) OnTraceError(handler func(message string, err error)) {
	b.mu.Lock()
	b.trace = handler
	b.mu.Unlock()
	b.ensureListener()
}

// Dispose stops the listener goroutine. Registered handlers stay in place for
// a later restart.
func (b *Bus) Dispose() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.started {
		return
	}
	b.started = false
	b.stop <- true
}

func (b *Bus) ensureListener() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return
	}
	b.started = true
	go func() {
		for {
			select {
			case event := <-b.events:
				b.dispatch(event)
			case <-b.stop:
				return
			}
		}
	}()
}

func (b *Bus) dispatch(event Event) {
	b.mu.Lock()
	uncaught, trace := b.uncaught, b.trace
	b.mu.Unlock()
	switch event.Origin {
	case OriginUncaught:
		if uncaught != nil {
			uncaught(event.Err)
			return
		}
	case OriginTrace:
		if trace != nil {
			trace(event.Message, event.Err)
			return
		}
	}
	log.Debug().Str("method", "dispatch").Str("origin", string(event.Origin)).Msg("dropped native event without handler")
}
