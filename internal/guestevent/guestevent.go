/*
 * ARM Core - ARM system emulator, assembler and debugger.
 *
 * Copyright 2026, ARM Core Project Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package guestevent implements the single-producer/single-consumer event
// queue the emulator uses to notify the host of guest activity (device
// interrupts, SWI traps, a graceful-shutdown sentinel). Only the emulator
// goroutine may call TryEnqueue; only the controller goroutine may call
// TryDequeue.
package guestevent

import "sync/atomic"

// Event is a POD notification: source identifies which emulated device
// produced it, Kind is device-defined, with zero reserved as a
// graceful-shutdown sentinel.
type Event struct {
	Source int32
	Kind   int32
	Data1  uint32
	Data2  uint32
}

// ShutdownKind is the reserved sentinel Kind value.
const ShutdownKind int32 = 0

const defaultCapacity = 64

// Queue is a fixed-capacity lock-free SPSC ring buffer. When full,
// TryEnqueue returns false and the caller decides whether to drop the event
// or retry; the queue never blocks and never grows on its own, matching the
// "no silent growth" decision recorded for this component (see DESIGN.md).
type Queue struct {
	source int32
	buf    []Event
	mask   uint64
	head   atomic.Uint64 // next slot the consumer will read
	tail   atomic.Uint64 // next slot the producer will write
}

// NewQueue creates a queue tagged with sourceID, sized up to the next power
// of two >= capacity (defaultCapacity if capacity <= 0).
func NewQueue(sourceID int32, capacity int) *Queue {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	size := 1
	for size < capacity {
		size <<= 1
	}
	return &Queue{
		source: sourceID,
		buf:    make([]Event, size),
		mask:   uint64(size - 1),
	}
}

// TryEnqueue is called only by the producer (emulator) goroutine.
func (q *Queue) TryEnqueue(kind int32, d1, d2 uint32) bool {
	tail := q.tail.Load()
	head := q.head.Load()

	if tail-head >= uint64(len(q.buf)) {
		return false // full
	}

	q.buf[tail&q.mask] = Event{Source: q.source, Kind: kind, Data1: d1, Data2: d2}
	q.tail.Store(tail + 1)
	return true
}

// TryDequeue is called only by the consumer (controller) goroutine.
func (q *Queue) TryDequeue() (Event, bool) {
	head := q.head.Load()
	tail := q.tail.Load()

	if head == tail {
		return Event{}, false // empty
	}

	ev := q.buf[head&q.mask]
	q.head.Store(head + 1)
	return ev, true
}

// Len reports the approximate number of pending events; it may be stale the
// instant it returns since the producer can be concurrently enqueuing.
func (q *Queue) Len() int {
	return int(q.tail.Load() - q.head.Load())
}
