// internal/capture/queue.go
package capture

import (
	"fmt"
	"sync"
)

// Queue is the fixed-capacity single-producer/single-consumer ring buffer
// between the capture handler and the mainline drain. One slot is always
// kept empty so full and empty stay distinguishable without a separate
// counter: a queue of size N stores at most N-1 events.
//
// Only the capture handler moves head and writes the slot at head; only
// the mainline consumer moves tail. Either side observes the other's index
// inside a critical section held for an index compare plus one struct
// copy, never longer. No operation blocks or allocates after construction.
type Queue struct {
	mu      sync.Mutex
	slots   []Event
	mask    uint32
	head    uint32 // producer-owned: next write slot
	tail    uint32 // consumer-owned: next read slot
	dropped uint16 // wraps at 65536
}

// NewQueue builds a queue with size slots, allocated once. Size must be a
// power of two between 2 and 256.
func NewQueue(size int) (*Queue, error) {
	if size < 2 || size > 256 {
		return nil, fmt.Errorf("capture: queue size %d out of range (2..256)", size)
	}
	if size&(size-1) != 0 {
		return nil, fmt.Errorf("capture: queue size %d is not a power of two", size)
	}
	return &Queue{
		slots: make([]Event, size),
		mask:  uint32(size - 1),
	}, nil
}

// TrySend stores ev unless the queue is full. A full queue drops the
// event and advances the drop counter exactly once; buffered events
// survive, the newest arrival is sacrificed. Queue-full is backpressure
// accounting, not an error.
func (q *Queue) TrySend(ev Event) bool {
	q.mu.Lock()
	next := (q.head + 1) & q.mask
	if next == q.tail {
		q.dropped++
		q.mu.Unlock()
		return false
	}
	q.slots[q.head] = ev
	q.head = next
	q.mu.Unlock()
	return true
}

// TryReceive returns the oldest unread event, if any. Never blocks.
func (q *Queue) TryReceive() (Event, bool) {
	q.mu.Lock()
	if q.head == q.tail {
		q.mu.Unlock()
		return Event{}, false
	}
	ev := q.slots[q.tail]
	q.tail = (q.tail + 1) & q.mask
	q.mu.Unlock()
	return ev, true
}

// Available reports whether at least one event is queued. Advisory only:
// the hint and a later TryReceive are two separate snapshots, not one
// transaction.
func (q *Queue) Available() bool {
	q.mu.Lock()
	ok := q.head != q.tail
	q.mu.Unlock()
	return ok
}

// Dropped returns the cumulative drop count as a coherent snapshot. The
// counter wraps at 65536 and is never reset in normal operation; treat it
// as a rate indicator, not an exact lifetime total.
func (q *Queue) Dropped() uint16 {
	q.mu.Lock()
	d := q.dropped
	q.mu.Unlock()
	return d
}

// Size returns the slot count. Usable capacity is Size()-1.
func (q *Queue) Size() int { return len(q.slots) }

// Reset zeroes indices and the drop counter. Explicit re-init only; both
// contexts must be quiescent when it runs.
func (q *Queue) Reset() {
	q.mu.Lock()
	q.head = 0
	q.tail = 0
	q.dropped = 0
	q.mu.Unlock()
}
