package midi

import (
	"sync/atomic"
)

// DefaultQueueSize is the capacity used when NewQueue is given a size <= 0
const DefaultQueueSize = 256

// Queue is a lock-free single-producer/single-consumer ring of trigger
// events. One goroutine (UI, keyboard, automation) calls Push; the audio
// thread calls Drain. Neither side blocks or allocates.
type Queue struct {
	buf  []Event
	mask uint64

	// writePos is only stored by the producer, readPos only by the consumer
	writePos uint64
	readPos  uint64

	dropped uint64
}

// NewQueue creates a queue holding at least size events. The capacity is
// rounded up to a power of two.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	n := 1
	for n < size {
		n <<= 1
	}
	return &Queue{
		buf:  make([]Event, n),
		mask: uint64(n - 1),
	}
}

// Cap returns the queue capacity
func (q *Queue) Cap() int {
	return len(q.buf)
}

// Push enqueues an event. It returns false and counts a drop when the
// queue is full.
func (q *Queue) Push(e Event) bool {
	writePos := atomic.LoadUint64(&q.writePos)
	readPos := atomic.LoadUint64(&q.readPos)

	if writePos-readPos >= uint64(len(q.buf)) {
		atomic.AddUint64(&q.dropped, 1)
		return false
	}

	q.buf[writePos&q.mask] = e
	atomic.StoreUint64(&q.writePos, writePos+1)
	return true
}

// Drain appends every pending event to dst in push order and returns the
// extended slice. When dst has enough spare capacity no allocation occurs;
// events that do not fit in cap(dst) stay queued for the next call.
func (q *Queue) Drain(dst []Event) []Event {
	readPos := atomic.LoadUint64(&q.readPos)
	writePos := atomic.LoadUint64(&q.writePos)

	for readPos < writePos && len(dst) < cap(dst) {
		dst = append(dst, q.buf[readPos&q.mask])
		readPos++
	}

	atomic.StoreUint64(&q.readPos, readPos)
	return dst
}

// Len returns the number of pending events
func (q *Queue) Len() int {
	writePos := atomic.LoadUint64(&q.writePos)
	readPos := atomic.LoadUint64(&q.readPos)
	return int(writePos - readPos)
}

// IsEmpty reports whether no events are pending
func (q *Queue) IsEmpty() bool {
	return q.Len() == 0
}

// Dropped returns how many pushes were rejected because the queue was full
func (q *Queue) Dropped() uint64 {
	return atomic.LoadUint64(&q.dropped)
}
