// SPDX-License-Identifier: EPL-2.0

package scheduler

import (
	"fmt"
	"sync/atomic"
)

// ring is a lock-free single-producer single-consumer queue of status
// events. The render side pushes, the reporter drains. A push to a full ring
// drops the event instead of waiting for the reader.
type ring struct {
	events      []Event
	read, write atomic.Uint32
}

func newRing(size int) (*ring, error) {
	if size <= 0 || size&(size-1) != 0 {
		return nil, fmt.Errorf("%w: got %d", ErrQueueSize, size)
	}
	return &ring{events: make([]Event, size)}, nil
}

func (r *ring) push(ev Event) bool {
	write := r.write.Load()
	if write-r.read.Load() == uint32(len(r.events)) {
		return false
	}
	r.events[write%uint32(len(r.events))] = ev
	r.write.Store(write + 1)
	return true
}

// drain hands every queued event to f and returns how many there were.
func (r *ring) drain(f func(Event)) int {
	read := r.read.Load()
	write := r.write.Load()
	n := 0
	for read != write {
		f(r.events[read%uint32(len(r.events))])
		read++
		n++
	}
	r.read.Store(read)
	return n
}
