package sim

// QueueCapacity is the number of turns that can be buffered
const QueueCapacity = 3

// DirectionQueue buffers pending turns in arrival order
type DirectionQueue struct {
	pending []Direction
}

// Push enqueues d unless it repeats or reverses the last queued turn (or active when empty)
func (q *DirectionQueue) Push(d, active Direction) bool {
	reference := active
	if n := len(q.pending); n > 0 {
		reference = q.pending[n-1]
	}
	if d == reference || d == reference.Opposite() {
		return false
	}
	if len(q.pending) >= QueueCapacity {
		return false
	}
	q.pending = append(q.pending, d)
	return true
}

// Pop removes the oldest turn
func (q *DirectionQueue) Pop() (Direction, bool) {
	if len(q.pending) == 0 {
		return 0, false
	}
	d := q.pending[0]
	q.pending = q.pending[1:]
	return d, true
}

// Len returns the number of pending turns
func (q *DirectionQueue) Len() int {
	return len(q.pending)
}

// Pending returns a copy of the queued turns, oldest first
func (q *DirectionQueue) Pending() []Direction {
	return append([]Direction(nil), q.pending...)
}
