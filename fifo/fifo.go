// Package fifo provides the bounded ring buffer used for simulated and
// software-buffered peripheral queues.
package fifo

// Fifo is a fixed-capacity circular queue. It is not safe for concurrent
// use; callers that share one across goroutines must lock around it.
type Fifo[T any] struct {
	buf   []T
	read  int
	count int
}

// New creates a Fifo holding up to capacity elements.
func New[T any](capacity int) *Fifo[T] {
	if capacity < 1 {
		panic("fifo: capacity must be at least 1")
	}
	return &Fifo[T]{buf: make([]T, capacity)}
}

// Push appends v. It returns false, leaving the queue unchanged, when the
// queue is full.
func (f *Fifo[T]) Push(v T) bool {
	if f.count == len(f.buf) {
		return false
	}
	f.buf[(f.read+f.count)%len(f.buf)] = v
	f.count++
	return true
}

// Pop removes and returns the oldest element.
func (f *Fifo[T]) Pop() (T, bool) {
	var zero T
	if f.count == 0 {
		return zero, false
	}
	v := f.buf[f.read]
	f.buf[f.read] = zero
	f.read = (f.read + 1) % len(f.buf)
	f.count--
	return v, true
}

// Peek returns the oldest element without removing it.
func (f *Fifo[T]) Peek() (T, bool) {
	if f.count == 0 {
		var zero T
		return zero, false
	}
	return f.buf[f.read], true
}

// Write appends as many elements of data as fit and returns how many
// were taken.
func (f *Fifo[T]) Write(data []T) int {
	n := 0
	for _, v := range data {
		if !f.Push(v) {
			break
		}
		n++
	}
	return n
}

// Read moves up to len(data) elements into data and returns the count.
func (f *Fifo[T]) Read(data []T) int {
	n := 0
	for i := range data {
		v, ok := f.Pop()
		if !ok {
			break
		}
		data[i] = v
		n++
	}
	return n
}

// Len returns the number of queued elements.
func (f *Fifo[T]) Len() int {
	return f.count
}

// Cap returns the capacity.
func (f *Fifo[T]) Cap() int {
	return len(f.buf)
}

// Free returns the number of elements that can still be pushed.
func (f *Fifo[T]) Free() int {
	return len(f.buf) - f.count
}

// IsEmpty returns true if the queue is empty
func (f *Fifo[T]) IsEmpty() bool {
	return f.count == 0
}

// IsFull returns true if no element can be pushed
func (f *Fifo[T]) IsFull() bool {
	return f.count == len(f.buf)
}

// Reset discards all queued elements
func (f *Fifo[T]) Reset() {
	clear(f.buf)
	f.read = 0
	f.count = 0
}
