// Package queue implements the pending-request deque used by the gate
// scheduler. It is a generic doubly linked ring in the style of
// container/list, kept separate so removal by element stays O(1) for
// cancellation of queued work.
package queue

// Element is a node of a Deque. The zero Element is not usable; elements
// are created by the push methods and stay valid until removed.
type Element[T any] struct {
	next, prev *Element[T]
	deque      *Deque[T]

	// Value is the payload carried by this element.
	Value T
}

// Next returns the next element in the deque, or nil at the back.
func (e *Element[T]) Next() *Element[T] {
	if n := e.next; e.deque != nil && n != &e.deque.root {
		return n
	}
	return nil
}

// Prev returns the previous element in the deque, or nil at the front.
func (e *Element[T]) Prev() *Element[T] {
	if p := e.prev; e.deque != nil && p != &e.deque.root {
		return p
	}
	return nil
}

// Deque is a doubly linked FIFO queue with front insertion. The zero value
// is an empty deque ready to use.
type Deque[T any] struct {
	root Element[T] // sentinel; root.next is front, root.prev is back
	len  int
}

// New returns an initialized empty deque.
func New[T any]() *Deque[T] {
	d := &Deque[T]{}
	d.lazyInit()
	return d
}

func (d *Deque[T]) lazyInit() {
	if d.root.next == nil {
		d.root.next = &d.root
		d.root.prev = &d.root
	}
}

// Len returns the number of elements currently queued.
func (d *Deque[T]) Len() int { return d.len }

// Front returns the head element, or nil if the deque is empty.
func (d *Deque[T]) Front() *Element[T] {
	if d.len == 0 {
		return nil
	}
	return d.root.next
}

// Back returns the tail element, or nil if the deque is empty.
func (d *Deque[T]) Back() *Element[T] {
	if d.len == 0 {
		return nil
	}
	return d.root.prev
}

func (d *Deque[T]) insert(e, at *Element[T]) *Element[T] {
	e.prev = at
	e.next = at.next
	e.prev.next = e
	e.next.prev = e
	e.deque = d
	d.len++
	return e
}

// PushBack appends v at the tail and returns its element.
func (d *Deque[T]) PushBack(v T) *Element[T] {
	d.lazyInit()
	return d.insert(&Element[T]{Value: v}, d.root.prev)
}

// PushFront inserts v at the head and returns its element.
func (d *Deque[T]) PushFront(v T) *Element[T] {
	d.lazyInit()
	return d.insert(&Element[T]{Value: v}, &d.root)
}

// PopFront removes and returns the head value. The second return is false
// if the deque was empty.
func (d *Deque[T]) PopFront() (T, bool) {
	var zero T
	if d.len == 0 {
		return zero, false
	}
	e := d.root.next
	d.unlink(e)
	return e.Value, true
}

// Remove unlinks e from the deque. It returns false if e does not belong to
// this deque (including elements already removed).
func (d *Deque[T]) Remove(e *Element[T]) bool {
	if e == nil || e.deque != d {
		return false
	}
	d.unlink(e)
	return true
}

func (d *Deque[T]) unlink(e *Element[T]) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.next = nil // avoid memory leaks
	e.prev = nil
	e.deque = nil
	d.len--
}
