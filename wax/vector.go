package wax

import "iter"

// Vector is a dynamic array with capacity doubling, analogous to a C++
// std::vector. Growth relocates elements by copy; zero value is an empty,
// zero-capacity vector ready to use.
type Vector[T any] struct {
	data []T
}

// NewVector creates a Vector with the given initial capacity reserved.
func NewVector[T any](capacity int) *Vector[T] {
	v := &Vector[T]{}
	v.Reserve(capacity)
	return v
}

// PushBack appends a value, growing the backing array if needed.
func (v *Vector[T]) PushBack(value T) {
	v.growIfFull()
	v.data = append(v.data, value)
}

// EmplaceBack appends the zero value and returns a pointer to the new slot
// for in-place construction.
func (v *Vector[T]) EmplaceBack() *T {
	v.growIfFull()
	var zero T
	v.data = append(v.data, zero)
	return &v.data[len(v.data)-1]
}

// growIfFull grows capacity by doubling (or to 4 from empty) before an
// append into a full vector. Growth copies the elements into a new backing
// array, so a pointer returned earlier by At or EmplaceBack refers to the
// old array afterwards and no longer sees later writes.
func (v *Vector[T]) growIfFull() {
	if len(v.data) < cap(v.data) {
		return
	}
	newCap := cap(v.data) * 2
	if newCap == 0 {
		newCap = 4
	}
	grown := make([]T, len(v.data), newCap)
	copy(grown, v.data)
	v.data = grown
}

// PopBack removes and returns the last element. Panics if empty.
func (v *Vector[T]) PopBack() T {
	last := v.data[len(v.data)-1]
	var zero T
	v.data[len(v.data)-1] = zero
	v.data = v.data[:len(v.data)-1]
	return last
}

// SwapRemove removes the element at index, moving the last element into its
// place. O(1). Returns the index of the element that was moved into idx, or
// -1 if idx was the last element (nothing moved).
func (v *Vector[T]) SwapRemove(idx int) int {
	last := len(v.data) - 1
	if idx != last {
		v.data[idx] = v.data[last]
	}
	var zero T
	v.data[last] = zero
	v.data = v.data[:last]
	if idx == last {
		return -1
	}
	return last
}

// Resize changes the length, filling new slots with fill when growing.
func (v *Vector[T]) Resize(n int, fill T) {
	if n <= len(v.data) {
		var zero T
		for i := n; i < len(v.data); i++ {
			v.data[i] = zero
		}
		v.data = v.data[:n]
		return
	}
	v.Reserve(n)
	for len(v.data) < n {
		v.data = append(v.data, fill)
	}
}

// Reserve ensures capacity for at least n elements without changing length.
func (v *Vector[T]) Reserve(n int) {
	if cap(v.data) >= n {
		return
	}
	grown := make([]T, len(v.data), n)
	copy(grown, v.data)
	v.data = grown
}

// ShrinkToFit releases unused capacity.
func (v *Vector[T]) ShrinkToFit() {
	if len(v.data) == cap(v.data) {
		return
	}
	shrunk := make([]T, len(v.data))
	copy(shrunk, v.data)
	v.data = shrunk
}

// Clear empties the vector without releasing capacity.
func (v *Vector[T]) Clear() {
	var zero T
	for i := range v.data {
		v.data[i] = zero
	}
	v.data = v.data[:0]
}

// Len returns the number of elements.
func (v *Vector[T]) Len() int {
	return len(v.data)
}

// Cap returns the current capacity.
func (v *Vector[T]) Cap() int {
	return cap(v.data)
}

// At returns a pointer to the element at idx.
func (v *Vector[T]) At(idx int) *T {
	return &v.data[idx]
}

// Front returns a pointer to the first element.
func (v *Vector[T]) Front() *T {
	return &v.data[0]
}

// Back returns a pointer to the last element.
func (v *Vector[T]) Back() *T {
	return &v.data[len(v.data)-1]
}

// Data exposes the backing slice directly.
func (v *Vector[T]) Data() []T {
	return v.data
}

// All returns an iterator sequence over (index, pointer) pairs, following
// the stdlib iter.Seq2 convention.
func (v *Vector[T]) All() iter.Seq2[int, *T] {
	return func(yield func(int, *T) bool) {
		for i := range v.data {
			if !yield(i, &v.data[i]) {
				return
			}
		}
	}
}
