// Package util has helpers for using slices as stacks, the top of the
// stack is the end of the slice.
package util

func Push[T any](slice *[]T, elem T) {
	*slice = append(*slice, elem)
}

// Removes and returns the top element, the slice must not be empty.
func Pop[T any](slice *[]T) T {
	top := (*slice)[len(*slice)-1]
	*slice = (*slice)[:len(*slice)-1]
	return top
}

// Returns a pointer to the top element, the slice must not be empty.
func Last[T any](slice []T) *T {
	return &slice[len(slice)-1]
}
