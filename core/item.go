package core

import "fmt"

// SameItem reports whether a and b denote the same child. Identifiable items
// are compared by ID, everything else by interface equality. Nil never
// matches anything, including nil.
func SameItem(a, b Child) bool {
	if a == nil || b == nil {
		return false
	}

	ia, okA := a.(Identifiable)
	ib, okB := b.(Identifiable)
	if okA && okB {
		return ia.ID() == ib.ID()
	}

	return a == b
}

// IndexOf returns the position of item in list, or -1.
func IndexOf(list []Child, item Child) int {
	for i, c := range list {
		if SameItem(c, item) {
			return i
		}
	}
	return -1
}

// Contains reports whether item is a member of list.
func Contains(list []Child, item Child) bool {
	return IndexOf(list, item) >= 0
}

// Without returns a copy of list with every occurrence of the given items removed.
func Without(list []Child, items ...Child) []Child {
	out := make([]Child, 0, len(list))
	for _, c := range list {
		if !Contains(items, c) {
			out = append(out, c)
		}
	}
	return out
}

// AsChild coerces an arbitrary value into a Child. It fails with
// ErrInvalidItem for nil values and values lacking the Child capability.
func AsChild(v any) (Child, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: <nil>", ErrInvalidItem)
	}
	c, ok := v.(Child)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrInvalidItem, v)
	}
	return c, nil
}
