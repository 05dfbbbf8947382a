package engine

import (
	"fmt"
	"strconv"
)

// AllSentinel is the wire value meaning "no restriction"
const AllSentinel = "all"

// Filter is either "all" or a single concrete value
type Filter[T comparable] struct {
	value T
	set   bool
}

// All returns a filter that matches everything
func All[T comparable]() Filter[T] {
	return Filter[T]{}
}

// Only returns a filter that matches v exactly
func Only[T comparable](v T) Filter[T] {
	return Filter[T]{value: v, set: true}
}

func (f Filter[T]) IsAll() bool { return !f.set }

// Value returns the concrete value and whether one is set
func (f Filter[T]) Value() (T, bool) { return f.value, f.set }

// Match reports whether v passes the filter
func (f Filter[T]) Match(v T) bool {
	return !f.set || f.value == v
}

func (f Filter[T]) String() string {
	if !f.set {
		return AllSentinel
	}
	return fmt.Sprint(f.value)
}

// ParseYear converts "all" (or "") and decimal years into a filter
func ParseYear(s string) (Filter[int], error) {
	if s == "" || s == AllSentinel {
		return All[int](), nil
	}
	y, err := strconv.Atoi(s)
	if err != nil {
		return Filter[int]{}, fmt.Errorf("invalid year filter %q", s)
	}
	return Only(y), nil
}

// ParseMonth converts "all" (or "") and 1-indexed months into a filter
func ParseMonth(s string) (Filter[int], error) {
	if s == "" || s == AllSentinel {
		return All[int](), nil
	}
	m, err := strconv.Atoi(s)
	if err != nil || m < 1 || m > 12 {
		return Filter[int]{}, fmt.Errorf("invalid month filter %q", s)
	}
	return Only(m), nil
}

// ParseProvider converts "all" (or "") and exact provider names into a filter
func ParseProvider(s string) Filter[string] {
	if s == "" || s == AllSentinel {
		return All[string]()
	}
	return Only(s)
}
