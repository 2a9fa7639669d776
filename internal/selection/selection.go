// Package selection implements nth-element partial selection.
package selection

import "golang.org/x/exp/constraints"

// Select reorders a so that a[k] holds the value that would be there if a were
// sorted, every element before it is <= a[k] and every element after it is >= a[k].
// It returns a[k]. Runs in expected linear time. Panics if k is out of range.
func Select[T constraints.Ordered](a []T, k int) T {
	lo, hi := 0, len(a)-1
	for lo < hi {
		p := partition(a, lo, hi)
		switch {
		case k == p:
			return a[k]
		case k < p:
			hi = p - 1
		default:
			lo = p + 1
		}
	}
	return a[k]
}

// Median returns the median of a, reordering a in the process.
// For an even count it is the mean of the two distinct central order statistics.
// The median of an empty slice is 0.
func Median[T constraints.Float](a []T) T {
	n := len(a)
	if n == 0 {
		return 0
	}

	upper := Select(a, n/2)
	if n%2 == 1 {
		return upper
	}

	// After selection a[:n/2] holds the lower half, its maximum is order statistic n/2-1
	lower := a[0]
	for _, v := range a[1 : n/2] {
		if v > lower {
			lower = v
		}
	}
	return (lower + upper) / 2
}

// partition splits a[lo:hi+1] around a median-of-three pivot and returns its final index
func partition[T constraints.Ordered](a []T, lo, hi int) int {
	mid := lo + (hi-lo)/2
	if a[mid] < a[lo] {
		a[mid], a[lo] = a[lo], a[mid]
	}
	if a[hi] < a[lo] {
		a[hi], a[lo] = a[lo], a[hi]
	}
	if a[hi] < a[mid] {
		a[hi], a[mid] = a[mid], a[hi]
	}

	// Pivot moves to hi, Lomuto scheme
	a[mid], a[hi] = a[hi], a[mid]
	pivot := a[hi]
	store := lo
	for i := lo; i < hi; i++ {
		if a[i] < pivot {
			a[i], a[store] = a[store], a[i]
			store++
		}
	}
	a[store], a[hi] = a[hi], a[store]
	return store
}
