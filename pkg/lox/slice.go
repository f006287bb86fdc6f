// Package lox holds small slice helpers missing from samber/lo.
package lox

// Map converts a slice element-wise, keeping the order. Used to turn
// domain entities into their REST representations.
func Map[T, R any](collection []T, iteratee func(item T) R) []R {
	result := make([]R, len(collection))

	for i, item := range collection {
		result[i] = iteratee(item)
	}

	return result
}
