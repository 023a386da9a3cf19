// Package fn contains the functional types used by the augmentation API.
package fn

// Predicate represents a function deciding whether a value is acceptable.
type Predicate[T any] func(value T) bool

// CheckedPredicate represents a predicate that can itself fail.
//
// A returned error means the predicate is broken, not that the value is invalid.
type CheckedPredicate[T any] func(value T) (bool, error)

// Mapper represents a function that rewrites a value.
type Mapper[T any] func(value T) T

// Consumer represents a function that accepts a value and returns no result.
type Consumer[T any] func(value T)

// AllConsumer creates a consumer that will execute all the given consumers.
func AllConsumer[T any](consumers ...Consumer[T]) Consumer[T] {
	return func(value T) {
		for _, consumer := range consumers {
			consumer(value)
		}
	}
}

// Not returns a predicate negating the given predicate.
func Not[T any](predicate Predicate[T]) Predicate[T] {
	return func(value T) bool {
		return !predicate(value)
	}
}
