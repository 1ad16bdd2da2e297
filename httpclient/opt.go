package httpclient

// Opt is an optional configuration value. The zero Opt is unset; Set marks a
// value as present so that it takes part in layering.
type Opt[T any] struct {
	value T
	set   bool
}

// Set returns an Opt holding v.
func Set[T any](v T) Opt[T] {
	return Opt[T]{value: v, set: true}
}

// IsSet reports whether the value is present.
func (o Opt[T]) IsSet() bool { return o.set }

// Get returns the value and whether it is present.
func (o Opt[T]) Get() (T, bool) { return o.value, o.set }

// Or returns the value, or def when unset.
func (o Opt[T]) Or(def T) T {
	if o.set {
		return o.value
	}
	return def
}

// Value returns the value, or the zero value when unset.
func (o Opt[T]) Value() T { return o.value }

// overlay returns next when it is set, otherwise o.
func (o Opt[T]) overlay(next Opt[T]) Opt[T] {
	if next.set {
		return next
	}
	return o
}
