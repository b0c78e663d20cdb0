package extract

// Resolved is an optional value that moves from unresolved to resolved at
// most once. Later Set calls are ignored.
type Resolved[T any] struct {
	v  T
	ok bool
}

// Set stores v if nothing has been stored yet and reports whether it did.
func (r *Resolved[T]) Set(v T) bool {
	if r.ok {
		return false
	}
	r.v, r.ok = v, true
	return true
}

// Get returns the value and whether it was resolved.
func (r *Resolved[T]) Get() (T, bool) {
	return r.v, r.ok
}

// OK reports whether the value was resolved.
func (r *Resolved[T]) OK() bool {
	return r.ok
}

// Or returns the value, or def when unresolved.
func (r *Resolved[T]) Or(def T) T {
	if r.ok {
		return r.v
	}
	return def
}
