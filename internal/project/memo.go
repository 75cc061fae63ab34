package project

// memo is a deferred-initialization field: computed on first read and
// cached for the owner's lifetime. The report runs single-threaded, so
// no locking is needed.
type memo[T any] struct {
	computed bool
	value    T
}

func (m *memo[T]) get(compute func() T) T {
	if !m.computed {
		m.value = compute()
		m.computed = true
	}
	return m.value
}

// invalidate drops the cached value so the next read recomputes it.
func (m *memo[T]) invalidate() {
	var zero T
	m.computed = false
	m.value = zero
}
