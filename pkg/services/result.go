package services

// Result makes the "content is absent" path explicit: a repository call
// either holds a value (Ok) or is Empty. Fetch failures are downgraded to
// Empty at the repository boundary.
type Result[T any] struct {
	value T
	ok    bool
}

func Ok[T any](v T) Result[T] { return Result[T]{value: v, ok: true} }

func Empty[T any]() Result[T] { return Result[T]{} }

// Get returns the value and whether it is present.
func (r Result[T]) Get() (T, bool) { return r.value, r.ok }

func (r Result[T]) IsEmpty() bool { return !r.ok }

// OrElse returns the value, or def when empty.
func (r Result[T]) OrElse(def T) T {
	if !r.ok {
		return def
	}
	return r.value
}
