package watch

import "context"

// Source is a lazy fetch for one listing query: the resolved path and filter
// are captured at construction and no I/O happens until Fetch is called.
// Resource handles return Sources from their child accessors; a Collection
// built over a Source does the actual fetching.
type Source[T Record] struct {
	desc  string
	fetch FetchFunc[T]
}

func NewSource[T Record](desc string, fetch FetchFunc[T]) Source[T] {
	return Source[T]{desc: desc, fetch: fetch}
}

// Fetch executes the captured query and returns the current full result set.
func (s Source[T]) Fetch(ctx context.Context) ([]T, error) {
	return s.fetch(ctx)
}

// String identifies the source in logs, typically the request path.
func (s Source[T]) String() string {
	return s.desc
}
