package user

import "context"

type indexHintKey struct{}

// WithIndexHint records where the user with id was last seen in the collection.
// Repositories may try the hint first but must re-check the id, since the
// collection can shift between resolving the index and using it.
func WithIndexHint(ctx context.Context, id int64, index int) context.Context {
	return context.WithValue(ctx, indexHintKey{}, IndexHint{ID: id, Index: index})
}

// IndexHint is a remembered position of a user record.
type IndexHint struct {
	ID    int64
	Index int
}

// IndexHintFrom returns the hint stored in ctx for id, if any.
func IndexHintFrom(ctx context.Context, id int64) (int, bool) {
	h, ok := ctx.Value(indexHintKey{}).(IndexHint)
	if !ok || h.ID != id {
		return -1, false
	}
	return h.Index, true
}
