package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"rest-user-service/internal/domain/user"
	apperrors "rest-user-service/pkg/errors"
)

// UserRepository keeps users in an ordered slice guarded by a RWMutex.
// Every method is atomic with respect to the others.
type UserRepository struct {
	mu    sync.RWMutex
	users []user.User
	log   *zap.Logger
}

// NewUserRepository creates a repository holding a copy of seed.
func NewUserRepository(seed []user.User, log *zap.Logger) *UserRepository {
	return &UserRepository{
		users: slices.Clone(seed),
		log:   log,
	}
}

func notFound() error {
	return apperrors.NewNotFoundError("user", "")
}

// indexOf must be called with mu held. A position hint from ctx is used when
// it still points at id, otherwise the slice is scanned.
func (r *UserRepository) indexOf(ctx context.Context, id int64) int {
	if idx, ok := user.IndexHintFrom(ctx, id); ok && idx >= 0 && idx < len(r.users) && r.users[idx].ID == id {
		return idx
	}
	return slices.IndexFunc(r.users, func(u user.User) bool { return u.ID == id })
}

// List returns the users matching f in collection order.
func (r *UserRepository) List(ctx context.Context, f user.Filter) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]user.User, 0, len(r.users))
	for _, u := range r.users {
		if f.Matches(u) {
			out = append(out, u)
		}
	}
	return out, nil
}

// IndexOf returns the position of the user with the given id.
func (r *UserRepository) IndexOf(ctx context.Context, id int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(ctx, id)
	if idx == -1 {
		return -1, notFound()
	}
	return idx, nil
}

// GetByID returns a copy of the user with the given id.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx := r.indexOf(ctx, id)
	if idx == -1 {
		return nil, notFound()
	}
	u := r.users[idx]
	return &u, nil
}

// Create appends u with the next free id and returns the stored record.
func (r *UserRepository) Create(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	created := *u
	created.ID = user.NextID(r.users)
	r.users = append(r.users, created)

	r.log.Debug("user stored", zap.Int64("id", created.ID), zap.Int("count", len(r.users)))
	return &created, nil
}

// Replace overwrites the record with u.ID in place.
func (r *UserRepository) Replace(ctx context.Context, u *user.User) (*user.User, error) {
	if u == nil {
		return nil, errors.New("user cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(ctx, u.ID)
	if idx == -1 {
		return nil, notFound()
	}
	r.users[idx] = *u

	replaced := r.users[idx]
	return &replaced, nil
}

// Patch merges p into the record with the given id.
func (r *UserRepository) Patch(ctx context.Context, id int64, p user.Patch) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(ctx, id)
	if idx == -1 {
		return nil, notFound()
	}
	p.Apply(&r.users[idx])

	patched := r.users[idx]
	return &patched, nil
}

// Delete removes the record with the given id, keeping the order of the rest.
func (r *UserRepository) Delete(ctx context.Context, id int64) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := r.indexOf(ctx, id)
	if idx == -1 {
		return nil, notFound()
	}
	removed := r.users[idx]
	r.users = slices.Delete(r.users, idx, idx+1)

	r.log.Debug("user removed", zap.Int64("id", id), zap.Int("count", len(r.users)))
	return &removed, nil
}
