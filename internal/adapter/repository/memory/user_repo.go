package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/tidwall/btree"
	"go.uber.org/zap"

	"user-service/internal/domain/user"
)

// UserRepoMemory implements the Repository interface on process memory.
// Records are kept in a B-tree keyed by an insertion sequence number, with a
// hash index from user ID to that sequence, so listing is ordered by creation
// and removal keeps the relative order of the remaining records.
type UserRepoMemory struct {
	mu    sync.RWMutex
	seq   uint64
	order btree.Map[uint64, user.User]
	index map[string]uint64
	log   *zap.Logger
}

// NewUserRepoMemory creates an empty in-memory user store.
func NewUserRepoMemory(log *zap.Logger) *UserRepoMemory {
	return &UserRepoMemory{
		index: make(map[string]uint64),
		log:   log,
	}
}

// Create appends a user at the end of the collection.
func (r *UserRepoMemory) Create(_ context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.index[u.ID]; exists {
		return errors.New("duplicate user id")
	}

	r.seq++
	r.order.Set(r.seq, *u)
	r.index[u.ID] = r.seq

	r.log.Debug("user stored in memory", zap.String("id", u.ID), zap.Uint64("seq", r.seq))
	return nil
}

// GetByID returns a copy of the user with the given ID.
func (r *UserRepoMemory) GetByID(_ context.Context, id string) (*user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seq, ok := r.index[id]
	if !ok {
		return nil, user.ErrNotFound
	}

	u, _ := r.order.Get(seq)
	return &u, nil
}

// Update replaces the name and email of an existing user in place.
func (r *UserRepoMemory) Update(_ context.Context, u *user.User) error {
	if u == nil {
		return errors.New("user cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seq, ok := r.index[u.ID]
	if !ok {
		return user.ErrNotFound
	}

	r.order.Set(seq, *u)
	return nil
}

// Delete removes a user, leaving the order of the others untouched.
func (r *UserRepoMemory) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	seq, ok := r.index[id]
	if !ok {
		return user.ErrNotFound
	}

	r.order.Delete(seq)
	delete(r.index, id)
	return nil
}

// List returns a snapshot of all users in insertion order.
func (r *UserRepoMemory) List(_ context.Context) ([]user.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]user.User, 0, r.order.Len())
	r.order.Scan(func(_ uint64, u user.User) bool {
		users = append(users, u)
		return true
	})

	return users, nil
}

// Len returns the number of stored users.
func (r *UserRepoMemory) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.order.Len()
}
