package users

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/rosterctl/internal/common"
)

// MemoryRepository keeps accounts in process memory. Used when no database
// is configured and in tests.
type MemoryRepository struct {
	mu     sync.RWMutex
	users  map[int64]*User
	nextID int64
	now    func() time.Time
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[int64]*User), nextID: 1, now: time.Now}
}

func (r *MemoryRepository) Create(_ context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, user.Email) {
			return nil, common.ErrorAlreadyExists
		}
	}

	u := *user
	u.ID = r.nextID
	r.nextID++
	if u.Status == "" {
		u.Status = StatusUnverified
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = r.now().UTC()
	}
	r.users[u.ID] = &u

	out := u
	return &out, nil
}

func (r *MemoryRepository) GetByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			out := *u
			return &out, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *MemoryRepository) GetByID(_ context.Context, id int64) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (r *MemoryRepository) List(_ context.Context) ([]User, error) {
	r.mu.RLock()
	out := make([]User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, *u)
	}
	r.mu.RUnlock()

	slices.SortFunc(out, compareByLastLogin)
	return out, nil
}

func compareByLastLogin(a, b User) int {
	switch {
	case a.LastLogin != nil && b.LastLogin == nil:
		return -1
	case a.LastLogin == nil && b.LastLogin != nil:
		return 1
	case a.LastLogin != nil && !a.LastLogin.Equal(*b.LastLogin):
		return b.LastLogin.Compare(*a.LastLogin)
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	}
	return 0
}

func (r *MemoryRepository) Verify(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	if u.Status == StatusUnverified {
		u.Status = StatusActive
	}
	return nil
}

func (r *MemoryRepository) TouchLogin(_ context.Context, id int64, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.users[id]
	if !ok {
		return common.ErrorNotFound
	}
	t := at.UTC()
	u.LastLogin = &t
	return nil
}

func (r *MemoryRepository) SetStatus(_ context.Context, ids []int64, status Status, from ...Status) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, id := range uniqueIDs(ids) {
		u, ok := r.users[id]
		if !ok {
			continue
		}
		if len(from) > 0 && !slices.Contains(from, u.Status) {
			continue
		}
		u.Status = status
		n++
	}
	return n, nil
}

func (r *MemoryRepository) Delete(_ context.Context, ids []int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, id := range uniqueIDs(ids) {
		if _, ok := r.users[id]; ok {
			delete(r.users, id)
			n++
		}
	}
	return n, nil
}

func (r *MemoryRepository) DeleteUnverified(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, u := range r.users {
		if u.Status == StatusUnverified {
			delete(r.users, id)
			n++
		}
	}
	return n, nil
}

func uniqueIDs(ids []int64) []int64 {
	out := slices.Clone(ids)
	slices.Sort(out)
	return slices.Compact(out)
}
