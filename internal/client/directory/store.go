// Package directory holds the fetched roster and the operator's multi-select.
package directory

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/rosterctl/internal/client/models"
)

// Source fetches the full roster from the directory service.
type Source interface {
	FetchAllUsers(ctx context.Context) ([]models.Identity, error)
}

type Store struct {
	mu       sync.RWMutex
	users    []models.Identity
	index    map[int64]int
	selected map[int64]struct{}
	loading  bool
}

func NewStore() *Store {
	return &Store{
		index:    map[int64]int{},
		selected: map[int64]struct{}{},
	}
}

// ReplaceUsers overwrites the roster in server order. Selected ids that are
// no longer in the roster are dropped; the rest of the selection survives.
func (s *Store) ReplaceUsers(list []models.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = slices.Clone(list)
	s.index = make(map[int64]int, len(list))
	for i, u := range s.users {
		s.index[u.ID] = i
	}
	for id := range s.selected {
		if _, ok := s.index[id]; !ok {
			delete(s.selected, id)
		}
	}
}

// ToggleSelection flips id in the selection and reports whether it is now
// selected. Ids missing from the roster cannot be selected.
func (s *Store) ToggleSelection(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selected[id]; ok {
		delete(s.selected, id)
		return false
	}
	if _, ok := s.index[id]; !ok {
		return false
	}
	s.selected[id] = struct{}{}
	return true
}

// SetSelection replaces the selection with the roster members among ids.
func (s *Store) SetSelection(ids []int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := s.index[id]; ok {
			s.selected[id] = struct{}{}
		}
	}
}

// SelectAll selects exactly the current roster.
func (s *Store) SelectAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.selected = make(map[int64]struct{}, len(s.users))
	for _, u := range s.users {
		s.selected[u.ID] = struct{}{}
	}
}

func (s *Store) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = map[int64]struct{}{}
}

// Selected returns the selected ids in ascending order.
func (s *Store) Selected() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]int64, 0, len(s.selected))
	for id := range s.selected {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

func (s *Store) SelectedCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.selected)
}

func (s *Store) IsSelected(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.selected[id]
	return ok
}

// Users returns a copy of the roster.
func (s *Store) Users() []models.Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.users)
}

func (s *Store) Lookup(id int64) (models.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return models.Identity{}, false
	}
	return s.users[i], true
}

func (s *Store) SetLoading(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = v
}

func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Sync refreshes the roster from src. Loading is raised for the duration of
// the fetch and lowered on every outcome; on error the roster is untouched.
func (s *Store) Sync(ctx context.Context, src Source) error {
	s.SetLoading(true)
	defer s.SetLoading(false)

	users, err := src.FetchAllUsers(ctx)
	if err != nil {
		return err
	}
	s.ReplaceUsers(users)
	return nil
}
