// Package favorites keeps the client's favorites mirror in line with the server.
package favorites

import (
	"sort"
	"sync"

	"github.com/samber/lo"

	"github.com/osa030/jukeclient/internal/domain/song"
)

// Set is the client-side mirror of the user's favorite song IDs.
type Set struct {
	mu  sync.RWMutex
	ids map[int64]struct{}
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{ids: make(map[int64]struct{})}
}

// Has reports whether id is marked favorite.
func (s *Set) Has(id int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.ids[id]
	return ok
}

// Add marks id as favorite.
func (s *Set) Add(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids[id] = struct{}{}
}

// Remove unmarks id.
func (s *Set) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.ids, id)
}

// Replace swaps the whole set for the IDs of favs.
func (s *Set) Replace(favs song.List) {
	ids := lo.SliceToMap(favs, func(f song.Song) (int64, struct{}) { return f.ID, struct{}{} })

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = ids
}

// IDs returns the marked IDs in ascending order.
func (s *Set) IDs() []int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := lo.Keys(s.ids)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Len returns the number of marked IDs.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}
