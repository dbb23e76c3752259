package song

import "github.com/samber/lo"

// List is an ordered, server-owned sequence of songs (catalogue, queue or history).
type List []Song

// IDs returns all song IDs in order.
func (l List) IDs() []int64 {
	return lo.Map(l, func(s Song, _ int) int64 { return s.ID })
}

// Contains reports whether a song with the given ID is in the list.
func (l List) Contains(id int64) bool {
	return lo.ContainsBy(l, func(s Song) bool { return s.ID == id })
}

// Find returns the song with the given ID.
func (l List) Find(id int64) (Song, bool) {
	return lo.Find(l, func(s Song) bool { return s.ID == id })
}

// TotalDuration returns the total duration of all songs in seconds.
func (l List) TotalDuration() int64 {
	return lo.SumBy(l, func(s Song) int64 { return int64(s.DurationSec) })
}

// Clone returns a copy that does not share the backing array.
func (l List) Clone() List {
	if l == nil {
		return List{}
	}
	out := make(List, len(l))
	copy(out, l)
	return out
}
