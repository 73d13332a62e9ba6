package timezone

import "encoding/json"

// Entry is a single timezone record. Offset is expressed in minutes east of UTC.
type Entry struct {
	Slug   string `json:"slug" validate:"required"`
	Offset int    `json:"offset" validate:"min=-840,max=840"`
}

// ContinentGroup keeps the entries of one continent in their upstream order.
type ContinentGroup []Entry

// CacheState is the normalized cache shape and the unit that gets persisted.
// Both fields are always non-nil, even when empty.
type CacheState struct {
	RawOffsets           []int                     `json:"rawOffsets"`
	TimezonesByContinent map[string]ContinentGroup `json:"timezonesByContinent"`
}

// Empty returns the empty cache state.
func Empty() CacheState {
	return CacheState{
		RawOffsets:           []int{},
		TimezonesByContinent: map[string]ContinentGroup{},
	}
}

// IsComplete reports whether both fields are present.
func (s CacheState) IsComplete() bool {
	return s.RawOffsets != nil && s.TimezonesByContinent != nil
}

// Continents returns the number of continents held.
func (s CacheState) Continents() int {
	return len(s.TimezonesByContinent)
}

// Entries returns the total number of timezone entries across all continents.
func (s CacheState) Entries() int {
	n := 0
	for _, group := range s.TimezonesByContinent {
		n += len(group)
	}
	return n
}

// Clone deep-copies the state so callers never share slices or maps with the holder.
func (s CacheState) Clone() CacheState {
	if !s.IsComplete() {
		return Empty()
	}
	out := CacheState{
		RawOffsets:           append([]int{}, s.RawOffsets...),
		TimezonesByContinent: make(map[string]ContinentGroup, len(s.TimezonesByContinent)),
	}
	for continent, group := range s.TimezonesByContinent {
		out.TimezonesByContinent[continent] = append(ContinentGroup{}, group...)
	}
	return out
}

// MarshalJSON keeps the wire shape complete even for a zero-value state.
func (g ContinentGroup) MarshalJSON() ([]byte, error) {
	if g == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Entry(g))
}
