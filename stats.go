package mddiff

// Stats holds statistical metadata about a comparison
type Stats struct {
	Visited  int `json:"visited"`  // count of keys from the new document examined
	MaxDepth int `json:"maxDepth"` // deepest nesting level visited, the root is 1

	Added    int `json:"added,omitempty"`    // keys missing from the old document
	Changed  int `json:"changed,omitempty"`  // values that differ under the active mode
	Replaced int `json:"replaced,omitempty"` // documents swapped for scalars & vice versa
}

// Differences is the number of entries reported at any level
func (s Stats) Differences() int {
	return s.Added + s.Changed + s.Replaced
}

// PctChanged returns a value from 0.0 to 1.0 representing the share of
// visited keys that were reported
func (s Stats) PctChanged() float64 {
	if s.Visited == 0 {
		return 0
	}
	return float64(s.Differences()) / float64(s.Visited)
}
