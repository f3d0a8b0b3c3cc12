package utils

// URLSet counts how often each link was seen during a run.
type URLSet struct {
	seen map[string]int
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]int)}
}

// Add records one more sighting of url.
func (s *URLSet) Add(url string) {
	s.seen[url]++
}

// Repeated returns every URL added more than once with its total count.
func (s *URLSet) Repeated() map[string]int {
	out := make(map[string]int)
	for url, n := range s.seen {
		if n > 1 {
			out[url] = n
		}
	}
	return out
}
