// Package bloom provides probabilistic URL set membership for crawl-time
// deduplication of discovered file links, where a rare false positive only
// skips a duplicate download.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Set tracks URLs already seen. False positives are possible;
// false negatives are not.
type Set struct {
	f *bloom.BloomFilter
}

// NewSet creates a Set sized for n expected URLs with the given
// false positive rate.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{f: bloom.NewWithEstimates(n, fpRate)}
}

// Add records a URL.
func (s *Set) Add(url string) {
	s.f.AddString(url)
}

// Contains reports whether the URL might have been added.
func (s *Set) Contains(url string) bool {
	return s.f.TestString(url)
}

// TestAndAdd records the URL and reports whether it might have been
// added before.
func (s *Set) TestAndAdd(url string) bool {
	return s.f.TestAndAddString(url)
}
