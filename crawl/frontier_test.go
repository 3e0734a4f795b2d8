package crawl_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/civsearch/civsearch"
	"github.com/civsearch/civsearch/crawl"
)

func TestFrontier_PopMarksSeen(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Push(civsearch.CrawlTarget{URL: "https://example.gov/a"})
	f.Push(civsearch.CrawlTarget{URL: "https://example.gov/a"})

	// Duplicates queued before the first pop are both enqueued; dedup
	// happens when targets are dequeued.
	first, ok := f.Pop()
	require.True(t, ok)
	assert.Equal(t, "https://example.gov/a", first.URL)

	_, ok = f.Pop()
	assert.False(t, ok, "second copy of the same URL should be skipped")
}

func TestFrontier_PushAfterSeenIsDropped(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Push(civsearch.CrawlTarget{URL: "https://example.gov/a"})
	_, ok := f.Pop()
	require.True(t, ok)

	f.Push(civsearch.CrawlTarget{URL: "https://example.gov/a", Depth: 1})
	assert.Equal(t, 0, f.Len())
}

func TestFrontier_StripsFragments(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Push(civsearch.CrawlTarget{URL: "https://example.gov/a#top"})

	target, ok := f.Pop()
	require.True(t, ok)
	assert.Equal(t, "https://example.gov/a", target.URL)
	assert.True(t, f.Seen("https://example.gov/a#bottom"))
}

func TestFrontier_FIFO(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	f.Push(civsearch.CrawlTarget{URL: "https://example.gov/a"})
	f.Push(civsearch.CrawlTarget{URL: "https://example.gov/b"})

	first, _ := f.Pop()
	second, _ := f.Pop()
	assert.Equal(t, "https://example.gov/a", first.URL)
	assert.Equal(t, "https://example.gov/b", second.URL)
}

func TestFrontier_PopEmpty(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier()
	_, ok := f.Pop()
	assert.False(t, ok)
}
