package crawl

import (
	"strings"
	"sync"

	"github.com/civsearch/civsearch"
)

// Frontier is an in-memory FIFO queue of crawl targets with deduplication.
// URLs are marked seen at dequeue time, so a URL queued twice in the same
// wave is still processed only once. Frontier is safe for concurrent use.
type Frontier struct {
	mu    sync.Mutex
	seen  map[string]bool
	queue []civsearch.CrawlTarget
}

// NewFrontier creates an empty Frontier.
func NewFrontier() *Frontier {
	return &Frontier{seen: make(map[string]bool)}
}

// Push queues a target. Fragments are stripped so URLs differing only by
// fragment are duplicates. Targets whose URL was already dequeued are
// dropped.
func (f *Frontier) Push(target civsearch.CrawlTarget) {
	target.URL = stripFragment(target.URL)

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen[target.URL] {
		return
	}
	f.queue = append(f.queue, target)
}

// Pop returns the next unseen target and marks it seen. The bool result is
// false when the frontier is empty.
func (f *Frontier) Pop() (civsearch.CrawlTarget, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for len(f.queue) > 0 {
		target := f.queue[0]
		f.queue = f.queue[1:]
		if f.seen[target.URL] {
			continue
		}
		f.seen[target.URL] = true
		return target, true
	}
	return civsearch.CrawlTarget{}, false
}

// Len returns the number of queued targets, including any queued duplicates
// of already-seen URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen reports whether the URL has been dequeued.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen[stripFragment(rawURL)]
}

func stripFragment(url string) string {
	if idx := strings.Index(url, "#"); idx != -1 {
		return url[:idx]
	}
	return url
}
