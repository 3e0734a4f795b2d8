package civsearch

import (
	"context"
	"net/url"
	"strings"
)

// EmbeddingDim is the fixed dimensionality of all stored embeddings.
const EmbeddingDim = 768

// DefaultIndexName is the index used when a crawl does not name one.
const DefaultIndexName = "site_documents"

// IndexEntry is one embedded chunk as persisted in the vector store.
// The store assigns the entry ID; it is never reused.
type IndexEntry struct {
	Embedding []float32 `json:"embedding"`
	Text      string    `json:"text"`
	URL       string    `json:"url"`
	Date      string    `json:"date"` // RFC 3339, time of indexing
	Section   string    `json:"section"`
}

// SearchMatch is one ranked similarity-search result.
type SearchMatch struct {
	Text    string
	URL     string
	Date    string
	Section string
	Score   float64
}

// VectorStore is the boundary to the external vector database.
// One logical collection exists per index name.
type VectorStore interface {
	// EnsureIndex creates and loads the collection for name if it does not
	// exist. It is the only call whose failure is fatal to an ingestion run.
	EnsureIndex(ctx context.Context, name string) error

	// Insert writes entries into the named index as one batch.
	Insert(ctx context.Context, name string, entries []IndexEntry) error

	// Search returns the topK entries nearest to vector. If section is
	// non-empty, results are restricted to entries with that exact section.
	Search(ctx context.Context, name string, vector []float32, topK int, section string) ([]SearchMatch, error)

	// Sections returns the distinct section values present in the index.
	Sections(ctx context.Context, name string) ([]string, error)
}

// SectionFromURL derives the section grouping for an indexed URL: the first
// segment of the URL path (e.g. "/permits" for
// https://example.gov/permits/building). Root pages and local file paths
// yield "".
func SectionFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	p := strings.TrimPrefix(u.Path, "/")
	if p == "" {
		return ""
	}
	if i := strings.Index(p, "/"); i != -1 {
		p = p[:i]
	}
	if p == "" {
		return ""
	}
	return "/" + p
}

// IndexError records one per-item ingestion failure.
type IndexError struct {
	Source  string `json:"source"` // URL or local file path
	Message string `json:"message"`
}

// IndexSummary reports the outcome of one ingestion run.
// It is immutable once returned.
type IndexSummary struct {
	PagesCrawled    int          `json:"pagesCrawled"`
	FilesFound      int          `json:"filesFound"`
	FilesDownloaded int          `json:"filesDownloaded"`
	FilesProcessed  int          `json:"filesProcessed"`
	FilesFailed     int          `json:"filesFailed"`
	ChunksIndexed   int          `json:"chunksIndexed"`
	Errors          []IndexError `json:"errors,omitempty"`
}
