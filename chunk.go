package civsearch

// DefaultChunkSize is the default chunk length in characters. Sized to make
// good use of large LLM context windows.
const DefaultChunkSize = 8192

// Chunk is a fixed-size span of source text prepared for embedding.
type Chunk struct {
	Text      string
	SourceURL string
	IndexedAt string // RFC 3339
}

// ChunkText splits text into non-overlapping spans of at most size characters,
// in document order. All spans except the last have exactly size characters;
// concatenating the result reconstructs text. Empty text yields nil.
// Splitting counts runes, not bytes, so multi-byte characters are never cut.
func ChunkText(text string, size int) []string {
	if text == "" || size <= 0 {
		return nil
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+size-1)/size)
	for start := 0; start < len(runes); start += size {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
	}
	return chunks
}
