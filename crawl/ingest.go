package crawl

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/civsearch/civsearch"
)

// DefaultConvertConcurrency bounds parallel file conversions. Conversion is
// CPU and subprocess heavy, so it gets its own limit separate from fetching.
const DefaultConvertConcurrency = 4

// Pipeline runs a full index build: crawl the site, download and convert
// linked files, chunk and embed everything, and write one batch into the
// vector store.
type Pipeline struct {
	Crawler    *Crawler
	Downloader civsearch.Downloader
	Converter  civsearch.FileConverter
	Embedder   civsearch.Embedder
	Store      civsearch.VectorStore
	Registry   civsearch.RegistryService // optional, registers the index
	Log        civsearch.EventLog

	IndexName          string
	DownloadDir        string
	ChunkSize          int
	ConvertConcurrency int
}

// document is one unit of text headed for the index.
type document struct {
	text string
	url  string
}

// Run executes the pipeline and returns a summary of what was indexed.
// Per-item failures are aggregated in the summary; only an unreachable
// vector store, an invalid base URL, or a canceled context aborts the run.
func (p *Pipeline) Run(ctx context.Context, baseURL string, progress ProgressFunc) (*civsearch.IndexSummary, error) {
	indexName := p.IndexName
	if indexName == "" {
		indexName = civsearch.DefaultIndexName
	}
	chunkSize := p.ChunkSize
	if chunkSize <= 0 {
		chunkSize = civsearch.DefaultChunkSize
	}

	runID := uuid.New().String()[:8]
	p.logf("run %s: indexing %s into %q", runID, baseURL, indexName)

	// The index must exist before any crawling effort is spent.
	if err := p.Store.EnsureIndex(ctx, indexName); err != nil {
		p.logf("run %s: aborted: %v", runID, err)
		return nil, err
	}
	p.registerIndex(ctx, indexName, baseURL)

	summary := &civsearch.IndexSummary{}

	crawlResult, err := p.Crawler.Crawl(ctx, baseURL, progress)
	if err != nil {
		p.logf("run %s: crawl failed: %v", runID, err)
		return nil, err
	}
	summary.PagesCrawled = len(crawlResult.Pages)
	summary.FilesFound = len(crawlResult.Files)
	summary.Errors = append(summary.Errors, crawlResult.Errors...)
	p.logf("run %s: crawled %d pages, found %d files", runID, summary.PagesCrawled, summary.FilesFound)

	docs := make([]document, 0, len(crawlResult.Pages))
	for _, page := range crawlResult.Pages {
		text := page.FullText()
		if text == "" {
			continue
		}
		docs = append(docs, document{text: text, url: page.URL})
	}

	fileDocs := p.processFiles(ctx, runID, crawlResult.Files, summary, progress)
	docs = append(docs, fileDocs...)

	entries := p.embed(ctx, docs, chunkSize, progress)
	if len(entries) == 0 {
		p.logf("run %s: nothing to index", runID)
		if progress != nil {
			progress(ProgressEvent{Type: ProgressFinished})
		}
		return summary, nil
	}

	if progress != nil {
		progress(ProgressEvent{Type: ProgressIndexing, Completed: len(entries)})
	}
	if err := p.Store.Insert(ctx, indexName, entries); err != nil {
		summary.Errors = append(summary.Errors, civsearch.IndexError{
			Source:  indexName,
			Message: fmt.Sprintf("inserting %d chunks: %v", len(entries), err),
		})
		p.logf("run %s: insert failed: %v", runID, err)
	} else {
		summary.ChunksIndexed = len(entries)
	}

	p.logf("run %s: done: %d pages, %d/%d files, %d chunks, %d errors",
		runID, summary.PagesCrawled, summary.FilesProcessed, summary.FilesFound,
		summary.ChunksIndexed, len(summary.Errors))

	if progress != nil {
		progress(ProgressEvent{Type: ProgressFinished, Completed: len(entries)})
	}
	return summary, nil
}

// processFiles downloads and converts discovered files, returning one
// document per successfully converted file. Failures are recorded in the
// summary and the file is skipped.
func (p *Pipeline) processFiles(ctx context.Context, runID string, files []string, summary *civsearch.IndexSummary, progress ProgressFunc) []document {
	if len(files) == 0 || p.Downloader == nil || p.Converter == nil {
		return nil
	}

	concurrency := p.ConvertConcurrency
	if concurrency <= 0 {
		concurrency = DefaultConvertConcurrency
	}

	var mu sync.Mutex
	var docs []document

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for _, fileURL := range files {
		fileURL := fileURL
		g.Go(func() error {
			if progress != nil {
				progress(ProgressEvent{Type: ProgressDownloading, URL: fileURL})
			}
			path, err := p.Downloader.Download(gctx, fileURL, p.DownloadDir)
			if err != nil {
				mu.Lock()
				summary.FilesFailed++
				summary.Errors = append(summary.Errors, civsearch.IndexError{
					Source:  fileURL,
					Message: fmt.Sprintf("downloading: %v", err),
				})
				mu.Unlock()
				return nil
			}
			mu.Lock()
			summary.FilesDownloaded++
			mu.Unlock()

			if progress != nil {
				progress(ProgressEvent{Type: ProgressConverting, URL: fileURL})
			}
			text, err := p.Converter.Convert(gctx, path)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				summary.FilesFailed++
				summary.Errors = append(summary.Errors, civsearch.IndexError{
					Source:  fileURL,
					Message: fmt.Sprintf("converting: %v", err),
				})
				return nil
			}
			summary.FilesProcessed++
			if text != "" {
				docs = append(docs, document{text: text, url: fileURL})
			}
			return nil
		})
	}
	_ = g.Wait()

	p.logf("run %s: processed %d/%d files", runID, summary.FilesProcessed, len(files))
	return docs
}

// embed chunks each document and embeds the chunks. A chunk whose embedding
// fails is dropped; the rest of its document still gets indexed.
func (p *Pipeline) embed(ctx context.Context, docs []document, chunkSize int, progress ProgressFunc) []civsearch.IndexEntry {
	date := time.Now().Format("2006-01-02")

	var entries []civsearch.IndexEntry
	for _, doc := range docs {
		section := civsearch.SectionFromURL(doc.url)
		for _, chunk := range civsearch.ChunkText(doc.text, chunkSize) {
			if err := ctx.Err(); err != nil {
				return entries
			}
			if progress != nil {
				progress(ProgressEvent{Type: ProgressEmbedding, URL: doc.url, Completed: len(entries)})
			}
			vector, err := p.Embedder.Embed(ctx, chunk)
			if err != nil || len(vector) == 0 {
				continue
			}
			entries = append(entries, civsearch.IndexEntry{
				Embedding: vector,
				Text:      chunk,
				URL:       doc.url,
				Date:      date,
				Section:   section,
			})
		}
	}
	return entries
}

// registerIndex records the index in the registry so the answer pipeline
// can select it. Registration failure is logged but does not abort the run.
func (p *Pipeline) registerIndex(ctx context.Context, indexName, baseURL string) {
	if p.Registry == nil {
		return
	}
	domain := ""
	if parsed, err := url.Parse(baseURL); err == nil {
		domain = parsed.Host
	}
	info := civsearch.IndexInfo{
		Name:        indexName,
		Description: fmt.Sprintf("Pages and documents from %s", domain),
		Domain:      domain,
	}
	if err := p.Registry.Register(ctx, info); err != nil {
		p.logf("registering index %q: %v", indexName, err)
	}
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Log == nil {
		return
	}
	_ = p.Log.Append(fmt.Sprintf(format, args...))
}
