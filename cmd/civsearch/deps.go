package main

import (
	"context"
	"fmt"
	"io"

	"google.golang.org/genai"

	"github.com/civsearch/civsearch"
	"github.com/civsearch/civsearch/crawl"
	"github.com/civsearch/civsearch/docling"
	"github.com/civsearch/civsearch/fs"
	"github.com/civsearch/civsearch/gemini"
	"github.com/civsearch/civsearch/goquery"
	"github.com/civsearch/civsearch/htmltomarkdown"
	civhttp "github.com/civsearch/civsearch/http"
	"github.com/civsearch/civsearch/milvus"
	"github.com/civsearch/civsearch/ollama"
	"github.com/civsearch/civsearch/sqlite"
)

// Dependencies carries the wired service implementations into commands.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Embedder  civsearch.Embedder
	Generator civsearch.Generator
	Describer civsearch.ImageDescriber

	Store    civsearch.VectorStore
	Registry civsearch.RegistryService
	Log      civsearch.EventLog
	Contacts []civsearch.Contact

	Fetcher    civsearch.Fetcher
	Bytes      civsearch.BytesFetcher
	Links      civsearch.LinkExtractor
	Text       civsearch.TextExtractor
	Sitemaps   civsearch.SitemapService
	Downloader civsearch.Downloader
	Converter  civsearch.FileConverter
}

// wireDependencies builds the real service graph from CLI flags. The
// returned cleanup closes the registry database.
func wireDependencies(ctx context.Context, cli *CLI, stderr io.Writer) (*Dependencies, func(), error) {
	deps := &Dependencies{}

	switch cli.Backend {
	case "gemini":
		if cli.GeminiAPIKey == "" {
			return nil, nil, fmt.Errorf("GEMINI_API_KEY is required for the gemini backend")
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  cli.GeminiAPIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("creating gemini client: %w", err)
		}
		g := gemini.NewClient(client)
		deps.Embedder, deps.Generator, deps.Describer = g, g, g
	default:
		o := ollama.NewClient(ollama.WithBaseURL(cli.OllamaURL))
		deps.Embedder, deps.Generator, deps.Describer = o, o, o
	}

	deps.Store = milvus.NewStore(
		milvus.WithBaseURL(cli.MilvusURL),
		milvus.WithToken(cli.MilvusToken),
	)

	db := sqlite.NewDB(cli.RegistryPath)
	if err := db.Open(); err != nil {
		return nil, nil, fmt.Errorf("opening registry: %w", err)
	}
	deps.Registry = sqlite.NewRegistryService(db)

	deps.Log = fs.NewEventLog(cli.LogPath)

	contacts, err := fs.LoadContacts(cli.ContactsPath)
	if err != nil {
		fmt.Fprintf(stderr, "warning: %v\n", err)
	}
	deps.Contacts = contacts

	fetcher := civhttp.NewFetcher()
	deps.Fetcher = fetcher
	deps.Bytes = fetcher
	extractor := goquery.NewExtractor()
	deps.Links = extractor
	deps.Text = extractor
	deps.Sitemaps = civhttp.NewSitemapService(nil)
	deps.Downloader = civhttp.NewDownloader(nil)
	deps.Converter = &crawl.ConverterMux{
		HTML:     htmltomarkdown.NewConverter(),
		Document: docling.NewConverter(),
	}

	return deps, func() { _ = db.Close() }, nil
}
