// Command civsearch crawls a municipal website into a semantic search
// index and answers resident questions against it.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

func main() {
	// A missing .env file is fine; flags and the environment still apply.
	_ = godotenv.Load()

	ctx := context.Background()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Deps overrides dependency wiring, mainly for tests. When nil,
	// dependencies are wired from CLI flags per command.
	Deps *Dependencies
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Crawl   CrawlCmd   `cmd:"" help:"Crawl a website and build the search index."`
	Ask     AskCmd     `cmd:"" help:"Ask a question against the search index."`
	Indexes IndexesCmd `cmd:"" help:"Manage registered search indexes."`
	Logs    LogsCmd    `cmd:"" help:"Show recent pipeline events."`

	Backend      string `enum:"ollama,gemini" default:"ollama" env:"CIVSEARCH_BACKEND" help:"Model backend (ollama or gemini)."`
	OllamaURL    string `default:"http://localhost:11434" env:"OLLAMA_URL" help:"Ollama server URL."`
	GeminiAPIKey string `env:"GEMINI_API_KEY" help:"Gemini API key (gemini backend only)."`
	MilvusURL    string `default:"http://localhost:19530" env:"MILVUS_URL" help:"Milvus server URL."`
	MilvusToken  string `env:"MILVUS_TOKEN" help:"Milvus authorization token."`
	RegistryPath string `default:"civsearch.db" env:"CIVSEARCH_REGISTRY" help:"Index registry database path."`
	LogPath      string `default:"civsearch.log" env:"CIVSEARCH_LOG" help:"Event log path."`
	ContactsPath string `default:"contacts.yaml" env:"CIVSEARCH_CONTACTS" help:"Department contacts YAML path."`
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("civsearch"),
		kong.Description("Semantic search over a public website"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no arguments provided")
	}
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	deps := m.Deps
	if deps == nil {
		wired, cleanup, err := wireDependencies(ctx, cli, stderr)
		if err != nil {
			return err
		}
		defer cleanup()
		deps = wired
	}
	deps.Ctx = ctx
	deps.Stdout = stdout
	deps.Stderr = stderr

	return ktx.Run(deps)
}
