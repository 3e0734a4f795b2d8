package main

import (
	"fmt"
	"strings"

	"github.com/civsearch/civsearch/answer"
)

// AskCmd answers a question against the search index.
type AskCmd struct {
	Query  []string `arg:"" required:"" help:"The question to ask."`
	Stream bool     `help:"Print stage progress while answering."`
	TopK   int      `default:"5" help:"Number of chunks to retrieve."`
}

// Run executes the ask command.
func (c *AskCmd) Run(deps *Dependencies) error {
	query := strings.Join(c.Query, " ")

	pipeline := &answer.Pipeline{
		Generator: deps.Generator,
		Embedder:  deps.Embedder,
		Store:     deps.Store,
		Registry:  deps.Registry,
		Contacts:  deps.Contacts,
		TopK:      c.TopK,
	}

	var result *answer.Result
	var err error
	if c.Stream {
		events := make(chan answer.StageEvent, 16)
		done := make(chan struct{})
		go func() {
			defer close(done)
			for e := range events {
				fmt.Fprintf(deps.Stdout, "[%s] %s\n", e.Stage, e.Message)
			}
		}()
		result, err = pipeline.AnswerStream(deps.Ctx, query, events)
		close(events)
		<-done
	} else {
		result, err = pipeline.Answer(deps.Ctx, query)
	}
	if err != nil {
		return err
	}

	if deps.Log != nil {
		_ = deps.Log.Append(fmt.Sprintf("ask: %s", query))
	}

	fmt.Fprintln(deps.Stdout, result.Answer)
	if len(result.Citations) > 0 {
		fmt.Fprintln(deps.Stdout, "\nSources:")
		for _, url := range result.Citations {
			fmt.Fprintf(deps.Stdout, "  %s\n", url)
		}
	}
	return nil
}
