package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/civsearch/civsearch"
)

// IndexesCmd manages the index registry.
type IndexesCmd struct {
	List IndexesListCmd `cmd:"" default:"1" help:"List registered search indexes."`
	Add  IndexesAddCmd  `cmd:"" help:"Register a search index."`
}

// IndexesListCmd lists registered indexes in registration order.
type IndexesListCmd struct{}

// Run executes the list command.
func (c *IndexesListCmd) Run(deps *Dependencies) error {
	indexes, err := deps.Registry.List(deps.Ctx)
	if err != nil {
		return err
	}
	if len(indexes) == 0 {
		fmt.Fprintln(deps.Stdout, "No indexes registered.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDESCRIPTION\tDOMAIN")
	for _, info := range indexes {
		fmt.Fprintf(w, "%s\t%s\t%s\n", info.Name, info.Description, info.Domain)
	}
	return w.Flush()
}

// IndexesAddCmd registers an index, updating it if the name exists.
type IndexesAddCmd struct {
	Name        string `arg:"" required:"" help:"Index name."`
	Description string `help:"What the index contains."`
	Domain      string `help:"Website domain the index covers."`
}

// Run executes the add command.
func (c *IndexesAddCmd) Run(deps *Dependencies) error {
	info := civsearch.IndexInfo{
		Name:        c.Name,
		Description: c.Description,
		Domain:      c.Domain,
	}
	if err := deps.Registry.Register(deps.Ctx, info); err != nil {
		return err
	}
	fmt.Fprintf(deps.Stdout, "Registered index %q\n", c.Name)
	return nil
}
