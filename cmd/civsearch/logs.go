package main

import "fmt"

// LogsCmd prints recent pipeline events.
type LogsCmd struct {
	Tail int `default:"100" help:"Number of lines to show."`
}

// Run executes the logs command.
func (c *LogsCmd) Run(deps *Dependencies) error {
	lines, err := deps.Log.LastN(c.Tail)
	if err != nil {
		return err
	}
	if len(lines) == 0 {
		fmt.Fprintln(deps.Stdout, "No log entries.")
		return nil
	}
	for _, line := range lines {
		fmt.Fprintln(deps.Stdout, line)
	}
	return nil
}
