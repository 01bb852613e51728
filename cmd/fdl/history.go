package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/hayeah/fdl/render"
)

// HistoryCmd lists recorded operations.
type HistoryCmd struct {
	Limit int `arg:"-n,--limit" default:"20" help:"number of entries to show, 0 for all"`
}

// History prints the most recent entries of the history store.
func (r *Runner) History(cmd HistoryCmd) error {
	if r.Env.Store == nil {
		return errors.New("history is disabled")
	}
	entries, err := r.Env.Store.List(cmd.Limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(r.Stdout, "no history yet")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "TIME", "KIND", "FILES", "SIZE", "TOKENS", "ROOT", "TARGET")
	for _, e := range entries {
		t.Row(
			strconv.FormatInt(e.ID, 10),
			e.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			e.Kind,
			strconv.Itoa(e.Files),
			render.Size(e.Bytes),
			strconv.Itoa(e.Tokens),
			e.Root,
			e.Target,
		)
	}
	fmt.Fprintln(r.Stdout, t.String())
	return nil
}
