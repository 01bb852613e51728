package main

import (
	"fmt"
	"io"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/hayeah/fdl/internal/logging"
)

// Args defines the command-line arguments with subcommands
type Args struct {
	Config   string `arg:"--config" help:"config file (default $FDL_CONFIG or ~/.config/fdl/config.toml)"`
	LogFile  string `arg:"--log-file" help:"write logs to this file"`
	LogLevel string `arg:"--log-level" help:"debug, info, warn or error"`

	Browse  *BrowseCmd  `arg:"subcommand:browse" help:"Browse a directory and export the selection (default)"`
	Pack    *PackCmd    `arg:"subcommand:pack" help:"Encode every text file of a directory"`
	Unpack  *UnpackCmd  `arg:"subcommand:unpack" help:"Write the files of an FDL block to disk"`
	History *HistoryCmd `arg:"subcommand:history" help:"List recent exports and unpacks"`
}

func (Args) Description() string {
	return "fdl packs the text files of a directory into one clipboard-sized block and unpacks it again"
}

// interactive reports whether the command takes over the terminal.
func (a Args) interactive() bool {
	return a.Pack == nil && a.Unpack == nil && a.History == nil
}

// Runner dispatches a parsed command line.
type Runner struct {
	Env    *Env
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewRunner creates a Runner on the process's standard streams.
func NewRunner(env *Env) *Runner {
	return &Runner{
		Env:    env,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run dispatches to the appropriate subcommand
func (r *Runner) Run() error {
	args := r.Env.Args
	switch {
	case args.Pack != nil:
		return r.Pack(*args.Pack)
	case args.Unpack != nil:
		return r.Unpack(*args.Unpack)
	case args.History != nil:
		return r.History(*args.History)
	case args.Browse != nil:
		return r.Browse(*args.Browse)
	default:
		return r.Browse(BrowseCmd{Dir: "."})
	}
}

func main() {
	var args Args
	arg.MustParse(&args)

	env, cleanup, err := BuildEnv(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "fdl:", err)
		os.Exit(1)
	}

	err = NewRunner(env).Run()
	cleanup()
	_ = logging.Sync()
	if err != nil {
		fmt.Fprintln(os.Stderr, "fdl:", err)
		os.Exit(1)
	}
}
