// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"github.com/charmbracelet/log"

	"todo/internal/config"
	"todo/internal/prompt"
	"todo/internal/service"
)

// Env carries what the dispatcher prepared for a command run.
type Env struct {
	// Config is always set.
	Config *config.Config

	// Store is nil unless NeedsStore returns true.
	Store service.Service

	// Remote is nil unless NeedsAuth returns true and a remote factory is set.
	Remote service.Remote

	// Prompter asks for field values during interactive edits.
	Prompter prompt.Prompter

	Log *log.Logger
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsStore returns true if the command reads or writes the task list.
	NeedsStore() bool

	// NeedsAuth returns true if the command talks to Google Tasks.
	// Commands like help, version, login, logout return false.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int
}
