package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string      { return "help" }
func (c *HelpCmd) Aliases() []string { return nil }
func (c *HelpCmd) Synopsis() string  { return "Print usage" }
func (c *HelpCmd) Usage() string     { return "todo help" }
func (c *HelpCmd) NeedsStore() bool  { return false }
func (c *HelpCmd) NeedsAuth() bool   { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)

	fmt.Fprintln(out, "\nCommands:")
	for _, cmd := range DefaultRegistry.All() {
		fmt.Fprintf(out, "  %-12s %s\n", cmd.Name(), cmd.Synopsis())
	}
	return exitcode.Success
}

const helpText = `Usage:
  todo                                        List all tasks
  todo list [common flags] [--category <c>] [--status all|done|undone] [--sort asc|desc]
  todo add [common flags] --due <date> --category <c> <text...>
  todo edit [common flags] [--text <t>] [--due <date>] [--category <c>] <id>
  todo toggle [common flags] <id>
  todo done [common flags] <id>
  todo rm [common flags] <id>
  todo categories [common flags]
  todo sort [common flags] asc|desc
  todo export [common flags] [--format json|pdf] [--output <file>]
  todo import [common flags] [--replace] <file>
  todo push [common flags] [--list <list-name>]
  todo login [common flags]
  todo logout [common flags]
  todo help
  todo version

Without flags, edit asks for each field in turn.

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
