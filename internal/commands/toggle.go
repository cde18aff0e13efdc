package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/exitcode"
	"todo/internal/output"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return nil }
func (c *ToggleCmd) Synopsis() string  { return "Flip a task between done and not done" }
func (c *ToggleCmd) Usage() string     { return "todo toggle <id>" }
func (c *ToggleCmd) NeedsStore() bool  { return true }
func (c *ToggleCmd) NeedsAuth() bool   { return false }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, ok := parseTaskIDOrReport(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	task, err := env.Store.Toggle(ctx, id)
	if err != nil {
		return reportError(errOut, id, err)
	}

	if !env.Config.Quiet {
		output.NewPrinter(out).Task(task)
	}
	return exitcode.Success
}
