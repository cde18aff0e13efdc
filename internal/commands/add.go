package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"todo/internal/exitcode"
	"todo/internal/output"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	due      string
	category string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "todo add --due <date> --category <c> <text...>" }
func (c *AddCmd) NeedsStore() bool  { return true }
func (c *AddCmd) NeedsAuth() bool   { return false }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.due, "due", "", "")
	fs.StringVar(&c.due, "d", "", "")
	fs.StringVar(&c.category, "category", "", "")
	fs.StringVar(&c.category, "c", "", "")
}

func (c *AddCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	// Missing fields are reported together by the store.
	text := strings.Join(args, " ")

	task, err := env.Store.Add(ctx, text, c.due, c.category)
	if err != nil {
		return reportError(errOut, 0, err)
	}

	env.Log.Debug("added task", "id", task.ID)
	if !env.Config.Quiet {
		output.NewPrinter(out).Task(task)
	}
	return exitcode.Success
}
