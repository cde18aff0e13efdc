package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"todo/internal/exitcode"
	"todo/internal/transfer"
)

func init() {
	Register(&ImportCmd{})
}

// ImportCmd implements the import command.
type ImportCmd struct {
	replace bool
}

func (c *ImportCmd) Name() string      { return "import" }
func (c *ImportCmd) Aliases() []string { return nil }
func (c *ImportCmd) Synopsis() string  { return "Add tasks from a JSON export" }
func (c *ImportCmd) Usage() string     { return "todo import [--replace] <file>" }
func (c *ImportCmd) NeedsStore() bool  { return true }
func (c *ImportCmd) NeedsAuth() bool   { return false }

func (c *ImportCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.replace, "replace", false, "")
}

func (c *ImportCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: file required")
		return exitcode.UserError
	}

	f, err := os.Open(args[0])
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	defer f.Close()

	tasks, err := transfer.Import(f)
	if err != nil {
		var ie *transfer.ImportError
		if errors.As(err, &ie) {
			fmt.Fprintf(errOut, "error: %v\n", ie)
		} else {
			fmt.Fprintf(errOut, "error: %s: %v\n", args[0], err)
		}
		return exitcode.UserError
	}

	n, err := env.Store.Import(ctx, tasks, c.replace)
	if err != nil {
		return reportError(errOut, 0, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintf(out, "imported %d tasks\n", n)
	}
	return exitcode.Success
}
