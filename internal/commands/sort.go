package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&SortCmd{})
}

// SortCmd implements the sort command. It reorders the stored list;
// `list --sort` only changes what is printed.
type SortCmd struct{}

func (c *SortCmd) Name() string      { return "sort" }
func (c *SortCmd) Aliases() []string { return nil }
func (c *SortCmd) Synopsis() string  { return "Reorder the stored list by due date" }
func (c *SortCmd) Usage() string     { return "todo sort asc|desc" }
func (c *SortCmd) NeedsStore() bool  { return true }
func (c *SortCmd) NeedsAuth() bool   { return false }

func (c *SortCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SortCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: sort order required: asc or desc")
		return exitcode.UserError
	}

	order, err := service.ParseOrder(args[0])
	if err != nil || order == service.OrderNone {
		fmt.Fprintf(errOut, "error: invalid sort order: %s\n", args[0])
		return exitcode.UserError
	}

	if err := env.Store.Sort(ctx, order); err != nil {
		return reportError(errOut, 0, err)
	}

	if !env.Config.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
