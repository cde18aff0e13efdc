package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `todo` (no args) and `todo list [filters]`.
type ListCmd struct {
	viewFlags
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "todo list [--category <c>] [--status all|done|undone] [--sort asc|desc]"
}
func (c *ListCmd) NeedsStore() bool { return true }
func (c *ListCmd) NeedsAuth() bool  { return false }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	c.viewFlags.register(fs)
}

func (c *ListCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	filter, err := c.viewFlags.filter()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	tasks := env.Store.View(filter)
	if len(tasks) == 0 && env.Config.Quiet {
		return exitcode.Success
	}
	output.NewPrinter(out).Tasks(tasks)
	return exitcode.Success
}

// viewFlags are the filter and sort flags shared by list and export.
type viewFlags struct {
	category string
	status   string
	order    string
}

func (v *viewFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&v.category, "category", service.AllCategories, "")
	fs.StringVar(&v.category, "c", service.AllCategories, "")
	fs.StringVar(&v.status, "status", string(service.StatusAll), "")
	fs.StringVar(&v.status, "s", string(service.StatusAll), "")
	fs.StringVar(&v.order, "sort", "", "")
}

func (v *viewFlags) filter() (service.Filter, error) {
	status, err := service.ParseStatus(v.status)
	if err != nil {
		return service.Filter{}, err
	}
	order, err := service.ParseOrder(v.order)
	if err != nil {
		return service.Filter{}, err
	}
	return service.Filter{Category: v.category, Status: status, Order: order}, nil
}
