package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/exitcode"
	"todo/internal/output"
)

func init() {
	Register(&CategoriesCmd{})
}

// CategoriesCmd implements the categories command.
type CategoriesCmd struct{}

func (c *CategoriesCmd) Name() string      { return "categories" }
func (c *CategoriesCmd) Aliases() []string { return []string{"cats"} }
func (c *CategoriesCmd) Synopsis() string  { return "Print the category filter options" }
func (c *CategoriesCmd) Usage() string     { return "todo categories [common flags]" }
func (c *CategoriesCmd) NeedsStore() bool  { return true }
func (c *CategoriesCmd) NeedsAuth() bool   { return false }

func (c *CategoriesCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *CategoriesCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	output.NewPrinter(out).Categories(env.Store.Categories())
	return exitcode.Success
}
