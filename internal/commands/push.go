package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&PushCmd{})
}

// PushCmd implements the push command.
type PushCmd struct {
	list   string
	status string
}

func (c *PushCmd) Name() string      { return "push" }
func (c *PushCmd) Aliases() []string { return nil }
func (c *PushCmd) Synopsis() string  { return "Copy tasks into a Google Tasks list" }
func (c *PushCmd) Usage() string {
	return "todo push [--list <list-name>] [--status all|done|undone]"
}
func (c *PushCmd) NeedsStore() bool { return true }
func (c *PushCmd) NeedsAuth() bool  { return true }

func (c *PushCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.list, "list", "", "")
	fs.StringVar(&c.list, "l", "", "")
	fs.StringVar(&c.status, "status", string(service.StatusAll), "")
	fs.StringVar(&c.status, "s", string(service.StatusAll), "")
}

func (c *PushCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if env.Remote == nil {
		fmt.Fprintln(errOut, "error: not logged in (run: todo login)")
		return exitcode.AuthError
	}

	status, err := service.ParseStatus(c.status)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	name := strings.TrimSpace(c.list)
	if name == "" {
		name = env.Config.Remote.List
	}

	list, err := env.Remote.EnsureList(ctx, name)
	if err != nil {
		fmt.Fprintf(errOut, "error: remote error: %v\n", err)
		return exitcode.StorageError
	}

	tasks := env.Store.View(service.Filter{Status: status})
	for i, task := range tasks {
		if err := env.Remote.PushTask(ctx, list.ID, task); err != nil {
			// Earlier tasks stay pushed; nothing is rolled back remotely.
			fmt.Fprintf(errOut, "error: remote error: pushed %d of %d tasks: %v\n", i, len(tasks), err)
			return exitcode.StorageError
		}
	}

	if !env.Config.Quiet {
		fmt.Fprintf(out, "pushed %d tasks to %s\n", len(tasks), list.Title)
	}
	return exitcode.Success
}
