package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"todo/internal/exitcode"
	"todo/internal/transfer"
)

func init() {
	Register(&ExportCmd{})
}

// ExportCmd implements the export command.
type ExportCmd struct {
	viewFlags
	format string
	output string
}

func (c *ExportCmd) Name() string      { return "export" }
func (c *ExportCmd) Aliases() []string { return nil }
func (c *ExportCmd) Synopsis() string  { return "Write tasks as JSON or PDF" }
func (c *ExportCmd) Usage() string {
	return "todo export [--format json|pdf] [--output <file>] [--category <c>] [--status <s>] [--sort <o>]"
}
func (c *ExportCmd) NeedsStore() bool { return true }
func (c *ExportCmd) NeedsAuth() bool  { return false }

func (c *ExportCmd) RegisterFlags(fs *flag.FlagSet) {
	c.viewFlags.register(fs)
	fs.StringVar(&c.format, "format", "", "")
	fs.StringVar(&c.format, "f", "", "")
	fs.StringVar(&c.output, "output", "", "")
	fs.StringVar(&c.output, "o", "", "")
}

func (c *ExportCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	filter, err := c.viewFlags.filter()
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	format := c.format
	if format == "" {
		// Infer from the file name, json otherwise.
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(c.output)), ".")
		if format != transfer.FormatPDF {
			format = transfer.FormatJSON
		}
	}
	format = strings.ToLower(format)
	if format != transfer.FormatJSON && format != transfer.FormatPDF {
		fmt.Fprintf(errOut, "error: unknown format: %s\n", c.format)
		return exitcode.UserError
	}

	tasks := env.Store.View(filter)

	if c.output == "" {
		if err := transfer.Export(out, format, tasks); err != nil {
			fmt.Fprintf(errOut, "error: export failed: %v\n", err)
			return exitcode.StorageError
		}
		return exitcode.Success
	}

	f, err := os.Create(c.output)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err := transfer.Export(f, format, tasks); err != nil {
		f.Close()
		fmt.Fprintf(errOut, "error: export failed: %v\n", err)
		return exitcode.StorageError
	}
	if err := f.Close(); err != nil {
		fmt.Fprintf(errOut, "error: export failed: %v\n", err)
		return exitcode.StorageError
	}

	env.Log.Debug("exported tasks", "path", c.output, "format", format, "count", len(tasks))
	if !env.Config.Quiet {
		fmt.Fprintf(out, "exported %d tasks to %s\n", len(tasks), c.output)
	}
	return exitcode.Success
}
