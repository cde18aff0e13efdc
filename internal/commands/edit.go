package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/prompt"
	"todo/internal/service"
)

// Prompt labels for the interactive edit, asked in this order.
const (
	LabelEditText     = "Edit Task"
	LabelEditDueDate  = "Edit Due Date"
	LabelEditCategory = "Edit Category"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command.
type EditCmd struct {
	text     optionalString
	due      optionalString
	category optionalString
}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Change a task's text, due date or category" }
func (c *EditCmd) Usage() string {
	return "todo edit [--text <t>] [--due <date>] [--category <c>] <id>"
}
func (c *EditCmd) NeedsStore() bool { return true }
func (c *EditCmd) NeedsAuth() bool  { return false }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.text, c.due, c.category = optionalString{}, optionalString{}, optionalString{}
	fs.Var(&c.text, "text", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.due, "d", "")
	fs.Var(&c.category, "category", "")
	fs.Var(&c.category, "c", "")
}

func (c *EditCmd) Run(ctx context.Context, env *Env, args []string, out, errOut io.Writer) int {
	id, ok := parseTaskIDOrReport(args, errOut)
	if !ok {
		return exitcode.UserError
	}

	task, err := env.Store.Get(id)
	if err != nil {
		return reportError(errOut, id, err)
	}

	edit := service.Edit{
		Text:     c.text.ptr(),
		DueDate:  c.due.ptr(),
		Category: c.category.ptr(),
	}
	if edit.IsZero() {
		if env.Prompter == nil {
			fmt.Fprintln(errOut, "error: nothing to change (use --text, --due or --category)")
			return exitcode.UserError
		}
		edit, err = promptEdit(ctx, env.Prompter, task)
		if errors.Is(err, prompt.ErrCancelled) {
			if !env.Config.Quiet {
				fmt.Fprintln(out, "cancelled")
			}
			return exitcode.Success
		}
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	task, err = env.Store.Edit(ctx, id, edit)
	if err != nil {
		return reportError(errOut, id, err)
	}

	if !env.Config.Quiet {
		output.NewPrinter(out).Task(task)
	}
	return exitcode.Success
}

// promptEdit asks for each field in turn, prefilled with the current value.
// A cancel at any step abandons the whole edit.
func promptEdit(ctx context.Context, p prompt.Prompter, task service.Task) (service.Edit, error) {
	fields := []struct {
		label   string
		current string
	}{
		{LabelEditText, task.Text},
		{LabelEditDueDate, task.DueDate},
		{LabelEditCategory, task.Category},
	}

	values := make([]*string, len(fields))
	for i, f := range fields {
		v, err := p.Prompt(ctx, f.label, f.current)
		if err != nil {
			return service.Edit{}, err
		}
		values[i] = &v
	}
	return service.Edit{Text: values[0], DueDate: values[1], Category: values[2]}, nil
}

// optionalString is a string flag that records whether it was given,
// so `--due ""` can be told apart from no --due at all.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(v string) error {
	o.value = v
	o.set = true
	return nil
}

func (o *optionalString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}
