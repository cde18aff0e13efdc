package commands_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/service"
	"todo/internal/store"
	"todo/internal/testutil"
)

// harness runs commands against a real TaskStore backed by a FakeKV.
type harness struct {
	kv       *testutil.FakeKV
	store    *store.TaskStore
	remote   *testutil.FakeRemote
	prompter *testutil.ScriptedPrompter
	env      *commands.Env
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg := config.Default()
	cfg.Dir = t.TempDir()

	kv := testutil.NewFakeKV()
	s, err := store.Open(context.Background(), kv, store.OptionsFromConfig(cfg, logging.Discard()))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}

	h := &harness{
		kv:       kv,
		store:    s,
		remote:   testutil.NewFakeRemote(),
		prompter: &testutil.ScriptedPrompter{},
	}
	h.env = &commands.Env{
		Config:   cfg,
		Store:    s,
		Remote:   h.remote,
		Prompter: h.prompter,
		Log:      logging.Discard(),
	}
	return h
}

// seed adds the three tasks most tests start from; task 2 is completed.
func (h *harness) seed(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, task := range []service.Task{
		{Text: "Buy milk", DueDate: "2024-01-02", Category: "Home"},
		{Text: "Ship release", DueDate: "2024-01-01", Category: "Work"},
		{Text: "Call mom", DueDate: "2024-01-03", Category: "home"},
	} {
		if _, err := h.store.Add(ctx, task.Text, task.DueDate, task.Category); err != nil {
			t.Fatalf("Add: %v", err)
		}
	}
	if _, err := h.store.MarkDone(ctx, 2); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}
}

// run parses args with the command's flags and runs it.
func (h *harness) run(t *testing.T, cmd commands.Command, args ...string) (stdout, stderr string, code int) {
	t.Helper()

	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.RegisterFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}

	var outBuf, errBuf bytes.Buffer
	code = cmd.Run(context.Background(), h.env, fs.Args(), &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func ids(tasks []service.Task) []int {
	result := make([]int, len(tasks))
	for i, t := range tasks {
		result[i] = t.ID
	}
	return result
}

func expect(t *testing.T, gotOut, gotErr string, gotCode int, wantOut, wantErr string, wantCode int) {
	t.Helper()
	if gotCode != wantCode {
		t.Errorf("expected exit code %d, got %d", wantCode, gotCode)
	}
	if gotOut != wantOut {
		t.Errorf("stdout: expected %q, got %q", wantOut, gotOut)
	}
	if gotErr != wantErr {
		t.Errorf("stderr: expected %q, got %q", wantErr, gotErr)
	}
}

const (
	lineMilk    = "   1  [ ] Buy milk  Due: 2024-01-02  Category: Home\n"
	lineRelease = "   2  [x] Ship release  Due: 2024-01-01  Category: Work\n"
	lineMom     = "   3  [ ] Call mom  Due: 2024-01-03  Category: home\n"
)

// Tests for version command
func TestVersionCommand(t *testing.T) {
	h := newHarness(t)
	stdout, stderr, code := h.run(t, &commands.VersionCmd{})
	expect(t, stdout, stderr, code, "todo 0.1.0\n", "", exitcode.Success)
}

// Tests for help command
func TestHelpCommand(t *testing.T) {
	h := newHarness(t)
	stdout, stderr, code := h.run(t, &commands.HelpCmd{})

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	testutil.GoldenString(t, "help", stdout)
}

// Tests for list command
func TestListCommand_Empty(t *testing.T) {
	h := newHarness(t)
	stdout, stderr, code := h.run(t, &commands.ListCmd{})
	expect(t, stdout, stderr, code, "No tasks found\n", "", exitcode.Success)
}

func TestListCommand_EmptyQuiet(t *testing.T) {
	h := newHarness(t)
	h.env.Config.Quiet = true
	stdout, stderr, code := h.run(t, &commands.ListCmd{})
	expect(t, stdout, stderr, code, "", "", exitcode.Success)
}

func TestListCommand_InsertionOrder(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	stdout, stderr, code := h.run(t, &commands.ListCmd{})
	if code != exitcode.Success || stderr != "" {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}
	testutil.GoldenString(t, "list", stdout)
}

func TestListCommand_Filters(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"category case-insensitive", []string{"--category", "HOME"}, lineMilk + lineMom},
		{"done", []string{"--status", "done"}, lineRelease},
		{"undone work", []string{"-c", "work", "-s", "undone"}, "No tasks found\n"},
		{"all", []string{"--category", "all", "--status", "all"}, lineMilk + lineRelease + lineMom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			h.seed(t)
			stdout, stderr, code := h.run(t, &commands.ListCmd{}, tt.args...)
			expect(t, stdout, stderr, code, tt.want, "", exitcode.Success)
		})
	}
}

func TestListCommand_SortIsViewOnly(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	sets := h.kv.Sets()

	stdout, stderr, code := h.run(t, &commands.ListCmd{}, "--sort", "asc")
	expect(t, stdout, stderr, code, lineRelease+lineMilk+lineMom, "", exitcode.Success)

	if got := ids(h.store.Tasks()); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("stored order changed: %v", got)
	}
	if h.kv.Sets() != sets {
		t.Error("list --sort should not write to storage")
	}
}

func TestListCommand_InvalidStatus(t *testing.T) {
	h := newHarness(t)
	stdout, stderr, code := h.run(t, &commands.ListCmd{}, "--status", "maybe")
	expect(t, stdout, stderr, code, "", "error: invalid status: maybe\n", exitcode.UserError)
}

// Tests for add command
func TestAddCommand_Success(t *testing.T) {
	h := newHarness(t)
	stdout, stderr, code := h.run(t, &commands.AddCmd{}, "--due", "2024-01-02", "--category", "Home", "Buy", "milk")
	expect(t, stdout, stderr, code, lineMilk, "", exitcode.Success)

	if len(h.store.Tasks()) != 1 {
		t.Errorf("expected 1 stored task, got %d", len(h.store.Tasks()))
	}
}

func TestAddCommand_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"all missing", nil, "error: please fill the: Task, Due Date, Category field\n"},
		{"text and category", []string{"--due", "2024-01-01"}, "error: please fill the: Task, Category field\n"},
		{"blank text", []string{"-d", "2024-01-01", "-c", "Home", "  "}, "error: please fill the: Task field\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t)
			stdout, stderr, code := h.run(t, &commands.AddCmd{}, tt.args...)
			expect(t, stdout, stderr, code, "", tt.want, exitcode.UserError)
			if h.kv.Sets() != 0 {
				t.Error("failed add should not write to storage")
			}
		})
	}
}

// Tests for edit command
func TestEditCommand_Flags(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	stdout, stderr, code := h.run(t, &commands.EditCmd{}, "--due", "2024-02-01", "1")
	expect(t, stdout, stderr, code, "   1  [ ] Buy milk  Due: 2024-02-01  Category: Home\n", "", exitcode.Success)
	if len(h.prompter.Asked) != 0 {
		t.Errorf("flags given, expected no prompts, got %v", h.prompter.Asked)
	}
}

func TestEditCommand_Interactive(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	h.prompter.Answers = []testutil.Answer{
		testutil.Reply("Buy oat milk"),
		testutil.Reply(""),
		testutil.Reply("Errands"),
	}

	stdout, stderr, code := h.run(t, &commands.EditCmd{}, "1")
	expect(t, stdout, stderr, code, "   1  [ ] Buy oat milk  Due: 2024-01-02  Category: Errands\n", "", exitcode.Success)

	wantAsked := []string{
		"Edit Task=Buy milk",
		"Edit Due Date=2024-01-02",
		"Edit Category=Home",
	}
	if !reflect.DeepEqual(h.prompter.Asked, wantAsked) {
		t.Errorf("asked %v, want %v", h.prompter.Asked, wantAsked)
	}
}

func TestEditCommand_InteractiveClearPolicy(t *testing.T) {
	h := newHarness(t)
	cfg := config.Default()
	cfg.Edit.Blank = config.BlankClear
	s, err := store.Open(context.Background(), h.kv, store.OptionsFromConfig(cfg, logging.Discard()))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	h.store, h.env.Store = s, s
	h.seed(t)
	h.prompter.Answers = []testutil.Answer{testutil.Reply(""), testutil.Reply(""), testutil.Reply("Home")}

	stdout, stderr, code := h.run(t, &commands.EditCmd{}, "1")
	expect(t, stdout, stderr, code, "   1  [ ] Buy milk  Category: Home\n", "", exitcode.Success)
}

func TestEditCommand_Cancel(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	sets := h.kv.Sets()
	h.prompter.Answers = []testutil.Answer{testutil.Reply("Changed"), testutil.Cancel()}

	stdout, stderr, code := h.run(t, &commands.EditCmd{}, "1")
	expect(t, stdout, stderr, code, "cancelled\n", "", exitcode.Success)

	task, _ := h.store.Get(1)
	if task.Text != "Buy milk" {
		t.Errorf("cancelled edit changed text to %q", task.Text)
	}
	if h.kv.Sets() != sets {
		t.Error("cancelled edit should not write to storage")
	}
}

func TestEditCommand_Errors(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	stdout, stderr, code := h.run(t, &commands.EditCmd{}, "--text", "x", "9")
	expect(t, stdout, stderr, code, "", "error: task not found: 9\n", exitcode.UserError)

	h.env.Prompter = nil
	stdout, stderr, code = h.run(t, &commands.EditCmd{}, "1")
	expect(t, stdout, stderr, code, "", "error: nothing to change (use --text, --due or --category)\n", exitcode.UserError)
}

// Tests for toggle and done commands
func TestToggleCommand(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	stdout, stderr, code := h.run(t, &commands.ToggleCmd{}, "2")
	expect(t, stdout, stderr, code, "   2  [ ] Ship release  Due: 2024-01-01  Category: Work\n", "", exitcode.Success)

	stdout, stderr, code = h.run(t, &commands.ToggleCmd{}, "2")
	expect(t, stdout, stderr, code, lineRelease, "", exitcode.Success)
}

func TestDoneCommand_Idempotent(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	for i := 0; i < 2; i++ {
		stdout, stderr, code := h.run(t, &commands.DoneCmd{}, "2")
		expect(t, stdout, stderr, code, lineRelease, "", exitcode.Success)
	}
}

func TestTaskIDErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing", nil, "error: task id required\n"},
		{"not a number", []string{"abc"}, "error: invalid task id: abc\n"},
		{"zero", []string{"0"}, "error: invalid task id: 0\n"},
		{"extra", []string{"1", "2"}, "error: unexpected argument: 2\n"},
		{"unknown", []string{"42"}, "error: task not found: 42\n"},
	}
	cmds := []commands.Command{&commands.ToggleCmd{}, &commands.DoneCmd{}, &commands.RmCmd{}}
	for _, cmd := range cmds {
		for _, tt := range tests {
			t.Run(cmd.Name()+"/"+tt.name, func(t *testing.T) {
				h := newHarness(t)
				h.seed(t)
				stdout, stderr, code := h.run(t, cmd, tt.args...)
				expect(t, stdout, stderr, code, "", tt.want, exitcode.UserError)
			})
		}
	}
}

func TestToggleCommand_StorageFailureRollsBack(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	h.kv.SetErr = errors.New("disk full")

	stdout, stderr, code := h.run(t, &commands.ToggleCmd{}, "1")
	expect(t, stdout, stderr, code, "", "error: storage error: toggle: disk full\n", exitcode.StorageError)

	task, _ := h.store.Get(1)
	if task.Completed {
		t.Error("failed toggle should leave the task unchanged")
	}
}

// Tests for rm command
func TestRmCommand(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	stdout, stderr, code := h.run(t, &commands.RmCmd{}, "2")
	expect(t, stdout, stderr, code, "ok\n", "", exitcode.Success)

	if got := ids(h.store.Tasks()); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("ids after delete: %v", got)
	}

	stdout, stderr, code = h.run(t, &commands.CategoriesCmd{})
	expect(t, stdout, stderr, code, "Home\nAll\n", "", exitcode.Success)
}

// Tests for categories command
func TestCategoriesCommand(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	stdout, stderr, code := h.run(t, &commands.CategoriesCmd{})
	expect(t, stdout, stderr, code, "Home\nWork\nAll\n", "", exitcode.Success)
}

// Tests for sort command
func TestSortCommand(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	stdout, stderr, code := h.run(t, &commands.SortCmd{}, "desc")
	expect(t, stdout, stderr, code, "ok\n", "", exitcode.Success)

	if got := ids(h.store.Tasks()); !reflect.DeepEqual(got, []int{3, 1, 2}) {
		t.Errorf("stored order after sort desc: %v", got)
	}

	var persisted []service.Task
	if err := json.Unmarshal([]byte(h.kv.Raw("tasks")), &persisted); err != nil {
		t.Fatalf("persisted value: %v", err)
	}
	if got := ids(persisted); !reflect.DeepEqual(got, []int{3, 1, 2}) {
		t.Errorf("persisted order after sort desc: %v", got)
	}
}

func TestSortCommand_BadOrder(t *testing.T) {
	h := newHarness(t)

	stdout, stderr, code := h.run(t, &commands.SortCmd{})
	expect(t, stdout, stderr, code, "", "error: sort order required: asc or desc\n", exitcode.UserError)

	stdout, stderr, code = h.run(t, &commands.SortCmd{}, "none")
	expect(t, stdout, stderr, code, "", "error: invalid sort order: none\n", exitcode.UserError)
}

// Tests for export and import commands
func TestExportCommand_JSONToStdout(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	stdout, stderr, code := h.run(t, &commands.ExportCmd{}, "--status", "undone")
	if code != exitcode.Success || stderr != "" {
		t.Fatalf("code=%d stderr=%q", code, stderr)
	}

	var got []service.Task
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if gotIDs := ids(got); !reflect.DeepEqual(gotIDs, []int{1, 3}) {
		t.Errorf("exported ids %v, want [1 3]", gotIDs)
	}
}

func TestExportCommand_PDFFile(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	path := filepath.Join(t.TempDir(), "tasks.pdf")

	stdout, stderr, code := h.run(t, &commands.ExportCmd{}, "--output", path)
	expect(t, stdout, stderr, code, "exported 3 tasks to "+path+"\n", "", exitcode.Success)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Error("expected a PDF file")
	}
}

func TestExportCommand_UnknownFormat(t *testing.T) {
	h := newHarness(t)
	stdout, stderr, code := h.run(t, &commands.ExportCmd{}, "--format", "csv")
	expect(t, stdout, stderr, code, "", "error: unknown format: csv\n", exitcode.UserError)
}

func writeImport(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "import.json")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write import file: %v", err)
	}
	return path
}

func TestImportCommand_Append(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	path := writeImport(t, `[{"id":1,"text":"Water plants","dueDate":null,"category":"Home","completed":false},{"text":"Pay rent","dueDate":"2024-02-01","category":"Bills","completed":true}]`)

	stdout, stderr, code := h.run(t, &commands.ImportCmd{}, path)
	expect(t, stdout, stderr, code, "imported 2 tasks\n", "", exitcode.Success)

	if got := ids(h.store.Tasks()); !reflect.DeepEqual(got, []int{1, 2, 3, 4, 5}) {
		t.Errorf("ids after import: %v", got)
	}
}

func TestImportCommand_Replace(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	path := writeImport(t, `[{"text":"Only task","dueDate":"2024-02-01","category":"Misc","completed":false}]`)

	stdout, stderr, code := h.run(t, &commands.ImportCmd{}, "--replace", path)
	expect(t, stdout, stderr, code, "imported 1 tasks\n", "", exitcode.Success)

	// Ids are never reused, even after a replace.
	if got := ids(h.store.Tasks()); !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("ids after replace: %v", got)
	}
}

func TestImportCommand_Invalid(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	path := writeImport(t, `[{"text":""}]`)

	stdout, stderr, code := h.run(t, &commands.ImportCmd{}, path)
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stdout != "" || !strings.HasPrefix(stderr, "error: invalid task list: entry 1: text") {
		t.Errorf("stdout=%q stderr=%q", stdout, stderr)
	}
	if len(h.store.Tasks()) != 3 {
		t.Error("invalid import should not change the list")
	}
}

// Tests for push command
func TestPushCommand(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	stdout, stderr, code := h.run(t, &commands.PushCmd{})
	expect(t, stdout, stderr, code, "pushed 3 tasks to todo\n", "", exitcode.Success)

	if got := ids(h.remote.Pushed("list-1")); !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("pushed ids %v", got)
	}
}

func TestPushCommand_ExistingListUndone(t *testing.T) {
	h := newHarness(t)
	h.seed(t)
	h.remote.AddList("L9", "Errands")

	stdout, stderr, code := h.run(t, &commands.PushCmd{}, "--list", "errands", "--status", "undone")
	expect(t, stdout, stderr, code, "pushed 2 tasks to Errands\n", "", exitcode.Success)

	if got := ids(h.remote.Pushed("L9")); !reflect.DeepEqual(got, []int{1, 3}) {
		t.Errorf("pushed ids %v", got)
	}
}

func TestPushCommand_Errors(t *testing.T) {
	h := newHarness(t)
	h.seed(t)

	h.remote.PushTaskErr = errors.New("request timed out")
	stdout, stderr, code := h.run(t, &commands.PushCmd{})
	expect(t, stdout, stderr, code, "", "error: remote error: pushed 0 of 3 tasks: request timed out\n", exitcode.StorageError)

	h.env.Remote = nil
	stdout, stderr, code = h.run(t, &commands.PushCmd{})
	expect(t, stdout, stderr, code, "", "error: not logged in (run: todo login)\n", exitcode.AuthError)
}
