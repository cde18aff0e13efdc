// Package cli parses the command line and runs commands with the
// config, logger, task store and remote they ask for.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
	"todo/internal/prompt"
	"todo/internal/service"
)

// StoreFactory opens the task store described by cfg.
// Used to inject the storage backend during dispatch.
type StoreFactory func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error)

// RemoteFactory creates the Google Tasks remote from config.
type RemoteFactory func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Remote, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	stores   StoreFactory
	remotes  RemoteFactory
	prompter prompt.Prompter
}

// NewDispatcher creates a new dispatcher with the given registry and factories.
// A nil remote factory leaves only the auth file checks in place.
func NewDispatcher(registry *commands.Registry, stores StoreFactory, remotes RemoteFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		stores:   stores,
		remotes:  remotes,
	}
}

// SetPrompter sets the prompter used for interactive edits.
func (d *Dispatcher) SetPrompter(p prompt.Prompter) {
	d.prompter = p
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A leading "-" left after parsing was meant as a flag
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") && positionalArgs[0] != "-" {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	if err := cfg.Load(); err != nil {
		fmt.Fprintf(errOut, "error: config error: %s\n", err)
		return exitcode.AuthError
	}

	logger := logging.New(errOut, cfg)
	logger.Debug("dispatch", "command", cmd.Name(), "config", cfg.Dir)

	env := &commands.Env{
		Config:   cfg,
		Prompter: d.prompter,
		Log:      logger,
	}

	if cmd.NeedsAuth() {
		if code, ok := d.prepareRemote(ctx, env, errOut); !ok {
			return code
		}
	}

	if cmd.NeedsStore() {
		if d.stores == nil {
			fmt.Fprintln(errOut, "error: storage error: no storage configured")
			return exitcode.StorageError
		}
		svc, err := d.stores(ctx, cfg, logger)
		if err != nil {
			fmt.Fprintf(errOut, "error: storage error: %s\n", err)
			return exitcode.StorageError
		}
		defer func() {
			if err := svc.Close(); err != nil {
				logger.Warn("closing storage", "err", err)
			}
		}()
		env.Store = svc
	}

	return cmd.Run(ctx, env, positionalArgs, out, errOut)
}

// prepareRemote sets env.Remote, or reports why it cannot.
func (d *Dispatcher) prepareRemote(ctx context.Context, env *commands.Env, errOut io.Writer) (int, bool) {
	cfg := env.Config

	if d.remotes == nil {
		// No factory: report missing auth files; commands must handle a nil remote.
		if !cfg.HasOAuthClient() {
			fmt.Fprintf(errOut, "error: oauth_client.json not found in %s\n", cfg.Dir)
			return exitcode.AuthError, false
		}
		if !cfg.HasToken() {
			fmt.Fprintln(errOut, "error: not logged in (run: todo login)")
			return exitcode.AuthError, false
		}
		return exitcode.Success, true
	}

	remote, err := d.remotes(ctx, cfg, env.Log)
	if err != nil {
		fmt.Fprintf(errOut, "error: auth error: %s\n", err)
		return exitcode.AuthError, false
	}
	env.Remote = remote
	return exitcode.Success, true
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	errStr := err.Error()

	if strings.HasPrefix(errStr, "flag needs an argument:") {
		return errStr
	}

	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimPrefix(errStr, "flag provided but not defined: ")
	}

	return errStr
}
