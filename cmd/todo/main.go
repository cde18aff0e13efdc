// Package main is the entry point for the todo CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"

	"todo/internal/backend/googletasks"
	"todo/internal/cli"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/kv"
	"todo/internal/prompt"
	"todo/internal/service"
	"todo/internal/store"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	stores := func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Service, error) {
		backend, err := kv.Open(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		s, err := store.Open(ctx, backend, store.OptionsFromConfig(cfg, logger))
		if err != nil {
			backend.Close()
			return nil, err
		}
		return s, nil
	}

	remotes := func(ctx context.Context, cfg *config.Config, logger *log.Logger) (service.Remote, error) {
		if !cfg.HasOAuthClient() {
			return nil, fmt.Errorf("oauth_client.json not found in %s", cfg.Dir)
		}
		if !cfg.HasToken() {
			return nil, fmt.Errorf("not logged in (run: todo login)")
		}
		return googletasks.New(ctx, cfg, logger)
	}

	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, stores, remotes)
	dispatcher.SetPrompter(prompt.NewTerminal(os.Stdin, os.Stderr))

	code := dispatcher.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}
