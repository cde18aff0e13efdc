package commands_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"todo/internal/backend/googletasks"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/logging"
)

const oauthClientJSON = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

// authConfig returns a config dir holding an OAuth client file when
// withClient is set, and the given token when tok is non-nil.
func authConfig(t *testing.T, withClient bool, tok *oauth2.Token) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Dir = t.TempDir()
	if withClient {
		if err := os.WriteFile(cfg.OAuthClientPath(), []byte(oauthClientJSON), 0600); err != nil {
			t.Fatal(err)
		}
	}
	if tok != nil {
		if err := googletasks.SaveToken(cfg, tok); err != nil {
			t.Fatalf("SaveToken: %v", err)
		}
	}
	return cfg
}

// authEnv has no store or remote: login and logout must not need them.
func authEnv(cfg *config.Config) *commands.Env {
	return &commands.Env{Config: cfg, Log: logging.Discard()}
}

func runAuth(t *testing.T, ctx context.Context, cmd commands.Command, cfg *config.Config) (string, string, int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := cmd.Run(ctx, authEnv(cfg), nil, &out, &errOut)
	return out.String(), errOut.String(), code
}

func TestAuthCommands_DoNotOpenStore(t *testing.T) {
	for _, cmd := range []commands.Command{&commands.LoginCmd{}, &commands.LogoutCmd{}} {
		if cmd.NeedsStore() || cmd.NeedsAuth() {
			t.Errorf("%s: expected NeedsStore and NeedsAuth to be false", cmd.Name())
		}
	}

	// A nil Store in the env would panic if logout touched it.
	cfg := authConfig(t, true, &oauth2.Token{AccessToken: "a", RefreshToken: "r"})
	if _, _, code := runAuth(t, context.Background(), &commands.LogoutCmd{}, cfg); code != exitcode.Success {
		t.Errorf("logout with no store: exit %d", code)
	}
}

func TestLoginCommand_NoOAuthClient(t *testing.T) {
	cfg := authConfig(t, false, nil)

	stdout, stderr, code := runAuth(t, context.Background(), &commands.LoginCmd{}, cfg)
	if code != exitcode.AuthError {
		t.Errorf("expected exit %d, got %d", exitcode.AuthError, code)
	}
	if stdout != "" {
		t.Errorf("expected no stdout, got %q", stdout)
	}
	if !strings.HasPrefix(stderr, "error: oauth_client.json not found in "+cfg.Dir) {
		t.Errorf("unexpected stderr %q", stderr)
	}
	if !strings.Contains(stderr, cfg.OAuthClientPath()) {
		t.Errorf("expected setup help naming %s, got %q", cfg.OAuthClientPath(), stderr)
	}
}

func TestLoginCommand_ValidTokenSkipsFlow(t *testing.T) {
	cfg := authConfig(t, true, &oauth2.Token{
		AccessToken:  "a",
		RefreshToken: "r",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour),
	})
	if !googletasks.TokenValid(context.Background(), cfg) {
		t.Fatal("expected stored token to be valid")
	}

	stdout, stderr, code := runAuth(t, context.Background(), &commands.LoginCmd{}, cfg)
	if code != exitcode.Success || stderr != "" {
		t.Fatalf("exit %d, stderr %q", code, stderr)
	}
	if stdout != "already logged in\n" {
		t.Errorf("expected 'already logged in', got %q", stdout)
	}
}

// An unusable token sends login into the browser flow, which the cancelled
// context aborts. The old token file must survive the failed attempt.
func TestLoginCommand_UnusableTokenStartsFlow(t *testing.T) {
	tests := []struct {
		name string
		tok  *oauth2.Token
	}{
		{"no refresh token", &oauth2.Token{AccessToken: "a", TokenType: "Bearer", Expiry: time.Now().Add(-time.Hour)}},
		{"no token", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := authConfig(t, true, tt.tok)
			if googletasks.TokenValid(context.Background(), cfg) {
				t.Fatal("expected stored token to be unusable")
			}
			before, _ := os.ReadFile(cfg.TokenPath())

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			stdout, stderr, code := runAuth(t, ctx, &commands.LoginCmd{}, cfg)
			if code != exitcode.AuthError {
				t.Errorf("expected exit %d, got %d", exitcode.AuthError, code)
			}
			if stdout != "" {
				t.Errorf("expected no stdout, got %q", stdout)
			}
			if !strings.Contains(stderr, "error: ") {
				t.Errorf("expected an error on stderr, got %q", stderr)
			}

			after, _ := os.ReadFile(cfg.TokenPath())
			if !bytes.Equal(before, after) {
				t.Errorf("token file changed: %q -> %q", before, after)
			}
		})
	}
}

func TestLogoutCommand(t *testing.T) {
	tests := []struct {
		name       string
		withToken  bool
		quiet      bool
		wantStdout string
	}{
		{"logged in", true, false, "logged out\n"},
		{"logged in quiet", true, true, ""},
		{"not logged in", false, false, "not logged in\n"},
		{"not logged in quiet", false, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var tok *oauth2.Token
			if tt.withToken {
				tok = &oauth2.Token{AccessToken: "a", RefreshToken: "r"}
			}
			cfg := authConfig(t, true, tok)
			cfg.Quiet = tt.quiet

			stdout, stderr, code := runAuth(t, context.Background(), &commands.LogoutCmd{}, cfg)
			if code != exitcode.Success || stderr != "" {
				t.Fatalf("exit %d, stderr %q", code, stderr)
			}
			if stdout != tt.wantStdout {
				t.Errorf("expected %q, got %q", tt.wantStdout, stdout)
			}

			if cfg.HasToken() {
				t.Error("expected token file to be gone")
			}
			if _, err := googletasks.LoadToken(cfg); err == nil {
				t.Error("expected LoadToken to fail after logout")
			}
			if !cfg.HasOAuthClient() {
				t.Error("expected oauth_client.json to be kept")
			}
		})
	}
}

func TestLogoutCommand_RejectsArguments(t *testing.T) {
	cfg := authConfig(t, true, &oauth2.Token{AccessToken: "a", RefreshToken: "r"})
	var out, errOut bytes.Buffer

	code := (&commands.LogoutCmd{}).Run(context.Background(), authEnv(cfg), []string{"now"}, &out, &errOut)
	if code != exitcode.UserError {
		t.Errorf("expected exit %d, got %d", exitcode.UserError, code)
	}
	if errOut.String() != "error: unexpected argument: now\n" {
		t.Errorf("unexpected stderr %q", errOut.String())
	}
	if !cfg.HasToken() {
		t.Error("rejected logout removed the token")
	}
}
