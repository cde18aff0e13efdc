package googletasks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/oauth2"

	"todo/internal/config"
)

const testOAuthClient = `{"installed":{"client_id":"test","client_secret":"test","redirect_uris":["http://localhost"]}}`

func testConfig(t *testing.T, files map[string]string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Dir = t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(cfg.Dir, name), []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}
	return cfg
}

func TestOAuthConfig(t *testing.T) {
	cfg := testConfig(t, map[string]string{config.OAuthClientFile: testOAuthClient})
	oc, err := OAuthConfig(cfg)
	if err != nil {
		t.Fatalf("OAuthConfig: %v", err)
	}
	if oc.ClientID != "test" || len(oc.Scopes) != 1 || oc.Scopes[0] != Scope {
		t.Errorf("unexpected config %+v", oc)
	}

	if _, err := OAuthConfig(testConfig(t, nil)); err == nil {
		t.Error("expected error without oauth_client.json")
	}
}

func TestSaveLoadToken(t *testing.T) {
	cfg := config.Default()
	cfg.Dir = filepath.Join(t.TempDir(), "nested")

	want := &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"}
	if err := SaveToken(cfg, want); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	info, err := os.Stat(cfg.TokenPath())
	if err != nil {
		t.Fatalf("stat token: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("token mode = %o, want 600", perm)
	}

	got, err := LoadToken(cfg)
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if got.AccessToken != "a" || got.RefreshToken != "r" {
		t.Errorf("got %+v", got)
	}
}

func TestTokenValid_NoRefreshToken(t *testing.T) {
	cfg := testConfig(t, map[string]string{
		config.OAuthClientFile: testOAuthClient,
		config.TokenFile:       `{"access_token":"test","token_type":"Bearer","expiry":"2020-01-01T00:00:00Z"}`,
	})
	if TokenValid(context.Background(), cfg) {
		t.Error("token without refresh_token should be invalid")
	}
}

func TestTokenValid_Missing(t *testing.T) {
	if TokenValid(context.Background(), testConfig(t, nil)) {
		t.Error("missing token should be invalid")
	}
}

func TestCallbackHandler(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		status   int
		wantCode string
		wantErr  string
	}{
		{"ok", "?state=s1&code=abc", http.StatusOK, "abc", ""},
		{"state mismatch", "?state=other&code=abc", http.StatusBadRequest, "", "oauth state mismatch"},
		{"no code", "?state=s1", http.StatusBadRequest, "", "no code in callback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codeCh := make(chan string, 1)
			errCh := make(chan error, 1)
			h := callbackHandler("s1", codeCh, errCh)

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback"+tt.query, nil))

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			select {
			case code := <-codeCh:
				if code != tt.wantCode {
					t.Errorf("code = %q, want %q", code, tt.wantCode)
				}
			case err := <-errCh:
				if err.Error() != tt.wantErr {
					t.Errorf("err = %v, want %q", err, tt.wantErr)
				}
			default:
				t.Error("handler delivered nothing")
			}
		})
	}
}
