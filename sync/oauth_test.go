package sync

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"golang.org/x/oauth2"
)

func useTempDataHome(t *testing.T) {
	t.Helper()
	orig := xdg.DataHome
	xdg.DataHome = t.TempDir()
	t.Cleanup(func() { xdg.DataHome = orig })
}

func TestOAuthConfigCreation(t *testing.T) {
	config := NewOAuthConfig()

	if config == nil {
		t.Fatal("expected config, got nil")
	}

	if len(config.Scopes) != 1 || config.Scopes[0] != ContactsScope {
		t.Errorf("expected only the contacts scope, got %v", config.Scopes)
	}

	if !strings.HasSuffix(config.RedirectURL, "/oauth/callback") {
		t.Errorf("unexpected redirect URL %s", config.RedirectURL)
	}
}

func TestTokenPathXDG(t *testing.T) {
	path := TokenPath()

	expectedBase := filepath.Join(xdg.DataHome, "crmdesk")
	if !strings.HasPrefix(path, expectedBase) {
		t.Errorf("expected path under %s, got %s", expectedBase, path)
	}

	if filepath.Base(path) != "google-credentials.json" {
		t.Errorf("expected filename google-credentials.json, got %s", filepath.Base(path))
	}
}

func TestSaveAndLoadToken(t *testing.T) {
	useTempDataHome(t)

	if _, err := LoadToken(); err == nil {
		t.Fatal("expected error loading a missing token")
	}

	token := &oauth2.Token{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenType:    "Bearer",
		Expiry:       time.Now().Add(time.Hour).Round(time.Second),
	}
	if err := SaveToken(token); err != nil {
		t.Fatalf("failed to save token: %v", err)
	}

	info, err := os.Stat(TokenPath())
	if err != nil {
		t.Fatalf("token file missing: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
	}

	loaded, err := LoadToken()
	if err != nil {
		t.Fatalf("failed to load token: %v", err)
	}
	if loaded.AccessToken != "access" || loaded.RefreshToken != "refresh" {
		t.Errorf("unexpected token %+v", loaded)
	}
}

func TestConfiguredOAuthRequiresCredentials(t *testing.T) {
	t.Setenv("GOOGLE_CLIENT_ID", "")
	t.Setenv("GOOGLE_CLIENT_SECRET", "")

	if _, err := ConfiguredOAuth(); err == nil {
		t.Error("expected error without credentials")
	}

	t.Setenv("GOOGLE_CLIENT_ID", "id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "secret")

	config, err := ConfiguredOAuth()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if config.ClientID != "id" {
		t.Errorf("expected client id from env, got %s", config.ClientID)
	}
}
