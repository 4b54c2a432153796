package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/oauth2"

	"ytkit/internal/logging"
	"ytkit/internal/services"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "token.json"), logging.NewNop())
}

func TestLoadMissingFileReturnsNoCredentials(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Load()
	if !errors.Is(err, services.ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
	if !strings.Contains(err.Error(), "auth setup") {
		t.Fatalf("expected setup guidance in error, got %q", err.Error())
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	store := newTestStore(t)
	rec := &Record{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenURI:     "https://oauth2.googleapis.com/token",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Scopes:       Scopes,
		Expiry:       time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	if err := store.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	info, err := os.Stat(store.Path())
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}

	loaded, err := store.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.RefreshToken != "refresh" || loaded.ClientID != "client-id" {
		t.Fatalf("unexpected record: %+v", loaded)
	}
}

func TestLoadRejectsRecordWithoutRefreshToken(t *testing.T) {
	store := newTestStore(t)
	if err := store.Save(&Record{AccessToken: "access"}); err != nil {
		t.Fatalf("save: %v", err)
	}
	_, err := store.Load()
	if !errors.Is(err, services.ErrNoCredentials) {
		t.Fatalf("expected ErrNoCredentials, got %v", err)
	}
}

func TestTokenRefreshesExpiredAndPersists(t *testing.T) {
	var refreshCalls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		refreshCalls++
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if got := r.Form.Get("refresh_token"); got != "refresh" {
			t.Fatalf("unexpected refresh_token %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"fresh","token_type":"Bearer","expires_in":3600}`)
	}))
	defer server.Close()

	store := newTestStore(t)
	rec := &Record{
		AccessToken:  "stale",
		RefreshToken: "refresh",
		TokenURI:     server.URL,
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		Expiry:       time.Now().Add(-time.Hour),
	}
	if err := store.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, server.Client())
	tok, err := store.Token(ctx)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if tok.AccessToken != "fresh" {
		t.Fatalf("expected refreshed token, got %q", tok.AccessToken)
	}
	if refreshCalls != 1 {
		t.Fatalf("expected one refresh call, got %d", refreshCalls)
	}

	// The refreshed token must already be on disk.
	data, err := os.ReadFile(store.Path())
	if err != nil {
		t.Fatalf("read token file: %v", err)
	}
	var persisted Record
	if err := json.Unmarshal(data, &persisted); err != nil {
		t.Fatalf("parse token file: %v", err)
	}
	if persisted.AccessToken != "fresh" {
		t.Fatalf("expected persisted access token 'fresh', got %q", persisted.AccessToken)
	}
	if persisted.RefreshToken != "refresh" {
		t.Fatalf("refresh token must survive the refresh, got %q", persisted.RefreshToken)
	}
}

func TestTokenValidSkipsRefresh(t *testing.T) {
	store := newTestStore(t)
	rec := &Record{
		AccessToken:  "current",
		RefreshToken: "refresh",
		TokenURI:     "http://127.0.0.1:1/token",
		Expiry:       time.Now().Add(time.Hour),
	}
	if err := store.Save(rec); err != nil {
		t.Fatalf("save: %v", err)
	}
	tok, err := store.Token(context.Background())
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if tok.AccessToken != "current" {
		t.Fatalf("expected stored token, got %q", tok.AccessToken)
	}
}

func TestRevokeDeletesTokenFile(t *testing.T) {
	var revoked string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		revoked = r.Form.Get("token")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	store := newTestStore(t)
	if err := store.Save(&Record{AccessToken: "a", RefreshToken: "refresh"}); err != nil {
		t.Fatalf("save: %v", err)
	}

	var out strings.Builder
	flow := &Flow{
		Store:      store,
		RevokeURL:  server.URL,
		HTTPClient: server.Client(),
		Logger:     logging.NewNop(),
		Out:        &out,
	}
	if err := flow.Revoke(context.Background()); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if revoked != "refresh" {
		t.Fatalf("expected refresh token sent to revoke endpoint, got %q", revoked)
	}
	if _, err := os.Stat(store.Path()); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected token file removed, stat err=%v", err)
	}
}
