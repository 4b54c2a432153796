package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"ytkit/internal/logging"
	"ytkit/internal/services"
)

// Scopes requested during setup. Read-only data and analytics access
// plus force-ssl for caption downloads.
var Scopes = []string{
	"https://www.googleapis.com/auth/youtube.readonly",
	"https://www.googleapis.com/auth/yt-analytics.readonly",
	"https://www.googleapis.com/auth/yt-analytics-monetary.readonly",
	"https://www.googleapis.com/auth/youtube.force-ssl",
}

// Record is the persisted credential, field names matching the token
// files written by Google's client libraries so existing tokens load
// unchanged.
type Record struct {
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	TokenURI     string    `json:"token_uri"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	Scopes       []string  `json:"scopes"`
	Expiry       time.Time `json:"expiry,omitempty"`
}

// Expired reports whether the access token is past its expiry. Records
// without an expiry are treated as expired so the first use refreshes.
func (r *Record) Expired(now time.Time) bool {
	if r.Expiry.IsZero() {
		return true
	}
	return !now.Before(r.Expiry)
}

func (r *Record) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     r.ClientID,
		ClientSecret: r.ClientSecret,
		Scopes:       r.Scopes,
		Endpoint: oauth2.Endpoint{
			TokenURL: r.TokenURI,
		},
	}
}

func (r *Record) token() *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		Expiry:       r.Expiry,
	}
}

// Store persists the OAuth credential as a JSON file and hands out
// refreshed tokens, writing refreshes back immediately.
type Store struct {
	path   string
	logger *slog.Logger

	mu sync.Mutex
}

// NewStore constructs a credential store for the given token path.
func NewStore(path string, logger *slog.Logger) *Store {
	return &Store{
		path:   path,
		logger: logging.NewComponentLogger(logger, "auth"),
	}
}

// Path returns the token file location.
func (s *Store) Path() string {
	return s.path
}

// Load reads the persisted credential. A missing file maps to
// ErrNoCredentials with setup guidance.
func (s *Store) Load() (*Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, services.Wrap(services.ErrNoCredentials, "load credentials",
				"no stored credentials; run 'ytkit auth setup' first", nil)
		}
		return nil, fmt.Errorf("load credentials: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("load credentials: parse %s: %w", s.path, err)
	}
	if rec.RefreshToken == "" {
		return nil, services.Wrap(services.ErrNoCredentials, "load credentials",
			"stored credentials have no refresh token; run 'ytkit auth setup' again", nil)
	}
	return &rec, nil
}

// Save writes the credential atomically with owner-only permissions.
func (s *Store) Save(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(rec)
}

func (s *Store) writeLocked(rec *Record) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// Delete removes the token file. Missing files are not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete credentials: %w", err)
	}
	return nil
}

// Token returns a valid access token, refreshing through the record's
// token endpoint when expired and persisting the result before
// returning.
func (s *Store) Token(ctx context.Context) (*oauth2.Token, error) {
	rec, err := s.Load()
	if err != nil {
		return nil, err
	}
	tok := rec.token()
	if tok.Valid() {
		return tok, nil
	}

	refreshed, err := rec.oauthConfig().TokenSource(ctx, tok).Token()
	if err != nil {
		return nil, services.Wrap(services.ErrNoCredentials, "refresh token",
			"token refresh failed; run 'ytkit auth setup' again", err)
	}
	s.persistRefresh(rec, refreshed)
	return refreshed, nil
}

// Client returns an HTTP client that injects the stored credential and
// persists any refresh the transport performs mid-flight.
func (s *Store) Client(ctx context.Context) (*http.Client, error) {
	rec, err := s.Load()
	if err != nil {
		return nil, err
	}
	source := rec.oauthConfig().TokenSource(ctx, rec.token())
	return oauth2.NewClient(ctx, &persistingSource{store: s, rec: rec, source: source}), nil
}

func (s *Store) persistRefresh(rec *Record, tok *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.AccessToken = tok.AccessToken
	rec.Expiry = tok.Expiry
	if tok.RefreshToken != "" {
		rec.RefreshToken = tok.RefreshToken
	}
	if err := s.writeLocked(rec); err != nil {
		s.logger.Warn("could not persist refreshed token", logging.Error(err))
		return
	}
	s.logger.Debug("refreshed access token persisted")
}

// persistingSource wraps a token source so transparent refreshes reach
// the token file instead of living only in memory.
type persistingSource struct {
	store  *Store
	rec    *Record
	source oauth2.TokenSource

	mu   sync.Mutex
	last string
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := p.source.Token()
	if err != nil {
		return nil, err
	}
	p.mu.Lock()
	changed := tok.AccessToken != p.last && tok.AccessToken != p.rec.AccessToken
	p.last = tok.AccessToken
	p.mu.Unlock()
	if changed {
		p.store.persistRefresh(p.rec, tok)
	}
	return tok, nil
}
