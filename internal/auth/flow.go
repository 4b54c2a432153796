package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"ytkit/internal/logging"
	"ytkit/internal/services"
)

// Flow runs the interactive OAuth consent dance: it opens a loopback
// listener, prints the consent URL, waits for the redirect, and
// exchanges the code for a credential which it hands to the store.
type Flow struct {
	Store            *Store
	ClientSecretPath string
	RedirectPort     int
	RevokeURL        string
	HTTPClient       *http.Client
	Logger           *slog.Logger
	Out              io.Writer
}

func (f *Flow) logger() *slog.Logger {
	return logging.NewComponentLogger(f.Logger, "auth")
}

func (f *Flow) httpClient() *http.Client {
	if f.HTTPClient != nil {
		return f.HTTPClient
	}
	return http.DefaultClient
}

// Setup performs the full consent flow and persists the credential.
func (f *Flow) Setup(ctx context.Context) error {
	data, err := os.ReadFile(f.ClientSecretPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return services.Wrap(services.ErrNoCredentials, "auth setup",
				fmt.Sprintf("client secret not found at %s; download it from the Google Cloud console", f.ClientSecretPath), nil)
		}
		return fmt.Errorf("auth setup: %w", err)
	}
	conf, err := google.ConfigFromJSON(data, Scopes...)
	if err != nil {
		return fmt.Errorf("auth setup: parse client secret: %w", err)
	}
	conf.RedirectURL = fmt.Sprintf("http://localhost:%d/", f.RedirectPort)

	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", f.RedirectPort))
	if err != nil {
		return fmt.Errorf("auth setup: listen on port %d: %w", f.RedirectPort, err)
	}
	defer listener.Close()

	state := uuid.NewString()
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)
	server := &http.Server{Handler: redirectHandler(state, codeCh, errCh)}
	go server.Serve(listener)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintln(f.Out, "Open this URL in your browser to authorize access:")
	fmt.Fprintln(f.Out)
	fmt.Fprintf(f.Out, "  %s\n", authURL)
	fmt.Fprintln(f.Out)
	fmt.Fprintln(f.Out, "Waiting for authorization...")

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return fmt.Errorf("auth setup: %w", err)
	case <-ctx.Done():
		return fmt.Errorf("auth setup: %w", ctx.Err())
	}

	exchangeCtx := context.WithValue(ctx, oauth2.HTTPClient, f.httpClient())
	tok, err := conf.Exchange(exchangeCtx, code)
	if err != nil {
		return fmt.Errorf("auth setup: exchange code: %w", err)
	}
	if tok.RefreshToken == "" {
		return fmt.Errorf("auth setup: authorization server returned no refresh token")
	}

	rec := &Record{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenURI:     conf.Endpoint.TokenURL,
		ClientID:     conf.ClientID,
		ClientSecret: conf.ClientSecret,
		Scopes:       Scopes,
		Expiry:       tok.Expiry,
	}
	if err := f.Store.Save(rec); err != nil {
		return err
	}
	f.logger().Info("credentials stored", logging.String("path", f.Store.Path()))
	fmt.Fprintf(f.Out, "Authorization complete. Credentials saved to %s\n", f.Store.Path())
	return nil
}

// Revoke invalidates the stored refresh token with the authorization
// server and deletes the token file. The file is removed even when the
// server-side revocation fails.
func (f *Flow) Revoke(ctx context.Context) error {
	rec, err := f.Store.Load()
	if err != nil {
		return err
	}

	form := url.Values{"token": {rec.RefreshToken}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.RevokeURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("auth revoke: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := f.httpClient().Do(req)
	if err != nil {
		f.logger().Warn("revocation request failed", logging.Error(err))
	} else {
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			f.logger().Warn("revocation rejected", logging.Int("status", resp.StatusCode))
		}
	}

	if err := f.Store.Delete(); err != nil {
		return err
	}
	fmt.Fprintf(f.Out, "Credentials revoked and %s removed\n", f.Store.Path())
	return nil
}

func redirectHandler(state string, codeCh chan<- string, errCh chan<- error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if errName := query.Get("error"); errName != "" {
			http.Error(w, "Authorization denied. You can close this window.", http.StatusBadRequest)
			errCh <- fmt.Errorf("authorization denied: %s", errName)
			return
		}
		if query.Get("state") != state {
			http.Error(w, "State mismatch. You can close this window.", http.StatusBadRequest)
			errCh <- errors.New("state mismatch in redirect")
			return
		}
		code := query.Get("code")
		if code == "" {
			http.Error(w, "Missing authorization code.", http.StatusBadRequest)
			errCh <- errors.New("redirect carried no authorization code")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><body><p>Authorization complete. You can close this window.</p></body></html>")
		codeCh <- code
	})
}
