// Package auth acquires and caches OAuth2 credentials for the YouTube Data
// API using the installed-app flow: a local callback server catches the
// authorization code after the user approves access in a browser.
//
// Tokens are cached on disk, one file per scope set, so repeat runs skip the
// browser entirely until the refresh token dies.
package auth

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/veltzer/tubekit/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scopes is the permission set requested from the account. Full playlist
// mutation needs the broad youtube scope.
var Scopes = []string{"https://www.googleapis.com/auth/youtube"}

const callbackAddr = "127.0.0.1:8484"

// Authenticator produces authenticated HTTP clients for the YouTube API.
type Authenticator struct {
	config   *oauth2.Config
	tokenDir string
	logger   *log.Logger

	// openURL launches the browser; injectable for tests.
	openURL func(url string) error
}

// New creates an Authenticator. tokenDir is created on first use.
func New(clientID, clientSecret, tokenDir string, logger *log.Logger) (*Authenticator, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: youtube client_id and client_secret are required", shared.ErrMissingConfig)
	}
	return &Authenticator{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  "http://" + callbackAddr + "/callback",
			Scopes:       Scopes,
		},
		tokenDir: shared.ExpandHome(tokenDir),
		logger:   logger,
		openURL:  shared.OpenBrowser,
	}, nil
}

// TokenPath returns the cache file for the current scope set. The file name
// embeds a digest of the scopes so widening permissions forces a fresh grant.
func (a *Authenticator) TokenPath() string {
	sum := md5.Sum([]byte(strings.Join(a.config.Scopes, " ")))
	return filepath.Join(a.tokenDir, fmt.Sprintf("token-%x.json", sum))
}

// Client returns an HTTP client carrying a valid token, running the
// interactive browser flow when no cached token can be used.
func (a *Authenticator) Client(ctx context.Context) (*http.Client, error) {
	token, err := a.loadToken()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if token == nil {
		token, err = a.authorize(ctx)
		if err != nil {
			return nil, err
		}
		if err := a.saveToken(token); err != nil {
			return nil, err
		}
	}

	// Wrap the refreshing source so renewed tokens land back in the cache.
	source := a.config.TokenSource(ctx, token)
	return oauth2.NewClient(ctx, &savingSource{src: source, auth: a, last: token}), nil
}

// Authenticated reports whether a cached token exists.
func (a *Authenticator) Authenticated() bool {
	_, err := os.Stat(a.TokenPath())
	return err == nil
}

// Logout removes the cached token.
func (a *Authenticator) Logout() error {
	err := os.Remove(a.TokenPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

// authorize runs the browser flow: start the callback server, open the
// consent URL, wait for the code, exchange it.
func (a *Authenticator) authorize(ctx context.Context) (*oauth2.Token, error) {
	state := shared.GenerateID()
	handler := newCallbackHandler(a.config, state)

	listener, err := net.Listen("tcp", callbackAddr)
	if err != nil {
		return nil, fmt.Errorf("%w: start callback server: %w", shared.ErrAuthFailed, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/callback", handler)
	srv := &http.Server{Handler: mux}
	go srv.Serve(listener)
	defer srv.Close()

	url := a.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
	if a.logger != nil {
		a.logger.Info("opening browser for authorization", "url", url)
	}
	if err := a.openURL(url); err != nil && a.logger != nil {
		a.logger.Warn("could not open browser, visit the URL manually", "err", err)
	}

	select {
	case result := <-handler.Result():
		if result.err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, result.err)
		}
		return result.token, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *Authenticator) loadToken() (*oauth2.Token, error) {
	data, err := os.ReadFile(a.TokenPath())
	if err != nil {
		return nil, err
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("parse cached token: %w", err)
	}
	return &token, nil
}

func (a *Authenticator) saveToken(token *oauth2.Token) error {
	if err := os.MkdirAll(a.tokenDir, 0700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	data, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := os.WriteFile(a.TokenPath(), data, 0600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	return nil
}

// savingSource persists tokens whenever the underlying source refreshes.
type savingSource struct {
	src  oauth2.TokenSource
	auth *Authenticator
	mu   sync.Mutex
	last *oauth2.Token
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	token, err := s.src.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || token.AccessToken != s.last.AccessToken {
		s.last = token
		if err := s.auth.saveToken(token); err != nil && s.auth.logger != nil {
			s.auth.logger.Warn("could not persist refreshed token", "err", err)
		}
	}
	return token, nil
}
