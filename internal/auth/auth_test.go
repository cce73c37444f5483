package auth

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/oauth2"
)

func testConfig(tokenURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     "id",
		ClientSecret: "secret",
		Endpoint:     oauth2.Endpoint{TokenURL: tokenURL},
		RedirectURL:  "http://127.0.0.1:8484/callback",
		Scopes:       Scopes,
	}
}

func TestCallbackHandler(t *testing.T) {
	t.Run("RejectsBadState", func(t *testing.T) {
		h := newCallbackHandler(testConfig("http://unused"), "expected")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=wrong&code=abc", nil))

		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		result := <-h.Result()
		if result.err == nil {
			t.Error("expected state validation error")
		}
	})

	t.Run("RejectsMissingCode", func(t *testing.T) {
		h := newCallbackHandler(testConfig("http://unused"), "s")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=s&error=access_denied", nil))

		result := <-h.Result()
		if result.err == nil || !strings.Contains(result.err.Error(), "access_denied") {
			t.Errorf("err = %v, want authorization failure naming access_denied", result.err)
		}
	})

	t.Run("ExchangesCode", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"access_token":"at","refresh_token":"rt","token_type":"Bearer"}`))
		}))
		defer ts.Close()

		h := newCallbackHandler(testConfig(ts.URL), "s")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=s&code=abc", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		result := <-h.Result()
		if result.err != nil {
			t.Fatalf("exchange failed: %v", result.err)
		}
		if result.token.AccessToken != "at" {
			t.Errorf("access token = %q", result.token.AccessToken)
		}
	})

	t.Run("SecondHitRejected", func(t *testing.T) {
		h := newCallbackHandler(testConfig("http://unused"), "s")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=wrong", nil))

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest("GET", "/callback?state=wrong", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("second hit status = %d, want 400", rec.Code)
		}
	})
}

func TestTokenCache(t *testing.T) {
	dir := t.TempDir()
	a, err := New("id", "secret", dir, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	path := a.TokenPath()
	if filepath.Dir(path) != dir {
		t.Errorf("token path %q outside token dir", path)
	}
	if !strings.HasPrefix(filepath.Base(path), "token-") {
		t.Errorf("token file %q missing token- prefix", filepath.Base(path))
	}

	if a.Authenticated() {
		t.Error("Authenticated() true before any token saved")
	}

	token := &oauth2.Token{AccessToken: "at", RefreshToken: "rt"}
	if err := a.saveToken(token); err != nil {
		t.Fatalf("saveToken: %v", err)
	}
	if !a.Authenticated() {
		t.Error("Authenticated() false after save")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat token: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("token file mode = %v, want 0600", info.Mode().Perm())
	}

	loaded, err := a.loadToken()
	if err != nil {
		t.Fatalf("loadToken: %v", err)
	}
	if loaded.AccessToken != "at" || loaded.RefreshToken != "rt" {
		t.Errorf("loaded token = %+v", loaded)
	}

	if err := a.Logout(); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if a.Authenticated() {
		t.Error("Authenticated() true after logout")
	}
	// logging out twice is fine
	if err := a.Logout(); err != nil {
		t.Errorf("second Logout: %v", err)
	}
}

func TestNewRequiresCredentials(t *testing.T) {
	if _, err := New("", "", t.TempDir(), nil); err == nil {
		t.Error("New without credentials did not error")
	}
}
