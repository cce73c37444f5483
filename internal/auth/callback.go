package auth

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"golang.org/x/oauth2"
)

// callbackResult carries the outcome of the authorization callback.
type callbackResult struct {
	token *oauth2.Token
	err   error
}

// callbackHandler handles the OAuth2 authorization-code callback.
type callbackHandler struct {
	config     *oauth2.Config
	state      string
	resultChan chan callbackResult
	once       sync.Once
	hit        bool
	mu         sync.Mutex
}

func newCallbackHandler(config *oauth2.Config, state string) *callbackHandler {
	return &callbackHandler{
		config:     config,
		state:      state,
		resultChan: make(chan callbackResult, 1),
	}
}

// ServeHTTP validates the state parameter, exchanges the authorization code
// for tokens, and sends the result through the result channel.
func (h *callbackHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only handle the callback once
	h.mu.Lock()
	if h.hit {
		h.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	h.hit = true
	h.mu.Unlock()

	state := r.URL.Query().Get("state")
	if state != h.state {
		err := fmt.Errorf("invalid state parameter")
		h.send(callbackResult{err: err})
		http.Error(w, "Invalid state parameter", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		errParam := r.URL.Query().Get("error")
		errDesc := r.URL.Query().Get("error_description")
		err := fmt.Errorf("authorization failed: %s - %s", errParam, errDesc)
		h.send(callbackResult{err: err})
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	token, err := h.config.Exchange(context.Background(), code)
	if err != nil {
		h.send(callbackResult{err: fmt.Errorf("token exchange failed: %w", err)})
		http.Error(w, "Token exchange failed", http.StatusInternalServerError)
		return
	}

	h.send(callbackResult{token: token})

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `
<!DOCTYPE html>
<html>
<head>
    <title>Authorization Successful</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
               display: flex; align-items: center; justify-content: center; height: 100vh;
               margin: 0; background: #f5f5f5; }
        .container { text-align: center; background: white; padding: 2rem;
                     border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1 { color: #c4302b; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>✓ Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`)
}

// send delivers the result exactly once.
func (h *callbackHandler) send(result callbackResult) {
	h.once.Do(func() {
		h.resultChan <- result
		close(h.resultChan)
	})
}

// Result returns the channel carrying the single flow outcome.
func (h *callbackHandler) Result() <-chan callbackResult {
	return h.resultChan
}
