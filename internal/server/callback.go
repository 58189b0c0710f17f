package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/desertthunder/genmix/internal/shared"
)

// CallbackParams holds the raw query parameters delivered to the redirect
// endpoint. The receiver does not interpret them.
type CallbackParams struct {
	Code             string
	State            string
	ErrorCode        string
	ErrorDescription string
}

// Failed reports whether the authorization server redirected with an error.
func (p CallbackParams) Failed() bool {
	return p.ErrorCode != ""
}

// Receiver is a single-shot loopback HTTP server for the OAuth2 redirect.
//
// It accepts exactly one callback request, delivers its parameters through a
// buffered channel, and rejects any further requests. Start binds the
// listener; Stop is safe to call multiple times and from any goroutine.
type Receiver struct {
	host     string
	port     int
	path     string
	server   *http.Server
	listener net.Listener
	params   chan CallbackParams

	mu       sync.Mutex
	handled  bool
	sendOnce sync.Once
	stopOnce sync.Once
}

var _ Handler = (*Receiver)(nil)

// NewReceiver creates a receiver that will bind host:port and serve the
// /callback route.
func NewReceiver(host string, port int) *Receiver {
	return &Receiver{
		host:   host,
		port:   port,
		path:   "/callback",
		params: make(chan CallbackParams, 1),
	}
}

// RedirectURI returns the redirect URI the receiver serves, suitable for
// registration with the authorization server.
func (rc *Receiver) RedirectURI() string {
	return fmt.Sprintf("http://%s:%d%s", rc.host, rc.port, rc.path)
}

// Addr returns the bound listener address. Valid only after Start.
func (rc *Receiver) Addr() string {
	if rc.listener == nil {
		return ""
	}
	return rc.listener.Addr().String()
}

// Routes returns the HTTP routes this handler serves.
func (rc *Receiver) Routes() []string {
	return []string{rc.path}
}

// Start binds the loopback listener and begins serving in the background.
// A bind failure is reported immediately as [shared.ErrListenerBind]; the
// flow must not proceed without a listening redirect endpoint.
func (rc *Receiver) Start() error {
	addr := fmt.Sprintf("%s:%d", rc.host, rc.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", shared.ErrListenerBind, addr, err)
	}
	rc.listener = listener

	router := NewBasicRouter()
	router.Handler(rc)
	rc.server = &http.Server{Handler: router}

	go func() {
		// ErrServerClosed is the normal Stop path.
		_ = rc.server.Serve(listener)
	}()
	return nil
}

// ServeHTTP handles the redirect request. Only the first request is
// processed; repeats are rejected so a replayed redirect cannot deliver a
// second set of parameters.
func (rc *Receiver) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rc.mu.Lock()
	if rc.handled {
		rc.mu.Unlock()
		http.Error(w, "Callback already processed", http.StatusBadRequest)
		return
	}
	rc.handled = true
	rc.mu.Unlock()

	query := r.URL.Query()
	params := CallbackParams{
		Code:             query.Get("code"),
		State:            query.Get("state"),
		ErrorCode:        query.Get("error"),
		ErrorDescription: query.Get("error_description"),
	}
	rc.deliver(params)

	if params.Failed() || params.Code == "" {
		http.Error(w, "Authorization failed", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/html")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, successPage)
}

// deliver sends the parameters through the channel exactly once.
func (rc *Receiver) deliver(params CallbackParams) {
	rc.sendOnce.Do(func() {
		rc.params <- params
		close(rc.params)
	})
}

// Await blocks until the callback arrives or the context ends.
func (rc *Receiver) Await(ctx context.Context) (CallbackParams, error) {
	select {
	case params, ok := <-rc.params:
		if !ok {
			return CallbackParams{}, fmt.Errorf("%w: callback channel closed", shared.ErrTimeout)
		}
		return params, nil
	case <-ctx.Done():
		return CallbackParams{}, fmt.Errorf("%w: no callback received: %v", shared.ErrTimeout, ctx.Err())
	}
}

// Stop shuts the server down. Safe to call more than once.
func (rc *Receiver) Stop() error {
	var err error
	rc.stopOnce.Do(func() {
		if rc.server != nil {
			err = rc.server.Shutdown(context.Background())
		}
	})
	return err
}

const successPage = `
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
        h1 { color: #1DB954; margin: 0 0 1rem 0; }
        p { color: #666; margin: 0; }
    </style>
</head>
<body>
    <div class="container">
        <h1>&#10003; Authorization Successful</h1>
        <p>You can close this window and return to the terminal.</p>
    </div>
</body>
</html>
`
