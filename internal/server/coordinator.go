package server

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genmix/internal/shared"
	"golang.org/x/oauth2"
)

// FlowState tracks the coordinator through the authorization code flow.
type FlowState int

const (
	// StateIdle means the flow has not started.
	StateIdle FlowState = iota
	// StateAwaitingCallback means the authorization URL has been issued and
	// the coordinator is waiting for the redirect.
	StateAwaitingCallback
	// StateValidated means the callback passed validation and the code was
	// exchanged for a token.
	StateValidated
	// StateFailed means the flow ended without a token. A failed coordinator
	// cannot be restarted.
	StateFailed
)

func (s FlowState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingCallback:
		return "awaiting_callback"
	case StateValidated:
		return "validated"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CallbackSource abstracts the loopback receiver so the coordinator can be
// exercised without binding sockets.
type CallbackSource interface {
	Start() error
	Await(ctx context.Context) (CallbackParams, error)
	Stop() error
}

// TokenExchangeError describes an exchange attempt the authorization server
// rejected. The response status and body are preserved for diagnostics.
type TokenExchangeError struct {
	StatusCode int
	Body       string
}

func (e *TokenExchangeError) Error() string {
	return fmt.Sprintf("token exchange rejected with status %d: %s", e.StatusCode, e.Body)
}

func (e *TokenExchangeError) Unwrap() error {
	return shared.ErrTokenExchange
}

// Coordinator drives the OAuth2 authorization code flow end to end: state
// nonce issuance, callback validation, and token exchange.
//
// The returned state nonce is compared against the callback's state parameter
// BEFORE any exchange attempt. A mismatch is fatal; the code is discarded and
// the token endpoint is never contacted.
type Coordinator struct {
	config *oauth2.Config
	source CallbackSource
	logger *log.Logger

	mu    sync.Mutex
	state FlowState
	nonce string
}

// NewCoordinator creates a coordinator over the given OAuth2 configuration
// and callback source.
func NewCoordinator(config *oauth2.Config, source CallbackSource, logger *log.Logger) *Coordinator {
	return &Coordinator{
		config: config,
		source: source,
		logger: logger,
		state:  StateIdle,
	}
}

// State returns the coordinator's current flow state.
func (c *Coordinator) State() FlowState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) transition(to FlowState) {
	c.mu.Lock()
	c.state = to
	c.mu.Unlock()
}

// Begin issues a fresh state nonce, starts the callback source, and returns
// the authorization URL for the user to open. Begin may only be called from
// the idle state.
func (c *Coordinator) Begin() (string, error) {
	c.mu.Lock()
	if c.state != StateIdle {
		state := c.state
		c.mu.Unlock()
		return "", fmt.Errorf("cannot begin authorization from state %s", state)
	}

	nonce, err := shared.GenerateState()
	if err != nil {
		c.mu.Unlock()
		return "", err
	}
	c.nonce = nonce
	c.state = StateAwaitingCallback
	c.mu.Unlock()

	if err := c.source.Start(); err != nil {
		c.transition(StateFailed)
		return "", err
	}

	url := c.config.AuthCodeURL(c.nonce)
	c.logger.Debug("authorization flow started", "state", c.nonce)
	return url, nil
}

// Complete waits for the callback, validates it, and exchanges the code for
// a token. The callback source is stopped before Complete returns.
func (c *Coordinator) Complete(ctx context.Context) (*oauth2.Token, error) {
	defer c.source.Stop()

	if current := c.State(); current != StateAwaitingCallback {
		return nil, fmt.Errorf("cannot complete authorization from state %s", current)
	}

	params, err := c.source.Await(ctx)
	if err != nil {
		c.transition(StateFailed)
		return nil, err
	}

	if params.State != c.nonce {
		c.transition(StateFailed)
		c.logger.Error("state parameter mismatch", "expected", c.nonce, "received", params.State)
		return nil, fmt.Errorf("%w: possible cross-site request forgery", shared.ErrStateMismatch)
	}

	if params.Failed() {
		c.transition(StateFailed)
		return nil, fmt.Errorf("%w: %s: %s", shared.ErrAuthFailed, params.ErrorCode, params.ErrorDescription)
	}

	if params.Code == "" {
		c.transition(StateFailed)
		return nil, fmt.Errorf("%w: callback carried no authorization code", shared.ErrAuthFailed)
	}

	token, err := c.config.Exchange(ctx, params.Code)
	if err != nil {
		c.transition(StateFailed)
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, &TokenExchangeError{
				StatusCode: retrieveErr.Response.StatusCode,
				Body:       string(retrieveErr.Body),
			}
		}
		return nil, fmt.Errorf("%w: %v", shared.ErrTokenExchange, err)
	}

	c.transition(StateValidated)
	c.logger.Debug("authorization flow validated")
	return token, nil
}
