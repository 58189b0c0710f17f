package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Authorization flow errors
	ErrListenerBind  = fmt.Errorf("callback listener bind failed")
	ErrStateMismatch = fmt.Errorf("state nonce mismatch")
	ErrTokenExchange = fmt.Errorf("token exchange failed")
	ErrAuthFailed    = fmt.Errorf("authorization failed")
	ErrTimeout       = fmt.Errorf("operation timed out")

	// Catalog and publish errors
	ErrCatalogRequest = fmt.Errorf("catalog request failed")
	ErrSchema         = fmt.Errorf("unexpected response schema")
	ErrPublish        = fmt.Errorf("playlist publish failed")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
