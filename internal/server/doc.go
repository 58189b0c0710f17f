// Package server provides the loopback HTTP infrastructure for the OAuth2
// authorization code flow.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Callback Receiver
//
// [Receiver] binds a loopback listener, serves the redirect landing page, and
// delivers the raw callback query parameters exactly once. It performs no
// validation; interpreting the parameters is the coordinator's job.
//
// # Authorization Coordinator
//
// [Coordinator] drives the full flow: it issues the state nonce, builds the
// authorization URL, awaits the callback through a [CallbackSource], validates
// the returned state before any token exchange, and exchanges the code for a
// token. A state mismatch is fatal and the exchange is never attempted.
package server
