package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// AuthLogin runs the OAuth2 authorization flow and prints the authenticated
// user's profile. Tokens are held in memory only, so each curation command
// authenticates on its own; this command exists to verify credentials.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	token, client, err := r.doOAuth(ctx)
	if err != nil {
		return fmt.Errorf("authentication failed: %w", err)
	}
	client.SetToken(token)

	id, displayName, err := client.CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch user profile: %w", err)
	}

	if displayName == "" {
		displayName = id
	}
	r.writePlain("✓ Authenticated as %s (ID: %s)\n", displayName, id)
	return nil
}
