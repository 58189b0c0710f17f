package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/genmix/internal/models"
	"github.com/desertthunder/genmix/internal/repositories"
	"github.com/desertthunder/genmix/internal/server"
	"github.com/desertthunder/genmix/internal/services"
	"github.com/desertthunder/genmix/internal/shared"
	"github.com/desertthunder/genmix/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// defaultCallbackTimeout bounds how long a curation command waits for the
// user to approve the authorization request in the browser, unless the
// config sets its own window.
const defaultCallbackTimeout = 2 * time.Minute

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	catalog services.Catalog
	logger  *log.Logger
	output  io.Writer
	input   io.Reader
	openURL func(string) error
}

// RunnerOpts contains configuration options for creating a Runner.
//
// Catalog and OpenURL exist for tests; production wiring leaves them nil and
// the runner authenticates on demand.
type RunnerOpts struct {
	Config  *shared.Config
	Catalog services.Catalog
	Logger  *log.Logger
	Output  io.Writer
	Input   io.Reader
	OpenURL func(string) error
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.OpenURL == nil {
		opts.OpenURL = shared.OpenBrowser
	}

	return &Runner{
		config:  opts.Config,
		catalog: opts.Catalog,
		logger:  opts.Logger,
		output:  opts.Output,
		input:   opts.Input,
		openURL: opts.OpenURL,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, curateCommand, historyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// authenticate runs the authorization code flow and returns a ready catalog.
// An injected catalog (tests) is returned as-is.
func (r *Runner) authenticate(ctx context.Context) (services.Catalog, error) {
	if r.catalog != nil {
		return r.catalog, nil
	}

	token, client, err := r.doOAuth(ctx)
	if err != nil {
		return nil, err
	}
	client.SetToken(token)
	return client, nil
}

// doOAuth executes the OAuth2 authorization flow with a local HTTP server.
func (r *Runner) doOAuth(ctx context.Context) (*oauth2.Token, *services.SpotifyClient, error) {
	spotify := r.config.Credentials.Spotify
	if spotify.ClientID == "" || spotify.ClientSecret == "" {
		return nil, nil, fmt.Errorf("%w: Spotify client_id and client_secret must be set in config.toml", shared.ErrMissingCredentials)
	}

	client, err := services.NewSpotifyClient(spotify.Map())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Spotify client: %w", err)
	}

	receiver := server.NewReceiver(r.config.Server.Host, r.config.Server.Port)
	coordinator := server.NewCoordinator(client.OAuthConfig(), receiver, r.logger)

	authURL, err := coordinator.Begin()
	if err != nil {
		return nil, nil, err
	}

	r.writePlain("Opening your browser for authorization...\n")
	if err := r.openURL(authURL); err != nil {
		r.logger.Warnf("could not open browser: %v", err)
		r.writePlain("Visit this URL to authorize:\n\n%s\n\n", authURL)
	}

	timeout := defaultCallbackTimeout
	if r.config.Server.TimeoutSeconds > 0 {
		timeout = time.Duration(r.config.Server.TimeoutSeconds) * time.Second
	}

	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	token, err := coordinator.Complete(waitCtx)
	if err != nil {
		return nil, nil, err
	}
	return token, client, nil
}

// newEngine builds a curation engine paced by the configured rate limit.
func (r *Runner) newEngine(catalog services.Catalog) *tasks.CurationEngine {
	var limiter *rate.Limiter
	if r.config.Curation.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.config.Curation.RateLimit), 1)
	}
	return tasks.NewCurationEngine(catalog, limiter, nil)
}

// drainProgress logs engine progress updates until the channel closes.
func (r *Runner) drainProgress(progress <-chan tasks.ProgressUpdate, done chan<- struct{}) {
	go func() {
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase.String())
		}
		close(done)
	}()
}

// openHistory opens the curation history database and ensures its schema.
func (r *Runner) openHistory() (*sql.DB, *repositories.CurationRepository, error) {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return nil, nil, err
	}
	shared.ConfigureDatabase(db, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return db, repositories.NewCurationRepository(db), nil
}

// recordRun persists a completed run. History failures are logged, never fatal.
func (r *Runner) recordRun(playlistID, name string, genres []string, mode string, trackCount, durationSeconds int) {
	db, repo, err := r.openHistory()
	if err != nil {
		r.logger.Warnf("could not open history database: %v", err)
		return
	}
	defer db.Close()

	run := models.NewCurationRun(0, playlistID, name, genres, mode, trackCount, durationSeconds)
	if err := repo.Create(run); err != nil {
		r.logger.Warnf("could not record curation run: %v", err)
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
