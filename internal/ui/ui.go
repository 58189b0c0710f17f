package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/genmix/internal/shared"
	"github.com/desertthunder/genmix/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FormView ViewState = iota
	ConfirmView
	RunView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	mode         string
	engine       tasks.Curator
	form         *CurationForm
	values       FormValues
	width        int
	height       int
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	result       *tasks.CurationResult
	fillResult   *tasks.FillResult
	err          error
	help         help.Model
	keys         keyMap
}

type progressUpdateMsg tasks.ProgressUpdate

type curationCompleteMsg struct {
	result     *tasks.CurationResult
	fillResult *tasks.FillResult
	err        error
}

// NewModel creates a new TUI model for the given curation mode.
func NewModel(ctx context.Context, engine tasks.Curator, mode string) *Model {
	return &Model{
		ctx:    ctx,
		view:   FormView,
		mode:   mode,
		engine: engine,
		form:   NewCurationForm(mode),
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Result returns the completed curation result, if any.
func (m *Model) Result() *tasks.CurationResult { return m.result }

// FillResult returns the completed fill result, if any.
func (m *Model) FillResult() *tasks.FillResult { return m.fillResult }

// Values returns the parameters the user confirmed.
func (m *Model) Values() FormValues { return m.values }

// Init initializes the TUI with the parameter form focused.
func (m *Model) Init() tea.Cmd {
	return m.form.Init()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case FormView:
			return m.handleFormKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case curationCompleteMsg:
		m.result = msg.result
		m.fillResult = msg.fillResult
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	if m.view == FormView {
		var cmd tea.Cmd
		m.form, cmd = m.form.Update(msg)
		return m, cmd
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case FormView:
		return m.form.View()
	case ConfirmView:
		return m.renderConfirm()
	case RunView:
		return m.renderRun()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.form, cmd = m.form.Update(msg)

	if m.form.Cancelled() {
		return m, tea.Quit
	}
	if m.form.Done() {
		m.values = m.form.Values()
		m.view = ConfirmView
	}
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "n", "esc":
		m.view = FormView
		m.form = NewCurationForm(m.mode)
		return m, m.form.Init()
	case "y", "enter":
		m.view = RunView
		return m, m.startCuration()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "enter":
		return m, tea.Quit
	case "r":
		m.view = FormView
		m.form = NewCurationForm(m.mode)
		m.result = nil
		m.fillResult = nil
		m.err = nil
		return m, m.form.Init()
	}
	return m, nil
}

// startCuration launches the engine in the background and begins draining
// progress updates.
func (m *Model) startCuration() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progress := m.progressChan

	go func() {
		var msg curationCompleteMsg
		switch m.mode {
		case ModeDiscover:
			msg.result, msg.err = m.engine.DiscoverNewArtists(m.ctx, progress, tasks.DiscoveryParams{
				Name:   m.values.Name,
				Genres: m.values.Genres,
			})
		case ModeFill:
			msg.fillResult, msg.err = m.engine.FillToDuration(m.ctx, progress, tasks.FillParams{
				Name:          m.values.Name,
				Genres:        m.values.Genres,
				TargetSeconds: m.values.TargetMinutes * 60,
			})
		default:
			msg.result, msg.err = m.engine.CuratePersonalized(m.ctx, progress, tasks.CurationParams{
				Name:   m.values.Name,
				Genres: m.values.Genres,
				Size:   m.values.Size,
			})
		}
		m.result = msg.result
		m.fillResult = msg.fillResult
		m.err = msg.err
		close(progress)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress := m.progressChan
	return func() tea.Msg {
		if progress == nil {
			return curationCompleteMsg{result: m.result, fillResult: m.fillResult, err: m.err}
		}

		update, ok := <-progress
		if !ok {
			return curationCompleteMsg{result: m.result, fillResult: m.fillResult, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderConfirm() string {
	title := styles.Title(fmt.Sprintf("Create playlist %q?", m.values.Name))
	info := fmt.Sprintf("\nMode: %s\nGenres: %v\n", m.mode, m.values.Genres)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderRun() string {
	title := styles.Title("Curating Playlist")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchTopArtists:
		phase = "Fetching your top artists..."
	case tasks.GatherTracks:
		phase = fmt.Sprintf("Gathering tracks (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.SearchGenre:
		phase = fmt.Sprintf("Searching genres (%d/%d)", m.progress.Step, m.progress.Total)
	case tasks.PublishTracks:
		phase = "Adding tracks to the playlist..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.Error(fmt.Sprintf("Curation failed: %v", m.err)), helpView)
	}

	if m.fillResult != nil {
		if !m.fillResult.Created {
			return fmt.Sprintf("%s\n\n%s", styles.Warn("No artists were found for the requested genres."), helpView)
		}
		info := fmt.Sprintf(
			"\nPlaylist: %s (ID: %s)\nTracks: %d\nDuration: %s of %s requested",
			m.fillResult.PlaylistName,
			m.fillResult.PlaylistID,
			len(m.fillResult.TrackURIs),
			shared.FormatDuration(m.fillResult.TotalDuration),
			shared.FormatDuration(m.fillResult.TargetDuration),
		)
		return fmt.Sprintf("%s%s\n\n%s", styles.Success("Playlist created"), info, helpView)
	}

	if m.result == nil {
		return fmt.Sprintf("%s\n\n%s", styles.Error("No result available"), helpView)
	}
	if !m.result.Created {
		return fmt.Sprintf("%s\n\n%s", styles.Warn("No top artists matched the requested genres."), helpView)
	}

	info := fmt.Sprintf(
		"\nPlaylist: %s (ID: %s)\nTracks: %d",
		m.result.PlaylistName,
		m.result.PlaylistID,
		len(m.result.TrackURIs),
	)
	var failed string
	for _, batch := range m.result.Batches {
		if batch.Err != nil {
			failed += fmt.Sprintf("\n  %s", styles.Warn(fmt.Sprintf("genre %q failed: %v", batch.Genre, batch.Err)))
		}
	}

	return fmt.Sprintf("%s%s%s\n\n%s", styles.Success("Playlist created"), info, failed, helpView)
}
