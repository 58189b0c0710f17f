package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Curation modes selectable in the form and on the command line.
const (
	ModePersonalized = "personalized"
	ModeDiscover     = "discover"
	ModeFill         = "fill"
)

// FormValues holds the parameters collected from the user.
type FormValues struct {
	Name          string
	Genres        []string
	Size          int
	TargetMinutes int
}

// CurationForm collects curation parameters through a column of text inputs.
//
// Enter advances to the next field and submits on the last one; esc cancels.
type CurationForm struct {
	mode      string
	labels    []string
	inputs    []textinput.Model
	focus     int
	done      bool
	cancelled bool
}

// NewCurationForm builds the input set for the given curation mode. The
// personalized mode asks for a track count, the fill mode for a duration,
// and the discover mode for neither.
func NewCurationForm(mode string) *CurationForm {
	labels := []string{"Playlist name", "Genres (comma separated)"}
	placeholders := []string{"My Genre Mix", "shoegaze, dream pop"}

	switch mode {
	case ModePersonalized:
		labels = append(labels, "Max tracks")
		placeholders = append(placeholders, "20")
	case ModeFill:
		labels = append(labels, "Target minutes")
		placeholders = append(placeholders, "60")
	}

	inputs := make([]textinput.Model, len(labels))
	for i := range inputs {
		input := textinput.New()
		input.Placeholder = placeholders[i]
		input.CharLimit = 120
		inputs[i] = input
	}
	inputs[0].Focus()

	return &CurationForm{
		mode:   mode,
		labels: labels,
		inputs: inputs,
	}
}

// Init implements the bubbletea model contract for the embedded form.
func (f *CurationForm) Init() tea.Cmd {
	return textinput.Blink
}

// Update routes key presses to the focused input and handles navigation.
func (f *CurationForm) Update(msg tea.Msg) (*CurationForm, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "ctrl+c":
			f.cancelled = true
			return f, nil
		case "enter":
			if f.focus == len(f.inputs)-1 {
				f.done = true
				return f, nil
			}
			f.setFocus(f.focus + 1)
			return f, nil
		case "tab", "down":
			f.setFocus((f.focus + 1) % len(f.inputs))
			return f, nil
		case "shift+tab", "up":
			f.setFocus((f.focus - 1 + len(f.inputs)) % len(f.inputs))
			return f, nil
		}
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, cmd
}

func (f *CurationForm) setFocus(index int) {
	f.inputs[f.focus].Blur()
	f.focus = index
	f.inputs[f.focus].Focus()
}

// View renders the labeled inputs.
func (f *CurationForm) View() string {
	var b strings.Builder
	b.WriteString(styles.Title("New Curated Playlist"))
	b.WriteString("\n\n")
	for i, input := range f.inputs {
		b.WriteString(fmt.Sprintf("%s\n%s\n\n", f.labels[i], input.View()))
	}
	b.WriteString(styles.Help("enter next/submit • tab navigate • esc cancel"))
	return b.String()
}

// Done reports whether the last field was submitted.
func (f *CurationForm) Done() bool { return f.done }

// Cancelled reports whether the user abandoned the form.
func (f *CurationForm) Cancelled() bool { return f.cancelled }

// Values parses the collected inputs. Numeric fields fall back to zero so
// the engine applies its defaults.
func (f *CurationForm) Values() FormValues {
	values := FormValues{
		Name:   strings.TrimSpace(f.inputs[0].Value()),
		Genres: SplitGenres(f.inputs[1].Value()),
	}

	if len(f.inputs) > 2 {
		n, _ := strconv.Atoi(strings.TrimSpace(f.inputs[2].Value()))
		switch f.mode {
		case ModePersonalized:
			values.Size = n
		case ModeFill:
			values.TargetMinutes = n
		}
	}
	return values
}

// SplitGenres splits a comma-separated genre list, trimming whitespace and
// dropping empty entries.
func SplitGenres(raw string) []string {
	parts := strings.Split(raw, ",")
	genres := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			genres = append(genres, trimmed)
		}
	}
	return genres
}
