package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#1DB954", "#04B575", "#FF5F56", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
	}
}

// Title renders s in the heading style.
func (p *Palette) Title(s string) string { return p.title.Render(s) }

// Success renders s in the success style.
func (p *Palette) Success(s string) string { return p.ok.Render(s) }

// Error renders s in the failure style.
func (p *Palette) Error(s string) string { return p.err.Render(s) }

// Warn renders s in the warning style.
func (p *Palette) Warn(s string) string { return p.warn.Render(s) }

// Help renders s in the muted help style.
func (p *Palette) Help(s string) string { return p.help.Render(s) }

// DefaultPalette returns the package-level stylesheet for CLI output.
func DefaultPalette() *Palette { return styles }

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
