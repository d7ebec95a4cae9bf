// package ui provides lipgloss styling for console summaries
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	Title lipgloss.Style
	OK    lipgloss.Style
	Err   lipgloss.Style
	Warn  lipgloss.Style
	Help  lipgloss.Style
}

// DefaultPalette is the stylesheet used by the migration summary output.
var DefaultPalette = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		Title: NewBold(t).MarginBottom(1),
		OK:    NewBold(s),
		Err:   NewBold(e),
		Warn:  NewStyle(w),
		Help:  NewEm(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
