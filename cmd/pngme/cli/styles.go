// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"io"
	"strings"
	"unicode/utf8"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"
)

// Styles renders terminal output for one writer. Colors are chosen by
// the writer's capabilities: a pipe or file gets plain text.
type Styles struct {
	Header   lipgloss.Style
	Type     lipgloss.Style
	Faint    lipgloss.Style
	Good     lipgloss.Style
	Bad      lipgloss.Style
	Critical lipgloss.Style

	profile termenv.Profile
}

// NewStyles returns styles bound to w's color profile.
func NewStyles(w io.Writer) *Styles {
	renderer := lipgloss.NewRenderer(w)
	return newStyles(renderer)
}

// NewStylesWithProfile returns styles that render with profile
// regardless of what w is.
func NewStylesWithProfile(w io.Writer, profile termenv.Profile) *Styles {
	renderer := lipgloss.NewRenderer(w, termenv.WithProfile(profile))
	renderer.SetColorProfile(profile)
	return newStyles(renderer)
}

func newStyles(renderer *lipgloss.Renderer) *Styles {
	return &Styles{
		profile:  renderer.ColorProfile(),
		Header:   renderer.NewStyle().Bold(true),
		Type:     renderer.NewStyle().Foreground(lipgloss.Color("75")).Bold(true),
		Faint:    renderer.NewStyle().Foreground(lipgloss.Color("244")),
		Good:     renderer.NewStyle().Foreground(lipgloss.Color("78")),
		Bad:      renderer.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		Critical: renderer.NewStyle().Foreground(lipgloss.Color("214")),
	}
}

// Colored reports whether the styles emit color.
func (s *Styles) Colored() bool {
	return s.profile != termenv.Ascii
}

// Highlight writes source to w, syntax-highlighted as language when
// the styles emit color and verbatim otherwise.
func (s *Styles) Highlight(w io.Writer, source, language string) error {
	if !s.Colored() {
		_, err := io.WriteString(w, source)
		return err
	}
	return quick.Highlight(w, source, language, "terminal256", "monokai")
}

// Preview renders data as a single line no wider than width cells,
// with newlines and tabs escaped. Data that is not printable text
// renders as "<binary>".
func Preview(data []byte, width int) string {
	text := strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`).Replace(string(data))
	if !isPrintable(text) {
		return "<binary>"
	}
	return ansi.Truncate(text, width, "…")
}

func isPrintable(text string) bool {
	for _, r := range text {
		if r == utf8.RuneError || r < 0x20 || r == 0x7F {
			return false
		}
	}
	return true
}
