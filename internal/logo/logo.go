// Package logo renders the Crystaline wordmark for the terminal.
package logo

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/chasedut/crystaline/internal/theme"
	"github.com/lucasb-eyer/go-colorful"
)

const (
	word  = "CRYSTALINE"
	tag   = "Groq chat"
	facet = "◆"
)

// Opts are the options for rendering the wordmark.
type Opts struct {
	From  colorful.Color // left end of the title gradient
	To    colorful.Color // right end of the title gradient
	Width int            // truncate rows to this width when positive
}

// OptsFor derives gradient colors from a theme.
func OptsFor(t theme.Theme) Opts {
	from, err := colorful.Hex(t.Primary)
	if err != nil {
		from = colorful.Color{R: 1, G: 1, B: 1}
	}
	to, err := colorful.Hex(t.Secondary)
	if err != nil {
		to = from
	}
	return Opts{From: from, To: to}
}

// Render returns a two row banner: the spaced out title between crystal
// facets, then the tag line with the version right aligned under it.
func Render(version string, o Opts) string {
	title := strings.Join(strings.Split(word, ""), " ")
	field := lipgloss.NewStyle().Foreground(o.To).Render(facet + facet)
	top := field + " " + ApplyForegroundGrad(title, o.From, o.To) + " " + field

	width := lipgloss.Width(top)
	version = ansi.Truncate(version, max(0, width-lipgloss.Width(tag)-1), "…")
	gap := max(1, width-lipgloss.Width(tag)-lipgloss.Width(version))
	meta := lipgloss.NewStyle().Foreground(o.From).Render(tag) +
		strings.Repeat(" ", gap) +
		lipgloss.NewStyle().Faint(true).Render(version)

	rows := []string{top, meta}
	if o.Width > 0 {
		for i, row := range rows {
			rows[i] = ansi.Truncate(row, o.Width, "")
		}
	}
	return strings.Join(rows, "\n")
}

// ApplyForegroundGrad colors each rune of s along a gradient from a to b.
func ApplyForegroundGrad(s string, a, b colorful.Color) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, r := range runes {
		step := 0.0
		if len(runes) > 1 {
			step = float64(i) / float64(len(runes)-1)
		}
		c := a.BlendHcl(b, step).Clamped()
		fmt.Fprint(&sb, lipgloss.NewStyle().Foreground(c).Render(string(r)))
	}
	return sb.String()
}
