package loadtop

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Pane represents a bordered panel in the dashboard.
//
//	pane := NewPane(SURFACE_ID, 82, 22).
//	    SetContent(surface.String()).
//	    SetFocused(true)
//	fmt.Println(pane.Render())
type Pane struct {
	title       string
	content     string
	width       int
	height      int
	borderStyle lipgloss.Style
	titleStyle  lipgloss.Style
	focused     bool
}

// NewPane creates a new pane with default styling
func NewPane(title string, width, height int) Pane {
	return Pane{
		title:  title,
		width:  width,
		height: height,
		borderStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")),
		titleStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("33")).
			Bold(true),
	}
}

// SetContent sets the pane content
func (p Pane) SetContent(content string) Pane {
	p.content = content
	return p
}

// SetFocused sets the focus state
func (p Pane) SetFocused(focused bool) Pane {
	p.focused = focused
	if focused {
		p.borderStyle = p.borderStyle.BorderForeground(lipgloss.Color("170"))
	} else {
		p.borderStyle = p.borderStyle.BorderForeground(lipgloss.Color("240"))
	}
	return p
}

func (p Pane) Render() string {
	var b strings.Builder

	if p.title != "" {
		b.WriteString(p.titleStyle.Render(p.title) + "\n")
	}
	b.WriteString(p.content)

	return p.borderStyle.
		Width(p.width).
		Height(p.height).
		Render(b.String())
}
