package loadtop

import (
	"github.com/charmbracelet/lipgloss"
)

// TabSet tracks the views of the dashboard and which one is shown
type TabSet struct {
	tabs        []string
	selectedTab int
}

func NewTabSet(tabs ...string) *TabSet {
	return &TabSet{tabs: tabs}
}

// NextTab moves to the next tab (wraps around)
func (ts *TabSet) NextTab() *TabSet {
	if len(ts.tabs) > 0 {
		ts.selectedTab = (ts.selectedTab + 1) % len(ts.tabs)
	}
	return ts
}

// PrevTab moves to the previous tab (wraps around)
func (ts *TabSet) PrevTab() *TabSet {
	if len(ts.tabs) > 0 {
		ts.selectedTab = (ts.selectedTab - 1 + len(ts.tabs)) % len(ts.tabs)
	}
	return ts
}

// Selected returns the name of the active tab
func (ts *TabSet) Selected() string {
	if len(ts.tabs) == 0 {
		return ""
	}
	return ts.tabs[ts.selectedTab]
}

// Render renders the tab navigation bar
func (ts *TabSet) Render() string {
	activeTabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("170")).
		Background(lipgloss.Color("235")).
		Bold(true).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("170"))

	inactiveTabStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Padding(0, 1).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("236"))

	rendered := make([]string, 0, len(ts.tabs))
	for i, tab := range ts.tabs {
		if i == ts.selectedTab {
			rendered = append(rendered, activeTabStyle.Render(tab))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(tab))
		}
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}
