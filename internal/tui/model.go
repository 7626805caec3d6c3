package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"librarian/internal/where"
)

// Model is the Bubble Tea model for browsing a similarity report.
type Model struct {
	index    *where.Index
	clusters []where.ClusterInfo
	filtered []where.ClusterInfo
	input    textinput.Model
	viewport viewport.Model
	status   string
	cursor   int
	ready    bool
}

// New creates a browser over the given location index and its clusters.
func New(index *where.Index, clusters []where.ClusterInfo) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Filter by type, marketplace or filename; Enter to apply"
	ti.Focus()
	ti.CharLimit = 0
	vp := viewport.New(0, 0)
	return Model{
		index:    index,
		clusters: clusters,
		filtered: clusters,
		input:    ti,
		viewport: vp,
		status:   fmt.Sprintf("%d clusters loaded. Up/down to browse.", len(clusters)),
	}
}

// Init initializes the model (text input cursor blink).
func (m Model) Init() tea.Cmd { return textinput.Blink }

// Update handles key and window events and updates the view state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ready = true
		_, rh := resultBoxStyle.GetFrameSize()
		_, qh := queryBoxStyle.GetFrameSize()
		reserved := 2 + qh + 1
		vh := msg.Height - reserved
		if vh < 3 {
			vh = 3
		}
		m.viewport.Width = max(20, msg.Width)
		m.viewport.Height = max(3, vh-rh)
		m.viewport.SetContent(m.renderCurrentCluster())
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyCtrlD {
			return m, tea.Quit
		}
		switch msg.String() {
		case "enter":
			m.applyFilter(strings.TrimSpace(m.input.Value()))
			m.viewport.SetContent(m.renderCurrentCluster())
			return m, nil
		case "down":
			if len(m.filtered) > 0 {
				m.cursor = (m.cursor + 1) % len(m.filtered)
				m.viewport.SetContent(m.renderCurrentCluster())
				return m, nil
			}
		case "up":
			if len(m.filtered) > 0 {
				m.cursor = (m.cursor - 1 + len(m.filtered)) % len(m.filtered)
				m.viewport.SetContent(m.renderCurrentCluster())
				return m, nil
			}
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View renders the browser layout.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	header := lipgloss.NewStyle().Bold(true).Render("Librarian Cluster Browser")
	body := resultBoxStyle.Render(m.viewport.View())
	input := queryBoxStyle.Render(m.input.View())
	status := lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Render(m.status)
	return header + "\n" + body + "\n" + input + "\n" + status
}

func (m *Model) applyFilter(query string) {
	if query == "" {
		m.filtered = m.clusters
		m.cursor = 0
		m.status = fmt.Sprintf("%d clusters.", len(m.filtered))
		return
	}
	q := strings.ToLower(query)
	var filtered []where.ClusterInfo
	for _, c := range m.clusters {
		if clusterMatches(c, q) {
			filtered = append(filtered, c)
		}
	}
	m.filtered = filtered
	m.cursor = 0
	m.status = fmt.Sprintf("%d clusters match %q.", len(filtered), query)
}

func clusterMatches(c where.ClusterInfo, q string) bool {
	if strings.Contains(strings.ToLower(c.Type), q) {
		return true
	}
	for _, mp := range c.Marketplaces {
		if strings.Contains(strings.ToLower(mp), q) {
			return true
		}
	}
	for _, loc := range c.Locations {
		if strings.Contains(strings.ToLower(loc.Filename()), q) {
			return true
		}
	}
	return false
}

func (m Model) renderCurrentCluster() string {
	if len(m.filtered) == 0 {
		return "No clusters match."
	}
	c := m.filtered[m.cursor]
	title := fmt.Sprintf("Cluster %d/%d  #%d  %s  %d files  %.0f%% similar",
		m.cursor+1, len(m.filtered), c.ID, c.Type, c.Size, c.AvgSimilarity*100)
	if c.HasOfficial {
		title += "  " + officialStyle.Render("[has official]")
	}
	var b strings.Builder
	b.WriteString(title + "\n\n")
	b.WriteString("Marketplaces: " + strings.Join(c.Marketplaces, ", ") + "\n\n")
	for _, loc := range c.Locations {
		line := "  " + loc.FullKey()
		if loc.IsOfficial {
			line += " " + officialStyle.Render("[official]")
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

var (
	resultBoxStyle = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	queryBoxStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	officialStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
)

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
