package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/flatgraph/pkg/document"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorPrimary)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorBright)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorFaint)
)

// =============================================================================
// InspectModel - Interactive flattened-graph browser
// =============================================================================

// InspectModel is the bubbletea model for browsing a flattened graph.
// The list view shows every node instance; enter opens a detail view of
// the selected node's socket connections.
type InspectModel struct {
	Graph  document.FlatGraph
	Title  string
	Cursor int
	Height int
	Offset int

	detail bool
}

// NewInspectModel creates a browser over a flattened graph.
func NewInspectModel(title string, g document.FlatGraph) InspectModel {
	return InspectModel{
		Graph:  g,
		Title:  title,
		Height: 15,
	}
}

func (m InspectModel) Init() tea.Cmd {
	return nil
}

func (m InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.detail {
				m.detail = false
				return m, nil
			}
			return m, tea.Quit
		case "up", "k":
			if !m.detail && m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if !m.detail && m.Cursor < len(m.Graph.Nodes)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			if len(m.Graph.Nodes) > 0 {
				m.detail = true
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m InspectModel) View() string {
	if m.detail {
		return m.detailView()
	}
	return m.listView()
}

// listView renders the scrolling node table.
func (m InspectModel) listView() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Flattened Graph: " + m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ details  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Graph.Nodes) {
		end = len(m.Graph.Nodes)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		n := m.Graph.Nodes[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", n.ID),
			n.Name,
			n.Path,
			m.framePath(n),
			fmt.Sprintf("%d/%d", len(n.Inputs), len(n.Outputs)),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorMuted).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorFaint)).
		Headers("", "ID", "Node", "Path", "Frame", "In/Out").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return listSelectedStyle
			}
			return listNormalStyle
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Graph.Nodes))))
	if d := len(m.Graph.Diagnostics); d > 0 {
		b.WriteString(listDimStyle.Render("  ·  "))
		b.WriteString(StyleWarning.Render(fmt.Sprintf("%d warnings", d)))
	}

	return b.String()
}

// detailView renders the selected node's socket connections.
func (m InspectModel) detailView() string {
	n := m.Graph.Nodes[m.Cursor]

	var b strings.Builder
	b.WriteString(StyleTitle.Render(n.Path))
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  #%d", n.ID)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("esc back  q quit"))
	b.WriteString("\n\n")

	b.WriteString(StyleHighlight.Render("Inputs"))
	b.WriteString("\n")
	if len(n.Inputs) == 0 {
		b.WriteString(listDimStyle.Render("  none"))
		b.WriteString("\n")
	}
	for _, s := range n.Inputs {
		b.WriteString("  " + listNormalStyle.Render(s.Name))
		conns := make([]string, 0, len(s.Sources)+len(s.Placeholders))
		conns = append(conns, s.Sources...)
		conns = append(conns, s.Placeholders...)
		if len(conns) > 0 {
			b.WriteString(listDimStyle.Render(" ← " + strings.Join(conns, ", ")))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(StyleHighlight.Render("Outputs"))
	b.WriteString("\n")
	if len(n.Outputs) == 0 {
		b.WriteString(listDimStyle.Render("  none"))
		b.WriteString("\n")
	}
	for _, s := range n.Outputs {
		b.WriteString("  " + listNormalStyle.Render(s.Name))
		if len(s.Targets) > 0 {
			b.WriteString(listDimStyle.Render(" → " + strings.Join(s.Targets, ", ")))
		}
		b.WriteString("\n")
	}

	if n.Frame != nil {
		b.WriteString("\n")
		b.WriteString(StyleHighlight.Render("Expanded via"))
		b.WriteString("\n")
		for _, line := range m.frameChain(*n.Frame) {
			b.WriteString("  " + listDimStyle.Render(line) + "\n")
		}
	}

	return b.String()
}

// framePath resolves a node's frame reference to its path, "—" at root.
func (m InspectModel) framePath(n document.FlatNode) string {
	if n.Frame == nil {
		return "—"
	}
	for _, fr := range m.Graph.Frames {
		if fr.ID == *n.Frame {
			return fr.Path
		}
	}
	return fmt.Sprintf("#%d", *n.Frame)
}

// frameChain lists the frames from the outermost group down to frame id.
func (m InspectModel) frameChain(id int) []string {
	byID := make(map[int]document.FlatFrame, len(m.Graph.Frames))
	for _, fr := range m.Graph.Frames {
		byID[fr.ID] = fr
	}

	var chain []string
	for {
		fr, ok := byID[id]
		if !ok {
			break
		}
		chain = append(chain, fmt.Sprintf("%s (%s)", fr.Path, fr.Graph))
		if fr.Parent == nil {
			break
		}
		id = *fr.Parent
	}

	// Reverse so the outermost frame comes first.
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
