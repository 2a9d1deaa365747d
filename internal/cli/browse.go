package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/domclone/pkg/dom"
	pkgio "github.com/matzehuels/domclone/pkg/io"
)

// Browser styles
var (
	treeSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	treeClassStyle    = lipgloss.NewStyle().Foreground(colorWhite)
	treeDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	propKeyStyle      = lipgloss.NewStyle().Foreground(colorGray).Width(18)
	propTypeStyle     = lipgloss.NewStyle().Foreground(colorDim).Width(13)
	panelStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
)

// =============================================================================
// BrowserModel - Interactive instance tree
// =============================================================================

// treeRow is one visible line of the tree.
type treeRow struct {
	ref   dom.Ref
	depth int
}

// BrowserModel is the bubbletea model for exploring a document.
type BrowserModel struct {
	Doc      *dom.Document
	Expanded map[dom.Ref]bool
	Cursor   int
	Offset   int
	Height   int

	rows []treeRow
}

// NewBrowserModel creates a browser showing the root's children.
func NewBrowserModel(doc *dom.Document) BrowserModel {
	m := BrowserModel{
		Doc:      doc,
		Expanded: map[dom.Ref]bool{doc.RootRef(): true},
		Height:   20,
	}
	m.rows = m.visibleRows()
	return m
}

// visibleRows flattens the expanded part of the tree, skipping dangling
// links.
func (m BrowserModel) visibleRows() []treeRow {
	var rows []treeRow
	var walk func(ref dom.Ref, depth int)
	walk = func(ref dom.Ref, depth int) {
		inst, ok := m.Doc.Get(ref)
		if !ok {
			return
		}
		if depth > 0 {
			rows = append(rows, treeRow{ref: ref, depth: depth - 1})
		}
		if !m.Expanded[ref] {
			return
		}
		for _, c := range inst.Children() {
			walk(c, depth+1)
		}
	}
	walk(m.Doc.RootRef(), 0)
	return rows
}

// Selected returns the instance under the cursor, if any.
func (m BrowserModel) Selected() *dom.Instance {
	if m.Cursor >= len(m.rows) {
		return nil
	}
	inst, _ := m.Doc.Get(m.rows[m.Cursor].ref)
	return inst
}

func (m BrowserModel) Init() tea.Cmd {
	return nil
}

func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.rows)-1 {
				m.Cursor++
			}
		case "right", "l", "enter":
			if sel := m.Selected(); sel != nil && len(sel.Children()) > 0 {
				m.Expanded = cloneExpanded(m.Expanded)
				m.Expanded[sel.Referent()] = true
				m.rows = m.visibleRows()
			}
		case "left", "h":
			m = m.collapse()
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 5)
	}

	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m, nil
}

// collapse folds the selected instance, or moves to its parent when it is
// already folded.
func (m BrowserModel) collapse() BrowserModel {
	sel := m.Selected()
	if sel == nil {
		return m
	}
	if m.Expanded[sel.Referent()] {
		m.Expanded = cloneExpanded(m.Expanded)
		delete(m.Expanded, sel.Referent())
		m.rows = m.visibleRows()
		return m
	}
	depth := m.rows[m.Cursor].depth
	for i := m.Cursor - 1; i >= 0; i-- {
		if m.rows[i].depth < depth {
			m.Cursor = i
			break
		}
	}
	return m
}

func cloneExpanded(in map[dom.Ref]bool) map[dom.Ref]bool {
	out := make(map[dom.Ref]bool, len(in)+1)
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m BrowserModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Instances"))
	b.WriteString("\n")
	b.WriteString(treeDimStyle.Render("↑/↓ navigate  →/⏎ expand  ← collapse  q quit"))
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(treeDimStyle.Render("  (empty)"))
		b.WriteString("\n")
		return b.String()
	}

	var tree strings.Builder
	end := min(m.Offset+m.Height, len(m.rows))
	for i := m.Offset; i < end; i++ {
		r := m.rows[i]
		inst, _ := m.Doc.Get(r.ref)

		marker := "  "
		if len(inst.Children()) > 0 {
			marker = "▸ "
			if m.Expanded[r.ref] {
				marker = "▾ "
			}
		}
		label := treeClassStyle.Render(inst.Class)
		if inst.Name != inst.Class {
			label += " " + treeDimStyle.Render(inst.Name)
		}
		line := strings.Repeat("  ", r.depth) + marker + label
		if i == m.Cursor {
			line = strings.Repeat("  ", r.depth) + treeSelectedStyle.Render(marker+inst.Class+" "+inst.Name)
		}
		tree.WriteString(line)
		tree.WriteString("\n")
	}

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		tree.String(),
		"  ",
		panelStyle.Render(propertiesView(m.Selected())),
	))
	b.WriteString("\n")
	b.WriteString(treeDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.rows))))
	return b.String()
}

// propertiesView lists an instance's properties in key order.
func propertiesView(inst *dom.Instance) string {
	if inst == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render(inst.Class))
	b.WriteString(" ")
	b.WriteString(StyleValue.Render(inst.Name))
	b.WriteString("\n")
	b.WriteString(treeDimStyle.Render(inst.Referent().String()))
	b.WriteString("\n")
	keys := inst.SortedKeys()
	if len(keys) == 0 {
		b.WriteString(treeDimStyle.Render("no properties"))
	}
	for i, k := range keys {
		if i > 0 {
			b.WriteString("\n")
		}
		v := inst.Properties[k]
		b.WriteString(propKeyStyle.Render(k))
		b.WriteString(propTypeStyle.Render(v.Type().String()))
		b.WriteString(StyleValue.Render(formatValue(v)))
	}
	return b.String()
}

// formatValue renders a property value for display.
func formatValue(v dom.Value) string {
	const maxLen = 48
	var s string
	switch v := v.(type) {
	case dom.String:
		s = fmt.Sprintf("%q", string(v))
	case dom.BinaryString:
		s = fmt.Sprintf("<%d bytes>", len(v))
	case dom.SharedString:
		s = fmt.Sprintf("<%d bytes, shared>", len(v))
	case dom.ProtectedString:
		s = fmt.Sprintf("<%d lines of source>", strings.Count(string(v), "\n")+1)
	case dom.CFrame:
		s = fmt.Sprintf("@ %g, %g, %g", v.Position.X, v.Position.Y, v.Position.Z)
	case dom.Raw:
		s = "<" + v.Element + ">"
	case dom.Vector3:
		s = fmt.Sprintf("%g, %g, %g", v.X, v.Y, v.Z)
	case dom.Color3:
		s = fmt.Sprintf("%g, %g, %g", v.R, v.G, v.B)
	case fmt.Stringer:
		s = v.String()
	default:
		s = fmt.Sprint(v)
	}
	if len(s) > maxLen {
		s = s[:maxLen-1] + "…"
	}
	return s
}

// browseCommand creates the browse command.
func (c *CLI) browseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "browse <file>",
		Short: "Explore a document's instance tree interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := pkgio.ImportFile(args[0])
			if err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Debug("browsing", "path", args[0], "instances", doc.Len())

			p := tea.NewProgram(NewBrowserModel(doc), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			return err
		},
	}
}
