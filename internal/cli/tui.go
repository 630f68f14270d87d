package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/fabrikdev/econdag/pkg/economy"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// ProductListModel - Interactive product browser
// =============================================================================

// ProductListModel is the bubbletea model for browsing an economy's products.
type ProductListModel struct {
	Graph    *economy.Graph
	Products []*economy.Product
	Depths   map[economy.ProductID]int
	Cursor   int
	Height   int
	Offset   int
}

// NewProductListModel creates a new product browser over the given graph.
func NewProductListModel(g *economy.Graph) ProductListModel {
	return ProductListModel{
		Graph:    g,
		Products: g.Products(),
		Depths:   g.Depths(),
		Cursor:   0,
		Height:   15,
		Offset:   0,
	}
}

func (m ProductListModel) Init() tea.Cmd {
	return nil
}

func (m ProductListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Products)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m ProductListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Economy Browser"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Products) {
		end = len(m.Products)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		p := m.Products[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		fuel := ""
		if m.Graph.IsFuel(p.ID) {
			fuel = "⛽"
		}

		kind := "recipe"
		if p.IsRawMaterial() {
			kind = "raw"
		}

		rows = append(rows, []string{
			cursor,
			p.Name,
			kind,
			fmt.Sprintf("%d", m.Depths[p.ID]),
			fmt.Sprintf("%d", len(p.Inputs)),
			fmt.Sprintf("%d", len(m.Graph.Consumers(p.ID))),
			fuel,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Product", "Kind", "Depth", "Inputs", "Consumers", "Fuel").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Products) {
				return lipgloss.NewStyle()
			}
			p := m.Products[actualIdx]
			isCurrent := actualIdx == m.Cursor

			base := lipgloss.NewStyle()
			if isCurrent {
				if col == 1 {
					return base.Foreground(colorCyan).Bold(true)
				}
				return base.Bold(true)
			}
			if p.IsRawMaterial() && col == 2 {
				return base.Foreground(colorGreen)
			}
			if col >= 3 {
				return base.Foreground(colorGray)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(m.detailView())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Products))))

	return b.String()
}

// detailView renders the recipe of the product under the cursor.
func (m ProductListModel) detailView() string {
	if len(m.Products) == 0 {
		return ""
	}
	p := m.Products[m.Cursor]

	if p.IsRawMaterial() {
		return listDimStyle.Render("  raw material — no inputs")
	}

	parts := make([]string, 0, len(p.Inputs))
	for _, in := range p.Inputs {
		name := fmt.Sprintf("#%d", in.ProductID)
		if src, ok := m.Graph.Product(in.ProductID); ok {
			name = src.Name
		}
		parts = append(parts, fmt.Sprintf("%s × %.1f", name, in.Amount))
	}
	return listDimStyle.Render("  needs: ") + StyleValue.Render(strings.Join(parts, ", "))
}
