package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arcisi/pkg/pipeline"
	"github.com/matzehuels/arcisi/pkg/plan"
)

// inspectCommand opens the interactive floor browser.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		seed    uint64
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [recipe.toml|plan.json]",
		Short: "Browse a building floor by floor",
		Long: `Browse a building floor by floor.

Recipes are baked first (using the cache); exported plans are shown as they
are. Use ←/→ to switch floors, ↑/↓ to move between rooms and q to quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := c.loadPlan(cmd.Context(), args[0], seed, noCache)
			if err != nil {
				return err
			}
			_, err = tea.NewProgram(newInspectModel(p), tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().Uint64Var(&seed, "seed", pipeline.DefaultSeed, "layout seed (recipes only)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	return cmd
}

// loadPlan reads an exported plan, or bakes a recipe into one.
func (c *CLI) loadPlan(ctx context.Context, path string, seed uint64, noCache bool) (*plan.Plan, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return plan.ReadFile(path)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return nil, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{RecipePath: path, Seed: seed, Logger: loggerFromContext(ctx)}
	rec, err := pipeline.Parse(opts)
	if err != nil {
		return nil, err
	}
	return runner.Bake(ctx, rec, opts)
}

// =============================================================================
// inspectModel - Interactive floor browser
// =============================================================================

var (
	inspectDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	inspectSelectedStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
)

type inspectModel struct {
	plan   *plan.Plan
	floor  int
	cursor int
	offset int
	height int
}

func newInspectModel(p *plan.Plan) inspectModel {
	return inspectModel{plan: p, height: 15}
}

func (m inspectModel) rooms() []plan.Room {
	if m.floor >= len(m.plan.Floors) {
		return nil
	}
	return m.plan.Floors[m.floor].Rooms
}

func (m inspectModel) Init() tea.Cmd {
	return nil
}

func (m inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rooms())-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "left", "h":
			if m.floor > 0 {
				m.floor--
				m.cursor, m.offset = 0, 0
			}
		case "right", "l":
			if m.floor < len(m.plan.Floors)-1 {
				m.floor++
				m.cursor, m.offset = 0, 0
			}
		}
	case tea.WindowSizeMsg:
		m.height = max(msg.Height-10, 5)
	}
	return m, nil
}

func (m inspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(displayName(m.plan.Name, "Building")))
	if len(m.plan.Floors) == 0 {
		b.WriteString("\n" + inspectDimStyle.Render("no floors") + "\n")
		return b.String()
	}
	f := m.plan.Floors[m.floor]
	b.WriteString(inspectDimStyle.Render(fmt.Sprintf("  floor %d/%d · %s · seed %d",
		f.Num, len(m.plan.Floors)-1, plural(f.Occupants, "occupant"), m.plan.Seed)))
	b.WriteString("\n")
	b.WriteString(inspectDimStyle.Render("←/→ floor  ↑/↓ room  q quit"))
	b.WriteString("\n\n")

	rooms := f.Rooms
	byID := make(map[string]plan.Room, len(rooms))
	for _, r := range rooms {
		byID[r.ID] = r
	}

	end := min(m.offset+m.height, len(rooms))
	var rows [][]string
	for i := m.offset; i < end; i++ {
		r := rooms[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}
		parent := "—"
		if p, ok := byID[r.Parent]; ok {
			parent = roomLabel(p)
		}
		rows = append(rows, []string{
			cursor,
			r.Type,
			r.Name,
			fmt.Sprintf("%.0f × %.0f", abs(r.X2-r.X1), abs(r.Z2-r.Z1)),
			fmt.Sprintf("%d", len(r.Doors)),
			parent,
		})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(inspectDimStyle).
		Headers("", "Type", "Name", "Size", "Doors", "Linked from").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if m.offset+row == m.cursor {
				return inspectSelectedStyle
			}
			if col == 4 || col == 5 {
				return inspectDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n")
	if m.cursor < len(rooms) {
		r := rooms[m.cursor]
		b.WriteString(inspectDimStyle.Render(fmt.Sprintf("  %s  (%.0f, %.0f) – (%.0f, %.0f)", r.ID, r.X1, r.Z1, r.X2, r.Z2)))
		b.WriteString("\n")
	}
	b.WriteString(inspectDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(rooms))))
	return b.String()
}

func roomLabel(r plan.Room) string {
	if r.Name != "" {
		return r.Name
	}
	if r.Type != "" {
		return r.Type
	}
	return r.ID
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
