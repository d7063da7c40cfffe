package cli

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/arcisi/pkg/baker"
	"github.com/matzehuels/arcisi/pkg/genre"
	"github.com/matzehuels/arcisi/pkg/room"
)

// genresCommand lists the built-in genres.
func (c *CLI) genresCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "genres",
		Short: "List the room genres recipes can ask for",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), genreTable(genre.Default()))
			return nil
		},
	}
}

// placement describes when the baker lays a genre out.
func placement(name string) string {
	switch {
	case name == "lobby":
		return "anchors every floor"
	case slices.Contains(baker.MandatedGenres, name):
		return "every floor"
	case slices.Contains(baker.MaybeMandatedGenres, name):
		return "multi-floor buildings"
	default:
		return "[needs." + name + "]"
	}
}

func genreTable(reg *genre.Registry) string {
	var rows [][]string
	for _, name := range reg.Names() {
		g, err := reg.Get(name)
		if err != nil {
			continue
		}
		rows = append(rows, []string{name, placement(name), genre.Describe(g)})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers("Genre", "Placed on", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			base := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return base.Inherit(styleHeader)
			case col == 0:
				c := room.ColorOf(room.Type(rows[row][0]))
				return base.Foreground(lipgloss.Color(hexColor(c.R, c.G, c.B)))
			case col == 1:
				return base.Foreground(colorGray)
			}
			return base
		}).
		Render()
}

// hexColor formats a unit RGB triple as #rrggbb.
func hexColor(r, g, b float64) string {
	clamp := func(v float64) int {
		return int(min(max(v, 0), 1)*255 + 0.5)
	}
	return fmt.Sprintf("#%02x%02x%02x", clamp(r), clamp(g), clamp(b))
}
