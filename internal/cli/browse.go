package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/fabrikdev/econdag/pkg/economy"
)

// browseCommand creates the "browse" command: interactive product browser.
func (c *CLI) browseCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "browse <file>",
		Short: "Browse an economy interactively",
		Long:  `Browse opens an economy document in an interactive terminal browser: scroll through products in insertion order and inspect each recipe, depth, consumers, and the fuel designation.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := economy.ImportFile(args[0])
			if err != nil {
				printError("Failed to load economy: %v", err)
				return err
			}

			if g.Len() == 0 {
				printWarning("Economy is empty")
				return nil
			}

			p := tea.NewProgram(NewProductListModel(g))
			if _, err := p.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	return cmd
}
