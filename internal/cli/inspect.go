package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fabrikdev/econdag/pkg/economy"
	"github.com/fabrikdev/econdag/pkg/layout"
)

// inspectCommand creates the "inspect" command: load a document and print
// its layered structure.
func (c *CLI) inspectCommand() *cobra.Command {
	var showLayout bool

	cmd := &cobra.Command{
		Use:   "inspect <economy.json>",
		Short: "Inspect an economy document",
		Long:  `Inspect loads an economy document, verifies it, and prints its products grouped by depth layer together with the topological order.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := economy.ImportFile(args[0])
			if err != nil {
				return err
			}

			depths := g.Depths()
			fmt.Println(StyleTitle.Render("Economy"))
			printStats(g.Len(), countRaw(g), g.MaxDepth())
			if fuelID, ok := g.FuelProduct(); ok {
				if fuel, found := g.Product(fuelID); found {
					printKeyValue("fuel", fmt.Sprintf("%s (#%d)", fuel.Name, fuelID))
				}
			}
			fmt.Println()

			byDepth := make(map[int][]*economy.Product)
			for _, p := range g.Products() {
				d := depths[p.ID]
				byDepth[d] = append(byDepth[d], p)
			}
			levels := make([]int, 0, len(byDepth))
			for d := range byDepth {
				levels = append(levels, d)
			}
			sort.Ints(levels)

			for _, d := range levels {
				fmt.Println(StyleTitle.Render(fmt.Sprintf("Depth %d", d)))
				for _, p := range byDepth[d] {
					fmt.Printf("  %s %s\n", StyleValue.Render(fmt.Sprintf("#%-3d", p.ID)), p.Name)
					for _, in := range p.Inputs {
						name := fmt.Sprintf("#%d", in.ProductID)
						if input, ok := g.Product(in.ProductID); ok {
							name = input.Name
						}
						printDetail("%s %.1f × %s", iconArrow, in.Amount, name)
					}
				}
			}

			order := g.TopologicalSort()
			names := make([]string, len(order))
			for i, id := range order {
				p, _ := g.Product(id)
				names[i] = p.Name
			}
			fmt.Println()
			printKeyValue("topo order", strings.Join(names, " → "))

			if showLayout {
				layout.Calculate(g, layout.Options{})
				box := layout.Bounds(g)
				printKeyValue("bounds", fmt.Sprintf("x [%.0f, %.0f] y [%.0f, %.0f]",
					box.MinX, box.MaxX, box.MinY, box.MaxY))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&showLayout, "layout", false, "compute the 2D layout and print its bounding box")

	return cmd
}
