package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fabrikdev/econdag/pkg/economy"
	"github.com/fabrikdev/econdag/pkg/generate"
)

// generateCommand creates the "generate" command: build a random economy
// and write it as a version-2 document.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		nodes     int
		depth     int
		minInputs int
		maxInputs int
		seed      uint64
		fuel      bool
		out       string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a random economy document",
		Long:  `Generate builds a random, depth-stratified economy: raw materials at depth 0 and recipe products above them, wired only to shallower layers so the result is always acyclic.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts := generate.Options{
				NumNodes:  valueOr(nodes, cfg.Generator.NumNodes),
				MaxDepth:  valueOr(depth, cfg.Generator.MaxDepth),
				MinInputs: valueOr(minInputs, cfg.Generator.MinInputs),
				MaxInputs: valueOr(maxInputs, cfg.Generator.MaxInputs),
			}
			if seed == 0 {
				seed = cfg.Generator.Seed
			}

			prog := newProgress(c.Logger)
			gen := generate.New(cfg.Generator.Icons, newRNG(seed))
			g, err := gen.Generate(opts)
			if err != nil {
				return err
			}
			if fuel && g.Len() > 0 {
				// First raw material doubles as fuel.
				for _, p := range g.Products() {
					if p.IsRawMaterial() {
						_ = g.SetFuelProduct(p.ID)
						break
					}
				}
			}
			if err := economy.ExportFile(g, out); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Generated %d products", g.Len()))

			if g.Len() < opts.NumNodes {
				printWarning("budget underfilled: %d of %d products", g.Len(), opts.NumNodes)
			}
			printSuccess("Economy written")
			printFile(out)
			printStats(g.Len(), countRaw(g), g.MaxDepth())
			return nil
		},
	}

	cmd.Flags().IntVarP(&nodes, "nodes", "n", 0, "target product count (default from config)")
	cmd.Flags().IntVarP(&depth, "depth", "d", 0, "maximum recipe depth")
	cmd.Flags().IntVar(&minInputs, "min-inputs", 0, "minimum inputs per recipe")
	cmd.Flags().IntVar(&maxInputs, "max-inputs", 0, "maximum inputs per recipe")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	cmd.Flags().BoolVar(&fuel, "fuel", false, "designate the first raw material as fuel")
	cmd.Flags().StringVarP(&out, "out", "o", "economy.json", "output file")

	return cmd
}

// valueOr returns v unless it is zero, in which case fallback wins.
func valueOr(v, fallback int) int {
	if v != 0 {
		return v
	}
	return fallback
}

func countRaw(g *economy.Graph) int {
	count := 0
	for _, p := range g.Products() {
		if p.IsRawMaterial() {
			count++
		}
	}
	return count
}
