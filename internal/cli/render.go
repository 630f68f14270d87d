package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fabrikdev/econdag/pkg/economy"
	"github.com/fabrikdev/econdag/pkg/render"
)

// renderCommand creates the "render" command: draw an economy document as a
// node-link diagram.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		format   string
		out      string
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "render <economy.json>",
		Short: "Render an economy document as DOT or SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := economy.ImportFile(args[0])
			if err != nil {
				return err
			}

			dot := render.ToDOT(g, render.Options{Detailed: detailed})

			var data []byte
			switch strings.ToLower(format) {
			case "dot":
				data = []byte(dot)
			case "svg":
				spin := newSpinner(cmd.Context(), "rendering")
				spin.Start()
				data, err = render.RenderSVG(cmd.Context(), dot)
				spin.Stop()
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q (want dot or svg)", format)
			}

			if out == "" {
				out = "economy." + strings.ToLower(format)
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}

			printSuccess("Rendered %d products", g.Len())
			printFile(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: dot or svg")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default economy.<format>)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include depth and input amounts in labels")

	return cmd
}
