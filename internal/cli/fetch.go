package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fabrikdev/econdag/pkg/economy"
	"github.com/fabrikdev/econdag/pkg/fetch"
)

// fetchCommand creates the "fetch" command: retrieve an economy document
// over HTTP and store it locally.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		out     string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "fetch <url>",
		Short: "Fetch an economy document from a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			url := args[0]
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			responseCache, err := newCache(cmd.Context(), cfg.Cache, noCache)
			if err != nil {
				return err
			}
			defer responseCache.Close()

			prog := newProgress(c.Logger)
			spin := newSpinner(cmd.Context(), "fetching "+url)
			spin.Start()
			doc, err := fetch.NewClient(nil, responseCache).Document(cmd.Context(), url)
			spin.Stop()
			if err != nil {
				return err
			}

			g := economy.New()
			if err := g.Load(doc); err != nil {
				return err
			}
			if err := economy.ExportFile(g, out); err != nil {
				return err
			}
			prog.done(fmt.Sprintf("Fetched %d products", g.Len()))

			printSuccess("Economy written")
			printFile(out)
			printStats(g.Len(), countRaw(g), g.MaxDepth())
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "economy.json", "output file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "bypass the response cache")

	return cmd
}
