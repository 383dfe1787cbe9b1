package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/TarandeepSingh562/rhizomatic/assembly"
)

// NewGraphCommand creates the graph command, which prints the resolved
// closure with each node's role without building an image.
func NewGraphCommand() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the resolved dependency closure and artifact roles",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd)

			manifest, err := assembly.LoadManifest(manifestPath)
			if err != nil {
				return err
			}

			graph, err := assembly.NewResolver(logger).Resolve(manifest.Roots())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "IDENTITY\tVERSION\tROLE")
			for _, node := range graph.Nodes() {
				fmt.Fprintf(w, "%s\t%s\t%s\n", node.Identity(), node.Version, assembly.Classify(node, &manifest.Assembly))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			for _, conflict := range graph.Conflicts {
				fmt.Fprintf(cmd.OutOrStdout(), "conflict: %s kept %s, displaced %s\n",
					conflict.Identity, conflict.Kept, conflict.Displaced)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "f", "assembly.yaml", "assembly manifest file (YAML or TOML)")

	return cmd
}
