package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/TarandeepSingh562/rhizomatic/assembly"
)

// NewAssembleCommand creates the assemble command.
func NewAssembleCommand() *cobra.Command {
	var manifestPath string
	var watch bool

	cmd := &cobra.Command{
		Use:   "assemble",
		Short: "Assemble a runtime image from a manifest",
		Long: `Assemble resolves the dependency set declared in the manifest, classifies
each artifact, and builds the runtime image. With --watch, exploded
application modules are kept in sync with their build output afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd)

			manifest, err := assembly.LoadManifest(manifestPath)
			if err != nil {
				return err
			}

			image, graph, err := assembly.NewAssembler(logger, nil).Assemble(manifest)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Image assembled at %s (%d artifacts)\n", image, graph.Len())

			if !watch {
				return nil
			}

			watcher, err := assembly.NewWatcher(&manifest.Assembly, graph, logger)
			if err != nil {
				return err
			}
			defer watcher.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			logger.Info("Watching application module output for changes")
			watcher.Run(ctx)
			return nil
		},
	}

	cmd.Flags().StringVarP(&manifestPath, "manifest", "f", "assembly.yaml", "assembly manifest file (YAML or TOML)")
	cmd.Flags().BoolVar(&watch, "watch", false, "keep exploded modules in sync after assembling")

	return cmd
}
