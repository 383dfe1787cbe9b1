// Package cmd implements the rhizo command line interface: the build-tool
// integration surface for assembling runtime images from a manifest.
package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCommand creates the root command for the rhizo CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rhizo",
		Short: "Rhizomatic runtime assembly tools",
		Long: `rhizo assembles Rhizomatic runtime images: it resolves the dependency set
declared in an assembly manifest, classifies every artifact into its runtime
role, and lays the result out as a deployable image.`,
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
		},
	}

	cmd.PersistentFlags().Bool("verbose", false, "enable debug logging")

	cmd.AddCommand(NewAssembleCommand())
	cmd.AddCommand(NewGraphCommand())

	return cmd
}

// newLogger builds the CLI's structured logger.
func newLogger(cmd *cobra.Command) *slogLogger {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return &slogLogger{logger: slog.New(handler)}
}

// slogLogger adapts slog to the rhizomatic.Logger interface.
type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
