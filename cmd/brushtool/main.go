// brushtool builds brushes from plane descriptions and writes .map files.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/brushkit/internal/config"
	"github.com/Faultbox/brushkit/internal/logger"
)

// app carries state shared by all subcommands of one invocation.
type app struct {
	flags config.Flags
	cfg   *config.Config
	log   *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "brushtool",
		Short: "Plane and brush geometry tool for brush based map editing",
		Long: `brushtool inspects planes given by three points, intersects them,
builds convex brushes from YAML documents and writes them as .map text.
It also edits the portal viewer display settings kept in the config file.`,
		Version:           "0.1.0",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) {
			logger.Sync()
		},
	}
	a.flags.Register(root.PersistentFlags())

	root.AddCommand(
		a.planeCmd(),
		a.intersectCmd(),
		a.windingCmd(),
		a.buildCmd(),
		a.portalsCmd(),
	)
	return root
}

// setup loads the configuration and starts logging.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(&a.flags)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	a.cfg = cfg
	a.log = logger.Named("brushtool")
	a.log.Debug("config loaded",
		zap.String("command", cmd.Name()),
		zap.String("default_shader", cfg.Brush.DefaultShader),
		zap.Int("precision", cfg.Output.Precision))
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
