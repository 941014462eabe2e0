package main

import (
	"fmt"
	"log/slog"

	"github.com/meikuraledutech/nodegraph"
	"github.com/meikuraledutech/nodegraph/config"
	"github.com/meikuraledutech/nodegraph/document"
	"github.com/meikuraledutech/nodegraph/internal/ctxlog"
	"github.com/meikuraledutech/nodegraph/nodes"
	"github.com/spf13/cobra"
)

// cli carries the global flags and the state built from them.
type cli struct {
	configPath string

	cfg    *config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "nodegraph",
		Short:         "Validate, inspect and run node graph documents",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.cfg = cfg
			c.logger = ctxlog.New(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "Config file path")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(
		c.runCmd(),
		c.validateCmd(),
		c.exportCmd(),
		c.kindsCmd(),
	)
	return root
}

// load reads the document at path and builds a graph from it against the
// standard catalog.
func (c *cli) load(path string) (*nodegraph.Graph, error) {
	d, err := document.ReadFile(path)
	if err != nil {
		return nil, err
	}
	g, err := nodegraph.Load(nodes.NewRegistry(), d, nodegraph.WithLogger(c.logger))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}
