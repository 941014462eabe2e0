package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *cli) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a graph document against the schema and the node catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d nodes, %d connections, %d variables\n",
				len(g.Nodes()), len(g.Connections()), len(g.Variables()))
			return nil
		},
	}
}
