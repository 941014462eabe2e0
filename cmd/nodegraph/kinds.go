package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/meikuraledutech/nodegraph/nodes"
	"github.com/spf13/cobra"
)

func (c *cli) kindsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the node kinds of the standard catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := nodes.NewRegistry()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tCATEGORY\tDESCRIPTION")
			for _, key := range reg.Kinds() {
				info, _ := reg.Describe(key)
				fmt.Fprintf(w, "%s\t%s\t%s\n", info.Key, info.Category, info.Description)
			}
			return w.Flush()
		},
	}
}
