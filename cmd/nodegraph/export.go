package main

import (
	"fmt"
	"os"

	"github.com/meikuraledutech/nodegraph/document"
	"github.com/spf13/cobra"
)

func (c *cli) exportCmd() *cobra.Command {
	var (
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Re-encode a graph document as mermaid, json or yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.load(args[0])
			if err != nil {
				return err
			}

			var data []byte
			switch format {
			case "mermaid":
				data = []byte(document.ToMermaid(g))
			case string(document.JSON), string(document.YAML):
				data, err = document.Marshal(g.Save(), document.Format(format))
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("%w: %q", document.ErrUnknownFormat, format)
			}

			if output != "" {
				return os.WriteFile(output, data, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "mermaid", "Output format (mermaid, json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")
	return cmd
}
