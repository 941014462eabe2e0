package main

import (
	"fmt"
	"maps"

	"github.com/meikuraledutech/nodegraph/execution"
	"github.com/meikuraledutech/nodegraph/internal/ctxlog"
	"github.com/meikuraledutech/nodegraph/internal/telemetry"
	"github.com/meikuraledutech/nodegraph/nodes"
	"github.com/spf13/cobra"
)

func (c *cli) runCmd() *cobra.Command {
	var (
		event     string
		maxSteps  int
		host      map[string]string
		variables bool
	)
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Execute an event against a graph document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := c.load(args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			tp, err := telemetry.Init(ctx, telemetry.Config{
				ServiceName:  c.cfg.Tracing.ServiceName,
				OTLPEndpoint: c.cfg.Tracing.Endpoint,
				SampleRate:   c.cfg.Tracing.SampleRate,
			})
			if err != nil {
				return err
			}
			defer tp.Shutdown(ctx)

			if !cmd.Flags().Changed("max-steps") {
				maxSteps = c.cfg.Execution.MaxSteps
			}
			values := maps.Clone(c.cfg.Host)
			if values == nil {
				values = make(map[string]string)
			}
			maps.Copy(values, host)

			d := execution.NewDriver(g,
				execution.WithMaxSteps(maxSteps),
				execution.WithVisitor(nodes.BindHost(nodes.StringHost(values))),
				execution.WithLogger(c.logger),
				execution.WithTracer(tp.Tracer()),
			)
			defer d.Close()

			out := cmd.OutOrStdout()
			ctx = ctxlog.WithLogger(ctx, c.logger)
			ctx = nodes.WithSink(ctx, func(nodeID, message string) {
				fmt.Fprintln(out, message)
			})
			runErr := d.ExecuteEvent(ctx, event)

			if variables {
				for _, v := range g.Variables() {
					fmt.Fprintf(out, "%s = %s\n", v.Name, v.Literal())
				}
			}
			return runErr
		},
	}
	cmd.Flags().StringVar(&event, "event", "Start", "Event to fire")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "Control-flow step cap (default from config)")
	cmd.Flags().StringToStringVar(&host, "host", nil, "Host values as key=value")
	cmd.Flags().BoolVar(&variables, "vars", false, "Print variables after the run")
	return cmd
}
