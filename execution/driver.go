package execution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/meikuraledutech/nodegraph"
	"github.com/meikuraledutech/nodegraph/internal/ctxlog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrStepLimitExceeded = errors.New("execution: step limit exceeded")
	ErrUnvisitedUpstream = errors.New("execution: value read from a control-flow node that has not run in this pass")
)

// Driver walks the execute chain of a graph starting at an event's entry
// node. Drivers must not run concurrently against the same graph.
type Driver struct {
	graph    *nodegraph.Graph
	maxSteps int
	visit    VisitFunc
	logger   *slog.Logger
	tracer   trace.Tracer

	entries     map[string]entry
	unsubscribe func()
}

type entry struct {
	node nodegraph.Node
	ok   bool
}

// NewDriver creates a driver for g. Cached entry nodes are dropped whenever
// the graph is edited.
func NewDriver(g *nodegraph.Graph, opts ...Option) *Driver {
	s := settings{logger: g.Logger()}
	for _, o := range opts {
		o(&s)
	}
	if s.tracer == nil {
		s.tracer = otel.Tracer("github.com/meikuraledutech/nodegraph")
	}
	d := &Driver{
		graph:    g,
		maxSteps: s.maxSteps,
		visit:    s.visit,
		logger:   s.logger,
		tracer:   s.tracer,
		entries:  make(map[string]entry),
	}
	d.unsubscribe = g.Subscribe(func(e nodegraph.Event) {
		if e.Kind == nodegraph.Edited {
			clear(d.entries)
		}
	})
	return d
}

// Close detaches the driver from its graph.
func (d *Driver) Close() { d.unsubscribe() }

// Entry returns the node that starts event. Names match case-insensitively.
func (d *Driver) Entry(event string) (nodegraph.Node, bool) {
	key := strings.ToLower(event)
	if e, ok := d.entries[key]; ok {
		return e.node, e.ok
	}

	var matches []nodegraph.Node
	for _, n := range d.graph.Nodes() {
		if src, ok := n.(nodegraph.EventSource); ok && strings.EqualFold(src.Event(), event) {
			matches = append(matches, n)
		}
	}
	var e entry
	switch len(matches) {
	case 0:
		d.logger.Warn("no entry node for event", "event", event)
	case 1:
		e = entry{node: matches[0], ok: true}
	default:
		d.logger.Warn("multiple entry nodes for event, using the first", "event", event, "count", len(matches))
		e = entry{node: matches[0], ok: true}
	}
	d.entries[key] = e
	return e.node, e.ok
}

// ExecuteEvent runs the control flow that starts at event's entry node. Each
// step resolves the current node's inputs, executes it, and follows its
// selected execute output. Side effects of completed steps are kept when a
// later step fails or the step cap is hit.
func (d *Driver) ExecuteEvent(ctx context.Context, event string) error {
	ctx, span := d.tracer.Start(ctx, "nodegraph.ExecuteEvent",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("nodegraph.event", event),
			attribute.String("nodegraph.graph_type", d.graph.Type()),
		),
	)
	defer span.End()

	logger := d.logger.With("event", event)
	ctx = ctxlog.WithLogger(ctx, logger)

	current, ok := d.Entry(event)
	if !ok {
		return nil
	}

	pass := NewPass()
	runner := NewRunner(d.graph, WithVisitor(d.visit), WithPass(pass))
	steps := 0
	fail := func(err error) error {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Int("nodegraph.steps", steps))
		return err
	}

	for {
		if err := ctx.Err(); err != nil {
			return fail(err)
		}
		b := current.Core()
		span.AddEvent("step", trace.WithAttributes(
			attribute.Int("nodegraph.step", steps),
			attribute.String("nodegraph.node.id", b.ID()),
			attribute.String("nodegraph.node.kind", b.Kind()),
		))
		logger.Debug("step", "step", steps, "node", b.ID(), "kind", b.Kind())

		runner.StartFrom(current)
		if err := runner.Run(ctx); err != nil {
			return fail(fmt.Errorf("event %s: %w", event, err))
		}
		if ex, ok := current.(nodegraph.Executable); ok {
			if err := ex.Execute(ctx); err != nil {
				return fail(fmt.Errorf("event %s: execute %s (%s): %w", event, b.ID(), b.Kind(), err))
			}
		}
		pass.Mark(current)
		steps++

		next, ok := d.next(current)
		if !ok {
			break
		}
		if d.maxSteps > 0 && steps >= d.maxSteps {
			logger.Warn("execution step limit reached, aborting", "steps", steps, "node", b.ID())
			return fail(fmt.Errorf("%w: %d steps", ErrStepLimitExceeded, steps))
		}
		current = next
	}

	span.SetAttributes(attribute.Int("nodegraph.steps", steps))
	return nil
}

// next follows the execute output n currently selects.
func (d *Driver) next(n nodegraph.Node) (nodegraph.Node, bool) {
	src, ok := n.(nodegraph.ControlFlowSource)
	if !ok {
		return nil, false
	}
	index, ok := src.ExecuteOut()
	if !ok {
		return nil, false
	}
	for _, c := range d.graph.Outgoing(nodegraph.PinRef{Node: n.Core().ID(), Index: index}) {
		if d.graph.KindOf(c) == nodegraph.ExecuteKind {
			return d.graph.Node(c.Target.Node)
		}
	}
	return nil, false
}
