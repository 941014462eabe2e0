package execution_test

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/meikuraledutech/nodegraph"
	"github.com/meikuraledutech/nodegraph/execution"
	"github.com/meikuraledutech/nodegraph/nodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type builder struct {
	t *testing.T
	g *nodegraph.Graph
}

func newBuilder(t *testing.T) *builder {
	return &builder{t: t, g: nodegraph.New(nodes.NewRegistry(), nodegraph.WithLogger(quiet))}
}

func (b *builder) node(kind string) nodegraph.Node {
	b.t.Helper()
	n, err := b.g.AddNode(kind)
	require.NoError(b.t, err)
	return n
}

func (b *builder) constant(t nodegraph.PinType, literal string) nodegraph.Node {
	b.t.Helper()
	c, err := b.g.AddConstant(t, literal)
	require.NoError(b.t, err)
	return c
}

func (b *builder) wire(src nodegraph.Node, si int, tgt nodegraph.Node, ti int) {
	b.t.Helper()
	_, err := b.g.Connect(
		nodegraph.PinRef{Node: src.Core().ID(), Index: si},
		nodegraph.PinRef{Node: tgt.Core().ID(), Index: ti},
	)
	require.NoError(b.t, err)
}

func (b *builder) start() nodegraph.Node {
	return b.node(nodes.EventKind(nodes.EventStart))
}

func (b *builder) log() *nodes.Log {
	return b.node(nodes.KindLog).(*nodes.Log)
}

func TestExecuteEventAddsAndLogs(t *testing.T) {
	b := newBuilder(t)
	start := b.start()
	two := b.constant(nodegraph.TypeFloat, "2")
	three := b.constant(nodegraph.TypeFloat, "3")
	add := b.node(nodes.KindAdd)
	toString := b.node(nodes.ConvertKind(nodegraph.TypeFloat, nodegraph.TypeString))
	log := b.log()

	b.wire(two, 0, add, nodes.PinA)
	b.wire(three, 0, add, nodes.PinB)
	b.wire(add, nodes.PinResult, toString, 0)
	b.wire(toString, 1, log, nodes.LogMessage)
	b.wire(start, 0, log, nodes.LogIn)

	d := execution.NewDriver(b.g, execution.WithLogger(quiet))
	require.NoError(t, d.ExecuteEvent(context.Background(), "Start"))

	got, ok := log.Last()
	require.True(t, ok)
	assert.Equal(t, "5", got)

	require.NoError(t, d.ExecuteEvent(context.Background(), "start"))
	assert.Equal(t, []string{"5", "5"}, log.Messages())
}

func TestBranch(t *testing.T) {
	for _, cond := range []bool{true, false} {
		b := newBuilder(t)
		start := b.start()
		branch := b.node(nodes.KindBranch)
		literal := "false"
		if cond {
			literal = "true"
		}
		c := b.constant(nodegraph.TypeBool, literal)
		log := b.log()

		b.wire(start, 0, branch, nodes.BranchIn)
		b.wire(c, 0, branch, nodes.BranchCondition)
		b.wire(branch, nodes.BranchTrue, log, nodes.LogIn)

		var visited []string
		d := execution.NewDriver(b.g,
			execution.WithLogger(quiet),
			execution.WithVisitor(func(ctx context.Context, n nodegraph.Node) error {
				visited = append(visited, n.Core().ID())
				return nil
			}),
		)
		require.NoError(t, d.ExecuteEvent(context.Background(), nodes.EventStart))

		if cond {
			assert.Len(t, log.Messages(), 1)
			assert.Contains(t, visited, log.ID())
		} else {
			assert.Empty(t, log.Messages())
			assert.Equal(t, []string{start.Core().ID(), branch.Core().ID(), c.Core().ID()}, visited)
		}
	}
}

func TestStepLimit(t *testing.T) {
	b := newBuilder(t)
	start := b.start()
	merge := b.node(nodes.KindMerge)
	a := b.log()
	c := b.log()
	b.wire(start, 0, merge, nodes.MergeA)
	b.wire(merge, nodes.MergeThen, a, nodes.LogIn)
	b.wire(a, nodes.LogThen, c, nodes.LogIn)
	b.wire(c, nodes.LogThen, merge, nodes.MergeB)

	d := execution.NewDriver(b.g, execution.WithLogger(quiet), execution.WithMaxSteps(10))
	err := d.ExecuteEvent(context.Background(), nodes.EventStart)
	require.ErrorIs(t, err, execution.ErrStepLimitExceeded)

	// start, then (merge, a, c) three times.
	assert.Len(t, a.Messages(), 3)
	assert.Len(t, c.Messages(), 3)
}

func TestStepLimitAllowsExactChain(t *testing.T) {
	b := newBuilder(t)
	start := b.start()
	log := b.log()
	b.wire(start, 0, log, nodes.LogIn)

	d := execution.NewDriver(b.g, execution.WithLogger(quiet), execution.WithMaxSteps(2))
	require.NoError(t, d.ExecuteEvent(context.Background(), nodes.EventStart))
	assert.Len(t, log.Messages(), 1)
}

func TestEntryLookup(t *testing.T) {
	b := newBuilder(t)
	d := execution.NewDriver(b.g, execution.WithLogger(quiet))
	defer d.Close()

	require.NoError(t, d.ExecuteEvent(context.Background(), nodes.EventUpdate))
	_, ok := d.Entry(nodes.EventStart)
	assert.False(t, ok)

	first := b.start()
	second := b.start()
	firstLog, secondLog := b.log(), b.log()
	b.wire(first, 0, firstLog, nodes.LogIn)
	b.wire(second, 0, secondLog, nodes.LogIn)

	entry, ok := d.Entry(nodes.EventStart)
	require.True(t, ok)
	assert.Same(t, first, entry)

	require.NoError(t, d.ExecuteEvent(context.Background(), nodes.EventStart))
	assert.Len(t, firstLog.Messages(), 1)
	assert.Empty(t, secondLog.Messages())
}

func TestUpstreamControlFlowNodeMustHaveRun(t *testing.T) {
	setup := func(t *testing.T) (*builder, nodegraph.Node, *nodegraph.VariableAccessor, *nodes.Log) {
		b := newBuilder(t)
		v, err := b.g.AddVariable("greeting", nodegraph.TypeString)
		require.NoError(t, err)
		set, err := b.g.AddVariableNode(v.ID, nodegraph.AccessGetSet)
		require.NoError(t, err)
		hi := b.constant(nodegraph.TypeString, "hi")
		b.wire(hi, 0, set, nodegraph.SetValueIn)
		log := b.log()
		b.wire(set, nodegraph.SetValueOut, log, nodes.LogMessage)
		return b, b.start(), set, log
	}

	t.Run("ran earlier in the pass", func(t *testing.T) {
		b, start, set, log := setup(t)
		b.wire(start, 0, set, nodegraph.SetExecIn)
		b.wire(set, nodegraph.SetExecOut, log, nodes.LogIn)

		d := execution.NewDriver(b.g, execution.WithLogger(quiet))
		require.NoError(t, d.ExecuteEvent(context.Background(), nodes.EventStart))
		assert.Equal(t, []string{"hi"}, log.Messages())
	})

	t.Run("not part of the pass", func(t *testing.T) {
		b, start, _, log := setup(t)
		b.wire(start, 0, log, nodes.LogIn)

		d := execution.NewDriver(b.g, execution.WithLogger(quiet))
		err := d.ExecuteEvent(context.Background(), nodes.EventStart)
		assert.ErrorIs(t, err, execution.ErrUnvisitedUpstream)
		assert.Empty(t, log.Messages())
	})
}

func TestExecuteEventStopsOnCancel(t *testing.T) {
	b := newBuilder(t)
	start := b.start()
	log := b.log()
	b.wire(start, 0, log, nodes.LogIn)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d := execution.NewDriver(b.g, execution.WithLogger(quiet))
	assert.ErrorIs(t, d.ExecuteEvent(ctx, nodes.EventStart), context.Canceled)
	assert.Empty(t, log.Messages())
}

func TestExecuteEventSpan(t *testing.T) {
	b := newBuilder(t)
	start := b.start()
	log := b.log()
	b.wire(start, 0, log, nodes.LogIn)

	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	d := execution.NewDriver(b.g, execution.WithLogger(quiet), execution.WithTracer(tp.Tracer("test")))
	require.NoError(t, d.ExecuteEvent(context.Background(), nodes.EventStart))

	spans := rec.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "nodegraph.ExecuteEvent", spans[0].Name())
	assert.Len(t, spans[0].Events(), 2)
}

func TestExecuteErrorKeepsEarlierEffects(t *testing.T) {
	b := newBuilder(t)
	start := b.start()
	first := b.log()
	second := b.log()
	div := b.node(nodes.KindDivide)
	one := b.constant(nodegraph.TypeFloat, "1")
	zero := b.constant(nodegraph.TypeFloat, "0")
	toString := b.node(nodes.ConvertKind(nodegraph.TypeFloat, nodegraph.TypeString))

	b.wire(one, 0, div, nodes.PinA)
	b.wire(zero, 0, div, nodes.PinB)
	b.wire(div, nodes.PinResult, toString, 0)
	b.wire(toString, 1, second, nodes.LogMessage)
	b.wire(start, 0, first, nodes.LogIn)
	b.wire(first, nodes.LogThen, second, nodes.LogIn)

	d := execution.NewDriver(b.g, execution.WithLogger(quiet))
	err := d.ExecuteEvent(context.Background(), nodes.EventStart)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "division by zero")
	assert.Len(t, first.Messages(), 1)
	assert.Empty(t, second.Messages())
}
