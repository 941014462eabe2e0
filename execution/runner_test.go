package execution_test

import (
	"context"
	"errors"
	"testing"

	"github.com/meikuraledutech/nodegraph"
	"github.com/meikuraledutech/nodegraph/execution"
	"github.com/meikuraledutech/nodegraph/nodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func TestRunnerStepped(t *testing.T) {
	b := newBuilder(t)
	two := b.constant(nodegraph.TypeInt, "2")
	three := b.constant(nodegraph.TypeInt, "3")
	add := b.node(nodes.KindAdd)
	b.wire(two, 0, add, nodes.PinA)
	b.wire(three, 0, add, nodes.PinB)

	r := execution.NewRunner(b.g)
	r.StartFrom(add)
	require.Equal(t, 1, r.Depth())

	ctx := context.Background()
	done, err := r.Iterate(ctx)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, 2, r.Depth())
	assert.Same(t, two, r.Current().Node())
	assert.Equal(t, 1, r.Current().Depth())

	steps := 1
	for !done {
		done, err = r.Iterate(ctx)
		require.NoError(t, err)
		steps++
	}
	assert.Equal(t, 7, steps)
	assert.True(t, r.Done())
	assert.Nil(t, r.Current())

	result, _ := add.Core().Pin(nodes.PinResult)
	assert.True(t, result.Value.RawEquals(cty.NumberIntVal(5)))
}

func TestRunnerResolvesChains(t *testing.T) {
	b := newBuilder(t)
	a := b.constant(nodegraph.TypeFloat, "1.5")
	c := b.constant(nodegraph.TypeFloat, "2")
	mul := b.node(nodes.KindMultiply)
	sub := b.node(nodes.KindSubtract)
	b.wire(a, 0, mul, nodes.PinA)
	b.wire(c, 0, mul, nodes.PinB)
	b.wire(mul, nodes.PinResult, sub, nodes.PinA)
	b.wire(c, 0, sub, nodes.PinB)

	var visits int
	r := execution.NewRunner(b.g, execution.WithVisitor(func(ctx context.Context, n nodegraph.Node) error {
		visits++
		return nil
	}))
	r.StartFrom(sub)
	require.NoError(t, r.Run(context.Background()))

	result, _ := sub.Core().Pin(nodes.PinResult)
	assert.True(t, result.Value.RawEquals(cty.NumberIntVal(1)))
	assert.Equal(t, 5, visits, "every frame is visited once, shared inputs are pulled again")
}

func TestRunnerTrustsControlFlowNodes(t *testing.T) {
	b := newBuilder(t)
	v, err := b.g.AddVariable("msg", nodegraph.TypeString)
	require.NoError(t, err)
	require.NoError(t, b.g.SetVariableValue(v, "ready"))
	set, err := b.g.AddVariableNode(v.ID, nodegraph.AccessGetSet)
	require.NoError(t, err)
	log := b.log()
	b.wire(set, nodegraph.SetValueOut, log, nodes.LogMessage)
	require.NoError(t, set.Calculate())

	var visited []nodegraph.Node
	r := execution.NewRunner(b.g, execution.WithVisitor(func(ctx context.Context, n nodegraph.Node) error {
		visited = append(visited, n)
		return nil
	}))
	r.StartFrom(log)
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, []nodegraph.Node{log}, visited)
	msg, _ := log.Pin(nodes.LogMessage)
	assert.Equal(t, "ready", msg.Value.AsString())
}

func TestRunnerVisitorError(t *testing.T) {
	b := newBuilder(t)
	c := b.constant(nodegraph.TypeFloat, "1")
	boom := errors.New("boom")

	r := execution.NewRunner(b.g, execution.WithVisitor(func(ctx context.Context, n nodegraph.Node) error {
		return boom
	}))
	r.StartFrom(c)
	err := r.Run(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.True(t, r.Done())
}

func TestPass(t *testing.T) {
	b := newBuilder(t)
	n := b.log()
	p := execution.NewPass()
	assert.False(t, p.Visited(n))
	p.Mark(n)
	p.Mark(n)
	assert.True(t, p.Visited(n))
	assert.Equal(t, 1, p.Len())
}
