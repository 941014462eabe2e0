package nodegraph_test

import (
	"testing"

	"github.com/meikuraledutech/nodegraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

type marker struct{ nodegraph.Base }

func TestRegistry(t *testing.T) {
	reg := nodegraph.NewRegistry("custom")
	assert.Equal(t, "custom", reg.Name())
	assert.Contains(t, reg.Types(), nodegraph.KeyFloat)

	info := nodegraph.KindInfo{
		Key:      "test/marker",
		Category: "test",
		New:      func() nodegraph.Node { return &marker{} },
	}
	require.NoError(t, reg.Register(info))
	assert.Error(t, reg.Register(info))
	assert.Error(t, reg.Register(nodegraph.KindInfo{Key: nodegraph.KindConstant, New: info.New}))
	assert.Error(t, reg.Register(nodegraph.KindInfo{Key: "test/no-factory"}))

	got, ok := reg.Describe("test/marker")
	require.True(t, ok)
	assert.Equal(t, "test", got.Category)
	assert.Equal(t, []string{"test/marker"}, reg.Kinds())

	vec := nodegraph.NewPinType("vector", cty.List(cty.Number))
	require.NoError(t, reg.RegisterType(vec))
	assert.Error(t, reg.RegisterType(vec))
	have, ok := reg.Type("vector")
	require.True(t, ok)
	assert.True(t, have.Is(vec))

	g := nodegraph.New(reg)
	n, err := g.AddNode("test/marker")
	require.NoError(t, err)
	assert.Equal(t, "test/marker", n.Core().Kind())
	assert.Equal(t, "test/marker", n.Core().Name())
	assert.NotEmpty(t, n.Core().ID())
}
