package nodegraph_test

import (
	"context"
	"testing"

	"github.com/meikuraledutech/nodegraph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := nodegraph.NewMemoryStore()
	require.NoError(t, s.CreateSchema(ctx))

	missing, err := s.LoadGraph(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	data := &nodegraph.GraphData{
		GraphType: "standard",
		Nodes: []nodegraph.NodeData{
			{ClassType: "script/lua", ID: "n1", Properties: map[string]string{"script": "return a"}},
		},
	}
	require.NoError(t, s.SaveGraph(ctx, "b", data))
	require.NoError(t, s.SaveGraph(ctx, "a", data))

	data.Nodes[0].Properties["script"] = "changed"
	got, err := s.LoadGraph(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "return a", got.Nodes[0].Properties["script"])

	ids, err := s.ListGraphs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, ids)

	require.NoError(t, s.DeleteGraph(ctx, "a"))
	require.NoError(t, s.DeleteGraph(ctx, "a"))
	ids, err = s.ListGraphs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)

	require.NoError(t, s.DropSchema(ctx))
	ids, err = s.ListGraphs(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
