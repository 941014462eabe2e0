package main

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/meikuraledutech/nodegraph"
	"github.com/meikuraledutech/nodegraph/document"
	"github.com/meikuraledutech/nodegraph/nodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeGraph stores a graph that logs the host value "who" on Start.
func writeGraph(t *testing.T, name string) string {
	t.Helper()
	g := nodegraph.New(nodes.NewRegistry(), nodegraph.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	start, err := g.AddNode(nodes.EventKind(nodes.EventStart))
	require.NoError(t, err)
	host, err := g.AddNode(nodes.KindHostValue)
	require.NoError(t, err)
	host.(*nodes.HostValue).SetKey("who")
	log, err := g.AddNode(nodes.KindLog)
	require.NoError(t, err)

	for _, c := range [][2]nodegraph.PinRef{
		{{Node: start.Core().ID(), Index: 0}, {Node: log.Core().ID(), Index: nodes.LogIn}},
		{{Node: host.Core().ID(), Index: 0}, {Node: log.Core().ID(), Index: nodes.LogMessage}},
	} {
		_, err := g.Connect(c[0], c[1])
		require.NoError(t, err)
	}

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, document.WriteFile(path, g.Save()))
	return path
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestRun(t *testing.T) {
	path := writeGraph(t, "greet.json")

	out, err := execute(t, "run", path, "--host", "who=world")
	require.NoError(t, err)
	assert.Equal(t, "world\n", out)

	out, err = execute(t, "run", path, "--event", "Update")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestValidate(t *testing.T) {
	path := writeGraph(t, "greet.yaml")
	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Equal(t, "ok: 3 nodes, 2 connections, 0 variables\n", out)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"graph_type": "other"}`), 0o644))
	_, err = execute(t, "validate", bad)
	assert.ErrorIs(t, err, nodegraph.ErrGraphTypeMismatch)
}

func TestExport(t *testing.T) {
	path := writeGraph(t, "greet.json")

	out, err := execute(t, "export", path)
	require.NoError(t, err)
	assert.Contains(t, out, "graph LR")

	out, err = execute(t, "export", path, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "graph_type: standard")

	_, err = execute(t, "export", path, "--format", "dot")
	assert.ErrorIs(t, err, document.ErrUnknownFormat)
}

func TestKinds(t *testing.T) {
	out, err := execute(t, "kinds")
	require.NoError(t, err)
	assert.Contains(t, out, nodes.KindBranch)
	assert.Contains(t, out, nodes.KindScript)
}
