package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/nodegraph"
	"github.com/meikuraledutech/nodegraph/config"
	"github.com/meikuraledutech/nodegraph/nodes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func testApp(t *testing.T) (*fiber.App, nodegraph.Store) {
	t.Helper()
	cfg := &config.Config{
		Execution: config.ExecutionConfig{MaxSteps: 10},
		Host:      map[string]string{"greeting": "hello"},
	}
	store := nodegraph.NewMemoryStore()
	return newApp(store, nodes.NewRegistry(), cfg, quiet, noop.NewTracerProvider().Tracer("test")), store
}

func wire(t *testing.T, g *nodegraph.Graph, src nodegraph.Node, si int, tgt nodegraph.Node, ti int) {
	t.Helper()
	_, err := g.Connect(
		nodegraph.PinRef{Node: src.Core().ID(), Index: si},
		nodegraph.PinRef{Node: tgt.Core().ID(), Index: ti},
	)
	require.NoError(t, err)
}

// greetingGraph logs the host value "greeting" on Start.
func greetingGraph(t *testing.T) []byte {
	t.Helper()
	g := nodegraph.New(nodes.NewRegistry(), nodegraph.WithLogger(quiet))
	start, err := g.AddNode(nodes.EventKind(nodes.EventStart))
	require.NoError(t, err)
	host, err := g.AddNode(nodes.KindHostValue)
	require.NoError(t, err)
	host.(*nodes.HostValue).SetKey("greeting")
	log, err := g.AddNode(nodes.KindLog)
	require.NoError(t, err)

	wire(t, g, start, 0, log, nodes.LogIn)
	wire(t, g, host, 0, log, nodes.LogMessage)

	body, err := json.Marshal(g.Save())
	require.NoError(t, err)
	return body
}

// loopGraph loops a log node back into a merge forever.
func loopGraph(t *testing.T) []byte {
	t.Helper()
	g := nodegraph.New(nodes.NewRegistry(), nodegraph.WithLogger(quiet))
	start, err := g.AddNode(nodes.EventKind(nodes.EventStart))
	require.NoError(t, err)
	merge, err := g.AddNode(nodes.KindMerge)
	require.NoError(t, err)
	log, err := g.AddNode(nodes.KindLog)
	require.NoError(t, err)
	msg, err := g.AddConstant(nodegraph.TypeString, "tick")
	require.NoError(t, err)

	wire(t, g, start, 0, merge, nodes.MergeA)
	wire(t, g, merge, nodes.MergeThen, log, nodes.LogIn)
	wire(t, g, msg, 0, log, nodes.LogMessage)
	wire(t, g, log, nodes.LogThen, merge, nodes.MergeB)

	body, err := json.Marshal(g.Save())
	require.NoError(t, err)
	return body
}

func do(t *testing.T, app *fiber.App, method, path string, body []byte) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func TestGraphCRUD(t *testing.T) {
	app, _ := testApp(t)

	status, _ := do(t, app, http.MethodGet, "/graphs/hello", nil)
	assert.Equal(t, 404, status)

	status, _ = do(t, app, http.MethodPut, "/graphs/hello", greetingGraph(t))
	require.Equal(t, 204, status)

	status, body := do(t, app, http.MethodGet, "/graphs", nil)
	require.Equal(t, 200, status)
	assert.JSONEq(t, `["hello"]`, string(body))

	status, body = do(t, app, http.MethodGet, "/graphs/hello", nil)
	require.Equal(t, 200, status)
	var d nodegraph.GraphData
	require.NoError(t, json.Unmarshal(body, &d))
	assert.Equal(t, nodes.GraphType, d.GraphType)
	assert.Len(t, d.Nodes, 3)
	assert.Len(t, d.Connections, 2)

	status, body = do(t, app, http.MethodGet, "/graphs/hello?format=yaml", nil)
	require.Equal(t, 200, status)
	assert.Contains(t, string(body), "graph_type: standard")

	status, body = do(t, app, http.MethodGet, "/graphs/hello/mermaid", nil)
	require.Equal(t, 200, status)
	assert.True(t, strings.HasPrefix(string(body), "graph LR"))

	status, _ = do(t, app, http.MethodDelete, "/graphs/hello", nil)
	assert.Equal(t, 204, status)
	status, _ = do(t, app, http.MethodGet, "/graphs/hello", nil)
	assert.Equal(t, 404, status)
}

func TestPutRejectsBadDocuments(t *testing.T) {
	app, store := testApp(t)

	status, _ := do(t, app, http.MethodPut, "/graphs/bad", []byte(`{"nodes": "nope"}`))
	assert.Equal(t, 400, status)

	unknown := []byte(`{"graph_type": "standard", "nodes": [{"class_type": "no/such", "id": "a", "name": "A", "position": {"x": 0, "y": 0}}]}`)
	status, _ = do(t, app, http.MethodPut, "/graphs/bad", unknown)
	assert.Equal(t, 422, status)

	ids, err := store.ListGraphs(t.Context())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestExecuteEvent(t *testing.T) {
	app, _ := testApp(t)
	status, _ := do(t, app, http.MethodPut, "/graphs/hello", greetingGraph(t))
	require.Equal(t, 204, status)

	status, body := do(t, app, http.MethodPost, "/graphs/hello/events/start", nil)
	require.Equal(t, 200, status, string(body))

	var result struct {
		Event    string       `json:"event"`
		Messages []logMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Equal(t, "start", result.Event)
	require.Len(t, result.Messages, 1)
	assert.Equal(t, "hello", result.Messages[0].Message)

	// Unknown events are a no-op.
	status, body = do(t, app, http.MethodPost, "/graphs/hello/events/Update", nil)
	require.Equal(t, 200, status)
	assert.Contains(t, string(body), `"messages":[]`)

	status, _ = do(t, app, http.MethodPost, "/graphs/missing/events/Start", nil)
	assert.Equal(t, 404, status)
}

func TestExecuteEventStepLimit(t *testing.T) {
	app, _ := testApp(t)
	status, _ := do(t, app, http.MethodPut, "/graphs/loop", loopGraph(t))
	require.Equal(t, 204, status)

	status, body := do(t, app, http.MethodPost, "/graphs/loop/events/Start", nil)
	require.Equal(t, 422, status)

	var result struct {
		Messages []logMessage `json:"messages"`
		Error    string       `json:"error"`
	}
	require.NoError(t, json.Unmarshal(body, &result))
	assert.Contains(t, result.Error, "step limit exceeded")
	// Start, then merge and log alternate until the cap of ten steps.
	assert.Len(t, result.Messages, 4)
}

func TestKinds(t *testing.T) {
	app, _ := testApp(t)
	status, body := do(t, app, http.MethodGet, "/kinds", nil)
	require.Equal(t, 200, status)
	assert.Contains(t, string(body), `"key":"flow/branch"`)
	assert.Contains(t, string(body), `"graph_type":"standard"`)
}
