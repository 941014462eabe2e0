package main

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v3"
	"github.com/meikuraledutech/nodegraph"
	"github.com/meikuraledutech/nodegraph/config"
	"github.com/meikuraledutech/nodegraph/document"
	"github.com/meikuraledutech/nodegraph/execution"
	"github.com/meikuraledutech/nodegraph/internal/ctxlog"
	"github.com/meikuraledutech/nodegraph/nodes"
	"go.opentelemetry.io/otel/trace"
)

type handler struct {
	store    nodegraph.Store
	registry *nodegraph.Registry
	cfg      *config.Config
	logger   *slog.Logger
	tracer   trace.Tracer
}

type logMessage struct {
	Node    string `json:"node"`
	Message string `json:"message"`
}

func newApp(store nodegraph.Store, reg *nodegraph.Registry, cfg *config.Config, logger *slog.Logger, tracer trace.Tracer) *fiber.App {
	h := &handler{store: store, registry: reg, cfg: cfg, logger: logger, tracer: tracer}
	app := fiber.New()

	// ── Schema ────────────────────────────────────────────────────────
	app.Post("/schema", func(c fiber.Ctx) error {
		if err := h.store.CreateSchema(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "schema created"})
	})

	app.Delete("/schema", func(c fiber.Ctx) error {
		if err := h.store.DropSchema(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "schema dropped"})
	})

	// ── Catalog ───────────────────────────────────────────────────────
	app.Get("/kinds", h.kinds)

	// ── Graphs ────────────────────────────────────────────────────────
	app.Get("/graphs", func(c fiber.Ctx) error {
		ids, err := h.store.ListGraphs(c.Context())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(ids)
	})

	app.Put("/graphs/:id", h.saveGraph)

	app.Get("/graphs/:id", func(c fiber.Ctx) error {
		d, err := h.store.LoadGraph(c.Context(), c.Params("id"))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		if d == nil {
			return c.Status(404).JSON(fiber.Map{"error": "graph not found"})
		}
		if c.Query("format") == string(document.YAML) {
			out, err := document.Marshal(d, document.YAML)
			if err != nil {
				return c.Status(500).JSON(fiber.Map{"error": err.Error()})
			}
			c.Set(fiber.HeaderContentType, "application/yaml")
			return c.Send(out)
		}
		return c.JSON(d)
	})

	app.Delete("/graphs/:id", func(c fiber.Ctx) error {
		if err := h.store.DeleteGraph(c.Context(), c.Params("id")); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	app.Get("/graphs/:id/mermaid", func(c fiber.Ctx) error {
		g, status, err := h.graph(c)
		if err != nil {
			return c.Status(status).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendString(document.ToMermaid(g))
	})

	// ── Execution ─────────────────────────────────────────────────────
	app.Post("/graphs/:id/events/:event", h.executeEvent)

	return app
}

func (h *handler) kinds(c fiber.Ctx) error {
	out := make([]fiber.Map, 0)
	for _, key := range h.registry.Kinds() {
		info, _ := h.registry.Describe(key)
		out = append(out, fiber.Map{
			"key":         info.Key,
			"category":    info.Category,
			"description": info.Description,
		})
	}
	return c.JSON(fiber.Map{
		"graph_type": h.registry.Name(),
		"kinds":      out,
		"types":      h.registry.Types(),
	})
}

func (h *handler) saveGraph(c fiber.Ctx) error {
	d, err := document.Unmarshal(c.Body(), document.JSON)
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": err.Error()})
	}
	if d.GraphType == "" {
		d.GraphType = h.registry.Name()
	}
	// A document is only stored if it loads cleanly.
	if _, err := nodegraph.Load(h.registry, d, nodegraph.WithLogger(h.logger)); err != nil {
		return c.Status(422).JSON(fiber.Map{"error": err.Error()})
	}
	if err := h.store.SaveGraph(c.Context(), c.Params("id"), d); err != nil {
		return c.Status(500).JSON(fiber.Map{"error": err.Error()})
	}
	return c.SendStatus(204)
}

// graph loads the stored document named by the id param into a live graph.
func (h *handler) graph(c fiber.Ctx) (*nodegraph.Graph, int, error) {
	d, err := h.store.LoadGraph(c.Context(), c.Params("id"))
	if err != nil {
		return nil, 500, err
	}
	if d == nil {
		return nil, 404, errors.New("graph not found")
	}
	g, err := nodegraph.Load(h.registry, d, nodegraph.WithLogger(h.logger))
	if err != nil {
		return nil, 422, err
	}
	return g, 200, nil
}

func (h *handler) executeEvent(c fiber.Ctx) error {
	g, status, err := h.graph(c)
	if err != nil {
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	event := c.Params("event")
	logger := h.logger.With("graph", c.Params("id"))
	d := execution.NewDriver(g,
		execution.WithMaxSteps(h.cfg.Execution.MaxSteps),
		execution.WithVisitor(nodes.BindHost(nodes.StringHost(h.cfg.Host))),
		execution.WithLogger(logger),
		execution.WithTracer(h.tracer),
	)
	defer d.Close()

	messages := make([]logMessage, 0)
	ctx := ctxlog.WithLogger(c.Context(), logger)
	ctx = nodes.WithSink(ctx, func(nodeID, message string) {
		messages = append(messages, logMessage{Node: nodeID, Message: message})
	})

	runErr := d.ExecuteEvent(ctx, event)
	variables := make(map[string]string)
	for _, v := range g.Variables() {
		variables[v.Name] = v.Literal()
	}
	result := fiber.Map{"event": event, "messages": messages, "variables": variables}

	switch {
	case errors.Is(runErr, execution.ErrStepLimitExceeded):
		result["error"] = runErr.Error()
		return c.Status(422).JSON(result)
	case runErr != nil:
		result["error"] = runErr.Error()
		return c.Status(500).JSON(result)
	}
	return c.JSON(result)
}
