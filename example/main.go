package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/meikuraledutech/nodegraph"
	"github.com/meikuraledutech/nodegraph/document"
	"github.com/meikuraledutech/nodegraph/execution"
	"github.com/meikuraledutech/nodegraph/nodes"
	"github.com/meikuraledutech/nodegraph/postgres"
)

func main() {
	ctx := context.Background()

	// Postgres when DATABASE_URL is set, memory otherwise.
	var store nodegraph.Store = nodegraph.NewMemoryStore()
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			log.Fatalf("connect: %v", err)
		}
		defer pool.Close()
		store = postgres.New(pool)
	}

	// 1. Create tables
	if err := store.CreateSchema(ctx); err != nil {
		log.Fatalf("schema: %v", err)
	}
	fmt.Println("schema created")

	// ── Build: on Start, log 2 + 3 ────────────────────────────────────
	reg := nodes.NewRegistry()
	g := nodegraph.New(reg)

	start := must(g.AddNode(nodes.EventKind(nodes.EventStart)))
	two := must(g.AddConstant(nodegraph.TypeFloat, "2"))
	three := must(g.AddConstant(nodegraph.TypeFloat, "3"))
	add := must(g.AddNode(nodes.KindAdd))
	toString := must(g.AddNode(nodes.ConvertKind(nodegraph.TypeFloat, nodegraph.TypeString)))
	logNode := must(g.AddNode(nodes.KindLog))

	wire(g, two, 0, add, nodes.PinA)
	wire(g, three, 0, add, nodes.PinB)
	wire(g, add, nodes.PinResult, toString, 0)
	wire(g, toString, 1, logNode, nodes.LogMessage)
	wire(g, start, 0, logNode, nodes.LogIn)

	fmt.Println("\ngraph built:")
	fmt.Print(document.ToMermaid(g))

	// ── Save and reload ───────────────────────────────────────────────
	if err := store.SaveGraph(ctx, "add-two-numbers", g.Save()); err != nil {
		log.Fatalf("save graph: %v", err)
	}
	d, err := store.LoadGraph(ctx, "add-two-numbers")
	if err != nil {
		log.Fatalf("load graph: %v", err)
	}
	printYAML(d)

	loaded, err := nodegraph.Load(reg, d)
	if err != nil {
		log.Fatalf("rebuild graph: %v", err)
	}

	// ── Run ───────────────────────────────────────────────────────────
	driver := execution.NewDriver(loaded, execution.WithMaxSteps(100))
	defer driver.Close()
	ctx = nodes.WithSink(ctx, func(nodeID, message string) {
		fmt.Printf("\nlog %s: %s\n", nodeID, message)
	})
	if err := driver.ExecuteEvent(ctx, nodes.EventStart); err != nil {
		log.Fatalf("execute: %v", err)
	}

	// ── Cleanup ───────────────────────────────────────────────────────
	if err := store.DeleteGraph(ctx, "add-two-numbers"); err != nil {
		log.Fatalf("delete graph: %v", err)
	}
	fmt.Println("\ngraph deleted")
}

func must[T any](v T, err error) T {
	if err != nil {
		log.Fatal(err)
	}
	return v
}

func wire(g *nodegraph.Graph, src nodegraph.Node, si int, tgt nodegraph.Node, ti int) {
	_, err := g.Connect(
		nodegraph.PinRef{Node: src.Core().ID(), Index: si},
		nodegraph.PinRef{Node: tgt.Core().ID(), Index: ti},
	)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
}

func printYAML(d *nodegraph.GraphData) {
	out, err := document.Marshal(d, document.YAML)
	if err != nil {
		log.Fatalf("yaml: %v", err)
	}
	fmt.Println("\ngraph stored:")
	fmt.Println(string(out))
}
