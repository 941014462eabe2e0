package execution

import (
	"context"
	"log/slog"

	"github.com/meikuraledutech/nodegraph"
	"go.opentelemetry.io/otel/trace"
)

// VisitFunc is called once for every node the resolver touches, before the
// node computes. Hosts use it to bind external context to nodes.
type VisitFunc func(ctx context.Context, n nodegraph.Node) error

type settings struct {
	maxSteps int
	visit    VisitFunc
	logger   *slog.Logger
	tracer   trace.Tracer
	pass     *Pass
}

// Option configures a Runner or a Driver.
type Option func(*settings)

// WithMaxSteps caps the number of control-flow steps per event. Zero means
// unlimited.
func WithMaxSteps(n int) Option {
	return func(s *settings) { s.maxSteps = n }
}

// WithVisitor installs a per-node visitation callback.
func WithVisitor(fn VisitFunc) Option {
	return func(s *settings) { s.visit = fn }
}

// WithLogger sets the logger carried into node execution.
func WithLogger(l *slog.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithTracer sets the tracer for event spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *settings) { s.tracer = t }
}

// WithPass makes a runner check upstream control-flow nodes against p.
func WithPass(p *Pass) Option {
	return func(s *settings) { s.pass = p }
}
