package nodes

import (
	"context"

	"github.com/meikuraledutech/nodegraph"
	"github.com/meikuraledutech/nodegraph/internal/ctxlog"
)

// Pin slots of debug/log.
const (
	LogIn      = 0
	LogThen    = 1
	LogMessage = 2
)

// Sink receives every message a log node emits.
type Sink func(nodeID, message string)

type sinkKey struct{}

// WithSink returns a context whose log nodes also report to fn.
func WithSink(ctx context.Context, fn Sink) context.Context {
	return context.WithValue(ctx, sinkKey{}, fn)
}

// Log writes its message input to the context logger when executed and
// remembers every message it has written.
type Log struct {
	nodegraph.Base
	messages []string
}

func newLog() nodegraph.Node {
	n := &Log{}
	n.SetName("Log")
	n.AddInput("in", nodegraph.TypeExecute)
	n.AddOutput("then", nodegraph.TypeExecute)
	n.AddInput("message", nodegraph.TypeString)
	return n
}

// Messages returns the messages written so far, oldest first.
func (n *Log) Messages() []string { return append([]string(nil), n.messages...) }

// Last returns the most recent message.
func (n *Log) Last() (string, bool) {
	if len(n.messages) == 0 {
		return "", false
	}
	return n.messages[len(n.messages)-1], true
}

func (n *Log) Execute(ctx context.Context) error {
	msg := nodegraph.FormatLiteral(n.Input(LogMessage))
	n.messages = append(n.messages, msg)
	ctxlog.FromContext(ctx).Info("graph log", "node", n.ID(), "message", msg)
	if fn, ok := ctx.Value(sinkKey{}).(Sink); ok && fn != nil {
		fn(n.ID(), msg)
	}
	return nil
}

func (n *Log) ExecuteOut() (int, bool) { return LogThen, true }
