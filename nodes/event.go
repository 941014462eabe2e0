// Package nodes holds the node kinds of the standard catalog.
package nodes

import (
	"fmt"
	"strings"

	"github.com/meikuraledutech/nodegraph"
)

// Standard event names.
const (
	EventAwake  = "Awake"
	EventStart  = "Start"
	EventUpdate = "Update"
)

// Event is a control-flow entry point. Its only pin is the "then" output.
type Event struct {
	nodegraph.Base
	name string
}

// NewEvent returns a factory for entry nodes of the named event.
func NewEvent(name string) nodegraph.Factory {
	return func() nodegraph.Node {
		n := &Event{name: name}
		n.SetName(name)
		n.AddOutput("then", nodegraph.TypeExecute)
		return n
	}
}

func (n *Event) Event() string { return n.name }

func (n *Event) ExecuteOut() (int, bool) { return 0, true }

// EventKind is the registry key of the named event.
func EventKind(name string) string { return "event/" + strings.ToLower(name) }

// RegisterEvent adds an entry node kind for a host-defined event.
func RegisterEvent(reg *nodegraph.Registry, name string) error {
	if name == "" {
		return fmt.Errorf("nodes: event needs a name")
	}
	return reg.Register(nodegraph.KindInfo{
		Key:         EventKind(name),
		Category:    "event",
		Description: fmt.Sprintf("Starts the control flow when %s fires.", name),
		New:         NewEvent(name),
	})
}
