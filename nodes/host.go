package nodes

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/nodegraph"
	"github.com/meikuraledutech/nodegraph/execution"
	"github.com/zclconf/go-cty/cty"
)

// Host resolves named values supplied by the embedding application.
type Host interface {
	Lookup(key string) (cty.Value, bool)
}

// MapHost is a Host backed by a map.
type MapHost map[string]cty.Value

func (h MapHost) Lookup(key string) (cty.Value, bool) {
	v, ok := h[key]
	return v, ok
}

// StringHost builds a MapHost of string values.
func StringHost(values map[string]string) MapHost {
	h := make(MapHost, len(values))
	for k, v := range values {
		h[k] = cty.StringVal(v)
	}
	return h
}

// HostBound nodes need a Host before they compute.
type HostBound interface {
	BindHost(h Host)
}

// BindHost returns a visitor that hands h to every HostBound node the
// resolver touches.
func BindHost(h Host) execution.VisitFunc {
	return func(ctx context.Context, n nodegraph.Node) error {
		if hb, ok := n.(HostBound); ok {
			hb.BindHost(h)
		}
		return nil
	}
}

// HostValue outputs the host value stored under its "key" property.
type HostValue struct {
	nodegraph.Base
	key  string
	host Host
}

func newHostValue() nodegraph.Node {
	n := &HostValue{}
	n.SetName("Host Value")
	n.AddOutput("value", nodegraph.TypeAny)
	return n
}

// Key returns the looked up key.
func (n *HostValue) Key() string { return n.key }

// SetKey changes the looked up key.
func (n *HostValue) SetKey(key string) { n.key = key }

func (n *HostValue) BindHost(h Host) { n.host = h }

func (n *HostValue) Properties() map[string]string {
	return map[string]string{"key": n.key}
}

func (n *HostValue) SetProperties(props map[string]string) error {
	n.key = props["key"]
	return nil
}

func (n *HostValue) Calculate() error {
	if n.host == nil {
		return fmt.Errorf("no host bound")
	}
	v, ok := n.host.Lookup(n.key)
	if !ok {
		return fmt.Errorf("host has no value %q", n.key)
	}
	return n.SetOutput(0, v)
}
