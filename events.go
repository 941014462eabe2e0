package nodegraph

// EventKind names a graph change notification.
type EventKind int

const (
	NodeAdded EventKind = iota
	NodeRemoved
	VariableAdded
	VariableRemoved
	// Edited is raised once per outermost structural change.
	Edited
)

func (k EventKind) String() string {
	switch k {
	case NodeAdded:
		return "node-added"
	case NodeRemoved:
		return "node-removed"
	case VariableAdded:
		return "variable-added"
	case VariableRemoved:
		return "variable-removed"
	case Edited:
		return "edited"
	default:
		return "unknown"
	}
}

// Event is delivered to observers after a change has been applied.
type Event struct {
	Kind       EventKind
	NodeID     string
	VariableID string
}

// Observer receives graph events synchronously.
type Observer func(Event)

// Subscribe registers o and returns a function that removes it again.
func (g *Graph) Subscribe(o Observer) (unsubscribe func()) {
	g.nextObserver++
	id := g.nextObserver
	g.observers = append(g.observers, observerEntry{id: id, fn: o})
	return func() {
		for i, e := range g.observers {
			if e.id == id {
				g.observers = append(g.observers[:i], g.observers[i+1:]...)
				return
			}
		}
	}
}

type observerEntry struct {
	id int
	fn Observer
}

func (g *Graph) emit(e Event) {
	for _, o := range append([]observerEntry(nil), g.observers...) {
		o.fn(e)
	}
}

// edit runs fn as one logical change. Nested edits collapse into the outermost
// one, which raises a single Edited event if anything changed.
func (g *Graph) edit(fn func() error) error {
	g.editDepth++
	err := fn()
	g.editDepth--
	if g.editDepth == 0 && g.changed {
		g.changed = false
		g.emit(Event{Kind: Edited})
	}
	return err
}

// touch marks the current edit as having changed the graph.
func (g *Graph) touch() { g.changed = true }
