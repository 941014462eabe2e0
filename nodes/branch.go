package nodes

import "github.com/meikuraledutech/nodegraph"

// Pin slots of flow/branch.
const (
	BranchIn        = 0
	BranchCondition = 1
	BranchTrue      = 2
	BranchFalse     = 3
)

// Branch continues through "true" or "false" depending on its condition.
type Branch struct {
	nodegraph.Base
}

func newBranch() nodegraph.Node {
	n := &Branch{}
	n.SetName("Branch")
	n.AddInput("in", nodegraph.TypeExecute)
	n.AddInput("condition", nodegraph.TypeBool)
	n.AddOutput("true", nodegraph.TypeExecute)
	n.AddOutput("false", nodegraph.TypeExecute)
	return n
}

func (n *Branch) ExecuteOut() (int, bool) {
	if truth(n.Input(BranchCondition)) {
		return BranchTrue, true
	}
	return BranchFalse, true
}

// Pin slots of flow/merge.
const (
	MergeA    = 0
	MergeB    = 1
	MergeThen = 2
)

// Merge joins two control-flow paths into one. It is how a flow loops back
// on itself, since an execute input takes a single connection.
type Merge struct {
	nodegraph.Base
}

func newMerge() nodegraph.Node {
	n := &Merge{}
	n.SetName("Merge")
	n.AddInput("a", nodegraph.TypeExecute)
	n.AddInput("b", nodegraph.TypeExecute)
	n.AddOutput("then", nodegraph.TypeExecute)
	return n
}

func (n *Merge) ExecuteOut() (int, bool) { return MergeThen, true }
