package nodes

import (
	"fmt"

	"github.com/meikuraledutech/nodegraph"
)

// GraphType is the graph type of the standard catalog.
const GraphType = "standard"

// NewRegistry returns the standard catalog: events, math, comparison, logic,
// conversion, branch, merge, debug log, host value and Lua script kinds.
func NewRegistry() *nodegraph.Registry {
	reg := nodegraph.NewRegistry(GraphType)
	Register(reg)
	return reg
}

// Register adds the standard kinds to reg.
func Register(reg *nodegraph.Registry) {
	for _, name := range []string{EventAwake, EventStart, EventUpdate} {
		if err := RegisterEvent(reg, name); err != nil {
			panic(err)
		}
	}
	for _, op := range []string{OpAdd, OpSubtract, OpMultiply, OpDivide} {
		reg.MustRegister(nodegraph.KindInfo{
			Key:         "math/" + op,
			Category:    "math",
			Description: fmt.Sprintf("Numeric %s of a and b.", op),
			New:         newArithmetic(op),
		})
	}
	for _, op := range []string{OpEqual, OpNotEqual, OpLess, OpGreater} {
		reg.MustRegister(nodegraph.KindInfo{
			Key:         "compare/" + op,
			Category:    "compare",
			Description: fmt.Sprintf("Tests whether a is %s b.", op),
			New:         newCompare(op),
		})
	}
	for _, op := range []string{OpAnd, OpOr, OpNot} {
		reg.MustRegister(nodegraph.KindInfo{
			Key:         "logic/" + op,
			Category:    "logic",
			Description: fmt.Sprintf("Boolean %s.", op),
			New:         newLogic(op),
		})
	}
	for _, c := range conversions {
		reg.MustRegister(nodegraph.KindInfo{
			Key:         ConvertKind(c[0], c[1]),
			Category:    "convert",
			Description: fmt.Sprintf("Converts %s to %s.", c[0], c[1]),
			New:         newConvert(c[0], c[1]),
		})
	}
	reg.MustRegister(nodegraph.KindInfo{
		Key:         KindBranch,
		Category:    "flow",
		Description: "Continues through true or false depending on the condition.",
		New:         newBranch,
	})
	reg.MustRegister(nodegraph.KindInfo{
		Key:         KindMerge,
		Category:    "flow",
		Description: "Joins two control-flow paths.",
		New:         newMerge,
	})
	reg.MustRegister(nodegraph.KindInfo{
		Key:         KindLog,
		Category:    "debug",
		Description: "Logs the message when reached by the control flow.",
		New:         newLog,
	})
	reg.MustRegister(nodegraph.KindInfo{
		Key:         KindHostValue,
		Category:    "host",
		Description: "Reads a value supplied by the host.",
		New:         newHostValue,
	})
	reg.MustRegister(nodegraph.KindInfo{
		Key:         KindScript,
		Category:    "script",
		Description: "Computes result from a and b with a Lua chunk.",
		New:         newScript,
	})
}

// Registry keys of the single-kind nodes.
const (
	KindBranch    = "flow/branch"
	KindMerge     = "flow/merge"
	KindLog       = "debug/log"
	KindHostValue = "host/value"
	KindScript    = "script/lua"
)

// Registry keys of the operator kinds.
const (
	KindAdd      = "math/" + OpAdd
	KindSubtract = "math/" + OpSubtract
	KindMultiply = "math/" + OpMultiply
	KindDivide   = "math/" + OpDivide
	KindEqual    = "compare/" + OpEqual
	KindNotEqual = "compare/" + OpNotEqual
	KindLess     = "compare/" + OpLess
	KindGreater  = "compare/" + OpGreater
	KindAnd      = "logic/" + OpAnd
	KindOr       = "logic/" + OpOr
	KindNot      = "logic/" + OpNot
)
