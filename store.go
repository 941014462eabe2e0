package nodegraph

import (
	"context"
	"errors"
)

var (
	ErrInvalidConnection  = errors.New("nodegraph: invalid connection")
	ErrIncompatibleTypes  = errors.New("nodegraph: incompatible pin types")
	ErrInvalidLiteral     = errors.New("nodegraph: invalid literal")
	ErrCycleDetected      = errors.New("nodegraph: cycle detected in value dependencies")
	ErrForeignNode        = errors.New("nodegraph: node does not belong to this graph")
	ErrNodeNotFound       = errors.New("nodegraph: node not found")
	ErrPinNotFound        = errors.New("nodegraph: pin not found")
	ErrVariableNotFound   = errors.New("nodegraph: variable not found")
	ErrConnectionNotFound = errors.New("nodegraph: connection not found")
	ErrUnknownKind        = errors.New("nodegraph: unknown node kind")
	ErrUnknownType        = errors.New("nodegraph: unknown pin type")
	ErrGraphTypeMismatch  = errors.New("nodegraph: graph type mismatch")
)

// Store defines the contract for persisting and retrieving graph documents.
type Store interface {
	// Schema
	CreateSchema(ctx context.Context) error
	DropSchema(ctx context.Context) error

	// Documents (replace semantics)
	SaveGraph(ctx context.Context, graphID string, data *GraphData) error
	LoadGraph(ctx context.Context, graphID string) (*GraphData, error)
	DeleteGraph(ctx context.Context, graphID string) error
	ListGraphs(ctx context.Context) ([]string, error)
}
