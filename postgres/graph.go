package postgres

import (
	"context"
	"fmt"

	"github.com/meikuraledutech/nodegraph"
)

// SaveGraph stores a full document (variables, nodes, connections) in one
// transaction, replacing any previous document under graphID.
func (s *PGStore) SaveGraph(ctx context.Context, graphID string, d *nodegraph.GraphData) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("nodegraph: begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	// Replace semantics: children go with the document row.
	if _, err := tx.Exec(ctx, `DELETE FROM graph_documents WHERE id = $1`, graphID); err != nil {
		return fmt.Errorf("nodegraph: delete graph: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO graph_documents (id, graph_type) VALUES ($1, $2)`,
		graphID, d.GraphType,
	); err != nil {
		return fmt.Errorf("nodegraph: insert graph: %w", err)
	}

	for i, v := range d.Variables {
		if _, err := tx.Exec(ctx,
			`INSERT INTO graph_variables (graph_id, id, ord, name, variable_type, value) VALUES ($1, $2, $3, $4, $5, $6)`,
			graphID, v.ID, i, v.Name, v.VariableType, v.Value,
		); err != nil {
			return fmt.Errorf("nodegraph: insert variable %s: %w", v.ID, err)
		}
	}

	if err := insertNodes(ctx, tx, graphID, d); err != nil {
		return err
	}
	if err := insertConnections(ctx, tx, graphID, d.Connections); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("nodegraph: commit: %w", err)
	}
	return nil
}

// LoadGraph retrieves a full document by its ID.
// Returns nil, nil if the graph doesn't exist.
func (s *PGStore) LoadGraph(ctx context.Context, graphID string) (*nodegraph.GraphData, error) {
	d := &nodegraph.GraphData{}
	err := s.db.QueryRow(ctx,
		`SELECT graph_type FROM graph_documents WHERE id = $1`, graphID,
	).Scan(&d.GraphType)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("nodegraph: get graph: %w", err)
	}

	rows, err := s.db.Query(ctx,
		`SELECT id, name, variable_type, value FROM graph_variables WHERE graph_id = $1 ORDER BY ord`, graphID)
	if err != nil {
		return nil, fmt.Errorf("nodegraph: query variables: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var v nodegraph.NodeGraphVariableData
		if err := rows.Scan(&v.ID, &v.Name, &v.VariableType, &v.Value); err != nil {
			return nil, fmt.Errorf("nodegraph: scan variable: %w", err)
		}
		d.Variables = append(d.Variables, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("nodegraph: rows variables: %w", err)
	}

	if err := s.loadNodes(ctx, graphID, d); err != nil {
		return nil, err
	}
	conns, err := s.loadConnections(ctx, graphID)
	if err != nil {
		return nil, err
	}
	d.Connections = conns

	return d, nil
}

// DeleteGraph removes a document and everything in it.
// No error if the graphID doesn't exist.
func (s *PGStore) DeleteGraph(ctx context.Context, graphID string) error {
	_, err := s.db.Exec(ctx, `DELETE FROM graph_documents WHERE id = $1`, graphID)
	if err != nil {
		return fmt.Errorf("nodegraph: delete graph: %w", err)
	}
	return nil
}

// ListGraphs returns the stored graph IDs in sorted order.
func (s *PGStore) ListGraphs(ctx context.Context) ([]string, error) {
	rows, err := s.db.Query(ctx, `SELECT id FROM graph_documents ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("nodegraph: list graphs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("nodegraph: scan graph id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
