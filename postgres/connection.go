package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meikuraledutech/nodegraph"
)

func insertConnections(ctx context.Context, tx pgx.Tx, graphID string, conns []nodegraph.NodeConnectionData) error {
	for i, c := range conns {
		if _, err := tx.Exec(ctx,
			`INSERT INTO graph_connections (graph_id, ord, source_node_id, source_pin_index, target_node_id, target_pin_index)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			graphID, i, c.SourceNodeID, c.SourcePinIndex, c.TargetNodeID, c.TargetPinIndex,
		); err != nil {
			return fmt.Errorf("nodegraph: insert connection %d: %w", i, err)
		}
	}
	return nil
}

func (s *PGStore) loadConnections(ctx context.Context, graphID string) ([]nodegraph.NodeConnectionData, error) {
	rows, err := s.db.Query(ctx,
		`SELECT source_node_id, source_pin_index, target_node_id, target_pin_index
		 FROM graph_connections WHERE graph_id = $1 ORDER BY ord`, graphID)
	if err != nil {
		return nil, fmt.Errorf("nodegraph: query connections: %w", err)
	}
	defer rows.Close()

	var conns []nodegraph.NodeConnectionData
	for rows.Next() {
		var c nodegraph.NodeConnectionData
		if err := rows.Scan(&c.SourceNodeID, &c.SourcePinIndex, &c.TargetNodeID, &c.TargetPinIndex); err != nil {
			return nil, fmt.Errorf("nodegraph: scan connection: %w", err)
		}
		conns = append(conns, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("nodegraph: rows connections: %w", err)
	}
	return conns, nil
}
