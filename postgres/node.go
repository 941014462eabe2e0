package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/meikuraledutech/nodegraph"
)

// Node rows are stored in one table; section tells which list of the
// document a row belongs to.
const (
	sectionNode     = "node"
	sectionConstant = "constant"
	sectionVariable = "variable"
)

const insertNodeSQL = `INSERT INTO graph_nodes
    (graph_id, id, ord, section, class_type, name, pos_x, pos_y, properties, constant_type, value, variable_id, accessor_type)
    VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

func insertNodes(ctx context.Context, tx pgx.Tx, graphID string, d *nodegraph.GraphData) error {
	ord := 0
	insert := func(section string, n nodegraph.NodeData, constantType, value, variableID string, accessor nodegraph.Accessor) error {
		ord++
		var props map[string]string
		if len(n.Properties) > 0 {
			props = n.Properties
		}
		if _, err := tx.Exec(ctx, insertNodeSQL,
			graphID, n.ID, ord, section, n.ClassType, n.Name, n.Position.X, n.Position.Y,
			props, constantType, value, variableID, string(accessor),
		); err != nil {
			return fmt.Errorf("nodegraph: insert node %s: %w", n.ID, err)
		}
		return nil
	}

	for _, n := range d.Nodes {
		if err := insert(sectionNode, n, "", "", "", ""); err != nil {
			return err
		}
	}
	for _, c := range d.Constants {
		if err := insert(sectionConstant, c.NodeData, c.ConstantType, c.Value, "", ""); err != nil {
			return err
		}
	}
	for _, v := range d.VariableNodes {
		if err := insert(sectionVariable, v.NodeData, "", "", v.VariableID, v.AccessorType); err != nil {
			return err
		}
	}
	return nil
}

func (s *PGStore) loadNodes(ctx context.Context, graphID string, d *nodegraph.GraphData) error {
	rows, err := s.db.Query(ctx,
		`SELECT id, section, class_type, name, pos_x, pos_y, properties, constant_type, value, variable_id, accessor_type
		 FROM graph_nodes WHERE graph_id = $1 ORDER BY ord`, graphID)
	if err != nil {
		return fmt.Errorf("nodegraph: query nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			n                                             nodegraph.NodeData
			section, constantType, value, varID, accessor string
		)
		if err := rows.Scan(&n.ID, &section, &n.ClassType, &n.Name, &n.Position.X, &n.Position.Y,
			&n.Properties, &constantType, &value, &varID, &accessor); err != nil {
			return fmt.Errorf("nodegraph: scan node: %w", err)
		}
		switch section {
		case sectionConstant:
			d.Constants = append(d.Constants, nodegraph.NodeConstantData{NodeData: n, ConstantType: constantType, Value: value})
		case sectionVariable:
			d.VariableNodes = append(d.VariableNodes, nodegraph.NodeVariableData{
				NodeData:     n,
				VariableID:   varID,
				AccessorType: nodegraph.Accessor(accessor),
			})
		default:
			d.Nodes = append(d.Nodes, n)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("nodegraph: rows nodes: %w", err)
	}
	return nil
}
