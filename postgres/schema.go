package postgres

import "context"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS graph_documents (
    id         TEXT PRIMARY KEY,
    graph_type TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS graph_variables (
    graph_id      TEXT NOT NULL REFERENCES graph_documents(id) ON DELETE CASCADE,
    id            TEXT NOT NULL,
    ord           INT  NOT NULL,
    name          TEXT NOT NULL,
    variable_type TEXT NOT NULL,
    value         TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (graph_id, id)
);

CREATE TABLE IF NOT EXISTS graph_nodes (
    graph_id      TEXT NOT NULL REFERENCES graph_documents(id) ON DELETE CASCADE,
    id            TEXT NOT NULL,
    ord           INT  NOT NULL,
    section       TEXT NOT NULL,
    class_type    TEXT NOT NULL,
    name          TEXT NOT NULL DEFAULT '',
    pos_x         DOUBLE PRECISION NOT NULL DEFAULT 0,
    pos_y         DOUBLE PRECISION NOT NULL DEFAULT 0,
    properties    JSONB,
    constant_type TEXT NOT NULL DEFAULT '',
    value         TEXT NOT NULL DEFAULT '',
    variable_id   TEXT NOT NULL DEFAULT '',
    accessor_type TEXT NOT NULL DEFAULT '',
    PRIMARY KEY (graph_id, id)
);

CREATE TABLE IF NOT EXISTS graph_connections (
    graph_id         TEXT NOT NULL REFERENCES graph_documents(id) ON DELETE CASCADE,
    ord              INT  NOT NULL,
    source_node_id   TEXT NOT NULL,
    source_pin_index INT  NOT NULL,
    target_node_id   TEXT NOT NULL,
    target_pin_index INT  NOT NULL,
    PRIMARY KEY (graph_id, ord)
);

CREATE INDEX IF NOT EXISTS idx_graph_nodes_graph_id       ON graph_nodes(graph_id);
CREATE INDEX IF NOT EXISTS idx_graph_connections_graph_id ON graph_connections(graph_id);
`

// CreateSchema creates the graph tables if they don't exist.
func (s *PGStore) CreateSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, schemaSQL)
	return err
}

// DropSchema drops the graph tables.
func (s *PGStore) DropSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `DROP TABLE IF EXISTS graph_connections, graph_nodes, graph_variables, graph_documents CASCADE;`)
	return err
}
