package store

// postgresSchema creates the three logical tables described in §4.3:
// nodes, edges, node_tags — the latter a denormalization for indexed tag
// queries, kept consistent with the nodes.tags_json column by every
// mutating operation in this package.
const postgresSchema = `
CREATE TABLE IF NOT EXISTS nodes (
	id             TEXT PRIMARY KEY,
	type           TEXT NOT NULL,
	label          TEXT NOT NULL,
	properties_json JSONB NOT NULL DEFAULT '{}',
	metrics_json    JSONB NOT NULL DEFAULT '{}',
	tags_json       JSONB NOT NULL DEFAULT '[]',
	inspector_times_json JSONB NOT NULL DEFAULT '{}',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS edges (
	id           TEXT PRIMARY KEY,
	source_id    TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	target_id    TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	type         TEXT NOT NULL,
	metadata_json JSONB NOT NULL DEFAULT '{}',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (source_id, target_id, type)
);

CREATE TABLE IF NOT EXISTS node_tags (
	node_id    TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	tag        TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (node_id, tag)
);

CREATE INDEX IF NOT EXISTS idx_nodes_type ON nodes(type);
CREATE INDEX IF NOT EXISTS idx_node_tags_tag ON node_tags(tag);
CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id);
`

// sqliteSchema is the same three-table model expressed for SQLite: no
// JSONB (properties/metrics/tags stored as TEXT containing JSON) and no
// TIMESTAMPTZ.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS nodes (
	id              TEXT PRIMARY KEY,
	type            TEXT NOT NULL,
	label           TEXT NOT NULL,
	properties_json TEXT NOT NULL DEFAULT '{}',
	metrics_json    TEXT NOT NULL DEFAULT '{}',
	tags_json       TEXT NOT NULL DEFAULT '[]',
	inspector_times_json TEXT NOT NULL DEFAULT '{}',
	created_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at      DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS edges (
	id            TEXT PRIMARY KEY,
	source_id     TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	target_id     TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	type          TEXT NOT NULL,
	metadata_json TEXT NOT NULL DEFAULT '{}',
	created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (source_id, target_id, type)
);

CREATE TABLE IF NOT EXISTS node_tags (
	node_id    TEXT NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	tag        TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (node_id, tag)
);

CREATE INDEX IF NOT EXISTS idx_nodes_type ON nodes(type);
CREATE INDEX IF NOT EXISTS idx_node_tags_tag ON node_tags(tag);
CREATE INDEX IF NOT EXISTS idx_edges_source ON edges(source_id);
CREATE INDEX IF NOT EXISTS idx_edges_target ON edges(target_id);
`
