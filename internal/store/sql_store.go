package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/sleroy/java-architecture-analyzer/internal/errors"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// sqlStore implements Store against any sqlx.DB whose SQL dialect
// differences are limited to placeholder style (handled by db.Rebind)
// and migration DDL (schema, supplied by the constructor). PostgresStore
// and SQLiteStore are thin wrappers around this shared implementation so
// the flatten/nest transformer and query logic stay backend-independent,
// matching the teacher's sqlx+pgx/sqlite3 stack but collapsing the
// near-duplicate CRUD the teacher wrote once per backend.
type sqlStore struct {
	db     *sqlx.DB
	logger *logrus.Logger
	dbName string
}

type nodeRow struct {
	ID                 string    `db:"id"`
	Type               string    `db:"type"`
	Label              string    `db:"label"`
	PropertiesJSON     string    `db:"properties_json"`
	MetricsJSON        string    `db:"metrics_json"`
	TagsJSON           string    `db:"tags_json"`
	InspectorTimesJSON string    `db:"inspector_times_json"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
}

type edgeRow struct {
	ID           string    `db:"id"`
	SourceID     string    `db:"source_id"`
	TargetID     string    `db:"target_id"`
	Type         string    `db:"type"`
	MetadataJSON string    `db:"metadata_json"`
	CreatedAt    time.Time `db:"created_at"`
}

func (s *sqlStore) toRow(n StoredNode) (nodeRow, error) {
	if err := ValidateProperties(n.Properties); err != nil {
		return nodeRow{}, err
	}
	props, err := json.Marshal(Flatten(n.Properties))
	if err != nil {
		return nodeRow{}, apperrors.ValidationErrorf("marshal properties for node %q: %v", n.ID, err)
	}
	metrics, err := json.Marshal(n.Metrics)
	if err != nil {
		return nodeRow{}, apperrors.ValidationErrorf("marshal metrics for node %q: %v", n.ID, err)
	}
	tags, err := json.Marshal(n.Tags)
	if err != nil {
		return nodeRow{}, apperrors.ValidationErrorf("marshal tags for node %q: %v", n.ID, err)
	}
	execTimes, err := json.Marshal(n.ExecutionTimes)
	if err != nil {
		return nodeRow{}, apperrors.ValidationErrorf("marshal inspector execution times for node %q: %v", n.ID, err)
	}
	return nodeRow{
		ID: n.ID, Type: n.Type, Label: n.Label,
		PropertiesJSON: string(props), MetricsJSON: string(metrics), TagsJSON: string(tags),
		InspectorTimesJSON: string(execTimes),
	}, nil
}

func (s *sqlStore) fromRow(row nodeRow) (StoredNode, error) {
	var flatProps map[string]interface{}
	if err := json.Unmarshal([]byte(row.PropertiesJSON), &flatProps); err != nil {
		return StoredNode{}, apperrors.DatabaseError(err, "unmarshal properties for node "+row.ID)
	}
	var metrics map[string]float64
	if err := json.Unmarshal([]byte(row.MetricsJSON), &metrics); err != nil {
		return StoredNode{}, apperrors.DatabaseError(err, "unmarshal metrics for node "+row.ID)
	}
	var tags []string
	if err := json.Unmarshal([]byte(row.TagsJSON), &tags); err != nil {
		return StoredNode{}, apperrors.DatabaseError(err, "unmarshal tags for node "+row.ID)
	}
	var execTimes map[string]time.Time
	if row.InspectorTimesJSON != "" {
		if err := json.Unmarshal([]byte(row.InspectorTimesJSON), &execTimes); err != nil {
			return StoredNode{}, apperrors.DatabaseError(err, "unmarshal inspector execution times for node "+row.ID)
		}
	}
	return StoredNode{
		ID: row.ID, Type: row.Type, Label: row.Label,
		Properties: Nest(flatProps), Metrics: metrics, Tags: tags,
		ExecutionTimes: execTimes,
		CreatedAt:      row.CreatedAt, UpdatedAt: row.UpdatedAt,
	}, nil
}

// SaveNode atomically upserts node, keeping node_tags consistent with
// nodes.tags_json in the same transaction.
func (s *sqlStore) SaveNode(ctx context.Context, node StoredNode) error {
	return s.upsertNode(ctx, node)
}

// MergeNode is the same upsert as SaveNode; re-discovering an already
// persisted node during re-analysis must not error.
func (s *sqlStore) MergeNode(ctx context.Context, node StoredNode) error {
	return s.upsertNode(ctx, node)
}

func (s *sqlStore) upsertNode(ctx context.Context, node StoredNode) error {
	row, err := s.toRow(node)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return apperrors.DatabaseError(err, "begin transaction")
	}
	defer tx.Rollback()

	query := s.db.Rebind(`
		INSERT INTO nodes (id, type, label, properties_json, metrics_json, tags_json, inspector_times_json, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ` + s.now() + `)
		ON CONFLICT (id) DO UPDATE SET
			type = excluded.type, label = excluded.label,
			properties_json = excluded.properties_json,
			metrics_json = excluded.metrics_json,
			tags_json = excluded.tags_json,
			inspector_times_json = excluded.inspector_times_json,
			updated_at = ` + s.now() + `
	`)
	if _, err := tx.ExecContext(ctx, query, row.ID, row.Type, row.Label, row.PropertiesJSON, row.MetricsJSON, row.TagsJSON, row.InspectorTimesJSON); err != nil {
		return apperrors.DatabaseError(err, "upsert node "+node.ID)
	}

	if _, err := tx.ExecContext(ctx, s.db.Rebind(`DELETE FROM node_tags WHERE node_id = ?`), node.ID); err != nil {
		return apperrors.DatabaseError(err, "clear tags for node "+node.ID)
	}
	for _, tag := range node.Tags {
		if _, err := tx.ExecContext(ctx, s.db.Rebind(`INSERT INTO node_tags (node_id, tag) VALUES (?, ?)`), node.ID, tag); err != nil {
			return apperrors.DatabaseError(err, "insert tag for node "+node.ID)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.DatabaseError(err, "commit node upsert")
	}
	return nil
}

func (s *sqlStore) now() string {
	if s.dbName == "postgres" {
		return "now()"
	}
	return "CURRENT_TIMESTAMP"
}

// MergeProperties applies a JSON-merge-patch to the stored node's
// properties: keys in patch override, absent keys are preserved.
func (s *sqlStore) MergeProperties(ctx context.Context, nodeID string, patch map[string]interface{}) error {
	current, err := s.FindByID(ctx, nodeID)
	if err != nil {
		return err
	}
	merged := current.Properties
	if merged == nil {
		merged = make(map[string]interface{})
	}
	for k, v := range patch {
		merged[k] = v
	}
	current.Properties = merged
	return s.MergeNode(ctx, current)
}

func (s *sqlStore) FindByID(ctx context.Context, id string) (StoredNode, error) {
	var row nodeRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(`SELECT * FROM nodes WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return StoredNode{}, ErrNotFound
	}
	if err != nil {
		return StoredNode{}, apperrors.DatabaseError(err, "find node by id "+id)
	}
	return s.fromRow(row)
}

func (s *sqlStore) selectNodes(ctx context.Context, query string, args ...interface{}) ([]StoredNode, error) {
	var rows []nodeRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, apperrors.DatabaseError(err, "query nodes")
	}
	out := make([]StoredNode, 0, len(rows))
	for _, r := range rows {
		n, err := s.fromRow(r)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *sqlStore) FindByType(ctx context.Context, nodeType string) ([]StoredNode, error) {
	return s.selectNodes(ctx, `SELECT * FROM nodes WHERE type = ?`, nodeType)
}

func (s *sqlStore) FindAll(ctx context.Context) ([]StoredNode, error) {
	return s.selectNodes(ctx, `SELECT * FROM nodes`)
}

// FindByPropertyValue matches nodes whose flattened properties contain
// jsonPath (a dotted key per the flatten transformer) equal to value,
// serialized and compared as JSON text — portable across Postgres and
// SQLite without relying on either's native JSON operators.
func (s *sqlStore) FindByPropertyValue(ctx context.Context, jsonPath string, value interface{}) ([]StoredNode, error) {
	all, err := s.selectNodes(ctx, `SELECT * FROM nodes`)
	if err != nil {
		return nil, err
	}
	wantBytes, err := json.Marshal(value)
	if err != nil {
		return nil, apperrors.ValidationErrorf("marshal search value: %v", err)
	}
	want := string(wantBytes)

	out := make([]StoredNode, 0)
	for _, n := range all {
		flat := Flatten(n.Properties)
		v, ok := flat[jsonPath]
		if !ok {
			continue
		}
		got, err := json.Marshal(v)
		if err == nil && string(got) == want {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *sqlStore) FindByTag(ctx context.Context, tag string) ([]StoredNode, error) {
	return s.selectNodes(ctx, `
		SELECT n.* FROM nodes n
		JOIN node_tags t ON t.node_id = n.id
		WHERE t.tag = ?`, tag)
}

func (s *sqlStore) FindByAnyTags(ctx context.Context, tags []string) ([]StoredNode, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`
		SELECT DISTINCT n.* FROM nodes n
		JOIN node_tags t ON t.node_id = n.id
		WHERE t.tag IN (?)`, tags)
	if err != nil {
		return nil, apperrors.DatabaseError(err, "build any-tags query")
	}
	return s.selectNodes(ctx, query, args...)
}

func (s *sqlStore) FindByAllTags(ctx context.Context, tags []string) ([]StoredNode, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In(`
		SELECT n.* FROM nodes n
		JOIN node_tags t ON t.node_id = n.id
		WHERE t.tag IN (?)
		GROUP BY n.id, n.type, n.label, n.properties_json, n.metrics_json, n.tags_json, n.inspector_times_json, n.created_at, n.updated_at
		HAVING COUNT(DISTINCT t.tag) = ?`, tags)
	if err != nil {
		return nil, apperrors.DatabaseError(err, "build all-tags query")
	}
	args = append(args, len(tags))
	return s.selectNodes(ctx, query, args...)
}

func (s *sqlStore) FindByTypeAndAnyTags(ctx context.Context, nodeType string, tags []string) ([]StoredNode, error) {
	byAny, err := s.FindByAnyTags(ctx, tags)
	if err != nil {
		return nil, err
	}
	return filterByType(byAny, nodeType), nil
}

func (s *sqlStore) FindByTypeAndAllTags(ctx context.Context, nodeType string, tags []string) ([]StoredNode, error) {
	byAll, err := s.FindByAllTags(ctx, tags)
	if err != nil {
		return nil, err
	}
	return filterByType(byAll, nodeType), nil
}

func filterByType(nodes []StoredNode, nodeType string) []StoredNode {
	out := make([]StoredNode, 0, len(nodes))
	for _, n := range nodes {
		if n.Type == nodeType {
			out = append(out, n)
		}
	}
	return out
}

func (s *sqlStore) CreateEdge(ctx context.Context, edge StoredEdge) error {
	meta, err := json.Marshal(edge.Metadata)
	if err != nil {
		return apperrors.ValidationErrorf("marshal edge metadata: %v", err)
	}
	query := s.db.Rebind(`
		INSERT INTO edges (id, source_id, target_id, type, metadata_json)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (source_id, target_id, type) DO NOTHING
	`)
	if _, err := s.db.ExecContext(ctx, query, edge.ID, edge.SourceID, edge.TargetID, edge.Type, string(meta)); err != nil {
		return apperrors.DatabaseError(err, fmt.Sprintf("create edge %s->%s[%s]", edge.SourceID, edge.TargetID, edge.Type))
	}
	return nil
}

func (s *sqlStore) selectEdges(ctx context.Context, query string, args ...interface{}) ([]StoredEdge, error) {
	var rows []edgeRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, apperrors.DatabaseError(err, "query edges")
	}
	out := make([]StoredEdge, 0, len(rows))
	for _, r := range rows {
		var meta map[string]interface{}
		if err := json.Unmarshal([]byte(r.MetadataJSON), &meta); err != nil {
			return nil, apperrors.DatabaseError(err, "unmarshal edge metadata")
		}
		out = append(out, StoredEdge{
			ID: r.ID, SourceID: r.SourceID, TargetID: r.TargetID, Type: r.Type,
			Metadata: meta, CreatedAt: r.CreatedAt,
		})
	}
	return out, nil
}

func (s *sqlStore) FindOutgoing(ctx context.Context, nodeID string) ([]StoredEdge, error) {
	return s.selectEdges(ctx, `SELECT * FROM edges WHERE source_id = ?`, nodeID)
}

func (s *sqlStore) FindIncoming(ctx context.Context, nodeID string) ([]StoredEdge, error) {
	return s.selectEdges(ctx, `SELECT * FROM edges WHERE target_id = ?`, nodeID)
}

func (s *sqlStore) FindEdgesByType(ctx context.Context, edgeType string) ([]StoredEdge, error) {
	return s.selectEdges(ctx, `SELECT * FROM edges WHERE type = ?`, edgeType)
}

// ClearAll truncates in FK-safe order: edges, tags, nodes.
func (s *sqlStore) ClearAll(ctx context.Context) error {
	for _, table := range []string{"edges", "node_tags", "nodes"} {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return apperrors.DatabaseError(err, "clear table "+table)
		}
	}
	return nil
}

func (s *sqlStore) Statistics(ctx context.Context) (Statistics, error) {
	var stats Statistics
	if err := s.db.GetContext(ctx, &stats.NodeCount, `SELECT COUNT(*) FROM nodes`); err != nil {
		return Statistics{}, apperrors.DatabaseError(err, "count nodes")
	}
	if err := s.db.GetContext(ctx, &stats.EdgeCount, `SELECT COUNT(*) FROM edges`); err != nil {
		return Statistics{}, apperrors.DatabaseError(err, "count edges")
	}
	if err := s.db.GetContext(ctx, &stats.TagCount, `SELECT COUNT(*) FROM node_tags`); err != nil {
		return Statistics{}, apperrors.DatabaseError(err, "count tags")
	}
	return stats, nil
}

func (s *sqlStore) Close() error {
	return s.db.Close()
}
