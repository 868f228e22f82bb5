// Package knowledge implements the per-layer durable knowledge stores.
// Every thinking layer owns exactly one store; stores are never shared.
package knowledge

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/basera/basera/internal/core"
	"github.com/basera/basera/internal/storage"
)

// storeNames maps each layer to its database name, one file per layer.
var storeNames = map[core.LayerType]string{
	core.LayerMathematical: "mathematical_knowledge",
	core.LayerLogical:      "logical_patterns",
	core.LayerInterpretive: "interpretive_meanings",
	core.LayerPhysical:     "physical_laws",
	core.LayerLinguistic:   "linguistic_knowledge",
	core.LayerSymbolic:     "symbolic_representations",
	core.LayerVisual:       "visual_patterns",
	core.LayerSemantic:     "semantic_networks",
}

// StoreName returns the database name used for a layer's store.
func StoreName(t core.LayerType) string {
	if name, ok := storeNames[t]; ok {
		return name
	}
	return string(t) + "_knowledge"
}

// Store is one layer's durable record of learning sessions, discovered
// patterns, and error corrections. Writes are serialized by a single-writer
// mutex and committed before the call returns; reads may run concurrently.
type Store struct {
	db        *storage.DB
	layerType core.LayerType
	name      string

	writeMu sync.Mutex

	stateMu sync.RWMutex
	closed  bool
}

// Open opens (or creates) the knowledge store for a layer and applies
// pending migrations and seed knowledge.
func Open(cfg storage.Config, layerType core.LayerType) (*Store, error) {
	db, err := storage.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", layerType, err)
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate %s store: %w", layerType, err)
	}

	s := &Store{
		db:        db,
		layerType: layerType,
		name:      StoreName(layerType),
	}

	if err := s.seed(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("seed %s store: %w", layerType, err)
	}

	return s, nil
}

// LayerType returns the owning layer's type.
func (s *Store) LayerType() core.LayerType { return s.layerType }

// Name returns the store's database name.
func (s *Store) Name() string { return s.name }

// Close closes the store. Safe to call more than once.
func (s *Store) Close() error {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}

func (s *Store) isClosed() bool {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.closed
}

// LogLearningSession appends one learning session. Sessions are append-only:
// logging a session ID that already exists is a no-op, never an update.
func (s *Store) LogLearningSession(ctx context.Context, session core.LearningSession) error {
	if s.isClosed() {
		return core.ErrStoreClosed
	}

	if session.SessionID == "" {
		session.SessionID = fmt.Sprintf("sess_%s", uuid.NewString())
	}
	if session.Timestamp.IsZero() {
		session.Timestamp = time.Now()
	}

	metadataJSON, err := json.Marshal(session.Metadata)
	if err != nil {
		return core.WriteFailedf("marshal session metadata: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err = s.db.Conn().ExecContext(ctx, `
		INSERT INTO learning_sessions (session_id, source, data_type, success, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO NOTHING
	`,
		session.SessionID,
		string(session.Source),
		session.DataType,
		session.Success,
		string(metadataJSON),
		session.Timestamp,
	)
	if err != nil {
		return core.WriteFailedf("insert learning session: %w", err)
	}

	return nil
}

// UpsertPattern inserts or replaces a discovered pattern by its ID. A replace
// overwrites the payload and confidence but keeps the original discovery time
// and usage count.
func (s *Store) UpsertPattern(ctx context.Context, pattern core.DiscoveredPattern) error {
	if s.isClosed() {
		return core.ErrStoreClosed
	}

	if pattern.PatternID == "" {
		pattern.PatternID = fmt.Sprintf("pat_%s", uuid.NewString())
	}
	if pattern.DiscoveredAt.IsZero() {
		pattern.DiscoveredAt = time.Now()
	}

	dataJSON, err := json.Marshal(pattern.Data)
	if err != nil {
		return core.WriteFailedf("marshal pattern data: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err = s.db.Conn().ExecContext(ctx, `
		INSERT INTO discovered_patterns (pattern_id, pattern_type, pattern_data, confidence, discovered_at, usage_count)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(pattern_id) DO UPDATE SET
			pattern_type = excluded.pattern_type,
			pattern_data = excluded.pattern_data,
			confidence = excluded.confidence
	`,
		pattern.PatternID,
		pattern.PatternType,
		string(dataJSON),
		pattern.Confidence,
		pattern.DiscoveredAt,
		pattern.UsageCount,
	)
	if err != nil {
		return core.WriteFailedf("upsert pattern: %w", err)
	}

	return nil
}

// insertPatternIfAbsent is used by seeding so re-opening a store never
// clobbers confidences the layer has since learned.
func (s *Store) insertPatternIfAbsent(ctx context.Context, pattern core.DiscoveredPattern) error {
	dataJSON, err := json.Marshal(pattern.Data)
	if err != nil {
		return core.WriteFailedf("marshal pattern data: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err = s.db.Conn().ExecContext(ctx, `
		INSERT INTO discovered_patterns (pattern_id, pattern_type, pattern_data, confidence, discovered_at, usage_count)
		VALUES (?, ?, ?, ?, ?, 0)
		ON CONFLICT(pattern_id) DO NOTHING
	`,
		pattern.PatternID,
		pattern.PatternType,
		string(dataJSON),
		pattern.Confidence,
		pattern.DiscoveredAt,
	)
	if err != nil {
		return core.WriteFailedf("seed pattern: %w", err)
	}

	return nil
}

// TouchPattern increments a pattern's usage count.
func (s *Store) TouchPattern(ctx context.Context, patternID string) error {
	if s.isClosed() {
		return core.ErrStoreClosed
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	result, err := s.db.Conn().ExecContext(ctx,
		"UPDATE discovered_patterns SET usage_count = usage_count + 1 WHERE pattern_id = ?",
		patternID,
	)
	if err != nil {
		return core.WriteFailedf("touch pattern: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return core.WriteFailedf("touch pattern: %w", err)
	}
	if affected == 0 {
		return core.NotFoundf("pattern %q", patternID)
	}

	return nil
}

// RecordCorrection inserts or replaces an error correction by its ID.
func (s *Store) RecordCorrection(ctx context.Context, correction core.ErrorCorrection) error {
	if s.isClosed() {
		return core.ErrStoreClosed
	}

	if correction.ErrorID == "" {
		correction.ErrorID = fmt.Sprintf("err_%s", uuid.NewString())
	}
	if correction.CorrectedAt.IsZero() {
		correction.CorrectedAt = time.Now()
	}

	errorJSON, err := json.Marshal(correction.ErrorData)
	if err != nil {
		return core.WriteFailedf("marshal error data: %w", err)
	}
	correctionJSON, err := json.Marshal(correction.CorrectionData)
	if err != nil {
		return core.WriteFailedf("marshal correction data: %w", err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	_, err = s.db.Conn().ExecContext(ctx, `
		INSERT OR REPLACE INTO error_corrections (error_id, error_type, error_data, correction_data, effectiveness, corrected_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		correction.ErrorID,
		correction.ErrorType,
		string(errorJSON),
		string(correctionJSON),
		correction.Effectiveness,
		correction.CorrectedAt,
	)
	if err != nil {
		return core.WriteFailedf("record correction: %w", err)
	}

	return nil
}

// Query performs a case-insensitive substring search over the store's
// searchable text fields. Patterns come first ordered by confidence, then
// corrections ordered by effectiveness; ties break on ID so equal inputs
// always return equal output.
func (s *Store) Query(ctx context.Context, text string, limit int) ([]core.KnowledgeRecord, error) {
	records := make([]core.KnowledgeRecord, 0)

	if s.isClosed() || limit <= 0 {
		return records, nil
	}

	needle := "%" + escapeLike(text) + "%"

	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT pattern_id, pattern_type, pattern_data, confidence, discovered_at
		FROM discovered_patterns
		WHERE pattern_id LIKE ? ESCAPE '\' OR pattern_type LIKE ? ESCAPE '\' OR pattern_data LIKE ? ESCAPE '\'
		ORDER BY confidence DESC, pattern_id ASC
		LIMIT ?
	`, needle, needle, needle, limit)
	if err != nil {
		return nil, fmt.Errorf("query patterns: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var rec core.KnowledgeRecord
		var dataJSON string

		if err := rows.Scan(&rec.ID, &rec.RecordType, &dataJSON, &rec.Confidence, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan pattern: %w", err)
		}

		rec.Kind = "pattern"
		if err := json.Unmarshal([]byte(dataJSON), &rec.Data); err != nil {
			rec.Data = nil
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query patterns: %w", err)
	}

	remaining := limit - len(records)
	if remaining <= 0 {
		return records, nil
	}

	corrRows, err := s.db.Conn().QueryContext(ctx, `
		SELECT error_id, error_type, correction_data, effectiveness, corrected_at
		FROM error_corrections
		WHERE error_id LIKE ? ESCAPE '\' OR error_type LIKE ? ESCAPE '\' OR error_data LIKE ? ESCAPE '\' OR correction_data LIKE ? ESCAPE '\'
		ORDER BY effectiveness DESC, error_id ASC
		LIMIT ?
	`, needle, needle, needle, needle, remaining)
	if err != nil {
		return nil, fmt.Errorf("query corrections: %w", err)
	}
	defer corrRows.Close()

	for corrRows.Next() {
		var rec core.KnowledgeRecord
		var dataJSON string

		if err := corrRows.Scan(&rec.ID, &rec.RecordType, &dataJSON, &rec.Confidence, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("scan correction: %w", err)
		}

		rec.Kind = "correction"
		if err := json.Unmarshal([]byte(dataJSON), &rec.Data); err != nil {
			rec.Data = nil
		}
		records = append(records, rec)
	}
	if err := corrRows.Err(); err != nil {
		return nil, fmt.Errorf("query corrections: %w", err)
	}

	return records, nil
}

// escapeLike neutralizes LIKE wildcards so query text always matches as a
// literal substring.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// GetPattern fetches a single pattern by ID.
func (s *Store) GetPattern(ctx context.Context, patternID string) (*core.DiscoveredPattern, error) {
	if s.isClosed() {
		return nil, core.ErrStoreClosed
	}

	row := s.db.Conn().QueryRowContext(ctx, `
		SELECT pattern_id, pattern_type, pattern_data, confidence, discovered_at, usage_count
		FROM discovered_patterns
		WHERE pattern_id = ?
	`, patternID)

	var p core.DiscoveredPattern
	var dataJSON string
	err := row.Scan(&p.PatternID, &p.PatternType, &dataJSON, &p.Confidence, &p.DiscoveredAt, &p.UsageCount)
	if err == sql.ErrNoRows {
		return nil, core.NotFoundf("pattern %q", patternID)
	}
	if err != nil {
		return nil, fmt.Errorf("get pattern: %w", err)
	}

	if err := json.Unmarshal([]byte(dataJSON), &p.Data); err != nil {
		p.Data = nil
	}

	return &p, nil
}

// GetSessions returns the most recent learning sessions, newest first.
func (s *Store) GetSessions(ctx context.Context, limit int) ([]core.LearningSession, error) {
	sessions := make([]core.LearningSession, 0)

	if s.isClosed() || limit <= 0 {
		return sessions, nil
	}

	rows, err := s.db.Conn().QueryContext(ctx, `
		SELECT session_id, source, data_type, success, metadata, created_at
		FROM learning_sessions
		ORDER BY created_at DESC, session_id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var sess core.LearningSession
		var metadataJSON string

		err := rows.Scan(&sess.SessionID, (*string)(&sess.Source), &sess.DataType, &sess.Success, &metadataJSON, &sess.Timestamp)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}

		if err := json.Unmarshal([]byte(metadataJSON), &sess.Metadata); err != nil {
			sess.Metadata = nil
		}
		sessions = append(sessions, sess)
	}

	return sessions, rows.Err()
}

// Stats reports the store's record counts, learning success rate, and size.
func (s *Store) Stats(ctx context.Context) (core.StoreStats, error) {
	stats := core.StoreStats{
		LayerType: s.layerType,
		StoreName: s.name,
	}

	if s.isClosed() {
		return stats, core.ErrStoreClosed
	}

	conn := s.db.Conn()

	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM learning_sessions").Scan(&stats.SessionCount); err != nil {
		return stats, fmt.Errorf("count sessions: %w", err)
	}
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM discovered_patterns").Scan(&stats.PatternCount); err != nil {
		return stats, fmt.Errorf("count patterns: %w", err)
	}
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM error_corrections").Scan(&stats.CorrectionCount); err != nil {
		return stats, fmt.Errorf("count corrections: %w", err)
	}

	var successRate sql.NullFloat64
	if err := conn.QueryRowContext(ctx, "SELECT AVG(CAST(success AS REAL)) FROM learning_sessions").Scan(&successRate); err != nil {
		return stats, fmt.Errorf("compute success rate: %w", err)
	}
	if successRate.Valid {
		stats.SuccessRate = successRate.Float64
	}

	size, err := s.db.SizeBytes()
	if err != nil {
		return stats, err
	}
	stats.SizeBytes = size

	return stats, nil
}
