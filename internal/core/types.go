// Package core defines the fundamental types for the Basera thinking core.
// These types are shared by every layer, store, and engine in the system.
package core

import (
	"fmt"
	"time"
)

// -----------------------------------------------------------------------------
// LAYER - One domain-specialized thinking unit
// -----------------------------------------------------------------------------

// LayerType identifies a thinking domain. The set is closed and fixed at
// compile time; every layer in the core is one of these eight.
type LayerType string

const (
	LayerMathematical LayerType = "mathematical"
	LayerLogical      LayerType = "logical"
	LayerInterpretive LayerType = "interpretive"
	LayerPhysical     LayerType = "physical"
	LayerLinguistic   LayerType = "linguistic"
	LayerSymbolic     LayerType = "symbolic"
	LayerVisual       LayerType = "visual"
	LayerSemantic     LayerType = "semantic"
)

// AllLayerTypes returns every layer type in canonical order.
func AllLayerTypes() []LayerType {
	return []LayerType{
		LayerMathematical,
		LayerLogical,
		LayerInterpretive,
		LayerPhysical,
		LayerLinguistic,
		LayerSymbolic,
		LayerVisual,
		LayerSemantic,
	}
}

// ParseLayerType validates a layer name coming from an external caller.
func ParseLayerType(s string) (LayerType, error) {
	for _, t := range AllLayerTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownLayer, s)
}

// LayerState is the processing state of a single layer. It is owned
// exclusively by the layer and changes only inside Process and Synchronize.
type LayerState string

const (
	StateInactive     LayerState = "inactive"
	StateProcessing   LayerState = "processing"
	StateActive       LayerState = "active"
	StateSynchronized LayerState = "synchronized"
	StateErrored      LayerState = "errored"
)

// PerformanceCounters tracks a layer's lifetime processing statistics.
// Averages are maintained incrementally: avg' = avg + (x - avg)/n.
type PerformanceCounters struct {
	TotalProcessed int           `json:"total_processed"`
	SuccessCount   int           `json:"success_count"`
	SuccessRate    float64       `json:"success_rate"`
	AverageLatency time.Duration `json:"average_latency_ns"`
	LastUpdate     time.Time     `json:"last_update"`
}

// SyncRecord is one layer's view of its last synchronization with a peer.
type SyncRecord struct {
	Score    float64   `json:"score"`
	SyncedAt time.Time `json:"synced_at"`
}

// -----------------------------------------------------------------------------
// RESULTS - What a round produces
// -----------------------------------------------------------------------------

// Payload is the domain-specific output of one processor. The framework never
// looks inside Data; only Kind (the result's theme tag) and the separate
// confidence value participate in integration.
type Payload struct {
	Kind string         `json:"kind"`
	Data map[string]any `json:"data,omitempty"`
}

// LayerResult is the output of one layer for one round. Immutable once
// produced; LayerType always equals the producing layer's type.
type LayerResult struct {
	LayerType  LayerType     `json:"layer_type"`
	Confidence float64       `json:"confidence"`
	Payload    Payload       `json:"payload"`
	Duration   time.Duration `json:"duration_ns"`
	Error      string        `json:"error,omitempty"`

	// Err carries the typed error for programmatic inspection. Error above
	// is its rendered form for serialized output.
	Err error `json:"-"`
}

// Errored reports whether the layer failed for this round.
func (r LayerResult) Errored() bool {
	return r.Err != nil || r.Error != ""
}

// ProcessingRound is the unit of work for one input across a layer subset.
// Rounds are retained in a bounded history and never mutated after completion.
type ProcessingRound struct {
	RoundID   string                    `json:"round_id"`
	Input     any                       `json:"input"`
	Timestamp time.Time                 `json:"timestamp"`
	Results   map[LayerType]LayerResult `json:"results"`
	SyncScore float64                   `json:"sync_score"`
	Report    *IntegratedReport         `json:"report"`
	Duration  time.Duration             `json:"duration_ns"`
}

// IntegratedReport aggregates all layer results for a round.
type IntegratedReport struct {
	TotalLayers        int       `json:"total_layers"`
	SuccessfulLayers   int       `json:"successful_layers"`
	AverageConfidence  float64   `json:"average_confidence"`
	DominantThemes     []string  `json:"dominant_themes"`
	CrossLayerInsights []string  `json:"cross_layer_insights"`
	Synthesis          Synthesis `json:"synthesis"`
}

// Synthesis is the report's combined view across layers and their
// synchronization for the round.
type Synthesis struct {
	SyncScore           float64 `json:"sync_score"`
	DualityDetected     bool    `json:"duality_detected"`
	IntegrationPossible bool    `json:"integration_possible"`
	ComplexityLevel     int     `json:"complexity_level"`
}

// -----------------------------------------------------------------------------
// KNOWLEDGE - Per-layer durable learning records
// -----------------------------------------------------------------------------

// LearningSource tags where a learning session came from.
type LearningSource string

const (
	SourceUserInteraction  LearningSource = "user_interaction"
	SourceResearch         LearningSource = "internet_research"
	SourceSelfAnalysis     LearningSource = "self_analysis"
	SourcePatternDiscovery LearningSource = "pattern_discovery"
	SourceErrorCorrection  LearningSource = "error_correction"
	SourceCrossLayer       LearningSource = "cross_layer_learning"
)

// LearningSession is one append-only audit record of layer activity.
// Sessions are never updated; re-logging the same SessionID is a no-op.
type LearningSession struct {
	SessionID string         `json:"session_id"`
	Source    LearningSource `json:"source"`
	DataType  string         `json:"data_type"`
	Success   bool           `json:"success"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// DiscoveredPattern is an upsertable, confidence-scored record of something a
// layer has learned. Re-inserting the same PatternID replaces the payload and
// confidence; the row stays unique and keeps its usage count.
type DiscoveredPattern struct {
	PatternID    string         `json:"pattern_id"`
	PatternType  string         `json:"pattern_type"`
	Data         map[string]any `json:"data,omitempty"`
	Confidence   float64        `json:"confidence"`
	DiscoveredAt time.Time      `json:"discovered_at"`
	UsageCount   int            `json:"usage_count"`
}

// ErrorCorrection records a past mistake and its fix, keyed by ErrorID.
type ErrorCorrection struct {
	ErrorID        string         `json:"error_id"`
	ErrorType      string         `json:"error_type"`
	ErrorData      map[string]any `json:"error_data,omitempty"`
	CorrectionData map[string]any `json:"correction_data,omitempty"`
	Effectiveness  float64        `json:"effectiveness"`
	CorrectedAt    time.Time      `json:"corrected_at"`
}

// KnowledgeRecord is the unified row shape returned by knowledge queries.
type KnowledgeRecord struct {
	Kind       string         `json:"kind"` // "pattern" or "correction"
	ID         string         `json:"id"`
	RecordType string         `json:"record_type"`
	Confidence float64        `json:"confidence"`
	Data       map[string]any `json:"data,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// StoreStats summarizes one layer's knowledge store.
type StoreStats struct {
	LayerType       LayerType `json:"layer_type"`
	StoreName       string    `json:"store_name"`
	SessionCount    int       `json:"session_count"`
	PatternCount    int       `json:"pattern_count"`
	CorrectionCount int       `json:"correction_count"`
	SuccessRate     float64   `json:"success_rate"`
	SizeBytes       int64     `json:"size_bytes"`
}

// -----------------------------------------------------------------------------
// STATUS - Orchestrator-level reporting
// -----------------------------------------------------------------------------

// LayerStatus is a point-in-time snapshot of one layer.
type LayerStatus struct {
	Type       LayerType             `json:"type"`
	Name       string                `json:"name"`
	State      LayerState            `json:"state"`
	Counters   PerformanceCounters   `json:"counters"`
	SyncScores map[LayerType]float64 `json:"sync_scores,omitempty"`
}

// CoreStatus is a point-in-time snapshot of the whole core.
type CoreStatus struct {
	Name             string                    `json:"name"`
	LayerCount       int                       `json:"layer_count"`
	ActiveLayerCount int                       `json:"active_layer_count"`
	RoundsProcessed  int                       `json:"rounds_processed"`
	SuccessfulRounds int                       `json:"successful_rounds"`
	SuccessRate      float64                   `json:"success_rate"`
	AverageSync      float64                   `json:"average_sync"`
	Layers           map[LayerType]LayerStatus `json:"layers"`
}
