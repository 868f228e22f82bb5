// Package thinking implements the thinking core: stateful layers wrapping the
// processors, pairwise synchronization, result integration, and the
// orchestrator that drives a processing round end to end.
package thinking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/basera/basera/internal/core"
	"github.com/basera/basera/internal/knowledge"
	"github.com/basera/basera/internal/layers"
	"github.com/basera/basera/internal/logging"
)

// Layer couples one processor with its knowledge store and tracks state and
// performance across rounds. All mutation happens under the layer's own lock;
// layers never touch each other's state except through Synchronize.
type Layer struct {
	layerType core.LayerType
	name      string
	processor layers.Processor
	store     *knowledge.Store
	logger    *logging.Logger
	timeout   time.Duration

	mu         sync.Mutex
	state      core.LayerState
	counters   core.PerformanceCounters
	syncScores map[core.LayerType]core.SyncRecord
}

// NewLayer builds a layer in the Inactive state.
func NewLayer(processor layers.Processor, store *knowledge.Store, logger *logging.Logger, timeout time.Duration) *Layer {
	t := processor.Type()
	return &Layer{
		layerType:  t,
		name:       fmt.Sprintf("%s_layer", t),
		processor:  processor,
		store:      store,
		logger:     logger.WithField("layer", string(t)),
		timeout:    timeout,
		state:      core.StateInactive,
		syncScores: make(map[core.LayerType]core.SyncRecord),
	}
}

// Type returns the layer's type.
func (l *Layer) Type() core.LayerType { return l.layerType }

// Store returns the layer's knowledge store.
func (l *Layer) Store() *knowledge.Store { return l.store }

// Activate moves the layer from Inactive to Active. Activating an already
// running layer is a no-op.
func (l *Layer) Activate() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == core.StateInactive {
		l.state = core.StateActive
		l.logger.Debug("layer activated")
	}
}

// Deactivate returns the layer to Inactive.
func (l *Layer) Deactivate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = core.StateInactive
}

// State returns the layer's current state.
func (l *Layer) State() core.LayerState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Process runs the layer's processor on the input and folds any failure into
// the returned result. It never returns an error and never lets a processor
// panic escape. Re-entrant from any state, including Inactive and Errored;
// shutdown gating lives in the orchestrator.
func (l *Layer) Process(ctx context.Context, input any) core.LayerResult {
	l.mu.Lock()
	l.state = core.StateProcessing
	l.mu.Unlock()

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	start := time.Now()
	payload, confidence, err := l.invoke(ctx, input)
	duration := time.Since(start)

	if err == nil && ctx.Err() != nil {
		err = core.Transientf("layer deadline exceeded: %w", ctx.Err())
	}

	result := core.LayerResult{
		LayerType:  l.layerType,
		Payload:    payload,
		Confidence: clamp01(confidence),
		Duration:   duration,
	}
	if err != nil {
		result.Err = err
		result.Error = err.Error()
		result.Confidence = 0
		result.Payload = core.Payload{}
	}

	// The round itself is a learning event for the layer.
	if result.Err == nil {
		session := core.LearningSession{
			Source:   core.SourceSelfAnalysis,
			DataType: result.Payload.Kind,
			Success:  true,
			Metadata: map[string]any{"confidence": result.Confidence},
		}
		if storeErr := l.store.LogLearningSession(ctx, session); storeErr != nil {
			result.Err = storeErr
			result.Error = storeErr.Error()
			l.logger.Warn("learning session write failed: %v", storeErr)
		}
	}

	l.finish(result, duration)
	return result
}

// invoke calls the processor with panic capture.
func (l *Layer) invoke(ctx context.Context, input any) (payload core.Payload, confidence float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			payload = core.Payload{}
			confidence = 0
			err = core.Internalf("processor panic: %v", r)
		}
	}()
	return l.processor.Process(ctx, input)
}

// finish records counters and settles the post-round state.
func (l *Layer) finish(result core.LayerResult, duration time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.counters.TotalProcessed++
	if result.Err == nil {
		l.counters.SuccessCount++
	}
	l.counters.SuccessRate = float64(l.counters.SuccessCount) / float64(l.counters.TotalProcessed)
	n := time.Duration(l.counters.TotalProcessed)
	l.counters.AverageLatency += (duration - l.counters.AverageLatency) / n
	l.counters.LastUpdate = time.Now()

	if result.Err != nil && core.ProcessorKind(result.Err) == core.ProcessorInternal {
		l.state = core.StateErrored
	} else {
		l.state = core.StateActive
	}
}

// Synchronize scores this layer's compatibility with another, records the
// score in both layers' sync maps, and promotes both when the pairing is
// strong. Symmetric: a.Synchronize(b) and b.Synchronize(a) yield the same
// score.
func (l *Layer) Synchronize(other *Layer) float64 {
	score := Compatibility(l.layerType, other.layerType)
	strong := score > syncThreshold

	l.recordSync(other.layerType, score, strong)
	other.recordSync(l.layerType, score, strong)

	return score
}

// recordSync stores the latest synchronization score against another layer
// and promotes an Active layer to Synchronized when the pairing is strong.
func (l *Layer) recordSync(other core.LayerType, score float64, strong bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.syncScores[other] = core.SyncRecord{Score: score, SyncedAt: time.Now()}
	if strong && l.state == core.StateActive {
		l.state = core.StateSynchronized
	}
}

// Status snapshots the layer.
func (l *Layer) Status() core.LayerStatus {
	l.mu.Lock()
	defer l.mu.Unlock()

	scores := make(map[core.LayerType]float64, len(l.syncScores))
	for t, rec := range l.syncScores {
		scores[t] = rec.Score
	}

	return core.LayerStatus{
		Type:       l.layerType,
		Name:       l.name,
		State:      l.state,
		Counters:   l.counters,
		SyncScores: scores,
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
