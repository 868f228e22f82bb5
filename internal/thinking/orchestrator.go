package thinking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/basera/basera/internal/core"
	"github.com/basera/basera/internal/knowledge"
	"github.com/basera/basera/internal/layers"
	"github.com/basera/basera/internal/logging"
)

// Options tunes the orchestrator. Zero values fall back to defaults.
type Options struct {
	Name         string
	HistoryLimit int
	MaxParallel  int
	LayerTimeout time.Duration
	Logger       *logging.Logger
}

const (
	defaultHistoryLimit = 100
	defaultMaxParallel  = 8
)

// Orchestrator owns the full layer set and drives processing rounds:
// concurrent fan-out, synchronization scoring, and integration.
type Orchestrator struct {
	name      string
	layers    map[core.LayerType]*Layer
	registry  *knowledge.Registry
	syncer    SyncEngine
	integrate IntegrationEngine
	logger    *logging.Logger

	historyLimit int
	maxParallel  int

	mu               sync.Mutex
	history          []*core.ProcessingRound
	roundsProcessed  int
	successfulRounds int
	averageSync      float64
	shutdown         bool
}

// NewOrchestrator wires processors to their stores and activates every layer.
// The orchestrator takes ownership of the registry and closes it on Shutdown.
func NewOrchestrator(registry *knowledge.Registry, processors map[core.LayerType]layers.Processor, opts Options) (*Orchestrator, error) {
	if opts.Name == "" {
		opts.Name = "basera-core"
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = defaultHistoryLimit
	}
	if opts.MaxParallel <= 0 {
		opts.MaxParallel = defaultMaxParallel
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}

	o := &Orchestrator{
		name:         opts.Name,
		layers:       make(map[core.LayerType]*Layer, len(processors)),
		registry:     registry,
		logger:       logger,
		historyLimit: opts.HistoryLimit,
		maxParallel:  opts.MaxParallel,
		history:      make([]*core.ProcessingRound, 0, opts.HistoryLimit),
	}

	for t, proc := range processors {
		if proc.Type() != t {
			return nil, fmt.Errorf("processor registered under %s reports type %s", t, proc.Type())
		}
		store, err := registry.Store(t)
		if err != nil {
			return nil, err
		}
		layer := NewLayer(proc, store, logger, opts.LayerTimeout)
		layer.Activate()
		o.layers[t] = layer
	}

	logger.Info("%s initialized with %d layers", o.name, len(o.layers))
	return o, nil
}

// Process runs one thinking round over the given layer subset (nil or empty
// means every layer). Unknown subset entries are skipped, not fatal. Layer
// failures never fail the round; they surface per-result.
func (o *Orchestrator) Process(ctx context.Context, input any, subset []core.LayerType) (*core.ProcessingRound, error) {
	o.mu.Lock()
	if o.shutdown {
		o.mu.Unlock()
		return nil, core.ErrCoreShutdown
	}
	o.mu.Unlock()

	participants := o.resolveSubset(subset)

	round := &core.ProcessingRound{
		RoundID:   uuid.NewString(),
		Input:     input,
		Timestamp: time.Now(),
		Results:   make(map[core.LayerType]core.LayerResult, len(participants)),
	}

	start := time.Now()

	// Layers report into an intermediate map so that, on cancellation,
	// stragglers can finish detached without mutating the returned round.
	results := make(map[core.LayerType]core.LayerResult, len(participants))
	var resultMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxParallel)

	for _, layer := range participants {
		layer := layer
		g.Go(func() error {
			result := layer.Process(gctx, input)
			resultMu.Lock()
			results[layer.Type()] = result
			resultMu.Unlock()
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		g.Wait()
		close(done)
	}()

	// Cancellation stops the wait. Outstanding layers keep running against
	// the cancelled group context; their store writes still commit or are
	// never observed, but their results no longer belong to this round.
	select {
	case <-done:
	case <-ctx.Done():
	}

	// Snapshot what has landed; layers that have not reported yet get a
	// transient placeholder so the round's result set is complete.
	resultMu.Lock()
	for _, layer := range participants {
		if result, ok := results[layer.Type()]; ok {
			round.Results[layer.Type()] = result
			continue
		}
		err := core.Transientf("round cancelled: %v", ctx.Err())
		round.Results[layer.Type()] = core.LayerResult{
			LayerType: layer.Type(),
			Err:       err,
			Error:     err.Error(),
		}
	}
	resultMu.Unlock()

	// Only layers that actually produced a usable result take part in
	// synchronization.
	syncable := make(map[core.LayerType]*Layer, len(participants))
	for _, layer := range participants {
		if result := round.Results[layer.Type()]; !result.Errored() {
			syncable[layer.Type()] = layer
		}
	}

	round.SyncScore = o.syncer.SyncRound(syncable)
	round.Report = o.integrate.Integrate(round.Results, round.SyncScore)
	round.Duration = time.Since(start)

	o.recordRound(round)

	o.logger.Debug("round %s: %d/%d layers ok, sync %.2f",
		round.RoundID, round.Report.SuccessfulLayers, round.Report.TotalLayers, round.SyncScore)

	return round, nil
}

// resolveSubset maps requested layer types to live layers. Nil means all.
func (o *Orchestrator) resolveSubset(subset []core.LayerType) []*Layer {
	if len(subset) == 0 {
		participants := make([]*Layer, 0, len(o.layers))
		for _, t := range core.AllLayerTypes() {
			if layer, ok := o.layers[t]; ok {
				participants = append(participants, layer)
			}
		}
		return participants
	}

	participants := make([]*Layer, 0, len(subset))
	seen := make(map[core.LayerType]bool, len(subset))
	for _, t := range subset {
		if seen[t] {
			continue
		}
		seen[t] = true

		layer, ok := o.layers[t]
		if !ok {
			o.logger.Warn("skipping unknown layer %q in subset", t)
			continue
		}
		participants = append(participants, layer)
	}
	return participants
}

// recordRound appends to bounded history and updates running statistics.
func (o *Orchestrator) recordRound(round *core.ProcessingRound) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.history = append(o.history, round)
	if len(o.history) > o.historyLimit {
		o.history = o.history[len(o.history)-o.historyLimit:]
	}

	o.roundsProcessed++
	if round.Report != nil && round.Report.SuccessfulLayers > 0 {
		o.successfulRounds++
	}
	o.averageSync += (round.SyncScore - o.averageSync) / float64(o.roundsProcessed)
}

// Query searches one layer's knowledge store. An unknown layer or a closed
// store yields an empty result set, never an error.
func (o *Orchestrator) Query(ctx context.Context, layerType core.LayerType, text string, limit int) []core.KnowledgeRecord {
	layer, ok := o.layers[layerType]
	if !ok {
		return make([]core.KnowledgeRecord, 0)
	}

	records, err := layer.Store().Query(ctx, text, limit)
	if err != nil {
		o.logger.Warn("query against %s store failed: %v", layerType, err)
		return make([]core.KnowledgeRecord, 0)
	}
	return records
}

// History returns a copy of the retained rounds, oldest first.
func (o *Orchestrator) History() []*core.ProcessingRound {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]*core.ProcessingRound, len(o.history))
	copy(out, o.history)
	return out
}

// Status snapshots the whole core.
func (o *Orchestrator) Status() core.CoreStatus {
	o.mu.Lock()
	rounds := o.roundsProcessed
	successful := o.successfulRounds
	avgSync := o.averageSync
	o.mu.Unlock()

	status := core.CoreStatus{
		Name:             o.name,
		LayerCount:       len(o.layers),
		RoundsProcessed:  rounds,
		SuccessfulRounds: successful,
		AverageSync:      avgSync,
		Layers:           make(map[core.LayerType]core.LayerStatus, len(o.layers)),
	}
	if rounds > 0 {
		status.SuccessRate = float64(successful) / float64(rounds)
	}

	for t, layer := range o.layers {
		ls := layer.Status()
		status.Layers[t] = ls
		if ls.State != core.StateInactive && ls.State != core.StateErrored {
			status.ActiveLayerCount++
		}
	}

	return status
}

// Shutdown deactivates every layer and closes the stores. Idempotent.
func (o *Orchestrator) Shutdown() error {
	o.mu.Lock()
	if o.shutdown {
		o.mu.Unlock()
		return nil
	}
	o.shutdown = true
	o.mu.Unlock()

	for _, layer := range o.layers {
		layer.Deactivate()
	}

	err := o.registry.Close()
	o.logger.Info("%s shut down", o.name)
	return err
}
