package thinking

import (
	"context"
	"testing"

	"github.com/basera/basera/internal/core"
	"github.com/basera/basera/internal/knowledge"
	"github.com/basera/basera/internal/layers"
	"github.com/basera/basera/internal/logging"
)

// stubProcessor lets tests pin a layer's behavior.
type stubProcessor struct {
	layerType  core.LayerType
	kind       string
	confidence float64
	err        error
	panicMsg   string
}

func (s *stubProcessor) Type() core.LayerType { return s.layerType }

func (s *stubProcessor) Process(ctx context.Context, input any) (core.Payload, float64, error) {
	if s.panicMsg != "" {
		panic(s.panicMsg)
	}
	if s.err != nil {
		return core.Payload{}, 0, s.err
	}
	kind := s.kind
	if kind == "" {
		kind = string(s.layerType) + "_analysis"
	}
	return core.Payload{Kind: kind, Data: map[string]any{"input": input}}, s.confidence, nil
}

func newTestRegistry(t *testing.T) *knowledge.Registry {
	t.Helper()

	registry, err := knowledge.OpenRegistry(knowledge.RegistryConfig{InMemory: true})
	if err != nil {
		t.Fatalf("open registry: %v", err)
	}
	t.Cleanup(func() { registry.Close() })

	return registry
}

func newTestLayer(t *testing.T, proc layers.Processor) *Layer {
	t.Helper()

	registry := newTestRegistry(t)
	store, err := registry.Store(proc.Type())
	if err != nil {
		t.Fatalf("store: %v", err)
	}

	layer := NewLayer(proc, store, logging.Default(), 0)
	layer.Activate()
	return layer
}

func newTestOrchestrator(t *testing.T, processors map[core.LayerType]layers.Processor) *Orchestrator {
	t.Helper()

	if processors == nil {
		processors = layers.DefaultRegistry()
	}

	o, err := NewOrchestrator(newTestRegistry(t), processors, Options{HistoryLimit: 5})
	if err != nil {
		t.Fatalf("new orchestrator: %v", err)
	}
	t.Cleanup(func() { o.Shutdown() })

	return o
}
