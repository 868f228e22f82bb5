package layers

import (
	"context"
	"errors"
	"testing"

	"github.com/basera/basera/internal/core"
)

func TestDefaultRegistryCoversAllLayers(t *testing.T) {
	registry := DefaultRegistry()

	for _, lt := range core.AllLayerTypes() {
		proc, ok := registry[lt]
		if !ok {
			t.Fatalf("no processor for %s layer", lt)
		}
		if proc.Type() != lt {
			t.Errorf("processor for %s reports type %s", lt, proc.Type())
		}
	}
	if len(registry) != len(core.AllLayerTypes()) {
		t.Errorf("registry has %d processors, want %d", len(registry), len(core.AllLayerTypes()))
	}
}

func TestProcessorsRejectNilInput(t *testing.T) {
	ctx := context.Background()

	for lt, proc := range DefaultRegistry() {
		_, _, err := proc.Process(ctx, nil)
		if err == nil {
			t.Errorf("%s processor accepted nil input", lt)
			continue
		}
		if core.ProcessorKind(err) != core.ProcessorInvalid {
			t.Errorf("%s processor nil input classified as %s, want invalid", lt, core.ProcessorKind(err))
		}
	}
}

func TestProcessorsHonorCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for lt, proc := range DefaultRegistry() {
		_, _, err := proc.Process(ctx, "some input")
		if err == nil {
			t.Errorf("%s processor ignored cancelled context", lt)
			continue
		}
		if core.ProcessorKind(err) != core.ProcessorTransient {
			t.Errorf("%s processor cancellation classified as %s, want transient", lt, core.ProcessorKind(err))
		}
	}
}

func TestProcessorConfidenceRange(t *testing.T) {
	inputs := []any{
		"if energy is mass times velocity then the bright pattern repeats ☯",
		42,
		3.14,
		"",
	}
	ctx := context.Background()

	for lt, proc := range DefaultRegistry() {
		for _, input := range inputs {
			_, confidence, err := proc.Process(ctx, input)
			if err != nil {
				t.Errorf("%s processor failed on %v: %v", lt, input, err)
				continue
			}
			if confidence < 0 || confidence > 1 {
				t.Errorf("%s processor confidence %v out of range for %v", lt, confidence, input)
			}
		}
	}
}

func TestMathematicalProcessor(t *testing.T) {
	proc := &MathematicalProcessor{}
	ctx := context.Background()

	payload, confidence, err := proc.Process(ctx, 7)
	if err != nil {
		t.Fatalf("process number: %v", err)
	}
	if confidence != 0.9 {
		t.Errorf("numeric confidence = %v, want 0.9", confidence)
	}
	if payload.Kind != "numeric_analysis" {
		t.Errorf("kind = %s", payload.Kind)
	}
	if payload.Data["prime"] != true {
		t.Errorf("7 not recognized as prime: %v", payload.Data)
	}

	payload, confidence, err = proc.Process(ctx, "sum of 2 and 4.5")
	if err != nil {
		t.Fatalf("process text: %v", err)
	}
	if confidence != 0.8 {
		t.Errorf("embedded-number confidence = %v, want 0.8", confidence)
	}
	if payload.Data["sum"] != 6.5 {
		t.Errorf("sum = %v, want 6.5", payload.Data["sum"])
	}

	_, confidence, err = proc.Process(ctx, "no numerals here")
	if err != nil {
		t.Fatalf("process plain text: %v", err)
	}
	if confidence != 0.6 {
		t.Errorf("plain-text confidence = %v, want 0.6", confidence)
	}
}

func TestLogicalProcessorDetectsConditional(t *testing.T) {
	proc := &LogicalProcessor{}

	payload, confidence, err := proc.Process(context.Background(), "if it rains then the ground is wet")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", confidence)
	}
	if payload.Data["conditional"] != true {
		t.Errorf("conditional not detected: %v", payload.Data)
	}

	_, confidence, err = proc.Process(context.Background(), "plain statement")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if confidence != 0.5 {
		t.Errorf("no-structure confidence = %v, want 0.5", confidence)
	}
}

func TestInterpretiveProcessorKnowsSymbols(t *testing.T) {
	proc := &InterpretiveProcessor{}

	payload, _, err := proc.Process(context.Background(), "the ☯ holds ∞ within")
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	if payload.Data["symbols_found"] != 2 {
		t.Fatalf("symbols_found = %v, want 2", payload.Data["symbols_found"])
	}

	interpretations, ok := payload.Data["interpretations"].([]map[string]string)
	if !ok {
		t.Fatalf("unexpected interpretations shape: %T", payload.Data["interpretations"])
	}
	// Sorted by symbol, ∞ (U+221E) precedes ☯ (U+262F).
	if interpretations[0]["symbol"] != "∞" || interpretations[1]["symbol"] != "☯" {
		t.Errorf("interpretation order: %v", interpretations)
	}
}

func TestPhysicalProcessorFindsDomains(t *testing.T) {
	proc := &PhysicalProcessor{}

	payload, confidence, err := proc.Process(context.Background(), "gravity acts on mass with constant force")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", confidence)
	}

	domains, _ := payload.Data["domains"].([]string)
	if len(domains) != 2 || domains[0] != "mechanics" || domains[1] != "fields" {
		t.Errorf("domains = %v, want [mechanics fields]", domains)
	}
}

func TestLinguisticProcessorCounts(t *testing.T) {
	proc := &LinguisticProcessor{}

	payload, _, err := proc.Process(context.Background(), "The cat sat. The cat slept.")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if payload.Data["word_count"] != 6 {
		t.Errorf("word_count = %v, want 6", payload.Data["word_count"])
	}
	if payload.Data["unique_words"] != 4 {
		t.Errorf("unique_words = %v, want 4", payload.Data["unique_words"])
	}
	if payload.Data["sentence_count"] != 2 {
		t.Errorf("sentence_count = %v, want 2", payload.Data["sentence_count"])
	}
}

func TestSymbolicProcessorCategories(t *testing.T) {
	proc := &SymbolicProcessor{}

	payload, confidence, err := proc.Process(context.Background(), "x ⊥ y + ☯")
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", confidence)
	}

	categories, _ := payload.Data["categories"].(map[string]int)
	if categories["mathematical"] != 1 || categories["philosophical"] != 1 || categories["unknown"] != 1 {
		t.Errorf("categories = %v", categories)
	}
}

func TestSemanticProcessorRelations(t *testing.T) {
	proc := &SemanticProcessor{}

	payload, _, err := proc.Process(context.Background(), "the river flows to the ocean")
	if err != nil {
		t.Fatalf("process: %v", err)
	}

	concepts, _ := payload.Data["concepts"].([]string)
	if len(concepts) != 3 || concepts[0] != "river" || concepts[1] != "flows" || concepts[2] != "ocean" {
		t.Fatalf("concepts = %v", concepts)
	}

	relations, _ := payload.Data["relations"].([][2]string)
	if len(relations) != 2 {
		t.Fatalf("relations = %v", relations)
	}
	if relations[0] != [2]string{"river", "flows"} || relations[1] != [2]string{"flows", "ocean"} {
		t.Errorf("relations = %v", relations)
	}
}

func TestUnsupportedInputType(t *testing.T) {
	proc := &MathematicalProcessor{}

	_, _, err := proc.Process(context.Background(), struct{ X int }{1})
	if err == nil {
		t.Fatal("expected error for unsupported input type")
	}

	var pe *core.ProcessorError
	if !errors.As(err, &pe) || pe.Kind != core.ProcessorInvalid {
		t.Errorf("expected invalid processor error, got %v", err)
	}
}
