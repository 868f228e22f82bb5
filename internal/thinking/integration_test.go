package thinking

import (
	"math"
	"testing"

	"github.com/basera/basera/internal/core"
)

func TestIntegrateAveragesNonErroredOnly(t *testing.T) {
	var engine IntegrationEngine

	results := map[core.LayerType]core.LayerResult{
		core.LayerLogical: {
			LayerType:  core.LayerLogical,
			Confidence: 0.8,
			Payload:    core.Payload{Kind: "logical_structure"},
		},
		core.LayerLinguistic: {
			LayerType:  core.LayerLinguistic,
			Confidence: 0.6,
			Payload:    core.Payload{Kind: "linguistic_analysis"},
		},
		core.LayerVisual: {
			LayerType: core.LayerVisual,
			Err:       core.Internalf("lens cracked"),
			Error:     "lens cracked",
		},
	}

	report := engine.Integrate(results, 0.5)

	if report.TotalLayers != 3 {
		t.Errorf("total layers = %d, want 3", report.TotalLayers)
	}
	if report.SuccessfulLayers != 2 {
		t.Errorf("successful layers = %d, want 2", report.SuccessfulLayers)
	}
	if math.Abs(report.AverageConfidence-0.7) > 1e-12 {
		t.Errorf("average confidence = %v, want 0.7", report.AverageConfidence)
	}

	wantThemes := []string{"linguistic_analysis", "logical_structure"}
	if len(report.DominantThemes) != len(wantThemes) {
		t.Fatalf("themes = %v", report.DominantThemes)
	}
	for i, theme := range wantThemes {
		if report.DominantThemes[i] != theme {
			t.Errorf("theme[%d] = %s, want %s", i, report.DominantThemes[i], theme)
		}
	}
}

func TestIntegrateEmptyAndAllErrored(t *testing.T) {
	var engine IntegrationEngine

	report := engine.Integrate(map[core.LayerType]core.LayerResult{}, 1.0)
	if report.SuccessfulLayers != 0 || report.AverageConfidence != 0 {
		t.Errorf("empty round report = %+v", report)
	}
	if report.Synthesis.DualityDetected || report.Synthesis.IntegrationPossible {
		t.Errorf("empty round synthesis = %+v", report.Synthesis)
	}

	allErrored := map[core.LayerType]core.LayerResult{
		core.LayerLogical: {LayerType: core.LayerLogical, Err: core.Internalf("x"), Error: "x"},
		core.LayerVisual:  {LayerType: core.LayerVisual, Err: core.Internalf("y"), Error: "y"},
	}
	report = engine.Integrate(allErrored, 1.0)
	if report.SuccessfulLayers != 0 {
		t.Errorf("successful layers = %d, want 0", report.SuccessfulLayers)
	}
	if report.AverageConfidence != 0 {
		t.Errorf("average confidence = %v, want 0", report.AverageConfidence)
	}
	if len(report.CrossLayerInsights) != 0 {
		t.Errorf("insights from errored layers: %v", report.CrossLayerInsights)
	}
}

func TestIntegrateCrossLayerInsights(t *testing.T) {
	var engine IntegrationEngine

	ok := func(t core.LayerType) core.LayerResult {
		return core.LayerResult{LayerType: t, Confidence: 0.8, Payload: core.Payload{Kind: string(t)}}
	}

	results := map[core.LayerType]core.LayerResult{
		core.LayerMathematical: ok(core.LayerMathematical),
		core.LayerPhysical:     ok(core.LayerPhysical),
		core.LayerLinguistic:   ok(core.LayerLinguistic),
		core.LayerSemantic:     ok(core.LayerSemantic),
	}

	report := engine.Integrate(results, 0.8)

	want := []string{"mathematical_physical_convergence", "linguistic_semantic_coherence"}
	if len(report.CrossLayerInsights) != len(want) {
		t.Fatalf("insights = %v, want %v", report.CrossLayerInsights, want)
	}
	for i, insight := range want {
		if report.CrossLayerInsights[i] != insight {
			t.Errorf("insight[%d] = %s, want %s", i, report.CrossLayerInsights[i], insight)
		}
	}

	if !report.Synthesis.DualityDetected || !report.Synthesis.IntegrationPossible {
		t.Errorf("synthesis = %+v", report.Synthesis)
	}
	if report.Synthesis.ComplexityLevel != 4 {
		t.Errorf("complexity = %d, want 4", report.Synthesis.ComplexityLevel)
	}
	if report.Synthesis.SyncScore != 0.8 {
		t.Errorf("synthesis sync score = %v, want 0.8", report.Synthesis.SyncScore)
	}

	// An errored half of a pair suppresses the insight.
	results[core.LayerPhysical] = core.LayerResult{
		LayerType: core.LayerPhysical,
		Err:       core.Transientf("sensor offline"),
		Error:     "sensor offline",
	}
	report = engine.Integrate(results, 0.8)
	for _, insight := range report.CrossLayerInsights {
		if insight == "mathematical_physical_convergence" {
			t.Error("insight reported despite errored physical layer")
		}
	}
}
