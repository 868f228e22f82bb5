package thinking

import (
	"sort"

	"github.com/basera/basera/internal/core"
)

// insightRules name the cross-layer convergences worth surfacing when both
// layers contributed to a round.
var insightRules = []struct {
	a, b    core.LayerType
	insight string
}{
	{core.LayerMathematical, core.LayerPhysical, "mathematical_physical_convergence"},
	{core.LayerSymbolic, core.LayerVisual, "symbolic_visual_harmony"},
	{core.LayerLinguistic, core.LayerSemantic, "linguistic_semantic_coherence"},
	{core.LayerLogical, core.LayerInterpretive, "logical_interpretive_synthesis"},
}

// IntegrationEngine folds a round's per-layer results into one report.
type IntegrationEngine struct{}

// Integrate builds the integrated report for a completed round. Errored
// results count toward totals but contribute nothing to confidence, themes,
// or insights.
func (IntegrationEngine) Integrate(results map[core.LayerType]core.LayerResult, syncScore float64) *core.IntegratedReport {
	report := &core.IntegratedReport{
		TotalLayers: len(results),
	}

	var confidenceSum float64
	themes := make(map[string]bool)

	for _, result := range results {
		if result.Errored() {
			continue
		}
		report.SuccessfulLayers++
		confidenceSum += result.Confidence
		if result.Payload.Kind != "" {
			themes[result.Payload.Kind] = true
		}
	}

	if report.SuccessfulLayers > 0 {
		report.AverageConfidence = confidenceSum / float64(report.SuccessfulLayers)
	}

	report.DominantThemes = make([]string, 0, len(themes))
	for theme := range themes {
		report.DominantThemes = append(report.DominantThemes, theme)
	}
	sort.Strings(report.DominantThemes)

	report.CrossLayerInsights = make([]string, 0)
	for _, rule := range insightRules {
		if contributed(results, rule.a) && contributed(results, rule.b) {
			report.CrossLayerInsights = append(report.CrossLayerInsights, rule.insight)
		}
	}

	report.Synthesis = core.Synthesis{
		SyncScore:           syncScore,
		DualityDetected:     report.SuccessfulLayers >= 2,
		IntegrationPossible: report.SuccessfulLayers >= 2,
		ComplexityLevel:     report.SuccessfulLayers,
	}

	return report
}

// contributed reports whether a layer produced a usable result this round.
func contributed(results map[core.LayerType]core.LayerResult, t core.LayerType) bool {
	result, ok := results[t]
	return ok && !result.Errored()
}
