package knowledge

import (
	"context"
	"time"

	"github.com/basera/basera/internal/core"
)

// seed installs a layer's baseline knowledge on first open. Seeds use
// insert-if-absent so a store that has since refined a confidence keeps it.
func (s *Store) seed(ctx context.Context) error {
	seeds := seedPatterns(s.layerType)
	if len(seeds) == 0 {
		return nil
	}

	for _, p := range seeds {
		if err := s.insertPatternIfAbsent(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func seedPatterns(t core.LayerType) []core.DiscoveredPattern {
	switch t {
	case core.LayerMathematical:
		return mathematicalSeeds()
	case core.LayerInterpretive:
		return interpretiveSeeds()
	default:
		return nil
	}
}

// mathematicalSeeds holds the constants the mathematical layer starts from.
func mathematicalSeeds() []core.DiscoveredPattern {
	constants := []struct {
		name  string
		value float64
	}{
		{"pi", 3.141592653589793},
		{"e", 2.718281828459045},
		{"golden_ratio", 1.618033988749895},
		{"sqrt2", 1.4142135623730951},
	}

	seeds := make([]core.DiscoveredPattern, 0, len(constants))
	for _, c := range constants {
		seeds = append(seeds, core.DiscoveredPattern{
			PatternID:   "const_" + c.name,
			PatternType: "mathematical_constant",
			Data: map[string]any{
				"name":  c.name,
				"value": c.value,
			},
			Confidence:   1.0,
			DiscoveredAt: time.Now(),
		})
	}
	return seeds
}

// interpretiveSeeds holds baseline symbol meanings for the interpretive layer.
func interpretiveSeeds() []core.DiscoveredPattern {
	meanings := []struct {
		symbol   string
		meaning  string
		category string
	}{
		{"∞", "infinity, the unbounded", "mathematical"},
		{"∅", "emptiness, the null set", "mathematical"},
		{"☯", "duality in balance", "philosophical"},
		{"⚛", "atomic structure, fundamental matter", "scientific"},
		{"🧬", "life encoded, heredity", "biological"},
		{"⊥", "contradiction, orthogonality", "mathematical"},
	}

	seeds := make([]core.DiscoveredPattern, 0, len(meanings))
	for _, m := range meanings {
		seeds = append(seeds, core.DiscoveredPattern{
			PatternID:   "symbol_" + m.symbol,
			PatternType: "symbol_meaning",
			Data: map[string]any{
				"symbol":   m.symbol,
				"meaning":  m.meaning,
				"category": m.category,
			},
			Confidence:   0.9,
			DiscoveredAt: time.Now(),
		})
	}
	return seeds
}
