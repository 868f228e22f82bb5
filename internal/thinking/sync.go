package thinking

import (
	"sort"

	"github.com/basera/basera/internal/core"
)

// syncThreshold is the compatibility score above which a layer pair counts as
// synchronized. Strictly greater than, so the 0.5 default never promotes.
const syncThreshold = 0.7

type layerPair struct {
	a, b core.LayerType
}

// orderedPair normalizes a pair so lookups are symmetric.
func orderedPair(a, b core.LayerType) layerPair {
	if b < a {
		a, b = b, a
	}
	return layerPair{a, b}
}

// compatibilityTable holds the known pairwise affinities between layer
// modalities. Pairs not listed fall back to the neutral 0.5.
var compatibilityTable = map[layerPair]float64{
	orderedPair(core.LayerMathematical, core.LayerLogical):  0.9,
	orderedPair(core.LayerSymbolic, core.LayerVisual):       0.8,
	orderedPair(core.LayerLinguistic, core.LayerSemantic):   0.9,
	orderedPair(core.LayerPhysical, core.LayerMathematical): 0.8,
	orderedPair(core.LayerInterpretive, core.LayerSemantic): 0.8,
}

// Compatibility returns the affinity between two layer types, in either
// argument order.
func Compatibility(a, b core.LayerType) float64 {
	if score, ok := compatibilityTable[orderedPair(a, b)]; ok {
		return score
	}
	return 0.5
}

// SyncEngine scores how well a round's participating layers align.
type SyncEngine struct{}

// SyncRound synchronizes every unordered pair of participating layers exactly
// once and returns the mean pair score. Fewer than two participants is a
// trivially synchronized round with score 1.0.
func (SyncEngine) SyncRound(participants map[core.LayerType]*Layer) float64 {
	if len(participants) < 2 {
		return 1.0
	}

	types := make([]core.LayerType, 0, len(participants))
	for t := range participants {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	var total float64
	var pairs int
	for i := 0; i < len(types); i++ {
		for j := i + 1; j < len(types); j++ {
			total += participants[types[i]].Synchronize(participants[types[j]])
			pairs++
		}
	}

	return total / float64(pairs)
}
