package layers

import (
	"context"
	"sort"
	"strings"

	"github.com/basera/basera/internal/core"
)

// symbolMeanings is the interpretive layer's built-in symbol table. It
// mirrors the interpretive store's seed knowledge.
var symbolMeanings = map[string]map[string]string{
	"∞": {"meaning": "infinity, the unbounded", "category": "mathematical"},
	"∅": {"meaning": "emptiness, the null set", "category": "mathematical"},
	"☯": {"meaning": "duality in balance", "category": "philosophical"},
	"⚛": {"meaning": "atomic structure, fundamental matter", "category": "scientific"},
	"🧬": {"meaning": "life encoded, heredity", "category": "biological"},
	"⊥": {"meaning": "contradiction, orthogonality", "category": "mathematical"},
}

// InterpretiveProcessor assigns meaning to symbols and idioms it recognizes.
type InterpretiveProcessor struct{}

func (p *InterpretiveProcessor) Type() core.LayerType { return core.LayerInterpretive }

func (p *InterpretiveProcessor) Process(ctx context.Context, input any) (core.Payload, float64, error) {
	if err := ctx.Err(); err != nil {
		return core.Payload{}, 0, core.Transientf("interpretive analysis cancelled: %w", err)
	}

	text, _, _, err := asText(input)
	if err != nil {
		return core.Payload{}, 0, err
	}

	symbols := make([]string, 0, len(symbolMeanings))
	for symbol := range symbolMeanings {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	interpretations := make([]map[string]string, 0)
	for _, symbol := range symbols {
		if strings.Contains(text, symbol) {
			entry := map[string]string{"symbol": symbol}
			for k, v := range symbolMeanings[symbol] {
				entry[k] = v
			}
			interpretations = append(interpretations, entry)
		}
	}

	payload := core.Payload{
		Kind: "interpretation",
		Data: map[string]any{
			"interpretations": interpretations,
			"symbols_found":   len(interpretations),
		},
	}
	return payload, 0.7, nil
}
