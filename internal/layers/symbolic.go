package layers

import (
	"context"
	"unicode"

	"github.com/basera/basera/internal/core"
)

// SymbolicProcessor isolates non-alphanumeric glyphs and classifies the ones
// it knows against the symbol table shared with the interpretive layer.
type SymbolicProcessor struct{}

func (p *SymbolicProcessor) Type() core.LayerType { return core.LayerSymbolic }

func (p *SymbolicProcessor) Process(ctx context.Context, input any) (core.Payload, float64, error) {
	if err := ctx.Err(); err != nil {
		return core.Payload{}, 0, core.Transientf("symbolic analysis cancelled: %w", err)
	}

	text, _, _, err := asText(input)
	if err != nil {
		return core.Payload{}, 0, err
	}

	glyphs := make([]string, 0)
	categories := make(map[string]int)
	seen := make(map[rune]bool)

	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) || seen[r] {
			continue
		}
		seen[r] = true
		glyphs = append(glyphs, string(r))

		if meaning, ok := symbolMeanings[string(r)]; ok {
			categories[meaning["category"]]++
		} else {
			categories["unknown"]++
		}
	}

	payload := core.Payload{
		Kind: "symbolic_mapping",
		Data: map[string]any{
			"glyphs":     glyphs,
			"categories": categories,
		},
	}

	confidence := 0.8
	if len(glyphs) == 0 {
		confidence = 0.5
	}
	return payload, confidence, nil
}
