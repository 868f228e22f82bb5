package layers

import (
	"context"

	"github.com/basera/basera/internal/core"
)

// semanticStopwords are skipped during concept extraction.
var semanticStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "to": true, "of": true, "in": true, "on": true,
	"at": true, "it": true, "this": true, "that": true, "and": true, "or": true,
	"for": true, "with": true, "as": true, "by": true,
}

// SemanticProcessor extracts content-bearing concepts and the adjacency
// relations between them.
type SemanticProcessor struct{}

func (p *SemanticProcessor) Type() core.LayerType { return core.LayerSemantic }

func (p *SemanticProcessor) Process(ctx context.Context, input any) (core.Payload, float64, error) {
	if err := ctx.Err(); err != nil {
		return core.Payload{}, 0, core.Transientf("semantic analysis cancelled: %w", err)
	}

	text, _, _, err := asText(input)
	if err != nil {
		return core.Payload{}, 0, err
	}

	words := extractWords(text)

	concepts := make([]string, 0, len(words))
	seen := make(map[string]bool, len(words))
	for _, w := range words {
		if len(w) < 3 || semanticStopwords[w] || seen[w] {
			continue
		}
		seen[w] = true
		concepts = append(concepts, w)
	}

	// Adjacent concepts form candidate relations.
	relations := make([][2]string, 0)
	for i := 1; i < len(concepts); i++ {
		relations = append(relations, [2]string{concepts[i-1], concepts[i]})
	}

	payload := core.Payload{
		Kind: "semantic_network",
		Data: map[string]any{
			"concepts":  concepts,
			"relations": relations,
		},
	}
	return payload, 0.8, nil
}
