package layers

import (
	"context"

	"github.com/basera/basera/internal/core"
)

// logicalConnectives are the words that signal explicit logical structure.
var logicalConnectives = []string{
	"if", "then", "else", "and", "or", "not",
	"implies", "therefore", "because", "unless", "all", "some", "none",
}

// LogicalProcessor detects logical structure: connectives, conditional form,
// and quantifiers.
type LogicalProcessor struct{}

func (p *LogicalProcessor) Type() core.LayerType { return core.LayerLogical }

func (p *LogicalProcessor) Process(ctx context.Context, input any) (core.Payload, float64, error) {
	if err := ctx.Err(); err != nil {
		return core.Payload{}, 0, core.Transientf("logical analysis cancelled: %w", err)
	}

	text, _, _, err := asText(input)
	if err != nil {
		return core.Payload{}, 0, err
	}

	count, found := countMatches(text, logicalConnectives)

	_, hasIf := contains(found, "if")
	_, hasThen := contains(found, "then")

	payload := core.Payload{
		Kind: "logical_structure",
		Data: map[string]any{
			"connectives":      found,
			"connective_count": count,
			"conditional":      hasIf && hasThen,
			"has_negation":     containsAny(found, "not", "none"),
			"has_quantifier":   containsAny(found, "all", "some", "none"),
		},
	}

	confidence := 0.8
	if count == 0 {
		confidence = 0.5
	}
	return payload, confidence, nil
}

func contains(list []string, target string) (int, bool) {
	for i, s := range list {
		if s == target {
			return i, true
		}
	}
	return -1, false
}

func containsAny(list []string, targets ...string) bool {
	for _, t := range targets {
		if _, ok := contains(list, t); ok {
			return true
		}
	}
	return false
}
