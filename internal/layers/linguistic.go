package layers

import (
	"context"
	"strings"

	"github.com/basera/basera/internal/core"
)

// LinguisticProcessor measures the surface structure of language: words,
// sentences, and lexical variety.
type LinguisticProcessor struct{}

func (p *LinguisticProcessor) Type() core.LayerType { return core.LayerLinguistic }

func (p *LinguisticProcessor) Process(ctx context.Context, input any) (core.Payload, float64, error) {
	if err := ctx.Err(); err != nil {
		return core.Payload{}, 0, core.Transientf("linguistic analysis cancelled: %w", err)
	}

	text, _, _, err := asText(input)
	if err != nil {
		return core.Payload{}, 0, err
	}

	words := extractWords(text)

	unique := make(map[string]bool, len(words))
	var totalLen int
	for _, w := range words {
		unique[w] = true
		totalLen += len(w)
	}

	sentences := 0
	for _, r := range text {
		if r == '.' || r == '!' || r == '?' {
			sentences++
		}
	}
	if sentences == 0 && len(words) > 0 {
		sentences = 1
	}

	var avgWordLen, lexicalVariety float64
	if len(words) > 0 {
		avgWordLen = float64(totalLen) / float64(len(words))
		lexicalVariety = float64(len(unique)) / float64(len(words))
	}

	payload := core.Payload{
		Kind: "linguistic_analysis",
		Data: map[string]any{
			"word_count":      len(words),
			"unique_words":    len(unique),
			"sentence_count":  sentences,
			"avg_word_length": avgWordLen,
			"lexical_variety": lexicalVariety,
			"is_question":     strings.Contains(text, "?"),
		},
	}
	return payload, 0.8, nil
}
