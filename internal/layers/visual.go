package layers

import (
	"context"

	"github.com/basera/basera/internal/core"
)

var visualVocabulary = map[string][]string{
	"color":   {"red", "green", "blue", "yellow", "black", "white", "bright", "dark", "color"},
	"shape":   {"circle", "square", "triangle", "line", "curve", "spiral", "shape"},
	"spatial": {"above", "below", "left", "right", "inside", "outside", "near", "far"},
	"pattern": {"pattern", "symmetry", "repeat", "fractal", "grid", "texture"},
}

// VisualProcessor looks for visual and spatial vocabulary in the input.
type VisualProcessor struct{}

func (p *VisualProcessor) Type() core.LayerType { return core.LayerVisual }

func (p *VisualProcessor) Process(ctx context.Context, input any) (core.Payload, float64, error) {
	if err := ctx.Err(); err != nil {
		return core.Payload{}, 0, core.Transientf("visual analysis cancelled: %w", err)
	}

	text, _, _, err := asText(input)
	if err != nil {
		return core.Payload{}, 0, err
	}

	features := make(map[string][]string)
	total := 0
	for _, aspect := range []string{"color", "shape", "spatial", "pattern"} {
		count, found := countMatches(text, visualVocabulary[aspect])
		if count > 0 {
			features[aspect] = found
			total += count
		}
	}

	payload := core.Payload{
		Kind: "visual_features",
		Data: map[string]any{
			"features":      features,
			"feature_count": total,
		},
	}
	return payload, 0.7, nil
}
