package layers

import (
	"context"
	"math"

	"github.com/basera/basera/internal/core"
)

// MathematicalProcessor analyzes the numeric and structural mathematics of an
// input: direct numbers get a full property breakdown, text with embedded
// numbers gets aggregate analysis, and everything else a light structural pass.
type MathematicalProcessor struct{}

func (p *MathematicalProcessor) Type() core.LayerType { return core.LayerMathematical }

func (p *MathematicalProcessor) Process(ctx context.Context, input any) (core.Payload, float64, error) {
	if err := ctx.Err(); err != nil {
		return core.Payload{}, 0, core.Transientf("mathematical analysis cancelled: %w", err)
	}

	text, num, isNum, err := asText(input)
	if err != nil {
		return core.Payload{}, 0, err
	}

	if isNum {
		return p.analyzeNumber(num), 0.9, nil
	}

	numbers := extractNumbers(text)
	if len(numbers) > 0 {
		return p.analyzeSequence(numbers), 0.8, nil
	}

	// No numeric content. Report structure only, with low confidence.
	payload := core.Payload{
		Kind: "mathematical_structure",
		Data: map[string]any{
			"numeric_content": false,
			"length":          len(text),
		},
	}
	return payload, 0.6, nil
}

func (p *MathematicalProcessor) analyzeNumber(n float64) core.Payload {
	data := map[string]any{
		"value":    n,
		"negative": n < 0,
		"integer":  n == math.Trunc(n),
	}

	if n == math.Trunc(n) {
		data["even"] = int64(n)%2 == 0
		data["prime"] = isPrime(n)
	}
	if n >= 0 {
		data["sqrt"] = math.Sqrt(n)
	}
	data["square"] = n * n

	return core.Payload{Kind: "numeric_analysis", Data: data}
}

func (p *MathematicalProcessor) analyzeSequence(numbers []float64) core.Payload {
	var sum float64
	min, max := numbers[0], numbers[0]
	for _, n := range numbers {
		sum += n
		if n < min {
			min = n
		}
		if n > max {
			max = n
		}
	}

	return core.Payload{
		Kind: "numeric_analysis",
		Data: map[string]any{
			"numbers": numbers,
			"count":   len(numbers),
			"sum":     sum,
			"mean":    sum / float64(len(numbers)),
			"min":     min,
			"max":     max,
		},
	}
}
