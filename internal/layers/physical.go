package layers

import (
	"context"

	"github.com/basera/basera/internal/core"
)

// physicalConcepts groups physics vocabulary by the domain it belongs to.
var physicalConcepts = map[string][]string{
	"mechanics": {"force", "mass", "velocity", "acceleration", "momentum", "friction"},
	"energy":    {"energy", "work", "power", "heat", "temperature"},
	"fields":    {"gravity", "magnetic", "electric", "field", "charge"},
	"waves":     {"wave", "frequency", "wavelength", "light", "sound"},
	"matter":    {"atom", "particle", "molecule", "solid", "liquid", "gas", "plasma"},
}

// PhysicalProcessor recognizes physical-world concepts and the domains they
// come from.
type PhysicalProcessor struct{}

func (p *PhysicalProcessor) Type() core.LayerType { return core.LayerPhysical }

func (p *PhysicalProcessor) Process(ctx context.Context, input any) (core.Payload, float64, error) {
	if err := ctx.Err(); err != nil {
		return core.Payload{}, 0, core.Transientf("physical analysis cancelled: %w", err)
	}

	text, _, _, err := asText(input)
	if err != nil {
		return core.Payload{}, 0, err
	}

	domains := make([]string, 0)
	concepts := make([]string, 0)
	for _, domain := range []string{"mechanics", "energy", "fields", "waves", "matter"} {
		count, found := countMatches(text, physicalConcepts[domain])
		if count > 0 {
			domains = append(domains, domain)
			concepts = append(concepts, found...)
		}
	}

	payload := core.Payload{
		Kind: "physical_analysis",
		Data: map[string]any{
			"domains":  domains,
			"concepts": concepts,
		},
	}

	confidence := 0.8
	if len(concepts) == 0 {
		confidence = 0.5
	}
	return payload, confidence, nil
}
