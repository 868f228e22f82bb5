// Package layers implements the per-modality processors the thinking core
// fans input out to. Each processor analyzes one facet of an input and
// reports a payload plus its confidence in that analysis.
package layers

import (
	"context"

	"github.com/basera/basera/internal/core"
)

// Processor analyzes an input from one layer's perspective. Implementations
// must be safe for concurrent use and must honor ctx cancellation on any
// long-running analysis.
//
// The returned confidence is in [0, 1]. A processor signals failure through
// the error return, never by panicking; panics are a bug and are caught at
// the layer boundary.
type Processor interface {
	Type() core.LayerType
	Process(ctx context.Context, input any) (core.Payload, float64, error)
}

// DefaultRegistry builds the standard processor set, one per layer type.
func DefaultRegistry() map[core.LayerType]Processor {
	return map[core.LayerType]Processor{
		core.LayerMathematical: &MathematicalProcessor{},
		core.LayerLogical:      &LogicalProcessor{},
		core.LayerInterpretive: &InterpretiveProcessor{},
		core.LayerPhysical:     &PhysicalProcessor{},
		core.LayerLinguistic:   &LinguisticProcessor{},
		core.LayerSymbolic:     &SymbolicProcessor{},
		core.LayerVisual:       &VisualProcessor{},
		core.LayerSemantic:     &SemanticProcessor{},
	}
}
