package assembly

import (
	"context"

	rhizomatic "github.com/TarandeepSingh562/rhizomatic"
)

// Assembler runs a full assembly: resolve the manifest's dependency set, then
// lay the classified closure out as a runtime image. Phases run in strict
// order on the calling goroutine.
type Assembler struct {
	logger  rhizomatic.Logger
	emitter rhizomatic.EventEmitter
}

// NewAssembler creates an assembler. The emitter may be nil.
func NewAssembler(logger rhizomatic.Logger, emitter rhizomatic.EventEmitter) *Assembler {
	return &Assembler{logger: logger, emitter: emitter}
}

// Assemble resolves and builds per the manifest, returning the image path and
// the resolved graph.
func (a *Assembler) Assemble(manifest *Manifest) (string, *ResolvedGraph, error) {
	graph, err := NewResolver(a.logger).Resolve(manifest.Roots())
	if err != nil {
		return "", nil, err
	}
	if a.emitter != nil {
		_ = a.emitter.Emit(context.Background(), rhizomatic.NewBootEvent(
			rhizomatic.EventTypeResolutionCompleted, "assembly", map[string]int{
				"nodes":     graph.Len(),
				"conflicts": len(graph.Conflicts),
			}))
	}

	image, err := NewImageBuilder(&manifest.Assembly, a.logger, a.emitter).Build(graph)
	if err != nil {
		return "", graph, err
	}
	return image, graph, nil
}
