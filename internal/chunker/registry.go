package chunker

import (
	"log"

	"github.com/dcamposl/ragdocs/internal/embeddings"
)

// ForStrategy returns the splitter for the named strategy. Unknown
// names fall back to the recursive character splitter, as does the
// semantic strategy when no embedder is available.
func ForStrategy(opts Options, embedder embeddings.Embedder) Splitter {
	switch opts.Strategy {
	case StrategyRecursiveCharacter, "":
		return NewRecursiveSplitter(opts)
	case StrategyFixedSize:
		return NewFixedSizeSplitter(opts)
	case StrategySemantic:
		if embedder == nil {
			log.Printf("chunker: semantic strategy needs an embedder, falling back to %s", StrategyRecursiveCharacter)
			return NewRecursiveSplitter(opts)
		}
		return NewSemanticSplitter(embedder, opts)
	default:
		log.Printf("chunker: unknown strategy %q, falling back to %s", opts.Strategy, StrategyRecursiveCharacter)
		return NewRecursiveSplitter(opts)
	}
}
