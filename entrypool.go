package subnet

import "github.com/vlsicore/subnet/internal/pool"

// replaceScratch holds the reusable buffers a single evaluate_replace/
// replace call needs: a remap table from a replacement's own entry
// indices to links in the parent arena, and the set of parent entries
// whose refcount dropped to zero during the recursive dead-cell sweep.
//
// Pooling these avoids a fresh map and two fresh slices on every
// candidate a Rewriter pass scores with EvaluateReplace, which dominates
// evaluate_replace's own allocation cost otherwise.
type replaceScratch struct {
	remap   []Link
	removed map[uint32]bool
	touched []uint32
}

func newReplaceScratch() *replaceScratch {
	return &replaceScratch{removed: make(map[uint32]bool)}
}

func resetReplaceScratch(s *replaceScratch) {
	s.remap = s.remap[:0]
	for k := range s.removed {
		delete(s.removed, k)
	}
	s.touched = s.touched[:0]
}

// entryPool recycles replaceScratch values across Builder.Replace and
// Builder.EvaluateReplace calls.
type entryPool = pool.Pool[replaceScratch]

func newEntryPool() *entryPool {
	return pool.New(newReplaceScratch, resetReplaceScratch)
}
