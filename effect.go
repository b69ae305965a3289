package subnet

// Effect summarizes what replacing a sub-DAG would change: the net
// change in live inner-cell count, the net change in the depth of the
// replaced outputs, and the net change in their aggregate weight.
//
// A negative DeltaCells/DeltaDepth/DeltaWeight means the replacement
// shrinks that metric.
type Effect struct {
	DeltaCells  int
	DeltaDepth  int
	DeltaWeight float64
}

// WeightModifier adjusts an already fanout-aggregated weight delta
// before it is recorded in an Effect.
//
// Open question (spec §9) resolved: the modifier runs after the
// replace's own fanout-based aggregation, not before — it post-processes
// the aggregate the way techmap's CostPropagator post-processes an
// aggregated CostVector, not the way a per-entry estimator would.
type WeightModifier func(aggregatedDelta float64) float64

// IOMapping gives, for each input of a replacement sub-network, the
// parent link that supplies its value, and for each output, the parent
// entry index it must take over.
type IOMapping struct {
	// Inputs has one entry per input of the replacement, in order.
	Inputs LinkList
	// Outputs has one entry per output of the replacement, in order;
	// each value is the index of the parent entry currently computing
	// that output (the "old root").
	Outputs []uint32
}
