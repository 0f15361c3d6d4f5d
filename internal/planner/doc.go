// Package planner computes the daily priority plan.
//
// A run is a pure pipeline over in-memory values:
//
//	events + work hours -> ComputeFreeBlocks -> free blocks
//	tasks + today       -> Scorer.Rank        -> ranked tasks
//	ranked + blocks     -> Allocate           -> schedule
//	ranked + events     -> Suggest            -> suggestions
//	all of the above    -> Assemble           -> PriorityPlan
//
// Nothing in this package performs I/O, reads the clock or keeps state
// between runs, so separate runs may execute concurrently. The reference
// date is supplied by the caller and used for every component of a run.
//
// The allocator is greedy: blocks are visited longest first and each block
// hosts at most one task. It never subdivides a block after a partial fit,
// so utilization is not optimal.
package planner
