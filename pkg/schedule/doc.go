// Package schedule orders the acts of a roster into a show so that
// performers in several acts get as much rest as possible between them.
//
// # Overview
//
// Scheduling is greedy. Each round, every pending act is scored by the
// active [Policy] against the live conflict graph and the performer clocks,
// the best act is placed, it is removed from the graph, and every
// performer's SinceLast clock is advanced. Weights are recomputed from
// scratch every round.
//
// Two policies are supported:
//
//   - [MaximizeRest]: weight = 2 × live degree, picks the maximum; acts
//     with a performer who was just on stage weigh -Inf
//   - [MinimizeRisk]: weight = number of performers with one act of rest,
//     picks the minimum; acts with a performer who was just on stage weigh +Inf
//
// Equal weights are broken by act name, ascending. Runs are deterministic:
// the same roster, policy and overrides always give the same order.
//
// # Overrides
//
// An [Override] pins an act to a 0-based round. Pinned acts are held out of
// scoring until their round and then placed regardless of weight:
//
//	res, err := schedule.Schedule(ctx, r, schedule.MaximizeRest, []schedule.Override{
//	    {Round: 0, Act: "Opening"},
//	    {Round: r.Len() - 1, Act: "Finale"},
//	})
//
// Overrides are validated before the first round. A round outside the
// show, an unknown act, or a duplicate act or round is an INVALID_OVERRIDE
// error.
//
// # Metrics
//
// Every placement, pinned or not, is tallied into [Metrics]:
// QuickChanges counts performers with exactly one act of rest, and
// InstantConflicts counts rounds that put a performer on stage twice in a
// row. When every candidate carries the forced weight the round still
// proceeds with the best by name and is reported as Forced.
//
// # Stepping
//
// [Scheduler] exposes the loop one round at a time for callers that want to
// watch it ([Scheduler.Step], [Scheduler.Candidates]) or be notified of each
// round through an [Observer]. [Scheduler.Run] checks its context between
// rounds only.
package schedule
