// Package roster holds the input side of a show: the acts, the performers
// who appear in them, and the per-performer bookkeeping the scheduler
// advances round by round.
//
// # Building a Roster
//
// A roster is built from entries pairing an act name with the names of its
// performers. Names are trimmed, empty performer names are dropped, and an
// act left with no performers is dropped (and recorded in [Roster.Dropped]):
//
//	r, err := roster.Build([]roster.Entry{
//	    {Name: "Opening", Performers: []string{"Avery", "Blake"}},
//	    {Name: "Tango", Performers: []string{"Blake", "Casey"}},
//	})
//
// [FromMap] accepts the plain mapping form and orders acts by name so the
// result does not depend on map iteration.
//
// Each act gets a stable integer ID equal to its index in [Roster.Acts].
// Conflict graphs and schedules refer to acts by that ID.
//
// # Performer Clock
//
// Every [Performer] carries SinceLast, the number of rounds since the
// performer was last on stage. It starts at [Never] and is driven by two
// operations on the [Registry]:
//
//   - [Registry.Appear] marks performers as just on stage (SinceLast = 0)
//   - [Registry.TickAll] advances everyone else by one round
//
// A scheduler calls both once per placed act. [Registry.Reset] restores the
// initial clock so the same roster can be scheduled again.
//
// # Concurrency
//
// Roster and Registry are not safe for concurrent mutation. Schedulers work
// on a [Roster.Clone], so a built roster can be shared between goroutines as
// long as nobody mutates it directly.
package roster
