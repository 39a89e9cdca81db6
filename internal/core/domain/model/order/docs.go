// Package order provides the dispatch order aggregate and its lifecycle.
//
// An order moves along one linear chain of states:
//
//	PENDING ──> IN_PREPARATION ──> IN_PREPARATION ──> IN_PREPARATION ──> DONE
//	            (no stage)         (CONTROL)          (READY_TO_LOAD)
//
// Guided advances take one step forward. Direct state overwrites may jump
// anywhere on the chain. Both go through Plan, so the audit fields an order ends
// up with depend only on its start and target states, never on the API used.
//
// Key business rules:
//   - a preparation stage exists only while the order is IN_PREPARATION
//   - a loading rank exists only while the order is PENDING
//   - controlled is true only in READY_TO_LOAD
//   - DONE orders cannot be edited, only moved back
//
// Ranks themselves are assigned by the load queue service, which keeps the
// ranking of pending orders dense. The aggregate only reports when it left or
// must re-enter the queue.
package order
