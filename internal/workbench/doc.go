/*
Package workbench is the client-side orchestrator of the analysis workbench.

It holds the source buffer, the primary output pane with its kind tag, the
timing line and the two result overlays, and decides which actions may fire.

An action runs in three steps:

	req, err := wb.Begin(types.ActionStateMachine, workbench.Params{})
	out := wb.Dispatch(ctx, req)      // may run on another goroutine
	c := wb.Complete(req, out)

Begin and Complete mutate state and must be called from a single goroutine
(the UI loop). Dispatch only reads immutable fields and can run anywhere.
Run chains the three for synchronous callers such as the CLI.

Completions are ordered per lane. With OrderingDropStale a completion that
was overtaken by a newer dispatch on the same lane is discarded.
*/
package workbench
