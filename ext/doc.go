// Package ext defines the extension system for Tasker.
//
// Extensions are notified of step lifecycle events and can react to
// them, for example by recording metrics or alerting on missing
// handlers. Each lifecycle hook is a separate interface so
// extensions opt in only to the events they care about.
//
// # Implementing an Extension
//
//	type MyExtension struct{}
//
//	func (e *MyExtension) Name() string { return "my-extension" }
//
//	// Opt in to specific hooks by implementing their interfaces.
//	func (e *MyExtension) OnStepFailed(ctx context.Context, req *step.Request, res *step.Result) error {
//	    log.Printf("step %s (%s) failed: %s", req.StepID, req.Callable, res.Message)
//	    return nil
//	}
//
// # Hooks
//
//   - [StepStarted]: a registered handler is about to be called
//   - [StepCompleted]: the handler returned a Success result
//   - [StepFailed]: the handler returned a Failure result
//   - [HandlerMissing]: no handler is registered for the callable
//   - [Shutdown]: the tasker is shutting down
//
// The [Registry] fans out each event to all registered extensions that
// implement the corresponding hook interface. Hook errors and panics are
// logged and swallowed.
package ext
