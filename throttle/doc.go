// Package throttle limits how fast and how many invocations of a given
// step handler may run at once within a worker pool.
//
// Limits are configured per callable name. Callables without a
// configuration are never throttled.
//
//	m := throttle.NewManager(
//	    throttle.Config{Callable: "payments_process_gateway_refund", RateLimit: 5, MaxConcurrency: 2},
//	)
//
// The middleware.Throttle middleware calls [Manager.Acquire] before each
// handler call and the returned release function afterwards.
package throttle
