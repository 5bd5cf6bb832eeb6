// Package deferred bridges asynchronous work into synchronous request handlers.
//
// A [Deferred] is a single-assignment result: it settles exactly once, with a
// value ([Deferred.Resolve]) or an error ([Deferred.Fail]). Later settles are
// ignored.
//
// Handlers that return a [Pending] value are resolved by [Pool.Block], which
// parks the serving goroutine until the result settles. The pool bounds how
// many goroutines may be parked at once (the server's concurrency limit) and
// how long each may wait. A wait that runs out of time fails with
// [shared.ErrTimeout]; a request that goes away fails with its context error.
//
// [Go] runs a function on its own goroutine and hands back its [Deferred];
// [Maybe] runs one inline and converts its return value, error or panic.
package deferred
