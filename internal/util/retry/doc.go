// Package retry provides bounded retry and polling helpers.
//
// [WithExponentialBackoff] retries a failing operation with growing delays and
// stops early on errors marked with [Fatal]. [Until] polls a condition at a
// fixed interval until it reports done, the deadline passes ([ErrTimeout]),
// or the context is cancelled. Both are used around cloud control-plane calls.
package retry
