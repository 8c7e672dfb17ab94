// Package transport is the request core of the Holded client.
//
// An Executor turns a Request (method, relative path, query, optional JSON
// body and an expected Shape) into a decoded Response. Every logical call
// runs the same loop:
//
//  1. build the attempt with fresh headers (API key, Accept, User-Agent and,
//     only with a body, Content-Type) under a per-attempt timeout,
//  2. classify a failure into exactly one ErrorType,
//  3. ask the RetryPolicy whether to retry and how long to wait, honouring
//     Retry-After up to a cap,
//  4. on success, decode the body into a list, a page envelope, an object,
//     raw bytes or nothing.
//
// Only connection failures, timeouts, 429 and 5xx responses are retried.
// Execute blocks; Go runs the same loop in the background and returns a Call.
// Both stop promptly when their context ends, and the error then wraps the
// context's error.
//
// The executor keeps no per-call state, so one instance may serve any number
// of concurrent calls.
package transport
