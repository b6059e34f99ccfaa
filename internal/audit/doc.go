// Package audit defines the audit event model, sink contract, and the
// asynchronous dispatcher used by the root engine.
//
// Emission is best-effort and never blocks the authentication decision path
// beyond a buffered channel send; under backpressure the dispatcher either
// blocks on the caller's context or drops and counts, per configuration.
package audit
