// Package authcore provides a storage-agnostic authentication decision engine:
// credential verification against caller-owned record stores, password hashing
// for storage, and constant-shape failure reporting.
//
// The package decides whether submitted credentials (an identity value plus a
// plaintext password) match a stored record, and stages hashed passwords into
// pending-change containers before the caller persists them. It owns no
// storage, no transport, and no session state: callers supply a [Repository]
// for lookups and receive a [AuthResult] back.
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Resolver],
// [Config], [Changeset], and the [Repository] and [HashingStrategy] contracts.
// Internal coordination (decision flows, audit dispatch, metric storage)
// lives under internal/ and is never exported. Shipped strategy
// implementations live in password/; an optional Redis-backed repository
// adapter lives in redistore/.
//
// # Security contract
//
// Authenticate never reveals whether a failure was caused by an unknown
// identity or a wrong password: both collapse into one Failure shape carrying
// the configured login error message, and an unknown identity still pays for
// a full dummy verification so the two paths are not distinguishable by
// timing. Infrastructure errors (repository or strategy malfunction) are the
// only condition surfaced as a Go error, and they are propagated unchanged.
//
// # Concurrency
//
// Engine methods are safe to call from multiple goroutines after
// initialization through [Builder.Build]. Configuration is resolved fresh on
// every call from immutable layers; no shared mutable state exists inside the
// decision path.
package authcore
