// Package redistore is an optional Redis-backed Repository implementation.
//
// Records are flat string maps stored as Redis hashes at
// {prefix}:{recordType}:{id}; every non-id field is indexed for exact-match
// lookup at {prefix}:{recordType}:ix:{field}:{value}. Scope constraints are
// applied as field-equality filters after the indexed load.
//
// The adapter exists as a working integration reference; authcore itself
// never requires it and works against any Repository implementation.
package redistore
