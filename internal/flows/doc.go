// Package flows implements the authentication decision and password staging
// procedures behind the root engine.
//
// Flows receive their collaborators as function-valued dependency structs
// built once by the root engine, plus per-call request values carrying the
// resolved field names. Flow-local types keep this package free of imports
// from the root package (no import cycles).
package flows
