// Package otel bridges authcore engine metrics into an OpenTelemetry
// [metric.Meter] via observable instruments: values are pulled from engine
// snapshots inside the registered callback, so the engine's hot path stays
// free of OTel calls.
package otel
