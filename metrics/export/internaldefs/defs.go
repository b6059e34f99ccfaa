package internaldefs

import (
	authcore "github.com/authcore-go/authcore"
)

// CounterDef maps one counter MetricID to its exported name and help text.
type CounterDef struct {
	ID   authcore.MetricID
	Name string
	Help string
}

// HistogramDef maps one histogram MetricID to its exported name and help
// text.
type HistogramDef struct {
	ID   authcore.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in stable order.
var CounterDefs = []CounterDef{
	{ID: authcore.MetricAuthSuccess, Name: "authcore_auth_success_total", Help: "Successful authentication attempts."},
	{ID: authcore.MetricAuthFailure, Name: "authcore_auth_failure_total", Help: "Failed authentication attempts of any cause."},
	{ID: authcore.MetricAuthUnknownIdentity, Name: "authcore_auth_unknown_identity_total", Help: "Authentication failures with no matching record (operator-facing only)."},
	{ID: authcore.MetricAuthPasswordMismatch, Name: "authcore_auth_password_mismatch_total", Help: "Authentication failures with a wrong password (operator-facing only)."},
	{ID: authcore.MetricDummyVerify, Name: "authcore_dummy_verify_total", Help: "Dummy verifications performed on lookup miss."},
	{ID: authcore.MetricPasswordStaged, Name: "authcore_password_staged_total", Help: "Hashed passwords staged into changesets."},
	{ID: authcore.MetricPasswordStageSkipped, Name: "authcore_password_stage_skipped_total", Help: "Staging calls that were no-ops."},
}

// HistogramDefs lists every exported histogram in stable order.
var HistogramDefs = []HistogramDef{
	{ID: authcore.MetricAuthenticateLatency, Name: "authcore_authenticate_latency_seconds", Help: "Authenticate latency histogram."},
}

// HistogramBounds are the bucket upper bounds in Prometheus le-label form.
var HistogramBounds = []string{
	"0.005",
	"0.01",
	"0.025",
	"0.05",
	"0.1",
	"0.25",
	"0.5",
	"+Inf",
}

// HistogramBoundSuffix are the bound spellings used in OTel gauge names.
var HistogramBoundSuffix = []string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets widens a snapshot bucket slice into the fixed 8-bucket
// array, tolerating short slices.
func NormalizeBuckets(raw []uint64) [8]uint64 {
	var out [8]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts into cumulative counts as
// required by the Prometheus histogram exposition format.
func CumulativeBuckets(raw [8]uint64) [8]uint64 {
	var out [8]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
