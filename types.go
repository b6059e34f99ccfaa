package authcore

import (
	"context"
	"io"

	internalaudit "github.com/authcore-go/authcore/internal/audit"
	internalmetrics "github.com/authcore-go/authcore/internal/metrics"
)

// Record is a stored record as returned by a [Repository]. authcore reads
// only the configured identity and hashed-password fields; everything else is
// opaque and flows through untouched.
type Record map[string]any

// StringField returns the named field coerced to a string. Missing or
// non-string values return "".
func (r Record) StringField(name string) string {
	v, _ := r[name].(string)
	return v
}

func (r Record) clone() Record {
	if r == nil {
		return nil
	}
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Scope is the lookup target handed to a [Repository]. RecordType names the
// logical record kind; Constraints narrow the match with exact field
// equality (e.g. restricting lookups to non-deleted or tenant-scoped
// records).
type Scope struct {
	RecordType  string
	Constraints map[string]string
}

// ScopeFunc produces the Scope used for a lookup in place of the plain
// record type. Configured via [Overrides.Scope].
type ScopeFunc func() Scope

// Repository is the record-lookup contract that callers must implement to
// integrate authcore with their store. GetByField performs an exact-match
// lookup of value against the named field within the given scope.
//
// A missing record is reported as (nil, false, nil): not-found is an
// expected, common outcome, not an error. The error return is reserved for
// infrastructure failures (store unreachable, query malformed) and is
// propagated to callers unchanged.
type Repository interface {
	GetByField(ctx context.Context, scope Scope, field, value string) (Record, bool, error)
}

// HashingStrategy is the pluggable one-way hash capability consumed by the
// engine. Implementations ship in the password package.
//
// DummyVerify performs computational work equivalent in cost to Verify
// without consulting real data. The engine invokes it whenever a lookup
// finds no record, so that unknown-identity and wrong-password failures have
// matching timing profiles. Implementations must keep its cost in step with
// Verify; a cheap DummyVerify reopens the identity-enumeration side channel.
type HashingStrategy interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hashed string) (bool, error)
	DummyVerify()
}

// Credentials is the input to Authenticate: either a raw (identity,
// password) pair or a [Changeset] whose proposed values carry the identity
// and password. Construct with [CredentialsFromPair] or
// [CredentialsFromChangeset].
type Credentials struct {
	changeset *Changeset
	identity  string
	password  string
}

// CredentialsFromPair wraps a plain identity/password pair.
func CredentialsFromPair(identity, password string) Credentials {
	return Credentials{identity: identity, password: password}
}

// CredentialsFromChangeset wraps a pending-change container. Only the
// *proposed* values of the configured identity and password fields are read;
// base-record values are ignored, so a caller who changed nothing does not
// authenticate against stale data.
func CredentialsFromChangeset(cs *Changeset) Credentials {
	return Credentials{changeset: cs}
}

// values extracts (identity, plaintext password) according to the resolved
// configuration's field names.
func (c Credentials) values(cfg Config) (string, string) {
	if c.changeset == nil {
		return c.identity, c.password
	}
	return c.changeset.proposedString(cfg.IdentityField), c.changeset.proposedString(cfg.PasswordField)
}

// AuthResult is the outcome of an authentication attempt.
//
// On success OK is true and Record holds the matched record. On failure OK
// is false; if the input was a changeset, Changeset holds an annotated copy
// with the password field marked invalid using the configured login error
// message, and if the input was a raw pair Changeset is nil. The failure
// shape is identical for unknown-identity and wrong-password causes.
type AuthResult struct {
	OK        bool
	Record    Record
	Changeset *Changeset
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer].
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}

// Audit event type names.
const (
	// AuditAuthenticate is emitted once per authentication attempt.
	AuditAuthenticate = "authenticate"
	// AuditPasswordStaged is emitted when a hashed password is staged into
	// a changeset.
	AuditPasswordStaged = "password_staged"
)

// MetricID identifies a specific counter or histogram in the in-process
// metrics system.
type MetricID = internalmetrics.MetricID

const (
	// MetricAuthSuccess counts successful authentication attempts.
	MetricAuthSuccess = internalmetrics.MetricAuthSuccess
	// MetricAuthFailure counts failed authentication attempts of any cause.
	MetricAuthFailure = internalmetrics.MetricAuthFailure
	// MetricAuthUnknownIdentity counts failures caused by a missing record.
	// Operator-facing only; the public AuthResult never carries this
	// distinction.
	MetricAuthUnknownIdentity = internalmetrics.MetricAuthUnknownIdentity
	// MetricAuthPasswordMismatch counts failures caused by a wrong password.
	MetricAuthPasswordMismatch = internalmetrics.MetricAuthPasswordMismatch
	// MetricDummyVerify counts dummy verifications performed on lookup miss.
	MetricDummyVerify = internalmetrics.MetricDummyVerify
	// MetricPasswordStaged counts hashed passwords staged into changesets.
	MetricPasswordStaged = internalmetrics.MetricPasswordStaged
	// MetricPasswordStageSkipped counts staging calls that were no-ops.
	MetricPasswordStageSkipped = internalmetrics.MetricPasswordStageSkipped
	// MetricAuthenticateLatency is the authenticate latency histogram.
	MetricAuthenticateLatency = internalmetrics.MetricAuthenticateLatency
)

// Metrics holds atomic counters and optional latency histograms.
type Metrics = internalmetrics.Metrics

// MetricsSnapshot is a point-in-time deep copy of all metrics.
type MetricsSnapshot = internalmetrics.Snapshot

// NewMetrics creates a standalone [Metrics] instance configured by the given
// [MetricsConfig]. When Enabled is false, all operations are no-ops.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return internalmetrics.New(internalmetrics.Config{
		Enabled:       cfg.Enabled,
		EnableLatency: cfg.EnableLatencyHistograms,
	})
}
