package authcore

import (
	"context"
	"time"

	"github.com/google/uuid"

	internalaudit "github.com/authcore-go/authcore/internal/audit"
	"github.com/authcore-go/authcore/internal/flows"
	internalmetrics "github.com/authcore-go/authcore/internal/metrics"
)

// Engine is the frozen authentication engine produced by [Builder.Build].
// All methods are safe for concurrent use.
type Engine struct {
	resolver *Resolver
	metrics  *internalmetrics.Metrics
	audit    *internalaudit.Dispatcher
	deps     flows.Deps
}

func (e *Engine) initFlowDeps() {
	e.deps = flows.Deps{
		Auth: flows.AuthDeps{
			MetricSuccess:         int(MetricAuthSuccess),
			MetricFailure:         int(MetricAuthFailure),
			MetricUnknownIdentity: int(MetricAuthUnknownIdentity),
			MetricMismatch:        int(MetricAuthPasswordMismatch),
			MetricDummyVerify:     int(MetricDummyVerify),
			MetricInc:             e.metricInc,
			EmitAudit:             e.emitAudit,
			EventAuthenticate:     AuditAuthenticate,
		},
		Stage: flows.StageDeps{
			MetricStaged:        int(MetricPasswordStaged),
			MetricSkipped:       int(MetricPasswordStageSkipped),
			MetricInc:           e.metricInc,
			EmitAudit:           e.emitAudit,
			EventPasswordStaged: AuditPasswordStaged,
		},
	}
}

// Close flushes and stops the audit dispatcher. Safe on a nil engine.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// Resolve exposes the engine's configuration resolver: the fully-populated
// configuration for recordType with the given call-site layers applied last.
func (e *Engine) Resolve(recordType string, calls ...Overrides) Config {
	return e.resolver.Resolve(recordType, calls...)
}

// MetricsSnapshot returns a point-in-time copy of all engine metrics.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:   map[MetricID]uint64{},
			Histograms: map[MetricID][]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

// AuditDropped reports how many audit events the dispatcher dropped under
// backpressure.
func (e *Engine) AuditDropped() uint64 {
	if e == nil {
		return 0
	}
	return e.audit.Dropped()
}

func (e *Engine) metricInc(id int) {
	e.metrics.Inc(internalmetrics.MetricID(id))
}

func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, recordType, identity string, err error, metadata func() map[string]string) {
	if e.audit == nil {
		return
	}
	event := AuditEvent{
		ID:         uuid.NewString(),
		Timestamp:  time.Now(),
		EventType:  eventType,
		RecordType: recordType,
		Identity:   identity,
		Success:    success,
	}
	if err != nil {
		event.Error = err.Error()
	}
	if metadata != nil {
		event.Metadata = metadata()
	}
	e.audit.Emit(ctx, event)
}

/*
====================================
AUTHENTICATE
====================================
*/

// Authenticate decides whether creds match a stored record using the global
// default configuration.
//
// The outcome is one of exactly three things: Success carrying the matched
// record, Failure (OK false) with the annotated changeset copy when the
// input was a changeset, or an infrastructure error. Record-not-found and
// wrong-password both produce the same Failure shape; an unknown identity
// still pays for a full dummy verification so the two causes are not
// distinguishable by timing. The original credentials value is never
// mutated.
func (e *Engine) Authenticate(ctx context.Context, creds Credentials) (AuthResult, error) {
	return e.AuthenticateWithOverrides(ctx, "", creds, Overrides{})
}

// AuthenticateRecordType is Authenticate with the override layer registered
// for recordType applied.
func (e *Engine) AuthenticateRecordType(ctx context.Context, recordType string, creds Credentials) (AuthResult, error) {
	return e.AuthenticateWithOverrides(ctx, recordType, creds, Overrides{})
}

// AuthenticateWithOverrides is Authenticate with a call-site override layer
// applied at highest precedence.
func (e *Engine) AuthenticateWithOverrides(ctx context.Context, recordType string, creds Credentials, o Overrides) (AuthResult, error) {
	if e == nil {
		return AuthResult{}, ErrEngineNotReady
	}

	cfg := e.resolver.Resolve(recordType, o)
	if cfg.Repository == nil {
		return AuthResult{}, ErrRepositoryRequired
	}
	if cfg.Strategy == nil {
		return AuthResult{}, ErrStrategyRequired
	}

	identity, plaintext := creds.values(cfg)

	start := time.Now()
	outcome, record, err := flows.Authenticate(ctx, e.deps.Auth, flows.AuthRequest{
		Settings: settings(cfg),
		Identity: identity,
		Password: plaintext,
	}, e.capabilities(cfg))
	e.metrics.Observe(MetricAuthenticateLatency, time.Since(start))

	if err != nil {
		return AuthResult{}, err
	}

	if outcome == flows.OutcomeSuccess {
		return AuthResult{OK: true, Record: Record(record)}, nil
	}

	result := AuthResult{}
	if creds.changeset != nil {
		result.Changeset = creds.changeset.WithFieldError(cfg.PasswordField, cfg.LoginErrorMessage)
	}
	return result, nil
}

// LookupAndVerify is the lower-level outcome for callers that need to
// distinguish "no identity match" from "wrong password": it returns the
// matched record (nil when none exists) and whether the password verified.
//
// This distinction must never cross a user-facing boundary; exposing it
// enables identity enumeration. The dummy verification still runs on a
// lookup miss, so the timing profile matches Authenticate.
func (e *Engine) LookupAndVerify(ctx context.Context, recordType, identity, plaintext string, o Overrides) (Record, bool, error) {
	if e == nil {
		return nil, false, ErrEngineNotReady
	}

	cfg := e.resolver.Resolve(recordType, o)
	if cfg.Repository == nil {
		return nil, false, ErrRepositoryRequired
	}
	if cfg.Strategy == nil {
		return nil, false, ErrStrategyRequired
	}

	outcome, record, err := flows.Authenticate(ctx, e.deps.Auth, flows.AuthRequest{
		Settings: settings(cfg),
		Identity: identity,
		Password: plaintext,
	}, e.capabilities(cfg))
	if err != nil {
		return nil, false, err
	}

	switch outcome {
	case flows.OutcomeSuccess:
		return Record(record), true, nil
	case flows.OutcomeMismatch:
		return Record(record), false, nil
	default:
		return nil, false, nil
	}
}

/*
====================================
PASSWORD STAGING
====================================
*/

// StageHashedPassword hashes the proposed plaintext password of cs and
// stages it into the hashed-password field of a new changeset copy, using
// the global default configuration. When no password change is proposed the
// original changeset is returned unchanged.
func (e *Engine) StageHashedPassword(ctx context.Context, cs *Changeset) (*Changeset, error) {
	return e.StageHashedPasswordWithOverrides(ctx, "", cs, Overrides{})
}

// StageHashedPasswordRecordType is StageHashedPassword with the override
// layer registered for recordType applied.
func (e *Engine) StageHashedPasswordRecordType(ctx context.Context, recordType string, cs *Changeset) (*Changeset, error) {
	return e.StageHashedPasswordWithOverrides(ctx, recordType, cs, Overrides{})
}

// StageHashedPasswordWithOverrides is StageHashedPassword with a call-site
// override layer applied at highest precedence. Strategy errors are
// propagated unchanged; the input changeset is never mutated.
func (e *Engine) StageHashedPasswordWithOverrides(ctx context.Context, recordType string, cs *Changeset, o Overrides) (*Changeset, error) {
	if e == nil {
		return nil, ErrEngineNotReady
	}
	if cs == nil {
		return nil, ErrNilChangeset
	}

	cfg := e.resolver.Resolve(recordType, o)
	if cfg.Strategy == nil {
		return nil, ErrStrategyRequired
	}

	hash, staged, err := flows.StagePassword(ctx, e.deps.Stage, flows.StageRequest{
		Settings: settings(cfg),
		Proposed: func(field string) (string, bool) {
			v, ok := cs.ProposedValue(field)
			if !ok {
				return "", false
			}
			s, _ := v.(string)
			return s, true
		},
		Hash: cfg.Strategy.Hash,
	})
	if err != nil {
		return nil, err
	}
	if !staged {
		return cs, nil
	}
	return cs.WithStagedValue(cfg.HashedPasswordField, hash), nil
}

/*
====================================
LOOKUP WIRING
====================================
*/

func settings(cfg Config) flows.Settings {
	return flows.Settings{
		RecordType:          cfg.RecordType,
		IdentityField:       cfg.IdentityField,
		PasswordField:       cfg.PasswordField,
		HashedPasswordField: cfg.HashedPasswordField,
	}
}

func (e *Engine) lookup(ctx context.Context, cfg Config, identity string) (Record, bool, error) {
	scope := Scope{RecordType: cfg.RecordType}
	if cfg.Scope != nil {
		scope = cfg.Scope()
	}
	return cfg.Repository.GetByField(ctx, scope, cfg.IdentityField, identity)
}

func (e *Engine) capabilities(cfg Config) flows.AuthCapabilities {
	return flows.AuthCapabilities{
		Lookup: func(ctx context.Context, identity string) (map[string]any, bool, error) {
			record, found, err := e.lookup(ctx, cfg, identity)
			return record, found, err
		},
		Verify:      cfg.Strategy.Verify,
		DummyVerify: cfg.Strategy.DummyVerify,
	}
}
