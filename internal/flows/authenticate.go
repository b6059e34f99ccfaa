package flows

import "context"

// Outcome is the flow-internal result of an authentication attempt. The
// distinction between OutcomeUnknownIdentity and OutcomeMismatch exists for
// operator metrics and audit only; the root engine collapses both into one
// public failure shape.
type Outcome uint8

const (
	// OutcomeSuccess means the record was found and the password verified.
	OutcomeSuccess Outcome = iota
	// OutcomeUnknownIdentity means no record matched the identity value.
	OutcomeUnknownIdentity
	// OutcomeMismatch means a record matched but the password did not.
	OutcomeMismatch
	// OutcomeError means an infrastructure failure aborted the attempt.
	OutcomeError
)

// AuthDeps captures engine-lifetime authenticate dependencies.
type AuthDeps struct {
	MetricSuccess         int
	MetricFailure         int
	MetricUnknownIdentity int
	MetricMismatch        int
	MetricDummyVerify     int

	MetricInc func(int)
	EmitAudit func(ctx context.Context, eventType string, success bool, recordType, identity string, err error, metadata func() map[string]string)

	EventAuthenticate string
}

// AuthRequest carries the per-call inputs.
type AuthRequest struct {
	Settings Settings
	Identity string
	Password string
}

// AuthCapabilities carries the per-call lookup and verification closures
// bound to the resolved repository, scope, and strategy.
type AuthCapabilities struct {
	Lookup      func(ctx context.Context, identity string) (map[string]any, bool, error)
	Verify      func(plaintext, hashed string) (bool, error)
	DummyVerify func()
}

// Authenticate runs the decision procedure: one lookup, then either a real
// verification against the stored hash or a dummy verification when no
// record exists. The dummy call on the miss path is a timing-equalization
// measure and must never be skipped; without it the latency difference
// between the two failure causes reveals whether an identity exists.
//
// The only side effect beyond the lookup is metric/audit emission through
// deps. Infrastructure errors from the lookup or the strategy are returned
// unchanged with OutcomeError.
func Authenticate(ctx context.Context, deps AuthDeps, req AuthRequest, caps AuthCapabilities) (Outcome, map[string]any, error) {
	record, found, err := caps.Lookup(ctx, req.Identity)
	if err != nil {
		deps.EmitAudit(ctx, deps.EventAuthenticate, false, req.Settings.RecordType, req.Identity, err, nil)
		return OutcomeError, nil, err
	}

	if !found {
		caps.DummyVerify()
		deps.MetricInc(deps.MetricDummyVerify)
		deps.MetricInc(deps.MetricUnknownIdentity)
		deps.MetricInc(deps.MetricFailure)
		deps.EmitAudit(ctx, deps.EventAuthenticate, false, req.Settings.RecordType, req.Identity, nil, func() map[string]string {
			return map[string]string{"cause": "unknown_identity"}
		})
		return OutcomeUnknownIdentity, nil, nil
	}

	hashed, _ := record[req.Settings.HashedPasswordField].(string)
	ok, err := caps.Verify(req.Password, hashed)
	if err != nil {
		deps.EmitAudit(ctx, deps.EventAuthenticate, false, req.Settings.RecordType, req.Identity, err, nil)
		return OutcomeError, nil, err
	}

	if !ok {
		deps.MetricInc(deps.MetricMismatch)
		deps.MetricInc(deps.MetricFailure)
		deps.EmitAudit(ctx, deps.EventAuthenticate, false, req.Settings.RecordType, req.Identity, nil, func() map[string]string {
			return map[string]string{"cause": "password_mismatch"}
		})
		return OutcomeMismatch, record, nil
	}

	deps.MetricInc(deps.MetricSuccess)
	deps.EmitAudit(ctx, deps.EventAuthenticate, true, req.Settings.RecordType, req.Identity, nil, nil)
	return OutcomeSuccess, record, nil
}
