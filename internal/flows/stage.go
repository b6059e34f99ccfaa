package flows

import "context"

// StageDeps captures engine-lifetime staging dependencies.
type StageDeps struct {
	MetricStaged  int
	MetricSkipped int

	MetricInc func(int)
	EmitAudit func(ctx context.Context, eventType string, success bool, recordType, identity string, err error, metadata func() map[string]string)

	EventPasswordStaged string
}

// StageRequest carries the per-call staging inputs. Proposed reads the
// proposed value of a changeset field; Hash is the resolved strategy's hash
// function.
type StageRequest struct {
	Settings Settings
	Proposed func(field string) (string, bool)
	Hash     func(plaintext string) (string, error)
}

// StagePassword reads the proposed plaintext password and hashes it for
// storage. When no password change is proposed the call is an explicit
// no-op: staged is false and the caller returns its container unchanged.
// Strategy errors are propagated unmodified.
func StagePassword(ctx context.Context, deps StageDeps, req StageRequest) (hash string, staged bool, err error) {
	plaintext, ok := req.Proposed(req.Settings.PasswordField)
	if !ok {
		deps.MetricInc(deps.MetricSkipped)
		return "", false, nil
	}

	hash, err = req.Hash(plaintext)
	if err != nil {
		deps.EmitAudit(ctx, deps.EventPasswordStaged, false, req.Settings.RecordType, "", err, nil)
		return "", false, err
	}

	deps.MetricInc(deps.MetricStaged)
	deps.EmitAudit(ctx, deps.EventPasswordStaged, true, req.Settings.RecordType, "", nil, nil)
	return hash, true, nil
}
