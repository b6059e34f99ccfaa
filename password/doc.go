// Package password ships the hashing strategies consumed by the authcore
// engine: Argon2id with PHC-encoded output and bcrypt.
//
// Both types satisfy the engine's HashingStrategy contract: Hash, Verify,
// and DummyVerify. DummyVerify runs a real derivation and comparison
// against a fixed reference hash built with the strategy's own live
// parameters, so its cost profile matches Verify; this parity is what keeps
// unknown-identity and wrong-password failures indistinguishable by timing,
// and it must hold for any third-party strategy as well.
//
// Password bytes are used exactly as provided; no Unicode normalization and
// no length policy is applied here (password policy belongs to the caller).
package password
