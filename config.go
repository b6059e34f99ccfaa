package authcore

import (
	"errors"

	"github.com/authcore-go/authcore/password"
)

/*
====================================
RESOLVED CONFIGURATION
====================================
*/

// Config is a fully resolved, immutable configuration value. One is computed
// fresh for every authentication or staging call by layering override sets
// over the built-in defaults; it is never cached and never shared mutably.
type Config struct {
	// RecordType is the logical record kind this resolution applies to. It
	// is retained even when no overrides are registered for the identifier.
	RecordType string
	// IdentityField is the record attribute looked up (e.g. "email").
	IdentityField string
	// PasswordField is the transient attribute carrying the plaintext
	// password during validation. Never persisted.
	PasswordField string
	// HashedPasswordField is the persisted attribute holding the one-way
	// transformed password.
	HashedPasswordField string
	// LoginErrorMessage is attached to the password field on failure.
	LoginErrorMessage string
	// Strategy is the hashing capability used to hash and verify.
	Strategy HashingStrategy
	// Repository performs record lookups. May be nil in a resolved value;
	// operations that need a lookup fail with ErrRepositoryRequired.
	Repository Repository
	// Scope, when set, produces the lookup target in place of the plain
	// record type.
	Scope ScopeFunc
}

// Validate reports whether the configuration can back an authentication
// call. Repository is deliberately not checked: resolution must succeed for
// unregistered record types with no repository configured.
func (c Config) Validate() error {
	if c.IdentityField == "" {
		return errors.New("identity field must not be empty")
	}
	if c.PasswordField == "" {
		return errors.New("password field must not be empty")
	}
	if c.HashedPasswordField == "" {
		return errors.New("hashed password field must not be empty")
	}
	if c.LoginErrorMessage == "" {
		return errors.New("login error message must not be empty")
	}
	if c.Strategy == nil {
		return ErrStrategyRequired
	}
	return nil
}

// apply merges one override layer into the configuration, key by key. Unset
// keys fall through to the receiver; partial overrides never blank out
// sibling values.
func (c Config) apply(o Overrides) Config {
	if o.IdentityField != "" {
		c.IdentityField = o.IdentityField
	}
	if o.PasswordField != "" {
		c.PasswordField = o.PasswordField
	}
	if o.HashedPasswordField != "" {
		c.HashedPasswordField = o.HashedPasswordField
	}
	if o.LoginErrorMessage != "" {
		c.LoginErrorMessage = o.LoginErrorMessage
	}
	if o.Strategy != nil {
		c.Strategy = o.Strategy
	}
	if o.Repository != nil {
		c.Repository = o.Repository
	}
	if o.Scope != nil {
		c.Scope = o.Scope
	}
	return c
}

/*
====================================
OVERRIDE LAYERS
====================================
*/

// Overrides is one optional-field override layer. The zero value overrides
// nothing; a set field replaces exactly that key in the layer below it.
// Layers are merged lowest to highest precedence: built-in defaults, global
// defaults, per-record-type overrides, call-site overrides.
type Overrides struct {
	IdentityField       string
	PasswordField       string
	HashedPasswordField string
	LoginErrorMessage   string
	Strategy            HashingStrategy
	Repository          Repository
	Scope               ScopeFunc
}

// builtinDefaults is the lowest layer. Every key has a value here, so
// resolution always yields a fully-populated Config.
func builtinDefaults() Config {
	return Config{
		IdentityField:       "email",
		PasswordField:       "password",
		HashedPasswordField: "hashed_password",
		LoginErrorMessage:   "Invalid email or password.",
		Strategy:            password.NewBcrypt(password.BcryptDefaultCost),
	}
}

/*
====================================
AUDIT / METRICS SWITCHES
====================================
*/

// AuditConfig controls the engine's asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig controls the engine's in-process metrics.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}
