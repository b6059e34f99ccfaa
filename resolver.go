package authcore

// Resolver computes per-call configuration from an ordered list of override
// layers: built-in defaults, then the global layer given at construction,
// then the per-record-type layer registered for the requested identifier,
// then any call-site layers, each merged key by key.
//
// A Resolver is immutable after construction and safe for concurrent use.
// Resolution is pure: same inputs, same output, nothing cached.
type Resolver struct {
	defaults Config
	perType  map[string]Overrides
}

// NewResolver builds a resolver from the global override layer and the
// per-record-type registry. Both arguments may be zero/nil.
func NewResolver(global Overrides, perType map[string]Overrides) *Resolver {
	r := &Resolver{
		defaults: builtinDefaults().apply(global),
		perType:  make(map[string]Overrides, len(perType)),
	}
	for name, o := range perType {
		r.perType[name] = o
	}
	return r
}

// Resolve returns the fully-populated configuration for recordType with the
// given call-site layers applied last. Resolution always succeeds: an
// identifier with no registered overrides resolves to the global defaults
// with the identifier retained in Config.RecordType.
func (r *Resolver) Resolve(recordType string, calls ...Overrides) Config {
	cfg := r.defaults
	cfg.RecordType = recordType
	if o, ok := r.perType[recordType]; ok {
		cfg = cfg.apply(o)
	}
	for _, o := range calls {
		cfg = cfg.apply(o)
	}
	return cfg
}

// RecordTypes returns the identifiers with registered override layers.
func (r *Resolver) RecordTypes() []string {
	out := make([]string, 0, len(r.perType))
	for name := range r.perType {
		out = append(out, name)
	}
	return out
}
