package authcore

import (
	internalaudit "github.com/authcore-go/authcore/internal/audit"
	internalmetrics "github.com/authcore-go/authcore/internal/metrics"
)

// Builder assembles an [Engine]. Construction is allocation-only; nothing
// touches a repository or strategy until the engine is used.
type Builder struct {
	defaults    Overrides
	recordTypes map[string]Overrides

	auditSink AuditSink
	audit     AuditConfig
	metrics   MetricsConfig

	built bool
}

// New creates a builder with built-in defaults, metrics and audit disabled.
func New() *Builder {
	return &Builder{
		recordTypes: map[string]Overrides{},
		audit: AuditConfig{
			BufferSize: 256,
			DropIfFull: true,
		},
	}
}

// WithDefaults sets the global override layer applied over the built-in
// defaults for every resolution.
func (b *Builder) WithDefaults(o Overrides) *Builder {
	b.defaults = o
	return b
}

// WithRecordType registers an override layer for one record-type
// identifier. Unset keys fall through to the global layer.
func (b *Builder) WithRecordType(name string, o Overrides) *Builder {
	b.recordTypes[name] = o
	return b
}

// WithRepository sets the global default repository.
func (b *Builder) WithRepository(repo Repository) *Builder {
	b.defaults.Repository = repo
	return b
}

// WithStrategy sets the global default hashing strategy.
func (b *Builder) WithStrategy(s HashingStrategy) *Builder {
	b.defaults.Strategy = s
	return b
}

// WithAuditSink enables audit dispatch to the given sink.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	b.audit.Enabled = sink != nil
	return b
}

// WithAuditConfig replaces the audit dispatcher settings.
func (b *Builder) WithAuditConfig(cfg AuditConfig) *Builder {
	b.audit = cfg
	return b
}

// WithMetricsEnabled toggles in-process metrics.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles the authenticate latency histogram.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the configuration layers and freezes an [Engine]. The
// builder is single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderReused
	}
	b.built = true

	resolver := NewResolver(b.defaults, b.recordTypes)
	if err := resolver.defaults.Validate(); err != nil {
		return nil, err
	}
	for name := range b.recordTypes {
		if err := resolver.Resolve(name).Validate(); err != nil {
			return nil, err
		}
	}

	e := &Engine{
		resolver: resolver,
		metrics: internalmetrics.New(internalmetrics.Config{
			Enabled:       b.metrics.Enabled,
			EnableLatency: b.metrics.EnableLatencyHistograms,
		}),
		audit: internalaudit.NewDispatcher(internalaudit.Config{
			Enabled:    b.audit.Enabled,
			BufferSize: b.audit.BufferSize,
			DropIfFull: b.audit.DropIfFull,
		}, b.auditSink),
	}
	e.initFlowDeps()

	return e, nil
}
