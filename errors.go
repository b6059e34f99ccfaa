package authcore

import "errors"

var (
	// ErrEngineNotReady is returned by methods invoked on a nil engine.
	ErrEngineNotReady = errors.New("engine not ready")
	// ErrBuilderReused is returned when Build is called twice on one builder.
	ErrBuilderReused = errors.New("builder already used")
	// ErrRepositoryRequired is returned when an operation resolves a
	// configuration with no repository to perform its lookup against.
	ErrRepositoryRequired = errors.New("repository required")
	// ErrStrategyRequired is returned when an operation resolves a
	// configuration with no hashing strategy.
	ErrStrategyRequired = errors.New("hashing strategy required")
	// ErrNilChangeset is returned when a staging operation receives a nil
	// changeset.
	ErrNilChangeset = errors.New("nil changeset")
)
