package authcore

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

type countingSink struct {
	count atomic.Uint64
}

func (s *countingSink) Emit(context.Context, AuditEvent) {
	s.count.Add(1)
}

type gateSink struct {
	gate chan struct{}
}

func (s *gateSink) Emit(context.Context, AuditEvent) {
	<-s.gate
}

func receiveEvent(t *testing.T, sink *ChannelSink) AuditEvent {
	t.Helper()

	select {
	case event := <-sink.Events():
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for audit event")
		return AuditEvent{}
	}
}

func newAuditTestEngine(t *testing.T, sink AuditSink) *Engine {
	t.Helper()

	engine, err := New().
		WithStrategy(&fakeStrategy{}).
		WithRepository(ricoRepository()).
		WithAuditSink(sink).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine
}

func TestAuditDisabledByDefault(t *testing.T) {
	sink := &countingSink{}
	engine, err := New().
		WithStrategy(&fakeStrategy{}).
		WithRepository(ricoRepository()).
		WithAuditSink(sink).
		WithAuditConfig(AuditConfig{Enabled: false}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if _, err := engine.Authenticate(context.Background(), CredentialsFromPair("rico@gmail.com", "password")); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	engine.Close()

	if got := sink.count.Load(); got != 0 {
		t.Fatalf("disabled audit must never reach the sink, got %d events", got)
	}
}

func TestAuditAuthenticateSuccessEvent(t *testing.T) {
	sink := NewChannelSink(8)
	engine := newAuditTestEngine(t, sink)

	if _, err := engine.Authenticate(context.Background(), CredentialsFromPair("rico@gmail.com", "password")); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	event := receiveEvent(t, sink)
	if event.EventType != AuditAuthenticate {
		t.Fatalf("event type: got %q", event.EventType)
	}
	if !event.Success {
		t.Fatal("expected success event")
	}
	if event.Identity != "rico@gmail.com" {
		t.Fatalf("identity: got %q", event.Identity)
	}
	if event.ID == "" {
		t.Fatal("expected a generated event ID")
	}
	if event.Timestamp.IsZero() {
		t.Fatal("expected a timestamp")
	}
}

func TestAuditAuthenticateFailureCauses(t *testing.T) {
	sink := NewChannelSink(8)
	engine := newAuditTestEngine(t, sink)
	ctx := context.Background()

	if _, err := engine.Authenticate(ctx, CredentialsFromPair("rico@gmail.com", "wrong")); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	event := receiveEvent(t, sink)
	if event.Success {
		t.Fatal("expected failure event")
	}
	if got := event.Metadata["cause"]; got != "password_mismatch" {
		t.Fatalf("cause: got %q", got)
	}

	if _, err := engine.Authenticate(ctx, CredentialsFromPair("nobody@x.com", "password")); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	event = receiveEvent(t, sink)
	if got := event.Metadata["cause"]; got != "unknown_identity" {
		t.Fatalf("cause: got %q", got)
	}
}

func TestAuditPasswordStagedEvent(t *testing.T) {
	sink := NewChannelSink(8)
	engine := newAuditTestEngine(t, sink)

	cs := NewChangeset(nil).Change("password", "secret")
	if _, err := engine.StageHashedPassword(context.Background(), cs); err != nil {
		t.Fatalf("StageHashedPassword failed: %v", err)
	}

	event := receiveEvent(t, sink)
	if event.EventType != AuditPasswordStaged {
		t.Fatalf("event type: got %q", event.EventType)
	}
	if !event.Success {
		t.Fatal("expected success event")
	}
}

func TestAuditDropAccounting(t *testing.T) {
	sink := &gateSink{gate: make(chan struct{})}
	engine, err := New().
		WithStrategy(&fakeStrategy{}).
		WithRepository(ricoRepository()).
		WithAuditSink(sink).
		WithAuditConfig(AuditConfig{Enabled: true, BufferSize: 1, DropIfFull: true}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 10; i++ {
		if _, err := engine.Authenticate(ctx, CredentialsFromPair("rico@gmail.com", "wrong")); err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
	}

	if got := engine.AuditDropped(); got == 0 {
		t.Fatal("expected dropped events under backpressure")
	}

	close(sink.gate)
	engine.Close()
}

func TestAuditCloseDrains(t *testing.T) {
	sink := &countingSink{}
	engine := newAuditTestEngine(t, sink)
	ctx := context.Background()

	const attempts = 20
	for i := 0; i < attempts; i++ {
		if _, err := engine.Authenticate(ctx, CredentialsFromPair("rico@gmail.com", "password")); err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
	}
	engine.Close()

	if got := sink.count.Load(); got != attempts {
		t.Fatalf("expected %d events after drain, got %d", attempts, got)
	}
	if dropped := engine.AuditDropped(); dropped != 0 {
		t.Fatalf("expected no drops with a large buffer, got %d", dropped)
	}
}
