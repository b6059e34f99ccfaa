package authcore

import (
	"context"
	"testing"
)

func newMetricsTestEngine(t *testing.T, latency bool) (*Engine, *fakeStrategy) {
	t.Helper()

	strategy := &fakeStrategy{}
	engine, err := New().
		WithStrategy(strategy).
		WithRepository(ricoRepository()).
		WithMetricsEnabled(true).
		WithLatencyHistograms(latency).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	t.Cleanup(engine.Close)

	return engine, strategy
}

func TestMetricsCountOutcomes(t *testing.T) {
	engine, _ := newMetricsTestEngine(t, false)
	ctx := context.Background()

	mustAuth := func(identity, password string) {
		t.Helper()
		if _, err := engine.Authenticate(ctx, CredentialsFromPair(identity, password)); err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
	}

	mustAuth("rico@gmail.com", "password")
	mustAuth("rico@gmail.com", "wrong")
	mustAuth("nobody@x.com", "password")

	snap := engine.MetricsSnapshot()
	want := map[MetricID]uint64{
		MetricAuthSuccess:          1,
		MetricAuthFailure:          2,
		MetricAuthUnknownIdentity:  1,
		MetricAuthPasswordMismatch: 1,
		MetricDummyVerify:          1,
	}
	for id, n := range want {
		if got := snap.Counters[id]; got != n {
			t.Errorf("counter %d: got %d, want %d", id, got, n)
		}
	}
}

func TestMetricsCountStaging(t *testing.T) {
	engine, _ := newMetricsTestEngine(t, false)
	ctx := context.Background()

	if _, err := engine.StageHashedPassword(ctx, NewChangeset(nil).Change("password", "secret")); err != nil {
		t.Fatalf("StageHashedPassword failed: %v", err)
	}
	if _, err := engine.StageHashedPassword(ctx, NewChangeset(nil)); err != nil {
		t.Fatalf("StageHashedPassword failed: %v", err)
	}

	snap := engine.MetricsSnapshot()
	if got := snap.Counters[MetricPasswordStaged]; got != 1 {
		t.Errorf("staged counter: got %d, want 1", got)
	}
	if got := snap.Counters[MetricPasswordStageSkipped]; got != 1 {
		t.Errorf("skipped counter: got %d, want 1", got)
	}
}

func TestMetricsSnapshotIsolation(t *testing.T) {
	engine, _ := newMetricsTestEngine(t, false)
	ctx := context.Background()

	if _, err := engine.Authenticate(ctx, CredentialsFromPair("rico@gmail.com", "password")); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	first := engine.MetricsSnapshot()
	first.Counters[MetricAuthSuccess] = 99

	second := engine.MetricsSnapshot()
	if got := second.Counters[MetricAuthSuccess]; got != 1 {
		t.Fatalf("snapshot mutation leaked back: got %d", got)
	}
}

func TestMetricsLatencyHistogram(t *testing.T) {
	engine, _ := newMetricsTestEngine(t, true)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := engine.Authenticate(ctx, CredentialsFromPair("rico@gmail.com", "password")); err != nil {
			t.Fatalf("Authenticate failed: %v", err)
		}
	}

	snap := engine.MetricsSnapshot()
	buckets, ok := snap.Histograms[MetricAuthenticateLatency]
	if !ok {
		t.Fatal("latency histogram missing from snapshot")
	}
	var total uint64
	for _, n := range buckets {
		total += n
	}
	if total != 5 {
		t.Fatalf("histogram sample count: got %d, want 5", total)
	}
}

func TestMetricsDisabledSnapshotEmpty(t *testing.T) {
	strategy := &fakeStrategy{}
	engine := newAuthTestEngine(t, strategy, ricoRepository())

	if _, err := engine.Authenticate(context.Background(), CredentialsFromPair("rico@gmail.com", "password")); err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}

	snap := engine.MetricsSnapshot()
	if len(snap.Counters) != 0 || len(snap.Histograms) != 0 {
		t.Fatalf("disabled metrics must snapshot empty, got %v / %v", snap.Counters, snap.Histograms)
	}
}
