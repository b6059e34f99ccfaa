package authcore

import (
	"context"
	"testing"
)

func newBenchEngine(b *testing.B) *Engine {
	b.Helper()

	engine, err := New().
		WithStrategy(&fakeStrategy{}).
		WithRepository(ricoRepository()).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		b.Fatalf("Build failed: %v", err)
	}
	b.Cleanup(engine.Close)

	return engine
}

func BenchmarkAuthenticateSuccess(b *testing.B) {
	engine := newBenchEngine(b)
	creds := CredentialsFromPair("rico@gmail.com", "password")
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Authenticate(ctx, creds); err != nil {
			b.Fatalf("Authenticate failed: %v", err)
		}
	}
}

func BenchmarkAuthenticateUnknownIdentity(b *testing.B) {
	engine := newBenchEngine(b)
	creds := CredentialsFromPair("nobody@x.com", "password")
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Authenticate(ctx, creds); err != nil {
			b.Fatalf("Authenticate failed: %v", err)
		}
	}
}

func BenchmarkAuthenticateParallel(b *testing.B) {
	engine := newBenchEngine(b)
	creds := CredentialsFromPair("rico@gmail.com", "password")

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		for pb.Next() {
			if _, err := engine.Authenticate(ctx, creds); err != nil {
				b.Fatalf("Authenticate failed: %v", err)
			}
		}
	})
}
