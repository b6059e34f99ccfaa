package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"

	authcore "github.com/authcore-go/authcore"
	"github.com/authcore-go/authcore/password"
	"github.com/authcore-go/authcore/redistore"
)

type seededRecord struct {
	email    string
	password string
}

func main() {
	var (
		records     = flag.Int("records", 10000, "number of records to seed")
		concurrency = flag.Int("concurrency", 128, "number of concurrent workers")
		ops         = flag.Int("ops", 50000, "authentication attempts")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "ac", "record key prefix")
	)
	flag.Parse()

	if *records <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "records, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	store := redistore.New(client, *prefix)

	// Minimum cost keeps the harness measuring engine and store overhead
	// rather than bcrypt work-factor time.
	engine, err := authcore.New().
		WithStrategy(password.NewBcrypt(bcrypt.MinCost)).
		WithRepository(store).
		WithMetricsEnabled(true).
		WithLatencyHistograms(true).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "engine build failed: %v\n", err)
		os.Exit(1)
	}
	defer engine.Close()

	seeded := make([]seededRecord, *records)
	fmt.Printf("seeding %d records...\n", *records)
	startSeed := time.Now()
	for i := 0; i < *records; i++ {
		email := fmt.Sprintf("user-%d@example.com", i)
		plaintext := fmt.Sprintf("password-%d", i)
		seeded[i] = seededRecord{email: email, password: plaintext}

		staged, err := engine.StageHashedPassword(ctx, authcore.NewChangeset(nil).
			Change("email", email).
			Change("password", plaintext))
		if err != nil {
			fmt.Fprintf(os.Stderr, "staging failed: %v\n", err)
			os.Exit(1)
		}

		record := staged.Apply()
		delete(record, "password")
		stored := make(map[string]string, len(record))
		for k, v := range record {
			s, _ := v.(string)
			stored[k] = s
		}
		if _, err := store.Put(ctx, "", stored); err != nil {
			fmt.Fprintf(os.Stderr, "seed put failed: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	stats := runAuthenticatePhase(ctx, engine, seeded, *ops, *concurrency)

	fmt.Println("---- results ----")
	printStats("authenticate", stats)
	printCounters(engine)
}

// runAuthenticatePhase mixes correct, wrong-password, and unknown-identity
// attempts roughly 2:1:1.
func runAuthenticatePhase(ctx context.Context, engine *authcore.Engine, seeded []seededRecord, ops, concurrency int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(seeded))

				var creds authcore.Credentials
				var expectOK bool
				switch i % 4 {
				case 0, 1:
					creds = authcore.CredentialsFromPair(seeded[idx].email, seeded[idx].password)
					expectOK = true
				case 2:
					creds = authcore.CredentialsFromPair(seeded[idx].email, "definitely-wrong")
				default:
					creds = authcore.CredentialsFromPair(fmt.Sprintf("ghost-%d@example.com", idx), seeded[idx].password)
				}

				t0 := time.Now()
				result, err := engine.Authenticate(ctx, creds)
				d := time.Since(t0)
				if err != nil || result.OK != expectOK {
					atomic.AddInt64(&failures, 1)
				}

				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50,
		s.p95,
		s.p99,
	)
}

func printCounters(engine *authcore.Engine) {
	snap := engine.MetricsSnapshot()
	fmt.Printf("counters: success=%d failure=%d unknown=%d mismatch=%d dummy=%d\n",
		snap.Counters[authcore.MetricAuthSuccess],
		snap.Counters[authcore.MetricAuthFailure],
		snap.Counters[authcore.MetricAuthUnknownIdentity],
		snap.Counters[authcore.MetricAuthPasswordMismatch],
		snap.Counters[authcore.MetricDummyVerify],
	)
}
