package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	goSession "github.com/MrEthical07/goSession"
	"github.com/MrEthical07/goSession/redisconn"
	"github.com/alicebob/miniredis/v2"
)

// sessionState tracks the keys that writers believe they committed.
type sessionState struct {
	id      goSession.Identifier
	mu      sync.Mutex
	written []string
}

func (s *sessionState) record(key string) {
	s.mu.Lock()
	s.written = append(s.written, key)
	s.mu.Unlock()
}

func main() {
	var (
		sessions  = flag.Int("sessions", 64, "number of sessions to seed")
		writers   = flag.Int("writers", 32, "number of concurrent writers, each with its own Store")
		ops       = flag.Int("ops", 20000, "total transactional writes")
		redisAddr = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		namespace = flag.String("namespace", "loadtest", "session key namespace")
		strategy  = flag.String("strategy", string(goSession.MergeShallow), "merge strategy: shallow or diff")
	)
	flag.Parse()

	if *sessions <= 0 || *writers <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "sessions, writers, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		defer mr.Close()
		addr = mr.Addr()
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		fmt.Printf("using redis at %s\n", addr)
	}

	client, ns, err := redisconn.Connect(ctx, redisconn.Config{
		ServerURL:      "redis://" + addr + "/0/" + *namespace,
		PoolSize:       *writers * 2,
		RetryAttempts:  3,
		RetryInterval:  200 * time.Millisecond,
		ConnectTimeout: 10 * time.Second,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect: %v\n", err)
		os.Exit(1)
	}
	defer client.Close()

	cfg := goSession.DefaultConfig()
	cfg.Namespace = ns
	cfg.Commit.Strategy = goSession.MergeStrategy(*strategy)
	cfg.Commit.Backoff = time.Millisecond
	cfg.Commit.MaxBackoff = 20 * time.Millisecond

	stores := make([]*goSession.Store, *writers)
	for i := range stores {
		s, err := goSession.New().WithConfig(cfg).WithRedis(client).Build()
		if err != nil {
			fmt.Fprintf(os.Stderr, "build store: %v\n", err)
			os.Exit(2)
		}
		defer s.Close()
		stores[i] = s
	}

	states := make([]*sessionState, *sessions)
	fmt.Printf("seeding %d sessions...\n", *sessions)
	for i := range states {
		id, err := stores[0].GenerateUniqueID(ctx, goSession.Data{"seed": i}, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
			os.Exit(1)
		}
		states[i] = &sessionState{id: id}
	}

	stats := runWritePhase(ctx, stores, states, *ops)
	lost, err := verify(ctx, stores[0], states)
	if err != nil {
		fmt.Fprintf(os.Stderr, "verify failed: %v\n", err)
		os.Exit(1)
	}

	var conflicts, exhausted uint64
	for _, s := range stores {
		snap := s.MetricsSnapshot()
		conflicts += snap.Counters[goSession.MetricCommitConflict]
		exhausted += snap.Counters[goSession.MetricCommitExhausted]
	}

	fmt.Println("---- results ----")
	printStats("commit", stats)
	fmt.Printf("conflicts retried=%d exhausted=%d lost updates=%d\n", conflicts, exhausted, lost)
	if lost > 0 {
		os.Exit(1)
	}
}

func runWritePhase(ctx context.Context, stores []*goSession.Store, states []*sessionState, ops int) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := range stores {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			store := stores[worker]
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				state := states[r.Intn(len(states))]

				t0 := time.Now()
				err := writeOnce(ctx, store, state, fmt.Sprintf("w%d-op%d", worker, i), i)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

// writeOnce performs one read-modify-write cycle adding key to the session.
func writeOnce(ctx context.Context, store *goSession.Store, state *sessionState, key string, value int) error {
	id, data, err := store.FindSession(ctx, goSession.Options{}, state.id)
	if err != nil {
		return err
	}
	if id == nil || id.PublicID() != state.id.PublicID() {
		return fmt.Errorf("session %s vanished", state.id)
	}

	snapshot := data.Clone()
	data[key] = value
	if _, err := store.TransactionalWriteSession(ctx, goSession.Options{Snapshot: snapshot}, id, data); err != nil {
		if errors.Is(err, goSession.ErrCommitConflict) {
			fmt.Fprintf(os.Stderr, "gave up on %s: %v\n", key, err)
		}
		return err
	}
	state.record(key)
	return nil
}

// verify counts committed keys missing from the final session data.
func verify(ctx context.Context, store *goSession.Store, states []*sessionState) (int, error) {
	lost := 0
	for _, state := range states {
		_, data, err := store.FindSession(ctx, goSession.Options{}, state.id)
		if err != nil {
			return 0, err
		}
		for _, key := range state.written {
			if _, ok := data[key]; !ok {
				lost++
			}
		}
	}
	return lost, nil
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
	return samples[(len(samples)-1)*p/100]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
