package loadtest

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"go.uber.org/ratelimit"

	"github.com/okian/ladder/internal/domain/types"
	"github.com/okian/ladder/pkg/logger"
)

// Percentage display constant.
const (
	percentageMultiplier = 100
)

// Run executes the complete load test against a running service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting ladder load test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("requests", config.Requests),
		logger.Int("rate", config.Rate),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health.
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Collect a pool of real usernames to query with.
	names, err := collectUsernames(ctx, client, config)
	if err != nil {
		return fmt.Errorf("username collection failed: %w", err)
	}

	// Step 3: Fire the paced mixed read workload.
	if err := runWorkload(ctx, client, config, names, stats); err != nil {
		return fmt.Errorf("workload failed: %w", err)
	}

	// Step 4: Verify ranking laws against a fresh snapshot.
	if err := verifyRanking(ctx, client, config, names, stats); err != nil {
		return fmt.Errorf("ranking verification failed: %w", err)
	}

	// Final statistics.
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(ctx, stats)

	logger.Get().Info(ctx, "load test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	// Any 200 response means the process is alive (the endpoint serves
	// Prometheus metrics).
	if resp.StatusCode != statusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// collectUsernames pulls a few listing pages to build the query pool
// the workload draws rank lookups and search prefixes from.
func collectUsernames(ctx context.Context, client *HTTPClient, config *Config) ([]string, error) {
	const pagesToSample = 5

	var names []string
	for page := 1; page <= pagesToSample; page++ {
		res, err := client.getLeaderboard(ctx, config.BaseURL, page, config.PageSize)
		if err != nil {
			return nil, err
		}
		for _, u := range res.Users {
			names = append(names, u.Username)
		}
		if page >= res.TotalPages {
			break
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("service returned an empty leaderboard")
	}

	logger.Get().Info(ctx, "collected username pool", logger.Int("size", len(names)))
	return names, nil
}

// runWorkload issues the configured number of read requests through a
// worker pool, paced by a shared leaky-bucket rate limiter so the
// aggregate request rate stays at config.Rate regardless of workers.
func runWorkload(ctx context.Context, client *HTTPClient, config *Config, names []string, stats *Stats) error {
	logger.Get().Info(ctx, "running workload",
		logger.Int("requests", config.Requests),
		logger.Int("workers", config.Workers))

	limiter := ratelimit.New(config.Rate)

	var (
		sent    int64
		lists   int64
		search  int64
		ranks   int64
		mutates int64
		changed int64
		failed  int64
	)

	jobs := make(chan int, config.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < config.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rng := rand.New(rand.NewSource(time.Now().UnixNano()))

			for n := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}
				limiter.Take()

				var err error
				switch {
				case config.MutateEach > 0 && n%config.MutateEach == 0:
					var mres types.MutateResult
					mres, err = client.postMutate(ctx, config.BaseURL, 0)
					atomic.AddInt64(&mutates, 1)
					atomic.AddInt64(&changed, int64(mres.Changed))
				case n%3 == 0:
					name := names[rng.Intn(len(names))]
					_, err = client.getRank(ctx, config.BaseURL, name)
					atomic.AddInt64(&ranks, 1)
				case n%3 == 1:
					prefix := searchPrefix(rng, names)
					_, err = client.getSearch(ctx, config.BaseURL, prefix, 1, config.PageSize)
					atomic.AddInt64(&search, 1)
				default:
					page := 1 + rng.Intn(10)
					_, err = client.getLeaderboard(ctx, config.BaseURL, page, config.PageSize)
					atomic.AddInt64(&lists, 1)
				}

				atomic.AddInt64(&sent, 1)
				if err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "request failed", logger.Error(err))
					}
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for n := 1; n <= config.Requests; n++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- n:
			}
		}
	}()

	wg.Wait()

	stats.RequestsSent = int(atomic.LoadInt64(&sent))
	stats.ListRequests = int(atomic.LoadInt64(&lists))
	stats.SearchRequests = int(atomic.LoadInt64(&search))
	stats.RankRequests = int(atomic.LoadInt64(&ranks))
	stats.MutateRequests = int(atomic.LoadInt64(&mutates))
	stats.ScoresMutated = int(atomic.LoadInt64(&changed))
	stats.Failed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "workload completed",
		logger.Int("sent", stats.RequestsSent),
		logger.Int("failed", stats.Failed))
	return nil
}

// searchPrefix derives a 2-3 character prefix from a random pool name.
func searchPrefix(rng *rand.Rand, names []string) string {
	name := names[rng.Intn(len(names))]
	n := 2 + rng.Intn(2)
	if n > len(name) {
		n = len(name)
	}
	return name[:n]
}

// displayFinalStats prints the final load test statistics.
func displayFinalStats(ctx context.Context, stats *Stats) {
	var failureRate, requestsPerSecond float64

	if stats.RequestsSent > 0 {
		failureRate = float64(stats.Failed) / float64(stats.RequestsSent) * percentageMultiplier
	}
	if stats.Duration > 0 {
		requestsPerSecond = float64(stats.RequestsSent) / stats.Duration.Seconds()
	}

	logger.Get().Info(ctx, "final statistics",
		logger.String("requestsSent", humanize.Comma(int64(stats.RequestsSent))),
		logger.Int("listRequests", stats.ListRequests),
		logger.Int("searchRequests", stats.SearchRequests),
		logger.Int("rankRequests", stats.RankRequests),
		logger.Int("mutateRequests", stats.MutateRequests),
		logger.String("scoresMutated", humanize.Comma(int64(stats.ScoresMutated))),
		logger.Int("failed", stats.Failed),
		logger.Int("pagesVerified", stats.PagesVerified),
		logger.Int("searchesChecked", stats.SearchesChecked),
		logger.Int("ranksChecked", stats.RanksChecked),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("failureRate", failureRate),
		logger.Float64("requestsPerSecond", requestsPerSecond))
}
