// Package app provides the core business service that implements
// the dependencies required by the HTTP API.
package app

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/scylladb/go-set/strset"

	"github.com/okian/ladder/internal/adapters/driver"
	"github.com/okian/ladder/internal/adapters/repository"
	"github.com/okian/ladder/internal/domain/seed"
	"github.com/okian/ladder/internal/domain/types"
	"github.com/okian/ladder/pkg/logger"
	"github.com/okian/ladder/pkg/metrics"
)

// Service owns the ranking engine, the population generator and the
// background mutation driver, and exposes the read/write surface the
// HTTP API is built on.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	driver *driver.Driver

	// ids holds every user id for random batch picking. Populated once
	// at startup, read-only afterwards.
	ids []string

	// Configuration
	userCount        int
	seedWorkers      int
	minScore         int
	maxScore         int
	rebuildThreshold int
	cacheTTL         time.Duration
	defaultPageSize  int
	maxPageSize      int
	searchMinPrefix  int
	searchResultCap  int
	autoMutate       bool
	mutateMaxBatch   int
	mutateMaxDelta   int
	mutateMinPause   time.Duration
	mutateMaxPause   time.Duration

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithUserCount sets the size of the generated population.
func WithUserCount(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.userCount = n
		}
	}
}

// WithSeedWorkers bounds the concurrency of population generation.
func WithSeedWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.seedWorkers = n
		}
	}
}

// WithScoreBounds sets the inclusive score clamp range.
func WithScoreBounds(min, max int) Option {
	return func(s *Service) {
		if min < max {
			s.minScore = min
			s.maxScore = max
		}
	}
}

// WithRebuildThreshold sets the engine's lazy re-sort threshold.
func WithRebuildThreshold(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.rebuildThreshold = n
		}
	}
}

// WithCacheTTL sets the page cache time-to-live.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithPageSizes sets the default and maximum listing page sizes.
func WithPageSizes(def, max int) Option {
	return func(s *Service) {
		if def > 0 {
			s.defaultPageSize = def
		}
		if max >= def {
			s.maxPageSize = max
		}
	}
}

// WithSearchLimits sets the minimum prefix length and result cap for search.
func WithSearchLimits(minPrefix, resultCap int) Option {
	return func(s *Service) {
		if minPrefix > 0 {
			s.searchMinPrefix = minPrefix
		}
		if resultCap > 0 {
			s.searchResultCap = resultCap
		}
	}
}

// WithAutoMutate enables or disables the background mutation driver.
func WithAutoMutate(enabled bool) Option {
	return func(s *Service) {
		s.autoMutate = enabled
	}
}

// WithMutationProfile configures batch size, delta magnitude and the
// pause range between driver batches.
func WithMutationProfile(maxBatch, maxDelta int, minPause, maxPause time.Duration) Option {
	return func(s *Service) {
		if maxBatch > 0 {
			s.mutateMaxBatch = maxBatch
		}
		if maxDelta > 0 {
			s.mutateMaxDelta = maxDelta
		}
		if minPause > 0 && maxPause >= minPause {
			s.mutateMinPause = minPause
			s.mutateMaxPause = maxPause
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		userCount:        20_000,
		seedWorkers:      runtime.NumCPU(),
		minScore:         100,
		maxScore:         5000,
		rebuildThreshold: 50,
		cacheTTL:         time.Second,
		defaultPageSize:  45,
		maxPageSize:      100,
		searchMinPrefix:  2,
		searchResultCap:  1000,
		autoMutate:       true,
		mutateMaxBatch:   200,
		mutateMaxDelta:   200,
		mutateMinPause:   1 * time.Second,
		mutateMaxPause:   10 * time.Second,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start generates the population, builds the engine and launches the
// mutation driver.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting leaderboard service...",
		logger.Int("users", s.userCount),
	)

	gen := seed.NewGenerator(
		seed.WithScoreBounds(s.minScore, s.maxScore),
		seed.WithWorkers(s.seedWorkers),
	)
	users, err := gen.Generate(ctx, s.userCount)
	if err != nil {
		return fmt.Errorf("population generation failed: %w", err)
	}

	s.store = repository.NewRankStore(
		repository.WithScoreBounds(s.minScore, s.maxScore),
		repository.WithRebuildThreshold(s.rebuildThreshold),
		repository.WithCacheTTL(s.cacheTTL),
		repository.WithPageSizes(s.defaultPageSize, s.maxPageSize),
		repository.WithSearchLimits(s.searchMinPrefix, s.searchResultCap),
	)
	if err := s.store.Populate(ctx, users); err != nil {
		return fmt.Errorf("population load failed: %w", err)
	}

	s.ids = make([]string, len(users))
	for i, u := range users {
		s.ids[i] = u.ID
	}

	if s.autoMutate {
		s.driver = driver.New(s,
			driver.WithMaxBatch(s.mutateMaxBatch),
			driver.WithIntervalRange(s.mutateMinPause, s.mutateMaxPause),
			driver.WithLogger(s.logger.Named("driver")),
		)
		s.driver.Start(ctx)
	}

	s.started = true
	s.logger.Info(ctx, "leaderboard service started",
		logger.String("users", humanize.Comma(int64(len(users)))),
		logger.Int("rebuildThreshold", s.rebuildThreshold),
		logger.Bool("autoMutate", s.autoMutate),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping leaderboard service...")

	if s.driver != nil {
		s.driver.Stop()
	}

	s.started = false
	s.logger.Info(context.Background(), "leaderboard service stopped")
}

// Mutate applies up to batchSize random, bounded score changes to
// distinct users and returns the number that actually changed. A
// batchSize below one picks a random size. This is the public mutation
// contract shared by the driver and the HTTP layer.
func (s *Service) Mutate(ctx context.Context, batchSize int) (int, error) {
	if len(s.ids) == 0 {
		return 0, nil
	}
	if batchSize < 1 {
		batchSize = 1 + rand.Intn(s.mutateMaxBatch)
	}
	if batchSize > len(s.ids) {
		batchSize = len(s.ids)
	}

	// Distinct per batch: a user is perturbed at most once per call.
	picked := strset.NewWithSize(batchSize)
	attempts := 0
	for picked.Size() < batchSize && attempts < batchSize*20 {
		picked.Add(s.ids[rand.Intn(len(s.ids))])
		attempts++
	}

	changed := 0
	var firstErr error
	picked.Each(func(id string) bool {
		u, err := s.store.Get(ctx, id)
		if err != nil {
			firstErr = err
			return false
		}
		delta := rand.Intn(2*s.mutateMaxDelta+1) - s.mutateMaxDelta
		ok, err := s.store.MutateScore(ctx, id, u.Score+delta)
		if err != nil {
			firstErr = err
			return false
		}
		if ok {
			changed++
		}
		return true
	})
	if firstErr != nil {
		return changed, fmt.Errorf("mutation batch aborted: %w", firstErr)
	}

	metrics.RecordMutationBatch()
	return changed, nil
}

// ListRanked returns one page of the rank-ordered listing.
func (s *Service) ListRanked(ctx context.Context, page, pageSize int) (types.ListResult, error) {
	return s.store.ListRanked(ctx, page, pageSize)
}

// SearchByPrefix returns users whose username starts with query.
func (s *Service) SearchByPrefix(ctx context.Context, query string, page, pageSize int) (types.SearchResult, error) {
	return s.store.SearchByPrefix(ctx, query, page, pageSize)
}

// LookupRank returns rank details for a username.
func (s *Service) LookupRank(ctx context.Context, username string) (types.RankLookup, error) {
	return s.store.LookupRank(ctx, username)
}

// Count returns the number of users in the leaderboard.
func (s *Service) Count(ctx context.Context) int {
	return s.store.Count(ctx)
}

// Stats returns the engine's diagnostic snapshot and refreshes the
// related gauges.
func (s *Service) Stats(ctx context.Context) types.StatsSnapshot {
	snap := s.store.Stats(ctx)
	metrics.UpdateUsersTotal(snap.TotalUsers)
	metrics.UpdatePendingMutations(snap.PendingMutations)
	metrics.UpdateCacheEntries(snap.CacheEntries)
	return snap
}
