package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/internal/domain/types"
	"github.com/okian/ladder/pkg/metrics"
)

// Default engine tuning constants.
const (
	defaultMinScore        = 100
	defaultMaxScore        = 5000
	defaultThreshold       = 50
	defaultCacheTTL        = 1 * time.Second
	defaultPageSize        = 45
	defaultMaxPageSize     = 100
	defaultSearchMinPrefix = 2
	defaultSearchCap       = 1000
)

// RankStore is the in-memory ranking engine.
//
// Ordering: score DESC, then id ASC (deterministic on ties). Ranks are
// competition ranks: tied users share a rank and the next distinct
// score's rank equals its 1-based position, so ties leave a gap.
//
// Writes are O(1): a score mutation only flips the dirty flag and bumps
// the pending counter. The full O(n log n) re-sort runs lazily, on the
// first read that needs fresh ranks, under the exclusive lock.
type RankStore struct {
	mu sync.RWMutex

	byID   map[string]*model.User
	byName map[string]*model.User

	// ranked holds every user ordered (score desc, id asc) whenever
	// dirty is false. Rebuilds sort it in place; the slice is never
	// reallocated after population.
	ranked []*model.User

	names *nameIndex

	dirty   bool
	pending int64

	minScore        int
	maxScore        int
	threshold       int
	cacheTTL        time.Duration
	defaultPageSize int
	maxPageSize     int
	searchMinPrefix int
	searchCap       int

	cache *pageCache

	populated   bool
	rebuilds    int64
	lastRebuild time.Time
}

// NewRankStore constructs an empty rank store with configuration options.
// The store serves no data until Populate is called.
func NewRankStore(opts ...Option) *RankStore {
	s := &RankStore{
		byID:            make(map[string]*model.User),
		byName:          make(map[string]*model.User),
		minScore:        defaultMinScore,
		maxScore:        defaultMaxScore,
		threshold:       defaultThreshold,
		cacheTTL:        defaultCacheTTL,
		defaultPageSize: defaultPageSize,
		maxPageSize:     defaultMaxPageSize,
		searchMinPrefix: defaultSearchMinPrefix,
		searchCap:       defaultSearchCap,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.cache = newPageCache(s.cacheTTL)
	return s
}

// Populate performs the one-time bulk load. It builds the user table,
// the rank index and the name index in a single exclusive section.
func (s *RankStore) Populate(ctx context.Context, users []*model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.populated {
		return ErrAlreadyPopulated
	}

	s.ranked = make([]*model.User, 0, len(users))
	for _, u := range users {
		if u.UsernameLower == "" {
			u.UsernameLower = normalizeUsername(u.Username)
		}
		s.byID[u.ID] = u
		s.byName[u.Username] = u
		s.ranked = append(s.ranked, u)
	}

	s.dirty = true
	s.rebuildLocked()
	s.names = buildNameIndex(s.ranked)
	s.populated = true

	metrics.UpdateUsersTotal(len(s.ranked))
	metrics.UpdateBucketCount(s.names.bucketCount())
	return nil
}

// Get returns a copy of the user with the given id.
func (s *RankStore) Get(ctx context.Context, id string) (types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.User{}, ErrNotFound
	}
	return copyUser(u), nil
}

// GetByName returns a copy of the user with the given username.
func (s *RankStore) GetByName(ctx context.Context, username string) (types.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byName[username]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.User{}, ErrNotFound
	}
	return copyUser(u), nil
}

// MutateScore clamps newScore to the configured bounds and applies it.
// The write path never rebuilds; it marks the rank index dirty and
// leaves the re-sort to the next read that needs fresh ranks.
func (s *RankStore) MutateScore(ctx context.Context, id string, newScore int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return false, ErrNotFound
	}

	clamped := clampScore(newScore, s.minScore, s.maxScore)
	if clamped == u.Score {
		metrics.RecordMutationNoop()
		return false, nil
	}

	u.Score = clamped
	s.dirty = true
	s.pending++

	metrics.RecordMutationApplied()
	metrics.UpdatePendingMutations(s.pending)
	return true, nil
}

// ListRanked returns one page of the rank-ordered listing, served from
// the page cache when a fresh entry exists.
func (s *RankStore) ListRanked(ctx context.Context, page, pageSize int) (types.ListResult, error) {
	start := time.Now()
	defer func() {
		metrics.RecordListLatency(float64(time.Since(start).Milliseconds()))
	}()

	page, pageSize = s.clampPaging(page, pageSize)

	if res, ok := s.cache.Get(page, pageSize); ok {
		metrics.RecordCacheHit()
		return res, nil
	}
	metrics.RecordCacheMiss()

	s.mu.RLock()
	s.freshenRLocked(func() bool { return s.dirty })

	total := len(s.ranked)
	lo := (page - 1) * pageSize
	hi := lo + pageSize
	if lo > total {
		lo = total
	}
	if hi > total {
		hi = total
	}

	users := make([]types.User, 0, hi-lo)
	for _, u := range s.ranked[lo:hi] {
		users = append(users, copyUser(u))
	}
	pending := s.pending
	s.mu.RUnlock()

	res := types.ListResult{
		Users:            users,
		Total:            total,
		Page:             page,
		PageSize:         pageSize,
		TotalPages:       totalPages(total, pageSize),
		PendingMutations: pending,
	}
	s.cache.Put(page, pageSize, res)
	metrics.UpdateCacheEntries(s.cache.Len())
	return res, nil
}

// LookupRank returns rank details for a username. Rank lookups require
// fresh ranks, so a dirty index is rebuilt first.
func (s *RankStore) LookupRank(ctx context.Context, username string) (types.RankLookup, error) {
	start := time.Now()
	defer func() {
		metrics.RecordLookupLatency(float64(time.Since(start).Milliseconds()))
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()
	s.freshenRLocked(func() bool { return s.dirty })

	u, ok := s.byName[username]
	if !ok {
		metrics.RecordErrorByComponent("repository", "not_found")
		return types.RankLookup{}, ErrNotFound
	}

	// ranked is sorted score desc, so the tie group is a contiguous run.
	lo := sort.Search(len(s.ranked), func(i int) bool { return s.ranked[i].Score <= u.Score })
	hi := sort.Search(len(s.ranked), func(i int) bool { return s.ranked[i].Score < u.Score })

	total := len(s.ranked)
	return types.RankLookup{
		User:       copyUser(u),
		TieCount:   hi - lo,
		Total:      total,
		Percentile: float64(u.Rank) / float64(total) * 100,
	}, nil
}

// SearchByPrefix matches on names, not ranks, so it tolerates stale
// rank fields; it only forces a rebuild once the pending counter has
// reached the threshold, keeping staleness bounded.
func (s *RankStore) SearchByPrefix(ctx context.Context, query string, page, pageSize int) (types.SearchResult, error) {
	start := time.Now()
	defer func() {
		metrics.RecordSearchLatency(float64(time.Since(start).Milliseconds()))
	}()

	page, pageSize = s.clampPaging(page, pageSize)
	q := normalizeUsername(query)

	res := types.SearchResult{
		Users:    []types.User{},
		Query:    q,
		Page:     page,
		PageSize: pageSize,
	}
	// Short queries would degrade into near-full bucket scans.
	if len(q) < s.searchMinPrefix {
		return res, nil
	}

	s.mu.RLock()
	s.freshenRLocked(func() bool { return s.dirty && s.pending >= int64(s.threshold) })

	matched := s.names.collect(q, s.searchCap)
	matches := make([]types.User, 0, len(matched))
	for _, u := range matched {
		matches = append(matches, copyUser(u))
	}
	s.mu.RUnlock()

	// Name order and rank order are unrelated; re-sort for presentation.
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Rank != matches[j].Rank {
			return matches[i].Rank < matches[j].Rank
		}
		return matches[i].ID < matches[j].ID
	})

	total := len(matches)
	lo := (page - 1) * pageSize
	hi := lo + pageSize
	if lo > total {
		lo = total
	}
	if hi > total {
		hi = total
	}

	res.Users = matches[lo:hi]
	res.Total = total
	res.TotalPages = totalPages(total, pageSize)
	return res, nil
}

// Count returns the total number of users.
func (s *RankStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

// Stats reports the engine's internal counters.
func (s *RankStore) Stats(ctx context.Context) types.StatsSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := types.StatsSnapshot{
		TotalUsers:       len(s.byID),
		PendingMutations: s.pending,
		Dirty:            s.dirty,
		RebuildThreshold: s.threshold,
		Rebuilds:         s.rebuilds,
		CacheEntries:     s.cache.Len(),
		LastRebuildUnix:  s.lastRebuild.Unix(),
	}
	if s.names != nil {
		snap.BucketCount = s.names.bucketCount()
		snap.BucketSizes = s.names.bucketSizes()
	}
	return snap
}

// freshenRLocked rebuilds the rank index when stale wants it. The
// caller must hold the read lock; it returns with the read lock held.
//
// The shared-to-exclusive transition is not atomic: the read lock must
// be released before the write lock can be taken, and another reader
// or writer may slip in between. The condition is therefore re-checked
// after acquiring the write lock, which also means a burst of readers
// behind one stale index pays for at most one rebuild.
func (s *RankStore) freshenRLocked(stale func() bool) {
	if !stale() {
		return
	}
	s.mu.RUnlock()
	s.mu.Lock()
	if stale() {
		s.rebuildLocked()
	}
	s.mu.Unlock()
	s.mu.RLock()
}

// rebuildLocked re-sorts the rank index in place, recomputes competition
// ranks in one linear pass, resets the staleness counters and clears the
// page cache. The caller must hold the write lock.
func (s *RankStore) rebuildLocked() {
	// Calling this without exclusive access is a programming error.
	if s.mu.TryLock() {
		s.mu.Unlock()
		panic("repository: rebuild without exclusive lock")
	}

	start := time.Now()

	sort.Slice(s.ranked, func(i, j int) bool {
		if s.ranked[i].Score != s.ranked[j].Score {
			return s.ranked[i].Score > s.ranked[j].Score
		}
		return s.ranked[i].ID < s.ranked[j].ID
	})

	// Competition ranking: a tie group shares the rank of its first
	// position and the next distinct score resumes at its own position.
	for i := 0; i < len(s.ranked); {
		j := i
		for j < len(s.ranked) && s.ranked[j].Score == s.ranked[i].Score {
			s.ranked[j].Rank = i + 1
			j++
		}
		i = j
	}

	s.dirty = false
	s.pending = 0
	s.rebuilds++
	s.lastRebuild = time.Now()
	s.cache.Clear()

	metrics.RecordRebuild(float64(time.Since(start).Milliseconds()))
	metrics.UpdatePendingMutations(0)
	metrics.UpdateCacheEntries(0)
}

func (s *RankStore) clampPaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = s.defaultPageSize
	}
	if pageSize > s.maxPageSize {
		pageSize = s.maxPageSize
	}
	return page, pageSize
}

func clampScore(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func totalPages(total, pageSize int) int {
	return (total + pageSize - 1) / pageSize
}

func copyUser(u *model.User) types.User {
	return types.User{
		ID:       u.ID,
		Username: u.Username,
		Score:    u.Score,
		Rank:     u.Rank,
	}
}
