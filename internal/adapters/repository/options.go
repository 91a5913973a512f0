package repository

import "time"

// Option applies a configuration option to the RankStore.
type Option func(*RankStore)

// WithScoreBounds sets the inclusive score clamp range.
func WithScoreBounds(min, max int) Option {
	return func(s *RankStore) {
		if min < max {
			s.minScore = min
			s.maxScore = max
		}
	}
}

// WithRebuildThreshold sets how many pending mutations a stale-tolerant
// read accepts before forcing a rebuild.
func WithRebuildThreshold(n int) Option {
	return func(s *RankStore) {
		if n > 0 {
			s.threshold = n
		}
	}
}

// WithCacheTTL sets the page cache time-to-live.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *RankStore) {
		if ttl > 0 {
			s.cacheTTL = ttl
		}
	}
}

// WithPageSizes sets the default and maximum listing page sizes.
func WithPageSizes(def, max int) Option {
	return func(s *RankStore) {
		if def > 0 {
			s.defaultPageSize = def
		}
		if max >= def {
			s.maxPageSize = max
		}
	}
}

// WithSearchLimits sets the minimum query length and the cap on
// collected matches for prefix search.
func WithSearchLimits(minPrefix, resultCap int) Option {
	return func(s *RankStore) {
		if minPrefix > 0 {
			s.searchMinPrefix = minPrefix
		}
		if resultCap > 0 {
			s.searchCap = resultCap
		}
	}
}
