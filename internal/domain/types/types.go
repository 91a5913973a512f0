// Package types contains common types used across the application.
package types

// User is the read shape returned by leaderboard queries. It is a
// value copy of the domain user taken under the engine lock, so a
// response never aliases live engine state.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Rank     int    `json:"rank"`
}

// ListResult is the response shape for a paginated ranked listing.
type ListResult struct {
	Users      []User `json:"users"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
	// PendingMutations reports how many committed score changes the
	// served ranks may not reflect yet.
	PendingMutations int64 `json:"pendingMutations"`
}

// SearchResult is the response shape for a username prefix search.
type SearchResult struct {
	Users      []User `json:"users"`
	Query      string `json:"query"`
	Total      int    `json:"total"`
	Page       int    `json:"page"`
	PageSize   int    `json:"pageSize"`
	TotalPages int    `json:"totalPages"`
}

// RankLookup is the response shape for a single-user rank lookup.
type RankLookup struct {
	User User `json:"user"`
	// TieCount is the number of users sharing this user's score,
	// including the user itself.
	TieCount   int     `json:"tieCount"`
	Total      int     `json:"total"`
	Percentile float64 `json:"percentile"`
}

// MutateResult reports the effect of a mutation batch.
type MutateResult struct {
	Requested int `json:"requested"`
	Changed   int `json:"changed"`
}

// StatsSnapshot mirrors the engine's internal counters for diagnostics.
// It carries no invariants beyond reflecting those counters at the
// moment the snapshot was taken.
type StatsSnapshot struct {
	TotalUsers       int            `json:"totalUsers"`
	PendingMutations int64          `json:"pendingMutations"`
	Dirty            bool           `json:"dirty"`
	RebuildThreshold int            `json:"rebuildThreshold"`
	Rebuilds         int64          `json:"rebuilds"`
	CacheEntries     int            `json:"cacheEntries"`
	BucketCount      int            `json:"bucketCount"`
	BucketSizes      map[string]int `json:"bucketSizes"`
	LastRebuildUnix  int64          `json:"lastRebuildUnix"`
}
