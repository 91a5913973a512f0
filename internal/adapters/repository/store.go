// Package repository implements the in-memory ranking engine: the
// authoritative user table, the lazily re-sorted rank index, the
// bucketed name index and the short-TTL page cache.
package repository

import (
	"context"

	"github.com/okian/ladder/internal/domain/model"
	"github.com/okian/ladder/internal/domain/types"
)

// Store provides read/write access to the ranking state.
type Store interface {
	// Populate performs the one-time bulk load and builds every index.
	// Returns ErrAlreadyPopulated on a second call.
	Populate(ctx context.Context, users []*model.User) error

	// Get returns a copy of the user with the given id in O(1).
	// Returns ErrNotFound if the id is unknown.
	Get(ctx context.Context, id string) (types.User, error)

	// GetByName returns a copy of the user with the given username in O(1).
	// Returns ErrNotFound if the username is unknown.
	GetByName(ctx context.Context, username string) (types.User, error)

	// MutateScore clamps newScore to the configured bounds and applies it.
	// Returns false when the clamped value equals the current score
	// (the call has no effect and does not mark the rank index dirty).
	MutateScore(ctx context.Context, id string, newScore int) (bool, error)

	// ListRanked returns one page of the rank-ordered listing.
	// Out-of-range paging values are clamped, never an error; a page
	// beyond the last yields an empty page.
	ListRanked(ctx context.Context, page, pageSize int) (types.ListResult, error)

	// SearchByPrefix returns users whose username starts with query,
	// ordered by current rank. Queries shorter than the configured
	// minimum yield an empty result.
	SearchByPrefix(ctx context.Context, query string, page, pageSize int) (types.SearchResult, error)

	// LookupRank returns rank details for a username.
	// Returns ErrNotFound if the username is unknown.
	LookupRank(ctx context.Context, username string) (types.RankLookup, error)

	// Count returns the number of users tracked in the leaderboard.
	Count(ctx context.Context) int

	// Stats reports the engine's internal counters.
	Stats(ctx context.Context) types.StatsSnapshot
}
