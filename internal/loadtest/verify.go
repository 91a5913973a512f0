package loadtest

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/ladder/internal/domain/types"
	"github.com/okian/ladder/pkg/logger"
)

// verifyRanking walks a fresh leaderboard snapshot and checks the
// ranking laws the service promises: scores non-increasing in listing
// order, ties sharing a rank, the rank after a tie group skipping by
// the group size, search results carrying the queried prefix, and rank
// lookups agreeing with the listing.
//
// The engine keeps mutating between pages, so a cross-page seam can
// legitimately disagree; seam violations are logged, not fatal.
func verifyRanking(ctx context.Context, client *HTTPClient, config *Config, names []string, stats *Stats) error {
	logger.Get().Info(ctx, "verifying ranking laws")

	const pagesToVerify = 10

	var prev *types.User
	for page := 1; page <= pagesToVerify; page++ {
		res, err := client.getLeaderboard(ctx, config.BaseURL, page, config.PageSize)
		if err != nil {
			return fmt.Errorf("failed to fetch page %d: %w", page, err)
		}
		if len(res.Users) == 0 {
			break
		}

		if prev != nil {
			if err := checkAdjacent(*prev, res.Users[0]); err != nil {
				logger.Get().Warn(ctx, "cross-page seam mismatch, likely a mutation between fetches",
					logger.Int("page", page), logger.Error(err))
			}
		}
		for i := 1; i < len(res.Users); i++ {
			if err := checkAdjacent(res.Users[i-1], res.Users[i]); err != nil {
				return fmt.Errorf("page %d position %d: %w", page, i, err)
			}
		}

		last := res.Users[len(res.Users)-1]
		prev = &last
		stats.PagesVerified++

		if page >= res.TotalPages {
			break
		}
	}

	if err := verifySearch(ctx, client, config, names, stats); err != nil {
		return err
	}
	if err := verifyRankLookups(ctx, client, config, stats); err != nil {
		return err
	}

	logger.Get().Info(ctx, "ranking verification completed",
		logger.Int("pagesVerified", stats.PagesVerified),
		logger.Int("searchesChecked", stats.SearchesChecked),
		logger.Int("ranksChecked", stats.RanksChecked))
	return nil
}

// checkAdjacent enforces the pairwise ranking law between two users
// that appear consecutively in listing order.
func checkAdjacent(a, b types.User) error {
	if b.Score > a.Score {
		return fmt.Errorf("score increases from %d (%s) to %d (%s)", a.Score, a.Username, b.Score, b.Username)
	}
	if b.Score == a.Score && b.Rank != a.Rank {
		return fmt.Errorf("equal scores %d but ranks %d and %d", a.Score, a.Rank, b.Rank)
	}
	if b.Score < a.Score && b.Rank <= a.Rank {
		return fmt.Errorf("lower score %d < %d but rank %d does not exceed %d", b.Score, a.Score, b.Rank, a.Rank)
	}
	return nil
}

// verifySearch checks that every hit of a handful of prefix queries
// actually carries the queried prefix, case-insensitively.
func verifySearch(ctx context.Context, client *HTTPClient, config *Config, names []string, stats *Stats) error {
	const queriesToCheck = 20

	for i := 0; i < queriesToCheck && i < len(names); i++ {
		name := names[i]
		if len(name) < 2 {
			continue
		}
		prefix := name[:2]

		res, err := client.getSearch(ctx, config.BaseURL, prefix, 1, config.PageSize)
		if err != nil {
			return fmt.Errorf("search %q failed: %w", prefix, err)
		}
		for _, u := range res.Users {
			if !strings.HasPrefix(strings.ToLower(u.Username), strings.ToLower(prefix)) {
				return fmt.Errorf("search %q returned non-matching username %q", prefix, u.Username)
			}
		}
		stats.SearchesChecked++
	}
	return nil
}

// verifyRankLookups cross-checks the first listing page against the
// single-user lookup endpoint.
func verifyRankLookups(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	res, err := client.getLeaderboard(ctx, config.BaseURL, 1, config.PageSize)
	if err != nil {
		return fmt.Errorf("failed to fetch first page: %w", err)
	}

	const lookupsToCheck = 10

	for i := 0; i < lookupsToCheck && i < len(res.Users); i++ {
		u := res.Users[i]
		lookup, err := client.getRank(ctx, config.BaseURL, u.Username)
		if err != nil {
			return fmt.Errorf("rank lookup %q failed: %w", u.Username, err)
		}
		// A mutation may have moved the user between the two requests;
		// identity must hold, position may drift.
		if lookup.User.ID != u.ID {
			return fmt.Errorf("rank lookup %q returned user %q, expected %q", u.Username, lookup.User.ID, u.ID)
		}
		if lookup.TieCount < 1 {
			return fmt.Errorf("rank lookup %q reported tie count %d", u.Username, lookup.TieCount)
		}
		if lookup.Total > 0 && (lookup.Percentile <= 0 || lookup.Percentile > 100) {
			return fmt.Errorf("rank lookup %q reported percentile %.2f", u.Username, lookup.Percentile)
		}
		stats.RanksChecked++
	}
	return nil
}
