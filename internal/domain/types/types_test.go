package types_test

import (
	"testing"

	types "github.com/okian/ladder/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestUser(t *testing.T) {
	Convey("Given a User struct", t, func() {
		Convey("When creating a new user", func() {
			user := types.User{
				ID:       "user-123",
				Username: "alice_dev",
				Score:    4200,
				Rank:     7,
			}

			Convey("Then it should have the correct values", func() {
				So(user.ID, ShouldEqual, "user-123")
				So(user.Username, ShouldEqual, "alice_dev")
				So(user.Score, ShouldEqual, 4200)
				So(user.Rank, ShouldEqual, 7)
			})
		})

		Convey("When creating a user with zero values", func() {
			user := types.User{}

			Convey("Then it should have default values", func() {
				So(user.ID, ShouldEqual, "")
				So(user.Username, ShouldEqual, "")
				So(user.Score, ShouldEqual, 0)
				So(user.Rank, ShouldEqual, 0)
			})
		})
	})
}

func TestListResult(t *testing.T) {
	Convey("Given a ListResult struct", t, func() {
		Convey("When creating a populated result", func() {
			result := types.ListResult{
				Users: []types.User{
					{ID: "a", Username: "alpha", Score: 5000, Rank: 1},
					{ID: "b", Username: "beta", Score: 5000, Rank: 1},
					{ID: "c", Username: "gamma", Score: 100, Rank: 3},
				},
				Total:            3,
				Page:             1,
				PageSize:         45,
				TotalPages:       1,
				PendingMutations: 2,
			}

			Convey("Then it should carry the page metadata", func() {
				So(len(result.Users), ShouldEqual, 3)
				So(result.Total, ShouldEqual, 3)
				So(result.Page, ShouldEqual, 1)
				So(result.PageSize, ShouldEqual, 45)
				So(result.TotalPages, ShouldEqual, 1)
				So(result.PendingMutations, ShouldEqual, int64(2))
			})

			Convey("Then tied users may share a rank", func() {
				So(result.Users[0].Rank, ShouldEqual, result.Users[1].Rank)
				So(result.Users[2].Rank, ShouldEqual, 3)
			})
		})

		Convey("When creating an empty result", func() {
			result := types.ListResult{}

			Convey("Then it should have default values", func() {
				So(result.Users, ShouldBeNil)
				So(result.Total, ShouldEqual, 0)
				So(result.TotalPages, ShouldEqual, 0)
			})
		})
	})
}

func TestSearchResult(t *testing.T) {
	Convey("Given a SearchResult struct", t, func() {
		Convey("When creating a search result", func() {
			result := types.SearchResult{
				Users:      []types.User{{ID: "a", Username: "alice"}},
				Query:      "al",
				Total:      1,
				Page:       1,
				PageSize:   45,
				TotalPages: 1,
			}

			Convey("Then it should echo the normalized query", func() {
				So(result.Query, ShouldEqual, "al")
				So(result.Total, ShouldEqual, 1)
				So(len(result.Users), ShouldEqual, 1)
			})
		})
	})
}

func TestRankLookup(t *testing.T) {
	Convey("Given a RankLookup struct", t, func() {
		Convey("When creating a lookup result", func() {
			lookup := types.RankLookup{
				User:       types.User{ID: "a", Username: "alice", Score: 3000, Rank: 5},
				TieCount:   3,
				Total:      100,
				Percentile: 5.0,
			}

			Convey("Then it should have the correct values", func() {
				So(lookup.User.Rank, ShouldEqual, 5)
				So(lookup.TieCount, ShouldEqual, 3)
				So(lookup.Total, ShouldEqual, 100)
				So(lookup.Percentile, ShouldEqual, 5.0)
			})
		})
	})
}

func TestStatsSnapshot(t *testing.T) {
	Convey("Given a StatsSnapshot struct", t, func() {
		Convey("When creating a snapshot", func() {
			snap := types.StatsSnapshot{
				TotalUsers:       20_000,
				PendingMutations: 12,
				Dirty:            true,
				RebuildThreshold: 50,
				Rebuilds:         4,
				CacheEntries:     3,
				BucketCount:      26,
				BucketSizes:      map[string]int{"a": 900, "z": 120},
				LastRebuildUnix:  1_700_000_000,
			}

			Convey("Then it should have the correct values", func() {
				So(snap.TotalUsers, ShouldEqual, 20_000)
				So(snap.PendingMutations, ShouldEqual, int64(12))
				So(snap.Dirty, ShouldBeTrue)
				So(snap.RebuildThreshold, ShouldEqual, 50)
				So(snap.Rebuilds, ShouldEqual, int64(4))
				So(snap.BucketCount, ShouldEqual, 26)
				So(snap.BucketSizes["a"], ShouldEqual, 900)
			})
		})
	})
}

func TestMutateResult(t *testing.T) {
	Convey("Given a MutateResult struct", t, func() {
		Convey("When some mutations are no-ops", func() {
			result := types.MutateResult{Requested: 100, Changed: 97}

			Convey("Then changed may be below requested", func() {
				So(result.Changed, ShouldBeLessThanOrEqualTo, result.Requested)
			})
		})
	})
}
