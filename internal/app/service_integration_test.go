package app_test

import (
	"context"
	"testing"
	"time"

	service "github.com/okian/ladder/internal/app"
	"github.com/okian/ladder/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	// Initialize logging for tests
	err := logger.Init()
	if err != nil {
		panic(err)
	}
}

func TestServiceIntegration(t *testing.T) {
	Convey("Given a service with full integration", t, func() {
		svc := service.New(
			service.WithUserCount(500),
			service.WithSeedWorkers(2),
			service.WithAutoMutate(false),
			service.WithCacheTTL(time.Millisecond),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		So(svc.Start(ctx), ShouldBeNil)

		Convey("When listing the leaderboard end-to-end", func() {
			res, err := svc.ListRanked(ctx, 1, 45)

			Convey("Then the first page should be rank-ordered", func() {
				So(err, ShouldBeNil)
				So(res.Total, ShouldEqual, 500)
				So(len(res.Users), ShouldEqual, 45)
				So(res.Users[0].Rank, ShouldEqual, 1)
				for i := 1; i < len(res.Users); i++ {
					So(res.Users[i].Score, ShouldBeLessThanOrEqualTo, res.Users[i-1].Score)
					So(res.Users[i].Rank, ShouldBeGreaterThanOrEqualTo, res.Users[i-1].Rank)
				}
			})

			Convey("And every user should resolve through rank lookup", func() {
				So(err, ShouldBeNil)
				for _, u := range res.Users[:5] {
					lookup, lerr := svc.LookupRank(ctx, u.Username)
					So(lerr, ShouldBeNil)
					So(lookup.User.ID, ShouldEqual, u.ID)
					So(lookup.Total, ShouldEqual, 500)
					So(lookup.TieCount, ShouldBeGreaterThanOrEqualTo, 1)
				}
			})
		})

		Convey("When searching by prefix end-to-end", func() {
			// Seeded usernames are lowercase words; grab a real prefix.
			page, err := svc.ListRanked(ctx, 1, 10)
			So(err, ShouldBeNil)
			prefix := page.Users[0].Username[:2]

			res, err := svc.SearchByPrefix(ctx, prefix, 1, 45)

			Convey("Then the matched users should carry the prefix", func() {
				So(err, ShouldBeNil)
				So(res.Total, ShouldBeGreaterThanOrEqualTo, 1)
				for _, u := range res.Users {
					So(u.Username[:2], ShouldEqual, prefix)
				}
			})
		})

		Convey("When mutating and reading back", func() {
			changed, err := svc.Mutate(ctx, 50)
			So(err, ShouldBeNil)

			Convey("Then the stats should reflect the pending mutations", func() {
				stats := svc.Stats(ctx)
				So(stats.TotalUsers, ShouldEqual, 500)
				So(stats.PendingMutations, ShouldEqual, int64(changed))
				So(stats.Dirty, ShouldEqual, changed > 0)
			})

			Convey("And a listing should freshen the ranks", func() {
				// Let the page cache entry from earlier reads expire.
				time.Sleep(5 * time.Millisecond)

				_, err := svc.ListRanked(ctx, 1, 45)
				So(err, ShouldBeNil)

				stats := svc.Stats(ctx)
				So(stats.Dirty, ShouldBeFalse)
				So(stats.PendingMutations, ShouldEqual, 0)
			})
		})
	})
}

func TestServiceWithDriver(t *testing.T) {
	Convey("Given a service with the mutation driver enabled", t, func() {
		svc := service.New(
			service.WithUserCount(200),
			service.WithSeedWorkers(2),
			service.WithAutoMutate(true),
			service.WithMutationProfile(20, 100, 10*time.Millisecond, 20*time.Millisecond),
		)

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		So(svc.Start(ctx), ShouldBeNil)

		Convey("When the driver runs for a while", func() {
			time.Sleep(200 * time.Millisecond)

			Convey("Then reads should stay consistent under live mutation", func() {
				res, err := svc.ListRanked(ctx, 1, 100)
				So(err, ShouldBeNil)
				So(res.Total, ShouldEqual, 200)
				for i := 1; i < len(res.Users); i++ {
					So(res.Users[i].Score, ShouldBeLessThanOrEqualTo, res.Users[i-1].Score)
				}
			})

			Convey("And stopping should shut the driver down cleanly", func() {
				So(svc.Stop, ShouldNotPanic)
			})
		})
	})
}

func TestServiceConcurrency(t *testing.T) {
	Convey("Given a started service under concurrent load", t, func() {
		svc := service.New(
			service.WithUserCount(300),
			service.WithSeedWorkers(2),
			service.WithAutoMutate(false),
			service.WithCacheTTL(time.Millisecond),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)

		Convey("When mixing mutation batches and reads", func() {
			done := make(chan error, 8)

			for w := 0; w < 4; w++ {
				go func() {
					var err error
					for i := 0; i < 20; i++ {
						if _, err = svc.Mutate(ctx, 10); err != nil {
							break
						}
					}
					done <- err
				}()
			}
			for r := 0; r < 4; r++ {
				go func() {
					var err error
					for i := 0; i < 20; i++ {
						if _, err = svc.ListRanked(ctx, 1+i%4, 45); err != nil {
							break
						}
					}
					done <- err
				}()
			}

			Convey("Then no call should fail", func() {
				for i := 0; i < 8; i++ {
					So(<-done, ShouldBeNil)
				}

				stats := svc.Stats(ctx)
				So(stats.TotalUsers, ShouldEqual, 300)
			})
		})
	})
}
