// Package seed generates the user population the engine is loaded with.
package seed

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/scylladb/go-set/strset"
	"golang.org/x/sync/errgroup"

	"github.com/okian/ladder/internal/domain/model"
)

// Username format weights, out of 100.
const (
	lastNameChance     = 70
	bareNumberChance   = 30
	numberSuffixRange  = 1000
	smallNumberRange   = 100
	maxCollisionRounds = 100
)

// defaultFirstNames and defaultLastNames feed the username generator.
var defaultFirstNames = []string{
	"rahul", "alex", "maria", "john", "sarah", "mike", "lisa", "david",
	"emma", "james", "sophia", "william", "olivia", "benjamin", "chloe",
	"leo", "mia", "daniel", "sophie", "ryan", "priya", "arjun", "ananya",
	"vikram", "neha", "karan", "kriti", "raj", "meera", "aditya",
	"zack", "zara", "zane", "zoe", "zelda", "zander", "zuri",
}

var defaultLastNames = []string{
	"dev", "sharma", "patel", "kumar", "singh", "reddy", "naidu", "joshi",
	"gupta", "verma", "malhotra", "choudhary", "tiwari", "trivedi", "nair",
	"iyer", "menon", "pillai", "mehta", "bhatt", "desai", "jain", "modi",
	"smith", "johnson", "williams", "brown", "jones", "garcia", "miller",
}

// Generator produces users with unique usernames, random scores within
// the configured bounds, and UUID identifiers.
type Generator struct {
	firstNames []string
	lastNames  []string
	minScore   int
	maxScore   int
	workers    int
}

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithScoreBounds sets the inclusive range scores are drawn from.
func WithScoreBounds(min, max int) Option {
	return func(g *Generator) {
		if min < max {
			g.minScore = min
			g.maxScore = max
		}
	}
}

// WithWorkers bounds the concurrency of population generation.
func WithWorkers(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.workers = n
		}
	}
}

// WithNames replaces the built-in name pools.
func WithNames(first, last []string) Option {
	return func(g *Generator) {
		if len(first) > 0 {
			g.firstNames = first
		}
		if len(last) > 0 {
			g.lastNames = last
		}
	}
}

// NewGenerator constructs a generator with configuration options.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		firstNames: defaultFirstNames,
		lastNames:  defaultLastNames,
		minScore:   100,
		maxScore:   5000,
		workers:    4,
	}

	for _, opt := range opts {
		opt(g)
	}

	return g
}

// Generate returns count users. Usernames are unique across the batch;
// IDs and scores are filled in concurrently once the names exist.
func (g *Generator) Generate(ctx context.Context, count int) ([]*model.User, error) {
	usernames, err := g.generateUsernames(count)
	if err != nil {
		return nil, err
	}

	users := make([]*model.User, count)

	workers := g.workers
	if workers > count {
		workers = count
	}
	perWorker := count / workers

	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * perWorker
		hi := lo + perWorker
		if w == workers-1 {
			hi = count
		}
		eg.Go(func() error {
			for i := lo; i < hi; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				users[i] = &model.User{
					ID:       uuid.New().String(),
					Username: usernames[i],
					Score:    g.minScore + rand.Intn(g.maxScore-g.minScore+1),
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("user generation failed: %w", err)
	}
	return users, nil
}

// generateUsernames draws varied-format names, retrying on collision.
func (g *Generator) generateUsernames(count int) ([]string, error) {
	used := strset.New()
	names := make([]string, 0, count)

	for i := 0; i < count; i++ {
		var name string
		for round := 0; ; round++ {
			if round >= maxCollisionRounds {
				return nil, fmt.Errorf("could not find a free username after %d rounds (have %d of %d)", round, len(names), count)
			}
			name = g.randomUsername()
			if !used.Has(name) {
				break
			}
		}
		used.Add(name)
		names = append(names, name)
	}
	return names, nil
}

func (g *Generator) randomUsername() string {
	first := g.firstNames[rand.Intn(len(g.firstNames))]

	if rand.Intn(100) < lastNameChance {
		last := g.lastNames[rand.Intn(len(g.lastNames))]
		switch rand.Intn(3) {
		case 0:
			return fmt.Sprintf("%s_%s", first, last)
		case 1:
			return fmt.Sprintf("%s_%s%d", first, last, rand.Intn(smallNumberRange))
		default:
			return fmt.Sprintf("%s%d", first, rand.Intn(numberSuffixRange))
		}
	}

	if rand.Intn(100) < bareNumberChance {
		return fmt.Sprintf("%s%d", first, rand.Intn(smallNumberRange))
	}
	return first
}
