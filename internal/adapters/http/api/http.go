// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/ladder/internal/adapters/repository"
	"github.com/okian/ladder/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ListRanked(ctx context.Context, page, pageSize int) (types.ListResult, error)
	SearchByPrefix(ctx context.Context, query string, page, pageSize int) (types.SearchResult, error)
	LookupRank(ctx context.Context, username string) (types.RankLookup, error)
	Mutate(ctx context.Context, batchSize int) (int, error)
	Stats(ctx context.Context) types.StatsSnapshot
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	leaderboardHandler *LeaderboardHandler
	searchHandler      *SearchHandler
	rankHandler        *RankHandler
	mutateHandler      *MutateHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(deps),
		leaderboardHandler: NewLeaderboardHandler(deps),
		searchHandler:      NewSearchHandler(deps),
		rankHandler:        NewRankHandler(deps),
		mutateHandler:      NewMutateHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(CORSMiddleware(s.healthHandler.HandleHealth), "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(CORSMiddleware(s.statsHandler.HandleStats), "stats"))
	mux.HandleFunc("/leaderboard", MetricsMiddleware(CORSMiddleware(s.leaderboardHandler.HandleGetLeaderboard), "leaderboard"))
	mux.HandleFunc("/search", MetricsMiddleware(CORSMiddleware(s.searchHandler.HandleSearch), "search"))
	mux.HandleFunc("/rank/", MetricsMiddleware(CORSMiddleware(s.rankHandler.HandleGetRank), "rank"))
	mux.HandleFunc("/mutate", MetricsMiddleware(CORSMiddleware(s.mutateHandler.HandleMutate), "mutate"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates the repository's not-found kind to a 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
