// Package model contains domain models passed between layers.
package model

// User is a ranked participant. ID and Username are assigned once at
// population time and never change; Score and Rank mutate afterwards.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	// UsernameLower is the normalized form used by the name index.
	// Precomputed so prefix matching never re-folds per comparison.
	UsernameLower string `json:"-"`
	Score         int    `json:"score"`
	Rank          int    `json:"rank"`
}
