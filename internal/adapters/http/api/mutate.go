// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/ladder/internal/domain/types"
)

// MutateDependencies defines the interface for mutation operations.
type MutateDependencies interface {
	Mutate(ctx context.Context, batchSize int) (int, error)
}

// MutateHandler handles manual mutation batch requests.
type MutateHandler struct {
	deps MutateDependencies
}

// NewMutateHandler creates a new mutate handler.
func NewMutateHandler(deps MutateDependencies) *MutateHandler {
	return &MutateHandler{deps: deps}
}

// HandleMutate handles POST /mutate?count=N requests. A missing or
// non-positive count lets the service pick a random batch size.
func (h *MutateHandler) HandleMutate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	count, _ := strconv.Atoi(r.URL.Query().Get("count"))

	changed, err := h.deps.Mutate(r.Context(), count)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, types.MutateResult{Requested: count, Changed: changed})
}
