package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/unimoghub/manuals/internal/core"
)

type SearchHandler struct {
	store    core.Store
	embedder core.EmbeddingProvider
}

func NewSearchHandler(store core.Store, emb core.EmbeddingProvider) *SearchHandler {
	return &SearchHandler{store: store, embedder: emb}
}

type searchRequest struct {
	Query    string `json:"query"`
	ManualID string `json:"manual_id,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// Search embeds the query and returns the nearest chunks by vector distance.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Query == "" {
		http.Error(w, "query is required", http.StatusBadRequest)
		return
	}
	limit := req.Limit
	if limit <= 0 || limit > 50 {
		limit = 5
	}

	vecs, err := h.embedder.EmbedTexts(ctx, []string{req.Query})
	if err != nil || len(vecs) == 0 {
		http.Error(w, fmt.Sprintf("embedding failed: %v", err), http.StatusBadGateway)
		return
	}

	chunks, err := h.store.SearchManualChunks(ctx, vecs[0], req.ManualID, limit)
	if err != nil {
		http.Error(w, fmt.Sprintf("search failed: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"results": chunks,
	})
}
