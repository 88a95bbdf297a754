package query

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/dcamposl/ragdocs/internal/vectordb"
)

// RegisterRoutes mounts the query API onto the router.
func RegisterRoutes(r chi.Router, e *Engine) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/ask", handleAsk(e))
	})
}

func handleAsk(e *Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Question) == "" {
			http.Error(w, `{"error":"question is required"}`, http.StatusBadRequest)
			return
		}
		if err := vectordb.ValidateCollectionName(req.Collection); err != nil {
			http.Error(w, `{"error":"invalid collection name"}`, http.StatusBadRequest)
			return
		}

		result, err := e.Ask(r.Context(), req)
		if err != nil {
			http.Error(w, `{"error":"failed to answer question"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result)
	}
}
