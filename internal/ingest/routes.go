package ingest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes mounts the ingestion API onto the router.
func RegisterRoutes(r chi.Router, m *Manager) {
	r.Route("/api/v1/documents", func(r chi.Router) {
		r.Post("/load-from-url", handleLoadFromURL(m))
		r.Get("/load-from-url/{id}", handleJobStatus(m))
		r.Get("/jobs", handleListJobs(m))
	})
}

// collectionStatus is the live state of the target collection, attached
// to status responses alongside the durable record.
type collectionStatus struct {
	Exists bool `json:"exists"`
	Count  int  `json:"count"`
}

type statusResponse struct {
	*Job
	Collection collectionStatus `json:"collection"`
}

type loadResponse struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	ProcessingID string    `json:"processing_id"`
	Timestamp    time.Time `json:"timestamp"`
}

func handleLoadFromURL(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body","code":"`+CodeInvalidRequest+`"}`, http.StatusBadRequest)
			return
		}

		job, err := m.Submit(r.Context(), req)
		if err != nil {
			var verr *ValidationError
			if errors.As(err, &verr) {
				http.Error(w, `{"error":`+jsonString(verr.Message)+`,"code":"`+verr.Code+`"}`, http.StatusBadRequest)
				return
			}
			http.Error(w, `{"error":"failed to create ingestion job"}`, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(loadResponse{
			Success:      true,
			Message:      fmt.Sprintf("ingestion of %s into collection %q started", req.SourceURL, req.CollectionName),
			ProcessingID: job.ID,
			Timestamp:    job.CreatedAt,
		})
	}
}

func handleJobStatus(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		job, err := m.GetStatus(id)
		if errors.Is(err, ErrNotFound) {
			http.Error(w, `{"error":"processing id not found"}`, http.StatusNotFound)
			return
		}
		if errors.Is(err, ErrCorruptRecord) {
			http.Error(w, `{"error":"job record is corrupt"}`, http.StatusUnprocessableEntity)
			return
		}
		if err != nil {
			http.Error(w, `{"error":"failed to read job record"}`, http.StatusInternalServerError)
			return
		}

		resp := statusResponse{Job: job}
		if exists, count, err := m.vdb.Describe(job.CollectionName); err == nil {
			resp.Collection = collectionStatus{Exists: exists, Count: count}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}
}

func handleListJobs(m *Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if v := r.URL.Query().Get("limit"); v != "" {
			limit, _ = strconv.Atoi(v)
		}

		listings, err := m.List(r.Context(), limit)
		if err != nil {
			http.Error(w, `{"error":"failed to list jobs"}`, http.StatusInternalServerError)
			return
		}
		if listings == nil {
			listings = []JobListing{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"jobs": listings})
	}
}

// jsonString safely quotes a message for inline error bodies.
func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
