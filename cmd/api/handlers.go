package main

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/TalentForge/talentforge-mvp/engine/domain"
	"github.com/TalentForge/talentforge-mvp/engine/graph"
	"github.com/TalentForge/talentforge-mvp/engine/index"
	"github.com/TalentForge/talentforge-mvp/engine/ingest"
	"github.com/TalentForge/talentforge-mvp/engine/match"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors onto HTTP statuses. Internal detail stays in
// the log; clients get a generic body.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	switch {
	case domain.IsValidation(err):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	default:
		logger.Error("request failed", "err", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func handleHealth(store *index.Store, skillGraph *graph.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{"status": "ok", "dims": store.Dims()}
		if skillGraph != nil {
			if counts, err := skillGraph.NodeCounts(r.Context()); err == nil {
				body["graph"] = counts
			}
		}
		writeJSON(w, http.StatusOK, body)
	}
}

func handleStoreCandidate(pipeline *ingest.Pipeline, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c domain.Candidate
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if err := pipeline.StoreCandidate(r.Context(), c); err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"email": c.Email})
	}
}

func handleStoreJob(pipeline *ingest.Pipeline, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var j domain.Job
		if err := json.NewDecoder(r.Body).Decode(&j); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		id, err := pipeline.StoreJob(r.Context(), j)
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusCreated, map[string]string{"job_id": id})
	}
}

// SearchRequest is the JSON body for POST /api/search/candidates.
type SearchRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	TopK        int    `json:"top_k,omitempty"`
}

// MatchesResponse wraps a result list.
type MatchesResponse struct {
	Matches []match.MatchResult `json:"matches"`
}

func handleSearchCandidates(o *match.Orchestrator, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SearchRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}
		if req.Title == "" && req.Description == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title or description is required"})
			return
		}

		results, err := o.FindMatches(r.Context(), match.Query{
			Target: domain.KindCandidate,
			Text:   req.Title + " " + req.Description,
			TopK:   req.TopK,
		})
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, MatchesResponse{Matches: results})
	}
}

func handleMatchCandidates(o *match.Orchestrator, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := o.FindMatches(r.Context(), match.Query{
			Target:        domain.KindCandidate,
			SourceID:      r.PathValue("jobID"),
			WithQuestions: true,
		})
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, MatchesResponse{Matches: results})
	}
}

func handleMatchJobs(o *match.Orchestrator, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results, err := o.FindMatches(r.Context(), match.Query{
			Target:   domain.KindJob,
			SourceID: r.PathValue("email"),
			FilterID: r.URL.Query().Get("jobId"),
		})
		if err != nil {
			writeError(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, MatchesResponse{Matches: results})
	}
}
