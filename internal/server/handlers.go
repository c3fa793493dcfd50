package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/mnp/taskmatch/internal/extraction"
	"github.com/mnp/taskmatch/internal/ingestion"
	"github.com/mnp/taskmatch/internal/ranking"
	"github.com/mnp/taskmatch/internal/scoring"
	"github.com/mnp/taskmatch/internal/types"
)

// RecommendResponse wraps a ranked candidate list.
type RecommendResponse struct {
	TaskID          string                 `json:"task_id"`
	Profile         string                 `json:"profile"`
	Recommendations []types.Recommendation `json:"recommendations"`
}

// handleRecommend ranks a candidate pool for one task.
func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	var req types.RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, &types.ValidationError{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, err)
		return
	}

	profile, err := s.resolveProfile(&req)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	pool := req.Candidates
	if len(pool) == 0 {
		if s.store == nil {
			s.errorResponse(w, &types.ValidationError{
				Field:   "candidates",
				Message: "candidates are required when no employee store is configured",
			})
			return
		}
		pool, err = s.store.ListEmployees(r.Context(), profile.Team)
		if err != nil {
			s.errorResponse(w, &types.DependencyUnavailableError{Dependency: "database", Cause: err})
			return
		}
	}

	recs, err := s.ranker.Recommend(r.Context(), req.Task, pool, profile, req.TopN)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, RecommendResponse{
		TaskID:          req.Task.ID,
		Profile:         profile.Name,
		Recommendations: recs,
	})
}

// resolveProfile picks the scoring profile for a request. An explicit weight
// vector gets the standard tunables with the given weights; otherwise the
// named profile is looked up. The server's configured utilization curve
// applies either way.
func (s *Server) resolveProfile(req *types.RecommendRequest) (scoring.Profile, error) {
	if req.Weights != nil {
		profile := ranking.StandardProfile()
		profile.Name = "custom"
		profile.Weights = *req.Weights
		profile.Team = req.Team
		profile.Curve = s.curve
		return profile, nil
	}
	profile, err := ranking.LookupProfile(req.Profile, req.Team)
	if err != nil {
		return scoring.Profile{}, err
	}
	profile.Curve = s.curve
	return profile, nil
}

// handleAnalyze runs the requirements-analysis pipeline over submitted text
// or a document. A degraded extraction is still a successful response; the
// report carries the degradation flags.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, &types.ValidationError{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, err)
		return
	}

	var input extraction.Input
	var err error
	if len(req.Document) > 0 {
		input, err = ingestion.Prepare(req.Filename, req.Document)
		if err != nil {
			s.errorResponse(w, err)
			return
		}
	} else {
		input = extraction.Input{Text: ingestion.CleanText(req.Text)}
	}

	ctx := r.Context()
	if req.TimeoutSeconds > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.TimeoutSeconds)*time.Second)
		defer cancel()
	}

	report, err := s.engine.Analyze(ctx, input, req.Toggles)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, report)
}

// handleGetWorkload returns the current workload snapshot for an employee.
func (s *Server) handleGetWorkload(w http.ResponseWriter, r *http.Request) {
	if s.workloads == nil {
		s.errorResponse(w, &types.DependencyUnavailableError{Dependency: "workload tracker"})
		return
	}
	snap, err := s.workloads.Snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

// handleRefreshWorkload recomputes an employee's workload snapshot from the
// assignment source, bypassing the cache.
func (s *Server) handleRefreshWorkload(w http.ResponseWriter, r *http.Request) {
	if s.workloads == nil {
		s.errorResponse(w, &types.DependencyUnavailableError{Dependency: "workload tracker"})
		return
	}
	snap, err := s.workloads.Refresh(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, snap)
}

// handleGetPerformance returns the aggregated performance record for an
// employee.
func (s *Server) handleGetPerformance(w http.ResponseWriter, r *http.Request) {
	if s.performance == nil {
		s.errorResponse(w, &types.DependencyUnavailableError{Dependency: "performance repository"})
		return
	}
	rec, err := s.performance.Record(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleRecalculatePerformance rebuilds an employee's performance record
// from task history.
func (s *Server) handleRecalculatePerformance(w http.ResponseWriter, r *http.Request) {
	if s.performance == nil {
		s.errorResponse(w, &types.DependencyUnavailableError{Dependency: "performance repository"})
		return
	}
	rec, err := s.performance.Recalculate(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}
