package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnp/taskmatch/internal/conflicts"
	"github.com/mnp/taskmatch/internal/engine"
	"github.com/mnp/taskmatch/internal/extraction"
	"github.com/mnp/taskmatch/internal/performance"
	"github.com/mnp/taskmatch/internal/ranking"
	"github.com/mnp/taskmatch/internal/scoring"
	"github.com/mnp/taskmatch/internal/synthesis"
	"github.com/mnp/taskmatch/internal/types"
	"github.com/mnp/taskmatch/internal/workload"
)

type stubTaskSource struct {
	assignments map[string][]workload.Assignment
	capacity    map[string]float64
	err         error
}

func (s *stubTaskSource) OpenAssignments(_ context.Context, employeeID string) ([]workload.Assignment, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.assignments[employeeID], nil
}

func (s *stubTaskSource) Capacity(_ context.Context, employeeID string) (float64, error) {
	if s.err != nil {
		return 0, s.err
	}
	return s.capacity[employeeID], nil
}

type stubHistorySource struct {
	outcomes map[string][]performance.TaskOutcome
	err      error
}

func (s *stubHistorySource) TaskOutcomes(_ context.Context, employeeID string) ([]performance.TaskOutcome, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.outcomes[employeeID], nil
}

type stubInferenceProvider struct {
	response string
	err      error
}

func (s *stubInferenceProvider) Infer(context.Context, extraction.Input) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

const serverInferenceResponse = `{
	"requirements": [
		{
			"text": "Build a reporting dashboard with export to CSV",
			"priority": "high",
			"skills": [{"name": "Go", "required_level": "advanced", "mandatory": true}],
			"estimated_hours": 24,
			"depends_on": []
		}
	]
}`

func newTestServer(t *testing.T, provider extraction.Provider) *Server {
	return newTestServerWithCurve(t, provider, workload.UtilizationCurve{})
}

func newTestServerWithCurve(t *testing.T, provider extraction.Provider, curve workload.UtilizationCurve) *Server {
	t.Helper()

	tasks := &stubTaskSource{
		assignments: map[string][]workload.Assignment{
			"emp-busy": {{TaskID: "t-1", EstimatedHours: 36, Status: types.StatusInProgress}},
		},
		capacity: map[string]float64{"emp-busy": 40, "emp-free": 40},
	}
	history := &stubHistorySource{
		outcomes: map[string][]performance.TaskOutcome{
			"emp-free": {
				{TaskID: "h-1", Completed: true, CompletedOnTime: true, QualityRating: 4.5, EstimatedHours: 10, ActualHours: 10},
			},
		},
	}

	tracker := workload.NewTracker(tasks)
	repo := performance.NewRepository(history)
	scorer := scoring.NewScorer(nil, tracker, repo)

	if provider == nil {
		provider = &stubInferenceProvider{response: serverInferenceResponse}
	}
	extractor := extraction.NewExtractor(provider, nil, 0)
	eng := engine.New(extractor, conflicts.NewDetector(nil, 0), synthesis.NewSynthesizer(0))

	return New(Config{Addr: ":0"}, Dependencies{
		Ranker:       ranking.NewRanker(scorer),
		Engine:       eng,
		Workloads:    tracker,
		Performances: repo,
		Curve:        curve,
	})
}

func postJSON(t *testing.T, handler http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func candidatePool() []types.Employee {
	return []types.Employee{
		{
			ID:                   "emp-free",
			Skills:               []types.EmployeeSkill{{Skill: types.Skill{Name: "golang", Type: types.SkillTypeProgrammingLanguage}, Level: types.LevelExpert}},
			CapacityHoursPerWeek: 40,
		},
		{
			ID:                   "emp-busy",
			Skills:               []types.EmployeeSkill{{Skill: types.Skill{Name: "golang", Type: types.SkillTypeProgrammingLanguage}, Level: types.LevelExpert}},
			CapacityHoursPerWeek: 40,
		},
	}
}

func TestHandleRecommend(t *testing.T) {
	srv := newTestServer(t, nil)

	req := types.RecommendRequest{
		Task: types.Task{
			ID:    "task-1",
			Title: "Implement service endpoints",
			RequiredSkills: []types.SkillRequirement{
				{Skill: types.Skill{Name: "Go"}, RequiredLevel: types.LevelAdvanced, Mandatory: true},
			},
		},
		Candidates: candidatePool(),
	}

	rec := postJSON(t, srv.Handler(), "/recommendations", req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RecommendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "task-1", resp.TaskID)
	assert.Equal(t, "standard", resp.Profile)
	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, "emp-free", resp.Recommendations[0].EmployeeID)
	assert.Equal(t, 1, resp.Recommendations[0].Rank)
	assert.Greater(t, resp.Recommendations[0].OverallScore, resp.Recommendations[1].OverallScore)
}

func TestHandleRecommendCustomWeights(t *testing.T) {
	srv := newTestServer(t, nil)

	req := types.RecommendRequest{
		Task:       types.Task{ID: "task-1", Title: "Availability only"},
		Candidates: candidatePool(),
		Weights:    &types.WeightVector{Skill: 0, Availability: 1, Workload: 0, Performance: 0},
	}

	rec := postJSON(t, srv.Handler(), "/recommendations", req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp RecommendResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "custom", resp.Profile)
	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, "emp-free", resp.Recommendations[0].EmployeeID)
	assert.InDelta(t, 1.0, resp.Recommendations[0].OverallScore, 1e-9)
}

func TestHandleRecommendConfiguredCurve(t *testing.T) {
	// emp-busy sits at 90% utilization: past the default productive range,
	// inside this widened one.
	wide := workload.UtilizationCurve{PeakLow: 0.5, PeakHigh: 0.95, Overload: 1.0}

	req := types.RecommendRequest{
		Task:       types.Task{ID: "task-1", Title: "Workload only"},
		Candidates: candidatePool(),
		Weights:    &types.WeightVector{Skill: 0, Availability: 0, Workload: 1, Performance: 0},
	}

	busyScore := func(srv *Server) float64 {
		rec := postJSON(t, srv.Handler(), "/recommendations", req)
		require.Equal(t, http.StatusOK, rec.Code)
		var resp RecommendResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		for _, r := range resp.Recommendations {
			if r.EmployeeID == "emp-busy" {
				return r.WorkloadScore
			}
		}
		t.Fatal("emp-busy not in response")
		return 0
	}

	assert.InDelta(t, 1.0, busyScore(newTestServerWithCurve(t, nil, wide)), 1e-9)
	assert.InDelta(t, (1.0-0.9)/(1.0-0.85), busyScore(newTestServer(t, nil)), 1e-9)
}

func TestHandleRecommendValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name string
		req  types.RecommendRequest
	}{
		{
			name: "missing task id",
			req:  types.RecommendRequest{Candidates: candidatePool()},
		},
		{
			name: "profile and weights together",
			req: types.RecommendRequest{
				Task:       types.Task{ID: "task-1", Title: "T"},
				Candidates: candidatePool(),
				Profile:    ranking.ProfileStandard,
				Weights:    &types.WeightVector{Skill: 1},
			},
		},
		{
			name: "unknown profile",
			req: types.RecommendRequest{
				Task:       types.Task{ID: "task-1", Title: "T"},
				Candidates: candidatePool(),
				Profile:    "aggressive",
			},
		},
		{
			name: "no candidates and no store",
			req:  types.RecommendRequest{Task: types.Task{ID: "task-1", Title: "T"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, srv.Handler(), "/recommendations", tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleRecommendBadWeights(t *testing.T) {
	srv := newTestServer(t, nil)

	req := types.RecommendRequest{
		Task:       types.Task{ID: "task-1", Title: "T"},
		Candidates: candidatePool(),
		Weights:    &types.WeightVector{Skill: 0.5, Availability: 0.5, Workload: 0.5, Performance: 0.5},
	}

	rec := postJSON(t, srv.Handler(), "/recommendations", req)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestHandleAnalyze(t *testing.T) {
	srv := newTestServer(t, nil)

	req := types.AnalyzeRequest{
		Text: "The system shall provide a reporting dashboard.",
		Toggles: types.AnalysisToggles{
			AnalyzeRequirements: true,
			GenerateTasks:       true,
			IdentifySkills:      true,
		},
	}

	rec := postJSON(t, srv.Handler(), "/analysis", req)
	require.Equal(t, http.StatusOK, rec.Code)

	var report types.AnalysisReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.False(t, report.ExtractionDegraded)
	require.Len(t, report.Requirements, 1)
	assert.Equal(t, "golang", report.Requirements[0].DerivedSkills[0].Skill.Name)
	require.Len(t, report.GeneratedTasks, 1)
	require.Len(t, report.SkillFrequency, 1)
	assert.Equal(t, 1, report.SkillFrequency[0].Count)
}

func TestHandleAnalyzeDegradedProviderStillOK(t *testing.T) {
	srv := newTestServer(t, &stubInferenceProvider{err: fmt.Errorf("model overloaded")})

	req := types.AnalyzeRequest{
		Text:    "The system shall provide a reporting dashboard.",
		Toggles: types.AnalysisToggles{AnalyzeRequirements: true},
	}

	rec := postJSON(t, srv.Handler(), "/analysis", req)
	require.Equal(t, http.StatusOK, rec.Code)

	var report types.AnalysisReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.ExtractionDegraded)
	assert.Contains(t, report.DegradedReason, "model overloaded")
	require.Len(t, report.Requirements, 1)
}

func TestHandleAnalyzeValidation(t *testing.T) {
	srv := newTestServer(t, nil)

	tests := []struct {
		name string
		req  types.AnalyzeRequest
	}{
		{name: "empty"},
		{
			name: "text and document together",
			req:  types.AnalyzeRequest{Text: "a", Document: []byte("b"), Filename: "b.txt"},
		},
		{
			name: "document without filename",
			req:  types.AnalyzeRequest{Document: []byte("content")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, srv.Handler(), "/analysis", tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestHandleWorkloadEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/employees/emp-busy/workload", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var snap types.WorkloadSnapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "emp-busy", snap.EmployeeID)
	assert.InDelta(t, 36.0, snap.AssignedHours, 1e-9)
	assert.InDelta(t, 40.0, snap.CapacityHoursPerWeek, 1e-9)

	req = httptest.NewRequest(http.MethodPost, "/employees/emp-busy/workload/refresh", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleWorkloadSourceDown(t *testing.T) {
	tracker := workload.NewTracker(&stubTaskSource{err: fmt.Errorf("connection refused")})
	srv := New(Config{Addr: ":0"}, Dependencies{Workloads: tracker})

	req := httptest.NewRequest(http.MethodGet, "/employees/emp-1/workload", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestHandlePerformanceEndpoints(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/employees/emp-free/performance", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var record types.PerformanceRecord
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &record))
	assert.Equal(t, "emp-free", record.EmployeeID)
	assert.Equal(t, 1, record.TasksCompleted)
	assert.InDelta(t, 4.5, record.QualityScore, 1e-9)

	req = httptest.NewRequest(http.MethodPost, "/employees/emp-free/performance/recalculate", nil)
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	srv := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestRateLimitHeadersPresent(t *testing.T) {
	srv := newTestServer(t, nil)

	rec := postJSON(t, srv.Handler(), "/recommendations", types.RecommendRequest{
		Task:       types.Task{ID: "task-1", Title: "T"},
		Candidates: candidatePool(),
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Remaining"))
}
