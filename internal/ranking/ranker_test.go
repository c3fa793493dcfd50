package ranking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mnp/taskmatch/internal/scoring"
	"github.com/mnp/taskmatch/internal/types"
)

type fakeWorkloadSource struct {
	snapshots map[string]types.WorkloadSnapshot
}

func (f *fakeWorkloadSource) Snapshot(_ context.Context, employeeID string) (types.WorkloadSnapshot, error) {
	snap, ok := f.snapshots[employeeID]
	if !ok {
		return types.WorkloadSnapshot{}, errors.New("unknown employee")
	}
	return snap, nil
}

type fakePerformanceSource struct {
	records map[string]types.PerformanceRecord
}

func (f *fakePerformanceSource) Record(_ context.Context, employeeID string) (types.PerformanceRecord, error) {
	rec, ok := f.records[employeeID]
	if !ok {
		return types.PerformanceRecord{}, errors.New("unknown employee")
	}
	return rec, nil
}

func snapshotFor(id string, assigned, capacity float64) types.WorkloadSnapshot {
	return types.WorkloadSnapshot{EmployeeID: id, AssignedHours: assigned, CapacityHoursPerWeek: capacity}
}

func solidRecord(id string) types.PerformanceRecord {
	return types.PerformanceRecord{
		EmployeeID:         id,
		QualityScore:       4.0,
		TimelinessScorePct: 80,
		CompletionRatePct:  90,
		EfficiencyScorePct: 100,
		TasksAssigned:      10,
		TasksCompleted:     9,
		TasksOnTime:        8,
	}
}

func golangTask() types.Task {
	return types.Task{
		ID: "T1",
		RequiredSkills: []types.SkillRequirement{
			{Skill: types.Skill{Name: "golang"}, RequiredLevel: types.LevelAdvanced, Mandatory: true},
		},
	}
}

func newTestRanker(workloads *fakeWorkloadSource, performances *fakePerformanceSource) *Ranker {
	return NewRanker(scoring.NewScorer(nil, workloads, performances))
}

func TestRecommendProfileFlipsOrdering(t *testing.T) {
	// E-skill is the strongest match but nearly fully booked. E-free has
	// none of the required skills but most of the week open.
	pool := []types.Employee{
		{
			ID:                   "E-skill",
			Skills:               []types.EmployeeSkill{{Skill: types.Skill{Name: "golang"}, Level: types.LevelExpert}},
			CapacityHoursPerWeek: 40,
		},
		{ID: "E-free", CapacityHoursPerWeek: 40},
	}
	workloads := &fakeWorkloadSource{snapshots: map[string]types.WorkloadSnapshot{
		"E-skill": snapshotFor("E-skill", 38, 40),
		"E-free":  snapshotFor("E-free", 10, 40),
	}}
	performances := &fakePerformanceSource{records: map[string]types.PerformanceRecord{
		"E-skill": solidRecord("E-skill"),
		"E-free":  solidRecord("E-free"),
	}}
	ranker := newTestRanker(workloads, performances)

	standard, err := ranker.Recommend(context.Background(), golangTask(), pool, StandardProfile(), 0)
	require.NoError(t, err)
	require.Len(t, standard, 2)
	assert.Equal(t, "E-skill", standard[0].EmployeeID)
	assert.Equal(t, 1, standard[0].Rank)
	assert.Equal(t, 2, standard[1].Rank)

	emergency, err := ranker.Recommend(context.Background(), golangTask(), pool, EmergencyProfile(), 0)
	require.NoError(t, err)
	require.Len(t, emergency, 2)
	assert.Equal(t, "E-free", emergency[0].EmployeeID)
}

func TestRecommendDeterministicTieBreak(t *testing.T) {
	// Identical candidates in reverse ID order must come back ID-ascending.
	pool := []types.Employee{
		{ID: "E2", CapacityHoursPerWeek: 40},
		{ID: "E1", CapacityHoursPerWeek: 40},
	}
	workloads := &fakeWorkloadSource{snapshots: map[string]types.WorkloadSnapshot{
		"E1": snapshotFor("E1", 30, 40),
		"E2": snapshotFor("E2", 30, 40),
	}}
	performances := &fakePerformanceSource{records: map[string]types.PerformanceRecord{
		"E1": solidRecord("E1"),
		"E2": solidRecord("E2"),
	}}
	ranker := newTestRanker(workloads, performances)

	for i := 0; i < 10; i++ {
		recs, err := ranker.Recommend(context.Background(), types.Task{ID: "T1"}, pool, StandardProfile(), 0)
		require.NoError(t, err)
		require.Len(t, recs, 2)
		assert.Equal(t, "E1", recs[0].EmployeeID)
		assert.Equal(t, "E2", recs[1].EmployeeID)
	}
}

func TestRecommendDedupKeepsFirst(t *testing.T) {
	pool := []types.Employee{
		{ID: "E1", Name: "first", CapacityHoursPerWeek: 40},
		{ID: "E1", Name: "duplicate", CapacityHoursPerWeek: 20},
	}
	workloads := &fakeWorkloadSource{snapshots: map[string]types.WorkloadSnapshot{
		"E1": snapshotFor("E1", 30, 40),
	}}
	performances := &fakePerformanceSource{records: map[string]types.PerformanceRecord{
		"E1": solidRecord("E1"),
	}}
	ranker := newTestRanker(workloads, performances)

	recs, err := ranker.Recommend(context.Background(), types.Task{ID: "T1"}, pool, StandardProfile(), 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
}

func TestRecommendEmptyPool(t *testing.T) {
	ranker := newTestRanker(&fakeWorkloadSource{}, &fakePerformanceSource{})

	recs, err := ranker.Recommend(context.Background(), types.Task{ID: "T1"}, nil, StandardProfile(), 0)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestRecommendTeamScoped(t *testing.T) {
	pool := []types.Employee{
		{ID: "E1", Team: "payments", CapacityHoursPerWeek: 40},
		{ID: "E2", Team: "search", CapacityHoursPerWeek: 40},
	}
	workloads := &fakeWorkloadSource{snapshots: map[string]types.WorkloadSnapshot{
		"E1": snapshotFor("E1", 30, 40),
		"E2": snapshotFor("E2", 30, 40),
	}}
	performances := &fakePerformanceSource{records: map[string]types.PerformanceRecord{
		"E1": solidRecord("E1"),
		"E2": solidRecord("E2"),
	}}
	ranker := newTestRanker(workloads, performances)

	recs, err := ranker.Recommend(context.Background(), types.Task{ID: "T1"}, pool, TeamScopedProfile("payments"), 0)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "E1", recs[0].EmployeeID)

	_, err = ranker.Recommend(context.Background(), types.Task{ID: "T1"}, pool, TeamScopedProfile("platform"), 0)
	require.Error(t, err)

	var validation *types.ValidationError
	assert.True(t, errors.As(err, &validation))
}

func TestRecommendTopN(t *testing.T) {
	pool := make([]types.Employee, 0, 5)
	workloads := &fakeWorkloadSource{snapshots: map[string]types.WorkloadSnapshot{}}
	performances := &fakePerformanceSource{records: map[string]types.PerformanceRecord{}}
	for _, id := range []string{"E1", "E2", "E3", "E4", "E5"} {
		pool = append(pool, types.Employee{ID: id, CapacityHoursPerWeek: 40})
		workloads.snapshots[id] = snapshotFor(id, 30, 40)
		performances.records[id] = solidRecord(id)
	}
	ranker := newTestRanker(workloads, performances)

	recs, err := ranker.Recommend(context.Background(), types.Task{ID: "T1"}, pool, StandardProfile(), 3)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []int{1, 2, 3}, []int{recs[0].Rank, recs[1].Rank, recs[2].Rank})
}

func TestRecommendInvalidWeights(t *testing.T) {
	ranker := newTestRanker(&fakeWorkloadSource{}, &fakePerformanceSource{})
	profile := StandardProfile()
	profile.Weights.Skill = 0.9

	_, err := ranker.Recommend(context.Background(), types.Task{ID: "T1"}, nil, profile, 0)
	require.Error(t, err)

	var integrity *types.DataIntegrityError
	assert.True(t, errors.As(err, &integrity))
}

func TestLookupProfile(t *testing.T) {
	tests := []struct {
		name        string
		profileName string
		team        string
		wantName    string
		wantErr     bool
	}{
		{name: "empty defaults to standard", profileName: "", wantName: ProfileStandard},
		{name: "standard", profileName: "standard", wantName: ProfileStandard},
		{name: "emergency", profileName: "emergency", wantName: ProfileEmergency},
		{name: "team scoped with team", profileName: "team_scoped", team: "payments", wantName: ProfileTeamScoped},
		{name: "team scoped without team", profileName: "team_scoped", wantErr: true},
		{name: "unknown", profileName: "aggressive", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := LookupProfile(tt.profileName, tt.team)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, profile.Name)
			assert.Equal(t, tt.team, profile.Team)
			require.NoError(t, profile.Validate())
		})
	}
}
