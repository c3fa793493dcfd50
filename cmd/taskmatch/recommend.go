package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mnp/taskmatch/internal/observability"
	"github.com/mnp/taskmatch/internal/performance"
	"github.com/mnp/taskmatch/internal/ranking"
	"github.com/mnp/taskmatch/internal/scoring"
	"github.com/mnp/taskmatch/internal/types"
	"github.com/mnp/taskmatch/internal/workload"
)

var (
	recommendTaskFile       string
	recommendCandidatesFile string
	recommendProfile        string
	recommendTeam           string
	recommendTopN           int
	recommendOutputFile     string
	recommendConfigPath     string
	recommendVerbose        bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Rank candidates for a task from local JSON files",
	Long:  `Rank a candidate pool for one task without a database. The candidates file carries the employees plus optional open assignments and task history per employee.`,
	RunE:  runRecommend,
}

func init() {
	recommendCmd.Flags().StringVarP(&recommendTaskFile, "task", "t", "", "Path to task JSON file (required)")
	recommendCmd.Flags().StringVarP(&recommendCandidatesFile, "candidates", "c", "", "Path to candidate pool JSON file (required)")
	recommendCmd.Flags().StringVar(&recommendProfile, "profile", "", "Scoring profile: standard, emergency or team_scoped")
	recommendCmd.Flags().StringVar(&recommendTeam, "team", "", "Team name (required with the team_scoped profile)")
	recommendCmd.Flags().IntVar(&recommendTopN, "top", 0, "Limit output to the top N candidates (0 = all)")
	recommendCmd.Flags().StringVarP(&recommendOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	recommendCmd.Flags().StringVar(&recommendConfigPath, "config", "", "Path to JSON config file")
	recommendCmd.Flags().BoolVarP(&recommendVerbose, "verbose", "v", false, "Print a human-readable summary to stderr")

	_ = recommendCmd.MarkFlagRequired("task")
	_ = recommendCmd.MarkFlagRequired("candidates")

	rootCmd.AddCommand(recommendCmd)
}

// candidatePoolFile is the on-disk candidate pool format for offline runs.
// Assignments and history are keyed by employee ID; employees without an
// entry score as fully available and performance-unscored.
type candidatePoolFile struct {
	Employees   []types.Employee                     `json:"employees"`
	Assignments map[string][]workload.Assignment     `json:"assignments,omitempty"`
	History     map[string][]performance.TaskOutcome `json:"history,omitempty"`
}

// poolSource serves workload and history lookups from the loaded pool file.
type poolSource struct {
	pool candidatePoolFile
}

func (s *poolSource) OpenAssignments(_ context.Context, employeeID string) ([]workload.Assignment, error) {
	return s.pool.Assignments[employeeID], nil
}

func (s *poolSource) Capacity(_ context.Context, employeeID string) (float64, error) {
	for _, emp := range s.pool.Employees {
		if emp.ID == employeeID {
			return emp.CapacityHoursPerWeek, nil
		}
	}
	return 0, nil
}

func (s *poolSource) TaskOutcomes(_ context.Context, employeeID string) ([]performance.TaskOutcome, error) {
	return s.pool.History[employeeID], nil
}

func runRecommend(_ *cobra.Command, _ []string) error {
	cfg, err := loadSettings(recommendConfigPath)
	if err != nil {
		return err
	}

	task, pool, err := loadRecommendInputs(recommendTaskFile, recommendCandidatesFile)
	if err != nil {
		return err
	}

	profile, err := ranking.LookupProfile(recommendProfile, recommendTeam)
	if err != nil {
		return err
	}
	profile.Curve = buildCurve(cfg)

	normalizer, err := buildNormalizer(cfg)
	if err != nil {
		return err
	}

	source := &poolSource{pool: pool}
	scorer := scoring.NewScorer(normalizer, workload.NewTracker(source), performance.NewRepository(source))
	ranker := ranking.NewRanker(scorer)

	recs, err := ranker.Recommend(context.Background(), task, pool.Employees, profile, recommendTopN)
	if err != nil {
		return fmt.Errorf("failed to rank candidates: %w", err)
	}

	if recommendVerbose {
		observability.NewPrinter(os.Stderr).PrintRecommendations(recs)
	}

	return writeJSON(recommendOutputFile, recs)
}

// loadRecommendInputs reads and decodes the task and candidate pool files.
func loadRecommendInputs(taskPath, candidatesPath string) (types.Task, candidatePoolFile, error) {
	var task types.Task
	var pool candidatePoolFile

	taskData, err := os.ReadFile(taskPath)
	if err != nil {
		return task, pool, fmt.Errorf("failed to read task file: %w", err)
	}
	if err := json.Unmarshal(taskData, &task); err != nil {
		return task, pool, fmt.Errorf("failed to parse task file: %w", err)
	}
	if task.ID == "" {
		return task, pool, &types.ValidationError{Field: "task.id", Message: "task id is required"}
	}

	poolData, err := os.ReadFile(candidatesPath)
	if err != nil {
		return task, pool, fmt.Errorf("failed to read candidates file: %w", err)
	}
	if err := json.Unmarshal(poolData, &pool); err != nil {
		return task, pool, fmt.Errorf("failed to parse candidates file: %w", err)
	}
	if len(pool.Employees) == 0 {
		return task, pool, &types.ValidationError{Field: "employees", Message: "candidate pool is empty"}
	}

	return task, pool, nil
}

// writeJSON marshals v with indentation to the given path, or stdout when
// the path is empty.
func writeJSON(path string, v any) error {
	jsonBytes, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	jsonBytes = append(jsonBytes, '\n')

	if path == "" {
		_, err = os.Stdout.Write(jsonBytes)
		return err
	}
	if err := os.WriteFile(path, jsonBytes, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
