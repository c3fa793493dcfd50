package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mnp/taskmatch/internal/types"
)

// GetEmployee loads one employee with their skills. Returns nil when the
// employee does not exist.
func (s *Store) GetEmployee(ctx context.Context, employeeID string) (*types.Employee, error) {
	var emp types.Employee
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, team, capacity_hours_per_week
		 FROM employees WHERE id = $1`,
		employeeID,
	).Scan(&emp.ID, &emp.Name, &emp.Team, &emp.CapacityHoursPerWeek)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee %s: %w", employeeID, err)
	}

	skills, err := s.employeeSkills(ctx, employeeID)
	if err != nil {
		return nil, err
	}
	emp.Skills = skills
	return &emp, nil
}

// ListEmployees loads the full pool, optionally restricted to one team.
func (s *Store) ListEmployees(ctx context.Context, team string) ([]types.Employee, error) {
	query := `SELECT id, name, team, capacity_hours_per_week FROM employees ORDER BY id`
	args := []any{}
	if team != "" {
		query = `SELECT id, name, team, capacity_hours_per_week FROM employees WHERE team = $1 ORDER BY id`
		args = append(args, team)
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	employees := make([]types.Employee, 0)
	for rows.Next() {
		var emp types.Employee
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.Team, &emp.CapacityHoursPerWeek); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	for i := range employees {
		skills, err := s.employeeSkills(ctx, employees[i].ID)
		if err != nil {
			return nil, err
		}
		employees[i].Skills = skills
	}
	return employees, nil
}

func (s *Store) employeeSkills(ctx context.Context, employeeID string) ([]types.EmployeeSkill, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT skill_name, skill_type, proficiency
		 FROM employee_skills WHERE employee_id = $1 ORDER BY skill_name`,
		employeeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get skills for employee %s: %w", employeeID, err)
	}
	defer rows.Close()

	skills := make([]types.EmployeeSkill, 0)
	for rows.Next() {
		var name, skillType, proficiency string
		if err := rows.Scan(&name, &skillType, &proficiency); err != nil {
			return nil, fmt.Errorf("failed to scan employee skill: %w", err)
		}
		level, err := types.ParseProficiencyLevel(proficiency)
		if err != nil {
			return nil, fmt.Errorf("employee %s skill %s: %w", employeeID, name, err)
		}
		skills = append(skills, types.EmployeeSkill{
			Skill: types.Skill{Name: name, Type: types.SkillType(skillType)},
			Level: level,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee skills: %w", err)
	}
	return skills, nil
}

// Capacity implements workload.TaskSource. Zero means unknown capacity.
func (s *Store) Capacity(ctx context.Context, employeeID string) (float64, error) {
	var capacity float64
	err := s.pool.QueryRow(ctx,
		`SELECT capacity_hours_per_week FROM employees WHERE id = $1`,
		employeeID,
	).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get capacity for employee %s: %w", employeeID, err)
	}
	return capacity, nil
}
