// Package ranking turns per-candidate scores into an ordered recommendation
// list under a named weighting profile.
package ranking

import (
	"fmt"

	"github.com/mnp/taskmatch/internal/performance"
	"github.com/mnp/taskmatch/internal/scoring"
	"github.com/mnp/taskmatch/internal/types"
	"github.com/mnp/taskmatch/internal/workload"
)

// Profile names accepted by LookupProfile.
const (
	ProfileStandard   = "standard"
	ProfileEmergency  = "emergency"
	ProfileTeamScoped = "team_scoped"
)

// StandardProfile balances all four components for routine assignment.
func StandardProfile() scoring.Profile {
	return scoring.Profile{
		Name:                      ProfileStandard,
		Weights:                   types.WeightVector{Skill: 0.35, Availability: 0.25, Workload: 0.20, Performance: 0.20},
		UnknownPerformanceDefault: 0.5,
		Curve:                     workload.DefaultCurve(),
		PerformanceWeights:        performance.DefaultWeights(),
	}
}

// EmergencyProfile favors whoever can start now over best long-term fit.
func EmergencyProfile() scoring.Profile {
	return scoring.Profile{
		Name:                      ProfileEmergency,
		Weights:                   types.WeightVector{Skill: 0.25, Availability: 0.40, Workload: 0.25, Performance: 0.10},
		UnknownPerformanceDefault: 0.5,
		Curve:                     workload.DefaultCurve(),
		PerformanceWeights:        performance.DefaultWeights(),
	}
}

// TeamScopedProfile uses standard weights but restricts the pool to one team.
// The team must be named at request time.
func TeamScopedProfile(team string) scoring.Profile {
	p := StandardProfile()
	p.Name = ProfileTeamScoped
	p.Team = team
	return p
}

// LookupProfile resolves a profile name, applying the team restriction for
// the team-scoped profile. Unknown names and a team-scoped request without a
// team are validation failures.
func LookupProfile(name, team string) (scoring.Profile, error) {
	switch name {
	case "", ProfileStandard:
		return StandardProfile(), nil
	case ProfileEmergency:
		return EmergencyProfile(), nil
	case ProfileTeamScoped:
		if team == "" {
			return scoring.Profile{}, &types.ValidationError{
				Field:   "team",
				Message: "team-scoped profile requires a team",
			}
		}
		return TeamScopedProfile(team), nil
	default:
		return scoring.Profile{}, &types.ValidationError{
			Field:   "profile",
			Message: fmt.Sprintf("unknown profile %q", name),
		}
	}
}
