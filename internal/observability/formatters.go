// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/mnp/taskmatch/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintRecommendations outputs the ranked candidate list with component
// scores and the top reasons.
func (p *Printer) PrintRecommendations(recs []types.Recommendation) {
	if len(recs) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Candidates ranked: %d\n\n", len(recs)))

	count := min(len(recs), maxItemsToShow)
	for i := 0; i < count; i++ {
		rec := recs[i]
		sb.WriteString(fmt.Sprintf("#%d  %s\n", rec.Rank, rec.EmployeeID))
		sb.WriteString(fmt.Sprintf("    Overall: %.2f  (skill %.2f, avail %.2f, load %.2f, perf %.2f)\n",
			rec.OverallScore, rec.SkillMatchScore, rec.AvailabilityScore, rec.WorkloadScore, rec.PerformanceScore))
		if rec.Degraded {
			sb.WriteString("    (scored with neutral defaults)\n")
		}
		if len(rec.Reasons) > 0 {
			reason := rec.Reasons[0]
			if len(reason) > 48 {
				reason = reason[:45] + "..."
			}
			sb.WriteString(fmt.Sprintf("    %s\n", reason))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(recs) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more candidates", len(recs)-maxItemsToShow))
	}

	p.printBox("RANKED CANDIDATES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRequirements outputs the extracted requirements with priorities and
// derived skills.
func (p *Printer) PrintRequirements(report *types.AnalysisReport) {
	if report == nil || len(report.Requirements) == 0 {
		return
	}

	var sb strings.Builder
	if report.ExtractionDegraded {
		sb.WriteString("EXTRACTION DEGRADED: ")
		sb.WriteString(report.DegradedReason)
		sb.WriteString("\n\n")
	}
	sb.WriteString(fmt.Sprintf("Requirements extracted: %d\n\n", len(report.Requirements)))

	count := min(len(report.Requirements), maxItemsToShow)
	for i := 0; i < count; i++ {
		req := report.Requirements[i]
		text := req.Text
		if len(text) > 50 {
			text = text[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s\n", text))
		sb.WriteString(fmt.Sprintf("  priority: %s", req.Priority))
		if req.EstimatedHours > 0 {
			sb.WriteString(fmt.Sprintf("  est: %.0fh", req.EstimatedHours))
		}
		sb.WriteString("\n")
		if len(req.DerivedSkills) > 0 {
			names := make([]string, 0, len(req.DerivedSkills))
			for _, s := range req.DerivedSkills {
				names = append(names, s.Skill.Name)
			}
			skills := strings.Join(names, ", ")
			if len(skills) > 40 {
				skills = skills[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("  [%s]\n", skills))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(report.Requirements) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more requirements", len(report.Requirements)-maxItemsToShow))
	}

	p.printBox("EXTRACTED REQUIREMENTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintTaskDrafts outputs the synthesized task drafts.
func (p *Printer) PrintTaskDrafts(drafts []types.TaskDraft) {
	if len(drafts) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Drafts generated: %d\n\n", len(drafts)))

	count := min(len(drafts), maxItemsToShow)
	for i := 0; i < count; i++ {
		draft := drafts[i]
		title := draft.Title
		if len(title) > 50 {
			title = title[:47] + "..."
		}
		sb.WriteString(fmt.Sprintf("• %s\n", title))
		sb.WriteString(fmt.Sprintf("  %.0fh", draft.EstimatedHours))
		if len(draft.DependsOn) > 0 {
			sb.WriteString(fmt.Sprintf("  (waits on %d)", len(draft.DependsOn)))
		}
		sb.WriteString("\n")
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(drafts) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more drafts", len(drafts)-maxItemsToShow))
	}

	p.printBox("GENERATED TASK DRAFTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintConflicts outputs detected conflicts grouped with their suggestions.
func (p *Printer) PrintConflicts(conflicts []types.Conflict) {
	if len(conflicts) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Conflicts detected: %d\n\n", len(conflicts)))

	count := min(len(conflicts), maxItemsToShow)
	for i := 0; i < count; i++ {
		c := conflicts[i]
		desc := c.Description
		if len(desc) > 48 {
			desc = desc[:45] + "..."
		}
		sb.WriteString(fmt.Sprintf("[%s] %s\n", c.Severity, desc))
		if c.Suggestion != "" {
			suggestion := c.Suggestion
			if len(suggestion) > 46 {
				suggestion = suggestion[:43] + "..."
			}
			sb.WriteString(fmt.Sprintf("  → %s\n", suggestion))
		}
		if i < count-1 {
			sb.WriteString("\n")
		}
	}

	if len(conflicts) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("\n... and %d more conflicts", len(conflicts)-maxItemsToShow))
	}

	p.printBox("DETECTED CONFLICTS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSkillFrequency outputs the skill tally across a requirement set.
func (p *Printer) PrintSkillFrequency(freqs []types.SkillFrequency) {
	if len(freqs) == 0 {
		return
	}

	var sb strings.Builder
	count := min(len(freqs), maxItemsToShow*2)
	for i := 0; i < count; i++ {
		f := freqs[i]
		sb.WriteString(fmt.Sprintf("%-24s %3d  (%s)\n", f.Skill.Name, f.Count, f.Priority))
	}
	if len(freqs) > count {
		sb.WriteString(fmt.Sprintf("... and %d more skills\n", len(freqs)-count))
	}

	p.printBox("SKILL DEMAND", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintWorkload outputs one employee's workload snapshot.
func (p *Printer) PrintWorkload(snap *types.WorkloadSnapshot) {
	if snap == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Employee:  %s\n", snap.EmployeeID))
	sb.WriteString(fmt.Sprintf("Assigned:  %.1fh\n", snap.AssignedHours))
	sb.WriteString(fmt.Sprintf("Capacity:  %.1fh/week\n", snap.CapacityHoursPerWeek))
	sb.WriteString(fmt.Sprintf("Utilized:  %.0f%%", snap.Utilization()*100))

	p.printBox("WORKLOAD SNAPSHOT", sb.String())
}
