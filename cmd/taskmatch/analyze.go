package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mnp/taskmatch/internal/extraction"
	"github.com/mnp/taskmatch/internal/fetch"
	"github.com/mnp/taskmatch/internal/ingestion"
	"github.com/mnp/taskmatch/internal/observability"
	"github.com/mnp/taskmatch/internal/types"
)

var (
	analyzeInputFile   string
	analyzeURL         string
	analyzeText        string
	analyzeOutputFile  string
	analyzeConfigPath  string
	analyzeAPIKey      string
	analyzeNoTasks     bool
	analyzeNoConflicts bool
	analyzeNoSkills    bool
	analyzeVerbose     bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Extract requirements from a document and derive tasks, conflicts and skills",
	Long:  `Run the requirements-analysis pipeline over a document file or inline text. When the inference provider is unavailable the output carries a labeled placeholder requirement instead of failing.`,
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInputFile, "in", "i", "", "Path to requirements document (.txt, .md, .html, .json, .xml, .pdf, .docx)")
	analyzeCmd.Flags().StringVar(&analyzeURL, "url", "", "URL of a hosted requirements document (alternative to --in)")
	analyzeCmd.Flags().StringVar(&analyzeText, "text", "", "Inline requirements text (alternative to --in)")
	analyzeCmd.Flags().StringVarP(&analyzeOutputFile, "out", "o", "", "Path to output JSON file (default stdout)")
	analyzeCmd.Flags().StringVar(&analyzeConfigPath, "config", "", "Path to JSON config file")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	analyzeCmd.Flags().BoolVar(&analyzeNoTasks, "no-tasks", false, "Skip task draft synthesis")
	analyzeCmd.Flags().BoolVar(&analyzeNoConflicts, "no-conflicts", false, "Skip conflict detection")
	analyzeCmd.Flags().BoolVar(&analyzeNoSkills, "no-skills", false, "Skip skill frequency tally")
	analyzeCmd.Flags().BoolVarP(&analyzeVerbose, "verbose", "v", false, "Print a human-readable summary to stderr")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, _ []string) error {
	sources := 0
	for _, set := range []bool{analyzeInputFile != "", analyzeURL != "", analyzeText != ""} {
		if set {
			sources++
		}
	}
	if sources == 0 {
		return fmt.Errorf("one of --in, --url or --text must be provided")
	}
	if sources > 1 {
		return fmt.Errorf("--in, --url and --text are mutually exclusive")
	}

	apiKey := analyzeAPIKey
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	cfg, err := loadSettings(analyzeConfigPath)
	if err != nil {
		return err
	}

	ctx := context.Background()

	input, err := analysisInput(ctx, analyzeInputFile, analyzeURL, analyzeText)
	if err != nil {
		return err
	}

	eng, closeEngine, err := buildEngine(ctx, cfg, apiKey)
	if err != nil {
		return err
	}
	defer closeEngine()

	report, err := eng.Analyze(ctx, input, types.AnalysisToggles{
		AnalyzeRequirements: true,
		GenerateTasks:       !analyzeNoTasks,
		DetectConflicts:     !analyzeNoConflicts,
		IdentifySkills:      !analyzeNoSkills,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if report.ExtractionDegraded {
		fmt.Fprintf(os.Stderr, "Warning: extraction degraded: %s\n", report.DegradedReason)
	}

	if analyzeVerbose {
		printer := observability.NewPrinter(os.Stderr)
		printer.PrintRequirements(&report)
		printer.PrintTaskDrafts(report.GeneratedTasks)
		printer.PrintConflicts(report.Conflicts)
		printer.PrintSkillFrequency(report.SkillFrequency)
	}

	return writeJSON(analyzeOutputFile, report)
}

// analysisInput prepares the extraction input from a file, a URL or inline
// text.
func analysisInput(ctx context.Context, inputFile, documentURL, text string) (extraction.Input, error) {
	if text != "" {
		return extraction.Input{Text: ingestion.CleanText(text)}, nil
	}

	if documentURL != "" {
		result, err := fetch.Document(ctx, documentURL, nil)
		if err != nil {
			return extraction.Input{}, err
		}
		return ingestion.Prepare(fetchedFilename(result), result.Body)
	}

	data, err := os.ReadFile(inputFile)
	if err != nil {
		return extraction.Input{}, fmt.Errorf("failed to read input file: %w", err)
	}
	return ingestion.Prepare(filepath.Base(inputFile), data)
}

// fetchedFilename derives an ingestion filename for a fetched document. The
// URL path's base name wins when it carries an extension; otherwise the
// Content-Type decides.
func fetchedFilename(result *fetch.Result) string {
	if parsed, err := url.Parse(result.URL); err == nil {
		base := filepath.Base(parsed.Path)
		if filepath.Ext(base) != "" {
			return base
		}
	}

	contentType := result.ContentType
	switch {
	case strings.Contains(contentType, "text/html"):
		return "document.html"
	case strings.Contains(contentType, "application/pdf"):
		return "document.pdf"
	case strings.Contains(contentType, "application/json"):
		return "document.json"
	case strings.Contains(contentType, "text/markdown"):
		return "document.md"
	default:
		return "document.txt"
	}
}
