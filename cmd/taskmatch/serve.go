package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mnp/taskmatch/internal/db"
	"github.com/mnp/taskmatch/internal/performance"
	"github.com/mnp/taskmatch/internal/ranking"
	"github.com/mnp/taskmatch/internal/scoring"
	"github.com/mnp/taskmatch/internal/server"
	"github.com/mnp/taskmatch/internal/workload"
)

var (
	serveAddr       string
	serveConfigPath string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes recommendation, analysis, workload and performance endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config file, default :8080)")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadSettings(serveConfigPath)
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("GEMINI_API_KEY")
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	ctx := context.Background()

	store, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	eng, closeEngine, err := buildEngine(ctx, cfg, cfg.APIKey)
	if err != nil {
		store.Close()
		return err
	}
	defer closeEngine()

	normalizer, err := buildNormalizer(cfg)
	if err != nil {
		store.Close()
		return err
	}

	tracker := workload.NewTracker(store)
	repository := performance.NewRepository(store)
	scorer := scoring.NewScorer(normalizer, tracker, repository)

	srv := server.New(server.Config{Addr: cfg.ListenAddr}, server.Dependencies{
		Store:        store,
		Ranker:       ranking.NewRanker(scorer),
		Engine:       eng,
		Workloads:    tracker,
		Performances: repository,
		Curve:        buildCurve(cfg),
	})

	return srv.Start()
}
