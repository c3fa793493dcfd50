package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mnp/taskmatch/internal/config"
	"github.com/mnp/taskmatch/internal/conflicts"
	"github.com/mnp/taskmatch/internal/engine"
	"github.com/mnp/taskmatch/internal/extraction"
	"github.com/mnp/taskmatch/internal/llm"
	"github.com/mnp/taskmatch/internal/skills"
	"github.com/mnp/taskmatch/internal/synthesis"
	"github.com/mnp/taskmatch/internal/workload"
)

// defaultSettings are the zero-config runtime settings. Config-file values
// override field by field.
func defaultSettings() config.Config {
	curve := workload.DefaultCurve()
	return config.Config{
		ListenAddr:          ":8080",
		InferenceTimeoutSec: int(extraction.DefaultTimeout / time.Second),
		ContentionWindowHrs: conflicts.DefaultWindowHours,
		SplitThresholdHrs:   synthesis.DefaultSplitThresholdHours,
		UtilizationPeakLow:  curve.PeakLow,
		UtilizationPeakHigh: curve.PeakHigh,
		UtilizationOverload: curve.Overload,
	}
}

// loadSettings reads the optional config file and merges it over the
// defaults.
func loadSettings(path string) (config.Config, error) {
	if path == "" {
		return defaultSettings(), nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return config.Config{}, err
	}
	return cfg.MergeWithDefaults(defaultSettings()), nil
}

// buildNormalizer loads the rule table named in the config, or the built-in
// table when none is named.
func buildNormalizer(cfg config.Config) (*skills.Normalizer, error) {
	if cfg.RuleTablePath == "" {
		return skills.NewNormalizer(nil), nil
	}
	table, err := skills.LoadRuleTable(cfg.RuleTablePath)
	if err != nil {
		return nil, fmt.Errorf("failed to load rule table: %w", err)
	}
	return skills.NewNormalizer(table), nil
}

// buildCurve maps the config breakpoints onto a utilization curve.
func buildCurve(cfg config.Config) workload.UtilizationCurve {
	return workload.UtilizationCurve{
		PeakLow:  cfg.UtilizationPeakLow,
		PeakHigh: cfg.UtilizationPeakHigh,
		Overload: cfg.UtilizationOverload,
	}
}

// buildEngine assembles the analysis pipeline over a Gemini-backed
// extraction provider. The returned closer releases the inference client.
func buildEngine(ctx context.Context, cfg config.Config, apiKey string) (*engine.Engine, func(), error) {
	normalizer, err := buildNormalizer(cfg)
	if err != nil {
		return nil, nil, err
	}

	client, err := llm.NewClient(ctx, llm.DefaultConfig(), apiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create inference client: %w", err)
	}

	provider := extraction.NewGeminiProvider(client, llm.TierStandard)
	extractor := extraction.NewExtractor(provider, normalizer, time.Duration(cfg.InferenceTimeoutSec)*time.Second)
	detector := conflicts.NewDetector(nil, cfg.ContentionWindowHrs)
	synthesizer := synthesis.NewSynthesizer(cfg.SplitThresholdHrs)

	closer := func() { _ = client.Close() }
	return engine.New(extractor, detector, synthesizer), closer, nil
}
