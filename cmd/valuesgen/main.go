// valuesgen is a GitHub Action that generates an optimized Helm values
// file from operational context using an AI provider. It reads inputs from
// the INPUT_* environment, writes generated_values, ai_analysis, and
// changes_summary outputs, and exits non-zero with an ::error:: workflow
// command on any failure.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"valuesgen/pkg/action"
	"valuesgen/pkg/config"
	"valuesgen/pkg/generator"
	"valuesgen/pkg/logx"
	"valuesgen/pkg/persistence"
)

func main() {
	initSecrets := flag.Bool("init-secrets", false,
		"interactively create the encrypted local secrets file and exit")
	flag.Parse()

	if *initSecrets {
		if err := runInitSecrets(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		action.Errorf("Action failed: %v", err)
		os.Exit(1)
	}
}

func run() error {
	in, err := config.LoadInputs()
	if err != nil {
		return err
	}

	// Local runs can keep provider tokens in an encrypted file instead of
	// the environment; decrypt it before token resolution.
	if err := config.MaybeLoadSecretsFile(); err != nil {
		return logx.Wrap(err, "failed to load secrets file")
	}

	gen, err := generator.NewFromInputs(in)
	if err != nil {
		return err
	}

	start := time.Now()
	result, runErr := gen.Run(context.Background(), in)
	duration := time.Since(start)

	recordHistory(in, result, runErr, duration)

	if path := config.MetricsFilePath(); path != "" {
		if err := gen.FlushMetrics(path); err != nil {
			action.Warningf("Failed to write metrics file: %v", err)
		}
	}

	if runErr != nil {
		return runErr
	}

	for _, out := range []struct {
		name  string
		value string
	}{
		{"generated_values", result.GeneratedValues},
		{"ai_analysis", result.Analysis},
		{"changes_summary", result.ChangesSummary},
	} {
		if err := action.SetOutput(out.name, out.value); err != nil {
			return logx.Wrap(err, "failed to set action output "+out.name)
		}
	}

	logx.Infof("successfully generated optimized values for %s/%s (%d changes)",
		in.AppName, in.Environment, result.ChangeCount)
	action.Noticef("Generated optimized values for %s/%s with %d change(s)",
		in.AppName, in.Environment, result.ChangeCount)
	return nil
}

// recordHistory appends the run to the optional sqlite history database.
// History failures are reported as warnings, never as action failures.
func recordHistory(in *config.Inputs, result *generator.Result, runErr error, duration time.Duration) {
	dbPath := config.HistoryDBPath()
	if dbPath == "" {
		return
	}

	store, err := persistence.Open(dbPath)
	if err != nil {
		action.Warningf("Failed to open run history database: %v", err)
		return
	}
	defer store.Close()

	rec := &persistence.RunRecord{
		ID:          uuid.NewString(),
		CreatedAt:   time.Now(),
		AppName:     in.AppName,
		Environment: in.Environment,
		Provider:    in.Provider,
		Model:       in.Model,
		Status:      persistence.StatusSuccess,
		Duration:    duration,
	}
	if runErr != nil {
		rec.Status = persistence.StatusFailure
		rec.Error = runErr.Error()
	} else if result != nil {
		rec.Model = result.Model
		rec.PromptTokens = result.PromptTokens
		rec.CompletionTokens = result.CompletionTokens
		rec.ChangeCount = result.ChangeCount
	}

	if err := store.InsertRun(rec); err != nil {
		action.Warningf("Failed to record run history: %v", err)
	}
}
