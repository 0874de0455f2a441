// cmd/astrogen/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"astrogen/internal/category"
	"astrogen/internal/common/config"
	"astrogen/internal/common/logger"
	"astrogen/internal/common/notify"
	"astrogen/internal/genai"
	"astrogen/internal/generator"
	"astrogen/internal/translator"
)

const usage = `Usage:
  astrogen generate <template_path> <base_filename> <data_path>
  astrogen run
  astrogen translate <source_filename>

generate   run one ad-hoc category through the pipeline
run        run every enabled category from the config
translate  translate an existing output document into the support locales`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]
	args := os.Args[2:]

	zapLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			if err := http.ListenAndServe(cfg.Metrics.Address, mux); err != nil {
				log.WithError(err).Warn("metrics listener stopped", nil)
			}
		}()
		log.Info("metrics listener started", map[string]interface{}{"address": cfg.Metrics.Address})
	}

	notifier, err := notify.New(ctx, cfg.Notifications, log)
	if err != nil {
		// Notifications are best-effort; a misconfigured AWS session must not
		// block a generation run.
		log.WithError(err).Warn("notifier unavailable", nil)
		notifier = nil
	}

	client := genai.NewClient(genai.ConfigFromApp(cfg.GenAI), log)
	gen := generator.New(cfg.Generator, client, log)

	startedAt := time.Now()
	var (
		refs       []generator.DocumentRef
		categories []string
		runErr     error
	)

	switch command {
	case "generate":
		if len(args) != 3 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		spec := generator.RunSpec{
			TemplatePath: args[0],
			BaseFilename: args[1],
			DataPath:     args[2],
		}
		categories = []string{strings.TrimSuffix(spec.BaseFilename, ".json")}
		refs, runErr = gen.GenerateData(ctx, spec)

	case "run":
		enabled := category.Enabled(cfg)
		if len(enabled) == 0 {
			log.Warn("no enabled categories configured", nil)
		}
		for _, cat := range enabled {
			categories = append(categories, cat.Name)
			catRefs, err := gen.GenerateData(ctx, cat.RunSpec())
			refs = append(refs, catRefs...)
			if err != nil {
				runErr = err
				break
			}
		}

	case "translate":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, usage)
			os.Exit(2)
		}
		translationClient := client.WithModel(
			cfg.Translation.Model,
			cfg.Translation.Temperature,
			cfg.Translation.MaxTokens,
		)
		runErr = translator.New(cfg, translationClient, log).TranslateFile(ctx, args[0])

	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if notifier != nil {
		summary := notify.RunSummary{
			RunID:      uuid.NewString(),
			Command:    command,
			Categories: categories,
			StartedAt:  startedAt,
			FinishedAt: time.Now(),
			Err:        runErr,
		}
		for _, ref := range refs {
			if !ref.Skipped && ref.Path != "" {
				summary.Documents = append(summary.Documents, ref.Path)
			}
			summary.Failed += ref.Failed
		}
		// Run context may already be cancelled; give delivery its own bound.
		notifyCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		notifier.NotifyRunComplete(notifyCtx, summary)
		cancel()
	}

	if runErr != nil {
		log.WithError(runErr).Error("run failed", map[string]interface{}{"command": command})
		os.Exit(1)
	}

	log.Info("run completed", map[string]interface{}{
		"command":   command,
		"documents": len(refs),
		"elapsed":   time.Since(startedAt).Round(time.Second).String(),
	})
}
