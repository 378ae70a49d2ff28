package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/recmetrics/recmetrics/internal/adapters/database"
	"github.com/recmetrics/recmetrics/internal/adapters/reports"
	"github.com/recmetrics/recmetrics/internal/dataset"
	"github.com/recmetrics/recmetrics/internal/infrastructure/clients/postgres"
	"github.com/recmetrics/recmetrics/internal/infrastructure/clients/redis"
	"github.com/recmetrics/recmetrics/internal/infrastructure/observability"
	"github.com/recmetrics/recmetrics/internal/metrics"
	"github.com/recmetrics/recmetrics/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)
	ctx := context.Background()

	if cfg.OTEL.Enabled {
		shutdown, err := observability.SetupTracing(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to set up tracing")
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				log.Warn().Err(err).Msg("tracing shutdown failed")
			}
		}()
	}

	reco, interactions, catalogSize, err := loadTables(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load evaluation tables")
	}

	if err := dataset.ValidateReco(reco); err != nil {
		log.Fatal().Err(err).Msg("invalid recommendation table")
	}

	requested := buildMetricSet(cfg, catalogSize)

	var catalog dataset.Catalog
	if catalogSize > 0 {
		catalog = dataset.CatalogSize(catalogSize)
	}

	tracer := observability.Tracer("evaluate")
	evalCtx, span := tracer.Start(ctx, "classification-metrics")

	for _, k := range cfg.Eval.Ks {
		if short := dataset.ShortLists(reco, k); len(short) > 0 {
			observability.LoggerFromContext(evalCtx).Warn().
				Int("k", k).
				Int("users", len(short)).
				Msg("users with fewer recommendations than cutoff, false positives overstated")
		}
	}

	merged := dataset.MergeReco(reco, interactions)
	results, err := metrics.CalcClassificationMetrics(requested, merged, catalog)
	span.End()
	if err != nil {
		log.Fatal().Err(err).Msg("evaluation failed")
	}

	report := reports.NewEvalReport(datasetName(cfg), catalogSize, results)

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to encode report")
	}
	fmt.Println(string(out))

	if cfg.Eval.StoreReport {
		redisClient, err := redis.NewClient(&cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer redisClient.Close()

		store := reports.NewStore(redisClient, 30*24*time.Hour)
		if err := store.Save(ctx, report); err != nil {
			log.Fatal().Err(err).Msg("failed to store report")
		}
		log.Info().Str("run_id", report.RunID.String()).Msg("report stored")
	}
}

func loadTables(ctx context.Context, cfg *config.Config) ([]dataset.RecoRow, []dataset.Interaction, int, error) {
	if cfg.Eval.Source == "postgres" {
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			return nil, nil, 0, err
		}
		defer pgClient.Close()

		adapter := database.NewDatasetAdapter(pgClient)
		reco, err := adapter.Recommendations(ctx, cfg.Eval.RunID)
		if err != nil {
			return nil, nil, 0, err
		}
		interactions, err := adapter.Interactions(ctx, cfg.Eval.RunID)
		if err != nil {
			return nil, nil, 0, err
		}

		catalogSize := cfg.Eval.CatalogSize
		if catalogSize == 0 {
			catalogSize, err = adapter.CatalogSize(ctx, cfg.Eval.RunID)
			if err != nil {
				return nil, nil, 0, err
			}
		}
		return reco, interactions, catalogSize, nil
	}

	reco, err := dataset.LoadRecoCSV(cfg.Eval.RecoPath)
	if err != nil {
		return nil, nil, 0, err
	}
	interactions, err := dataset.LoadInteractionsCSV(cfg.Eval.InteractionsPath)
	if err != nil {
		return nil, nil, 0, err
	}
	return reco, interactions, cfg.Eval.CatalogSize, nil
}

// buildMetricSet assembles the requested metric configurations. Catalog
// metrics are included only when a catalog size is known; debiased twins
// are added when debiasing is enabled.
func buildMetricSet(cfg *config.Config, catalogSize int) map[string]metrics.Metric {
	params := dataset.DownsampleParams{
		IQRCoef: cfg.Eval.DebiasIQRCoef,
		Seed:    cfg.Eval.DebiasSeed,
	}

	requested := make(map[string]metrics.Metric)
	for _, k := range cfg.Eval.Ks {
		simple := make(map[string]metrics.SimpleClassificationMetric, 3)
		simple[fmt.Sprintf("precision@%d", k)] = metrics.NewPrecision(k)
		simple[fmt.Sprintf("recall@%d", k)] = metrics.NewRecall(k)
		simple[fmt.Sprintf("f%g@%d", cfg.Eval.FBeta, k)] = metrics.NewFBeta(k, cfg.Eval.FBeta)
		for name, m := range simple {
			requested[name] = m
			if cfg.Eval.Debias {
				requested["debiased_"+name] = metrics.NewDebiasedSimple(m, params)
			}
		}

		if catalogSize > 0 {
			withCatalog := make(map[string]metrics.ClassificationMetric, 2)
			withCatalog[fmt.Sprintf("accuracy@%d", k)] = metrics.NewAccuracy(k)
			withCatalog[fmt.Sprintf("mcc@%d", k)] = metrics.NewMCC(k)
			for name, m := range withCatalog {
				requested[name] = m
				if cfg.Eval.Debias {
					requested["debiased_"+name] = metrics.NewDebiasedCatalog(m, params)
				}
			}
		}
	}
	return requested
}

func datasetName(cfg *config.Config) string {
	if cfg.Eval.Source == "postgres" {
		return fmt.Sprintf("postgres:%s", cfg.Eval.RunID)
	}
	return cfg.Eval.RecoPath
}
