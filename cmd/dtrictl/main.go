package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"dtri/pkg/contentrisk"
	"dtri/pkg/forecast"
	"dtri/pkg/governance"
	"dtri/pkg/governance/pgstore"
	"dtri/pkg/governance/redisstore"
	otelobs "dtri/pkg/observability/otel"
	"dtri/pkg/retrain"
	"dtri/pkg/scoring"
	"dtri/pkg/trustconfig"
)

func main() {
	log.SetFlags(0)
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	shutdown := otelobs.InitTracer("dtrictl")
	defer shutdown(context.Background())

	switch os.Args[1] {
	case "score":
		runScore(os.Args[2:])
	case "forecast":
		runForecast(os.Args[2:])
	case "assess":
		runAssess(os.Args[2:])
	case "evaluate":
		runEvaluate(os.Args[2:])
	case "unfreeze":
		runUnfreeze(os.Args[2:])
	case "status":
		runStatus(os.Args[2:])
	default:
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("dtrictl <score|forecast|assess|evaluate|unfreeze|status> [flags]")
}

func loadConfig(path string) trustconfig.Config {
	if path == "" {
		return trustconfig.Default()
	}
	cfg, err := trustconfig.Load(path)
	if err != nil {
		log.Fatal(err)
	}
	return cfg
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}

func runScore(args []string) {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file (defaults compiled in)")
	brand := fs.String("brand", "", "brand name for segment benchmark selection")
	entity := fs.String("entity", "", "entity id stamped on the composite snapshot")
	internal := fs.Float64("internal", 0, "internal execution index")
	external := fs.Float64("external", 0, "external perception index")
	overall := fs.Float64("overall", 0, "overall visibility score")
	seo := fs.Float64("seo", 0, "organic search visibility score")
	aeo := fs.Float64("aeo", 0, "answer engine visibility score")
	geo := fs.Float64("geo", 0, "local visibility score")
	social := fs.Float64("social", 0, "social visibility score")
	interest := fs.Float64("interest-rate", 0, "current interest rate, e.g. 0.05")
	confidenceDrop := fs.Float64("confidence-drop", 0, "consumer confidence drop, e.g. 0.1")
	_ = fs.Parse(args)

	cfg := loadConfig(*cfgPath).Scoring
	scores := scoring.VisibilityScores{Overall: *overall, SEO: *seo, AEO: *aeo, GEO: *geo, Social: *social}
	benchmark := cfg.BenchmarkForBrand(*brand)
	tsm := cfg.TSM(*interest, *confidenceDrop)

	printJSON(map[string]any{
		"benchmark":       benchmark,
		"tsm":             tsm,
		"composite":       cfg.CompositeSnapshot(*entity, *internal, *external, benchmark, tsm, time.Now().UTC()),
		"revenue_at_risk": cfg.RevenueAtRisk(scores, benchmark),
		"position":        scoring.ClassifyCompetitivePosition((benchmark.AvgVisibilityScore - scores.Overall) / 100),
	})
}

func runForecast(args []string) {
	fs := flag.NewFlagSet("forecast", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file")
	file := fs.String("file", "", "JSON file with [{\"time\":...,\"value\":...}] samples")
	metric := fs.String("metric", "dtri", "metric name")
	horizon := fs.Int("horizon", 7, "forecast horizon in days")
	_ = fs.Parse(args)

	raw, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal(err)
	}
	var samples []forecast.Sample
	if err := json.Unmarshal(raw, &samples); err != nil {
		log.Fatal(err)
	}

	f := forecast.New(loadConfig(*cfgPath).Forecast)
	result, err := f.PredictSeries(*metric, samples, *horizon)
	if err != nil {
		log.Fatal(err)
	}

	values := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.Value
	}
	printJSON(map[string]any{
		"forecast": result,
		"regime":   forecast.ClassifyRegime(values),
	})
}

func runAssess(args []string) {
	fs := flag.NewFlagSet("assess", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file")
	text := fs.String("text", "", "drafted reply text")
	negative := fs.Bool("negative", false, "reply is for a negative review")
	highValue := fs.Bool("high-value", false, "reply is for a high-value customer")
	_ = fs.Parse(args)

	classifier := contentrisk.New(loadConfig(*cfgPath).ContentRisk)
	printJSON(classifier.Assess(*text, contentrisk.Context{
		NegativeReview:    *negative,
		HighValueCustomer: *highValue,
	}))
}

func runEvaluate(args []string) {
	fs := flag.NewFlagSet("evaluate", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file")
	entity := fs.String("entity", "", "entity id")
	snapshotFile := fs.String("snapshot", "", "JSON file with a metric-name to value map")
	_ = fs.Parse(args)
	if *entity == "" || *snapshotFile == "" {
		log.Fatal("evaluate requires -entity and -snapshot")
	}

	raw, err := os.ReadFile(*snapshotFile)
	if err != nil {
		log.Fatal(err)
	}
	var snapshot map[string]float64
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		log.Fatal(err)
	}

	engine := buildEngine(loadConfig(*cfgPath))
	result, err := engine.Evaluate(context.Background(), *entity, snapshot)
	if err != nil {
		log.Fatal(err)
	}
	printJSON(result)
}

func runUnfreeze(args []string) {
	fs := flag.NewFlagSet("unfreeze", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file")
	entity := fs.String("entity", "", "entity id")
	reason := fs.String("reason", "", "why the entity is safe to reactivate")
	_ = fs.Parse(args)
	if *entity == "" {
		log.Fatal("unfreeze requires -entity")
	}

	engine := buildEngine(loadConfig(*cfgPath))
	state, err := engine.Unfreeze(context.Background(), *entity, *reason)
	if err != nil {
		log.Fatal(err)
	}
	printJSON(state)
}

func runStatus(args []string) {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	cfgPath := fs.String("config", "", "config file")
	entity := fs.String("entity", "", "entity id")
	_ = fs.Parse(args)
	if *entity == "" {
		log.Fatal("status requires -entity")
	}

	engine := buildEngine(loadConfig(*cfgPath))
	state, recent, err := engine.Status(context.Background(), *entity)
	if err != nil {
		log.Fatal(err)
	}
	printJSON(map[string]any{"state": state, "recent_actions": recent})
}

// buildEngine wires the governance engine with the store the config selects:
// Postgres, then Redis, then in-memory.
func buildEngine(cfg trustconfig.Config) *governance.Engine {
	var store interface {
		governance.StateStore
		governance.ActionLog
	}
	switch {
	case cfg.Governance.PostgresDSN != "":
		pg, err := pgstore.Open(cfg.Governance.PostgresDSN)
		if err != nil {
			log.Fatal(err)
		}
		store = pg
	case cfg.Governance.RedisAddr != "":
		store = redisstore.New(redis.NewClient(&redis.Options{Addr: cfg.Governance.RedisAddr}), "", 0)
	default:
		store = governance.NewMemoryStore()
	}

	var trigger governance.RetrainTrigger
	if cfg.Governance.RetrainEndpoint != "" {
		trigger = retrain.New(cfg.Governance.RetrainEndpoint)
	}

	engine, err := governance.NewEngine(cfg.Governance.Rules, store, store, trigger)
	if err != nil {
		log.Fatal(err)
	}
	return engine
}
