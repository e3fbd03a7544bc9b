// Command pollreport prints the current results of every poll as JSON.
package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"time"

	"github.com/vncsmyrnk/gamenight/internal/adapters/repository"
	"github.com/vncsmyrnk/gamenight/internal/config"
	"github.com/vncsmyrnk/gamenight/internal/core/domain"
	"github.com/vncsmyrnk/gamenight/internal/core/services"
)

func main() {
	config.LoadDotEnv()
	cfg, err := config.Parse("pollreport", os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	filter := domain.ListAll
	if len(cfg.Args) > 0 {
		filter = domain.ListFilter(cfg.Args[0])
	}
	if !filter.Valid() {
		log.Fatalf("unknown poll status %q (use active, expired or all)", filter)
	}

	// Use a timeout for the job execution to prevent it from hanging indefinitely
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	store, err := repository.Open(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	reportService := services.NewReportService(store.Polls, store.Results, domain.SystemClock{}, store.MaxConns)

	log.Println("Starting poll report...")

	reports, err := reportService.ReportAll(ctx, filter)
	if err != nil {
		log.Fatalf("Error building poll report: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		log.Fatalf("Error writing poll report: %v", err)
	}

	log.Printf("Poll report completed: %d polls.", len(reports))
}
