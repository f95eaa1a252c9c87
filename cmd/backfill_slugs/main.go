// Command backfill_slugs publishes pipeline-only schools that accumulated
// statistics but never got merged or slugged, making them publicly
// browsable. Run it after large catalog imports.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/schoolatlas/schoolatlas-backend/internal/app"
)

func main() {
	var cityFlag string
	var dryRun bool
	var limit int
	flag.StringVar(&cityFlag, "city", "", "city id to backfill (required)")
	flag.BoolVar(&dryRun, "dry-run", false, "print planned publications without writing")
	flag.IntVar(&limit, "limit", 0, "limit number of schools processed")
	flag.Parse()

	_ = godotenv.Load()

	cityID, err := uuid.Parse(strings.TrimSpace(cityFlag))
	if err != nil || cityID == uuid.Nil {
		fmt.Println("a valid -city id is required")
		os.Exit(1)
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx := context.Background()
	schools, err := application.Repos.School.ListPipelineOnlyByCity(ctx, nil, cityID)
	if err != nil {
		fmt.Printf("list pipeline schools: %v\n", err)
		os.Exit(1)
	}

	published := 0
	for _, s := range schools {
		if limit > 0 && published >= limit {
			break
		}
		if dryRun {
			fmt.Printf("would publish %s (%s)\n", s.Name, s.ID)
			published++
			continue
		}
		updated, err := application.Services.Matcher.PublishStandalone(ctx, s.ID)
		if err != nil {
			fmt.Printf("publish %s: %v\n", s.Name, err)
			continue
		}
		fmt.Printf("published %s -> /%s\n", updated.Name, *updated.Slug)
		published++
	}
	fmt.Printf("done: %d of %d pipeline-only schools processed\n", published, len(schools))
}
