package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"mdna_extractor/pkg/core/extract"
	"mdna_extractor/pkg/core/filings"
	"mdna_extractor/pkg/core/section"
	"mdna_extractor/pkg/core/store"
	"mdna_extractor/pkg/models"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, assuming environment variables are set.")
	}

	var (
		inputPath    = flag.String("input", "input", "ZIP archive or directory of ZIP archives")
		outputDir    = flag.String("output", "output", "directory for extracted sections")
		cikCSV       = flag.String("cik-csv", "", "CSV file of CIKs to process (empty = all)")
		configPath   = flag.String("config", "", "YAML file with locator thresholds")
		patternsPath = flag.String("patterns", "", "HJSON file with heading pattern overrides")
		markdown     = flag.Bool("markdown", false, "write Markdown output instead of plain text")
		strict       = flag.Bool("strict", false, "fail filings that need a lossy decode")
		workers      = flag.Int("workers", 0, "worker pool size (0 = one per CPU)")
		useDB        = flag.Bool("db", false, "record results in Postgres (DATABASE_URL)")
	)
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := section.DefaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = section.LoadConfig(*configPath); err != nil {
			log.Fatalf("Error: %v", err)
		}
	}

	patterns := section.BuiltinPatterns()
	if *patternsPath != "" {
		if err := section.LoadOverrides(*patternsPath, patterns); err != nil {
			log.Fatalf("Error: %v", err)
		}
	}

	var filter *filings.CIKFilter
	if *cikCSV != "" {
		var err error
		if filter, err = filings.LoadCIKFilter(*cikCSV); err != nil {
			log.Fatalf("Error: %v", err)
		}
	}

	var sink filings.ResultSink
	if *useDB {
		if err := store.InitDB(ctx); err != nil {
			log.Fatalf("Error: %v", err)
		}
		defer store.Close()
		repo := store.NewResultsRepo()
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatalf("Error: %v", err)
		}
		sink = repo
	}

	archives, err := collectArchives(*inputPath)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	if len(archives) == 0 {
		log.Fatalf("Error: no ZIP archives found under %s", *inputPath)
	}

	walker := &filings.Walker{
		Engine: extract.NewEngine(extract.Options{
			Config:       cfg,
			Patterns:     patterns,
			StrictDecode: *strict,
		}),
		Filter:  filter,
		Writer:  &filings.Writer{Dir: *outputDir, Markdown: *markdown},
		Sink:    sink,
		RunID:   uuid.NewString(),
		Workers: *workers,
	}

	log.Printf("run %s: %d archive(s), output -> %s", walker.RunID, len(archives), *outputDir)

	stats := models.NewRunStats()
	for _, archive := range archives {
		if err := walker.ProcessArchive(ctx, archive, stats); err != nil {
			if ctx.Err() != nil {
				log.Printf("[WARNING] run interrupted: %v", ctx.Err())
				break
			}
			log.Printf("[ERROR] archive %s: %v", archive, err)
		}
	}

	log.Printf("run complete: %s", stats.Summary())
	for _, reason := range sortedReasons(stats) {
		log.Printf("  %s: %d", reason, stats.ByReason[models.FailureReason(reason)])
	}

	if stats.Extracted == 0 && stats.Failed > 0 {
		os.Exit(1)
	}
}

// collectArchives accepts a single ZIP path or a directory and returns
// the sorted list of archives to process.
func collectArchives(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat input %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory %s: %w", path, err)
	}

	var archives []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".zip") {
			archives = append(archives, filepath.Join(path, entry.Name()))
		}
	}
	sort.Strings(archives)
	return archives, nil
}

func sortedReasons(stats *models.RunStats) []string {
	reasons := make([]string, 0, len(stats.ByReason))
	for reason := range stats.ByReason {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	return reasons
}
