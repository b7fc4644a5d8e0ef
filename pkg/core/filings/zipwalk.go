package filings

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"log"
	"runtime"
	"strings"
	"sync"

	"mdna_extractor/pkg/core/extract"
	"mdna_extractor/pkg/models"
)

// ResultSink receives every terminal result, success or failure. Used to
// mirror run output into a database; nil sinks are skipped.
type ResultSink interface {
	Record(ctx context.Context, runID string, result models.ExtractionResult) error
}

// Walker drives a batch run over ZIP archives of filings. Extraction is
// CPU-bound and per-filing independent, so entries fan out to a worker
// pool; all coordination lives here, never in the core.
type Walker struct {
	Engine *extract.Engine
	Filter *CIKFilter
	Writer *Writer
	Sink   ResultSink
	RunID  string

	// Workers caps the pool size; zero means one per CPU.
	Workers int

	mu sync.Mutex // guards stats updates from workers
}

type job struct {
	file      *zip.File
	filing    models.Filing
	ungrouped bool
}

// ProcessArchive extracts every selected 10-K in one ZIP archive. Entry
// failures are counted, logged, and never abort the archive; only an
// unreadable archive or a cancelled context returns an error.
func (w *Walker) ProcessArchive(ctx context.Context, path string, stats *models.RunStats) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return fmt.Errorf("failed to open archive %s: %w", path, err)
	}
	defer zr.Close()

	stats.Archives++

	// First pass identifies entries from their names and runs amendment
	// selection, so a 10-K/A shadows the 10-K it amends before any
	// content is decompressed.
	selector := NewSelector()
	jobs := make([]job, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() || !strings.HasSuffix(strings.ToLower(f.Name), ".txt") {
			continue
		}
		stats.FilesSeen++

		filing, ok := ParseEntryName(f.Name)
		if !ok {
			// Unnamed entries still get processed; metadata comes from
			// the content sniff instead.
			filing = models.Filing{SourceName: f.Name}
		}
		if filing.CIK != "" && !w.Filter.Allow(filing.CIK) {
			stats.FilteredOut++
			continue
		}
		jobs = append(jobs, job{file: f, filing: filing, ungrouped: selector.Add(filing)})
	}

	queue := make(chan job)
	var wg sync.WaitGroup
	for i := 0; i < w.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range queue {
				w.processEntry(ctx, j, stats)
			}
		}()
	}

	for _, j := range jobs {
		if !j.ungrouped && !selector.Selected(j.filing) {
			w.mu.Lock()
			stats.FilteredOut++
			w.mu.Unlock()
			log.Printf("[DEBUG] %s superseded by a later filing for the same company-year", j.filing.SourceName)
			continue
		}
		select {
		case queue <- j:
		case <-ctx.Done():
			close(queue)
			wg.Wait()
			return ctx.Err()
		}
	}
	close(queue)
	wg.Wait()
	return ctx.Err()
}

func (w *Walker) workers() int {
	if w.Workers > 0 {
		return w.Workers
	}
	return runtime.NumCPU()
}

// processEntry runs one archive entry through the pipeline and records
// the outcome. Never returns: every failure is terminal for the entry
// only.
func (w *Walker) processEntry(ctx context.Context, j job, stats *models.RunStats) {
	data, err := readEntry(j.file)
	if err != nil {
		log.Printf("[ERROR] failed to read %s: %v", j.file.Name, err)
		w.record(ctx, stats, models.Failure(j.filing, "read", models.FailureEmptyInput))
		return
	}

	filing := j.filing
	SniffContent(data, &filing)

	// Entries whose name carried no CIK get their filter check here,
	// after the content sniff.
	if j.filing.CIK == "" && filing.CIK != "" && !w.Filter.Allow(filing.CIK) {
		w.mu.Lock()
		stats.FilteredOut++
		w.mu.Unlock()
		return
	}
	if filing.FormType != "" && !strings.HasPrefix(filing.FormType, "10-K") {
		w.mu.Lock()
		stats.FilteredOut++
		w.mu.Unlock()
		log.Printf("[DEBUG] skipping %s: form type %s", filing.SourceName, filing.FormType)
		return
	}

	result := w.Engine.Extract(models.RawFiling{Data: data, Filing: filing})
	w.record(ctx, stats, result)
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// record persists the result, updates counters, and emits the per-filing
// log line.
func (w *Walker) record(ctx context.Context, stats *models.RunStats, result models.ExtractionResult) {
	if result.Success {
		path, err := w.Writer.Write(result)
		if err != nil {
			log.Printf("[ERROR] failed to write output for %s: %v", result.Filing.ID(), err)
		} else {
			log.Printf("extracted %s (%d words, %s) -> %s",
				result.Filing.ID(), result.WordCount, result.Encoding, path)
		}
	} else {
		log.Printf("[WARNING] extraction failed for %s: stage=%s reason=%s",
			result.Filing.ID(), result.Stage, result.Reason)
	}

	if w.Sink != nil {
		if err := w.Sink.Record(ctx, w.RunID, result); err != nil {
			log.Printf("[ERROR] failed to record result for %s: %v", result.Filing.ID(), err)
		}
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if result.Success {
		stats.Extracted++
	} else {
		stats.RecordFailure(result.Reason)
	}
}
