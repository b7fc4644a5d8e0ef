// Package extract wires the per-filing pipeline: decode, normalize,
// locate, slice. One call per filing, no shared mutable state, so callers
// may run extractions in parallel without coordination.
package extract

import (
	"errors"
	"log"
	"strings"

	"mdna_extractor/pkg/core/encoding"
	"mdna_extractor/pkg/core/normalize"
	"mdna_extractor/pkg/core/section"
	"mdna_extractor/pkg/models"
)

// Stage names recorded on failed results.
const (
	StageDecode    = "decode"
	StageNormalize = "normalize"
	StageLocate    = "locate"
)

// Engine runs the extraction pipeline. Construct once and reuse; every
// method is safe for concurrent use.
type Engine struct {
	resolver   *encoding.Resolver
	normalizer *normalize.Normalizer
	locator    *section.Locator
}

// Options configures an Engine.
type Options struct {
	// Locator thresholds; zero value means DefaultConfig.
	Config section.Config

	// Patterns extends or replaces the heading tables; nil means the
	// built-in set.
	Patterns *section.PatternSet

	// StrictDecode disables the lossy UTF-8 fallback, turning dirty
	// encodings into UNDECODABLE_ENCODING failures.
	StrictDecode bool
}

// NewEngine builds an engine from options.
func NewEngine(opts Options) *Engine {
	cfg := opts.Config
	if cfg == (section.Config{}) {
		cfg = section.DefaultConfig()
	}
	resolver := encoding.NewResolver()
	resolver.AllowLossy = !opts.StrictDecode

	return &Engine{
		resolver:   resolver,
		normalizer: normalize.New(),
		locator:    section.NewLocator(cfg, opts.Patterns),
	}
}

// Extract runs one filing through the pipeline. It always returns a
// terminal result, never panics: every failure mode maps to a typed
// reason the caller can count and log.
func (e *Engine) Extract(raw models.RawFiling) models.ExtractionResult {
	decoded, err := e.resolver.Resolve(raw.Data)
	if err != nil {
		reason := models.FailureUndecodableEncoding
		if errors.Is(err, encoding.ErrEmptyInput) {
			reason = models.FailureEmptyInput
		}
		return models.Failure(raw.Filing, StageDecode, reason)
	}

	doc, err := e.normalizer.Normalize(decoded.Text)
	if err != nil {
		// The normalizer only fails on empty input: a filing that decoded
		// to nothing but whitespace.
		return models.Failure(raw.Filing, StageNormalize, models.FailureEmptyInput)
	}

	span, err := e.locator.Locate(doc)
	if err != nil {
		return models.Failure(raw.Filing, StageLocate, locateReason(err))
	}

	text := doc[span.Start:span.End]
	if ref, ok := e.locator.IncorporationByReference(text); ok {
		log.Printf("[WARNING] filing %s incorporates its MD&A by reference: %q", raw.Filing.ID(), ref)
	}

	return models.ExtractionResult{
		Filing:    raw.Filing,
		Success:   true,
		Text:      text,
		Span:      span,
		WordCount: len(strings.Fields(text)),
		Encoding:  decoded.Encoding,
		Lossy:     decoded.Lossy,
	}
}

func locateReason(err error) models.FailureReason {
	switch {
	case errors.Is(err, section.ErrAmbiguous):
		return models.FailureAmbiguousMatch
	case errors.Is(err, section.ErrTooShort):
		return models.FailureTooShort
	default:
		return models.FailureNotFound
	}
}
