package section

import (
	"fmt"
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Config carries the locator thresholds. They are heuristics tuned against
// real filings, not constants with a principled derivation, so they load
// from YAML and can be re-tuned without a rebuild.
type Config struct {
	// MinStartOffset rejects start matches earlier than this many bytes
	// into the document. TOCs live in the first few pages of a filing.
	MinStartOffset int `yaml:"min_start_offset"`

	// ShortDocLimit disables the offset filter for documents below this
	// size, where no room exists for a TOC region.
	ShortDocLimit int `yaml:"short_doc_limit"`

	// MinSpanChars is the smallest span accepted as a real MD&A body. A
	// span below it is a TOC entry or a stub.
	MinSpanChars int `yaml:"min_span_chars"`

	// TOCLookBack is how far behind a match to scan for TOC markers.
	TOCLookBack int `yaml:"toc_look_back"`

	// ContentLookAhead is how far past a match to scan when judging
	// whether real prose follows it.
	ContentLookAhead int `yaml:"content_look_ahead"`

	// MinWords is the validation floor on the extracted section.
	MinWords int `yaml:"min_words"`

	// MaxWords only triggers a warning log, never a failure. Some MD&As
	// legitimately run very long.
	MaxWords int `yaml:"max_words"`

	// MinProsePercent is the minimum share of letter characters among
	// non-space characters in the span. Below it the span is dominated by
	// tables and page furniture rather than discussion.
	MinProsePercent int `yaml:"min_prose_percent"`

	// MinKeywordHits is how many MD&A vocabulary terms the span must
	// contain to count as discussion text.
	MinKeywordHits int `yaml:"min_keyword_hits"`
}

// DefaultConfig returns the thresholds used in production runs.
func DefaultConfig() Config {
	return Config{
		MinStartOffset:   15 * 1024,
		ShortDocLimit:    10000,
		MinSpanChars:     2000,
		TOCLookBack:      5000,
		ContentLookAhead: 2000,
		MinWords:         100,
		MaxWords:         50000,
		MinProsePercent:  50,
		MinKeywordHits:   1,
	}
}

// LoadConfig reads thresholds from a YAML file, filling unset fields from
// the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read locator config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse locator config %s: %w", path, err)
	}
	return cfg, nil
}
