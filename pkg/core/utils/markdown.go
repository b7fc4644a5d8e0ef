// Package utils holds small shared helpers with no domain logic.
package utils

import (
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/text"
)

// ValidateMarkdown checks that a string parses as Markdown using Goldmark.
// Goldmark is very permissive, so this is a basic structural check: it
// catches truncated or binary output before it reaches disk, not style
// problems.
func ValidateMarkdown(input string) bool {
	parser := goldmark.DefaultParser()
	reader := text.NewReader([]byte(input))
	doc := parser.Parse(reader)
	return doc != nil
}
