// Package section locates the Item 7 (MD&A) span inside a normalized
// 10-K filing.
package section

import "regexp"

// Role classifies what a boundary pattern marks.
type Role int

const (
	RoleStart       Role = iota // Item 7 header, opens the MD&A
	RoleEnd7A                   // Item 7A header, preferred end boundary
	RoleEnd8                    // Item 8 header, end boundary when 7A is absent
	RoleFallbackEnd             // document-level cues past the MD&A
)

// Pattern pairs a compiled expression with its role and a rank. Rank
// follows list order: lower means a more specific heading form. Keeping
// the set as one explicit ordered table makes the selection rules
// auditable and lets tests target individual entries.
type Pattern struct {
	Role Role
	Rank int
	Re   *regexp.Regexp
}

// sp matches whitespace including the non-breaking space some filers use
// inside headings.
const sp = `[` + spc + `]`

// spc is the class body shared by sp and the separator classes.
const spc = `\s\x{00A0}`

// line anchors a heading to the start of a line.
const line = `(?im)(?:^|\n)[ \t\x{00A0}]*`

// startExprs are the recognized renderings of the Item 7 heading, most
// specific first. Filers vary wildly: spelled-out numbers, roman numerals,
// abbreviations, and a long tail of non-standard titles.
var startExprs = []string{
	// Standard "Management's Discussion and Analysis"
	line + `ITEM` + sp + `*7\.?` + sp + `*MANAGEMENT['\x{2019}]?S?` + sp + `*DISCUSSION` + sp + `*(?:AND|&)` + sp + `*ANALYSIS`,
	// Abbreviated MD&A forms
	line + `ITEM` + sp + `*7[-:.` + spc + `]+M` + sp + `*D` + sp + `*&?` + sp + `*A\b`,
	// Spelled-out "Seven"
	line + `ITEM` + sp + `+SEVEN\.?` + sp + `*MANAGEMENT['\x{2019}]?S?` + sp + `*DISCUSSION`,
	// Roman numeral
	line + `ITEM` + sp + `*VII\b[-:.` + spc + `]+MD&A`,
	// Part II prefix
	line + `PART` + sp + `*II[-:.` + spc + `]+ITEM` + sp + `*7\.?` + sp + `*M`,
	// Financial condition / results of operations variants
	line + `ITEM` + sp + `*7[-:.` + spc + `]+(?:DISCUSSION|MANAGEMENT['\x{2019}]?S?` + sp + `*ANALYSIS)` + sp + `+(?:AND|OF|&)` + sp + `+(?:ANALYSIS` + sp + `+OF` + sp + `+)?(?:FINANCIAL` + sp + `+CONDITION|RESULTS` + sp + `+OF` + sp + `+OPERATIONS|OUTLOOK)`,
	line + `ITEM` + sp + `*7[-:.` + spc + `]+FINANCIAL` + sp + `+CONDITION` + sp + `+AND` + sp + `+RESULTS` + sp + `+OF` + sp + `+OPERATIONS`,
	// Overview / review headings
	line + `ITEM` + sp + `*7[-:.` + spc + `]+(?:OVERVIEW` + sp + `+AND` + sp + `+ANALYSIS|REVIEW` + sp + `+(?:OF|AND` + sp + `+RESULTS` + sp + `+OF)` + sp + `+OPERATIONS|OPERATING` + sp + `+RESULTS` + sp + `+AND` + sp + `+DISCUSSION)`,
	// Liquidity and critical accounting titles used in place of MD&A
	line + `ITEM` + sp + `*7[-:.` + spc + `]+(?:LIQUIDITY` + sp + `+AND` + sp + `+CAPITAL` + sp + `+RESOURCES|CRITICAL` + sp + `+ACCOUNTING` + sp + `+POLICIES)`,
}

// end7AExprs match the Item 7A heading. The generic line-anchored form is
// last so cross-references inside prose never terminate the section early.
var end7AExprs = []string{
	line + `ITEM` + sp + `*7A\.?` + sp + `*QUANTITATIVE` + sp + `+(?:AND` + sp + `+QUALITATIVE` + sp + `+)?DISCLOSURES`,
	line + `ITEM` + sp + `*7A\.?` + sp + `*(?:DISCLOSURES` + sp + `+ABOUT` + sp + `+)?MARKET` + sp + `+RISK`,
	line + `ITEM` + sp + `+SEVEN` + sp + `*A\.?` + sp + `*(?:QUANTITATIVE|MARKET` + sp + `+RISK)`,
	line + `ITEM` + sp + `*VIIA\.?` + sp + `*(?:QUANTITATIVE|MARKET` + sp + `+RISK)`,
	line + `ITEM` + sp + `*7A[-:.` + spc + `]`,
}

// end8Exprs match the Item 8 heading, used when 7A is absent.
var end8Exprs = []string{
	line + `ITEM` + sp + `*8\.?` + sp + `*(?:CONSOLIDATED` + sp + `+)?FINANCIAL` + sp + `+STATEMENTS`,
	line + `ITEM` + sp + `+EIGHT\.?` + sp + `*(?:CONSOLIDATED` + sp + `+)?FINANCIAL` + sp + `+STATEMENTS`,
	line + `ITEM` + sp + `*VIII\.?` + sp + `*(?:CONSOLIDATED` + sp + `+)?FINANCIAL` + sp + `+STATEMENTS`,
	line + `PART` + sp + `*II` + sp + `*[-]+` + sp + `*ITEM` + sp + `*8\.?` + sp + `*FINANCIAL`,
	line + `ITEM` + sp + `*8[-:.` + spc + `]+(?:FS` + sp + `*&?` + sp + `*SD|STATEMENTS` + sp + `+AND` + sp + `+DATA|FINANCIAL` + sp + `+DATA)`,
}

// fallbackEndExprs mark material that always follows the MD&A when no
// Item 7A/8 heading survives in the text.
var fallbackEndExprs = []string{
	line + `SIGNATURES[ \t]*(?:\n|$)`,
	line + `EXHIBIT` + sp + `+INDEX[ \t]*(?:\n|$)`,
	line + `PART` + sp + `+III[ \t]*(?:\n|$)`,
}

// incorporationExprs detect MD&A content incorporated by reference from
// another document (proxy statement, exhibit 13). Detection only: the
// referenced document is never fetched.
var incorporationExprs = []string{
	`(?is)(?:information` + sp + `+required` + sp + `+by` + sp + `+)?Item` + sp + `*7\b.{0,200}?incorporated` + sp + `+(?:herein` + sp + `+)?by` + sp + `+reference`,
	`(?is)Management['\x{2019}]?s?` + sp + `+Discussion` + sp + `+and` + sp + `+Analysis.{0,200}?incorporated` + sp + `+by` + sp + `+reference`,
	`(?is)MD&A.{0,120}?incorporated` + sp + `+by` + sp + `+reference`,
	`(?is)incorporated` + sp + `+by` + sp + `+reference.{0,200}?(?:Proxy` + sp + `+Statement|Exhibit` + sp + `*(?:13|99))`,
}

func compile(role Role, exprs []string) []Pattern {
	out := make([]Pattern, 0, len(exprs))
	for i, expr := range exprs {
		out = append(out, Pattern{Role: role, Rank: i, Re: regexp.MustCompile(expr)})
	}
	return out
}

// PatternSet holds the full ordered tables the locator works from.
// BuiltinPatterns returns the defaults; overrides from a patterns file are
// appended after them, so built-in forms always rank higher.
type PatternSet struct {
	Start         []Pattern
	End7A         []Pattern
	End8          []Pattern
	FallbackEnd   []Pattern
	Incorporation []Pattern
}

// BuiltinPatterns compiles the default tables.
func BuiltinPatterns() *PatternSet {
	return &PatternSet{
		Start:         compile(RoleStart, startExprs),
		End7A:         compile(RoleEnd7A, end7AExprs),
		End8:          compile(RoleEnd8, end8Exprs),
		FallbackEnd:   compile(RoleFallbackEnd, fallbackEndExprs),
		Incorporation: compile(RoleStart, incorporationExprs),
	}
}
