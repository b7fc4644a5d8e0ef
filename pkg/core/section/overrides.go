package section

import (
	"fmt"
	"os"
	"regexp"

	hjson "github.com/hjson/hjson-go/v4"
)

// Overrides carries extra heading expressions for filers the built-in
// tables miss. The file format is HJSON so operators can keep comments
// next to each expression, which these tend to need.
type Overrides struct {
	Start       []string `json:"start"`
	End7A       []string `json:"end_7a"`
	End8        []string `json:"end_8"`
	FallbackEnd []string `json:"fallback_end"`
}

// LoadOverrides reads a pattern-overrides file and appends its compiled
// expressions to the set. Override patterns rank below every built-in
// entry of the same role, so they never displace a standard heading form.
func LoadOverrides(path string, ps *PatternSet) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read pattern overrides %s: %w", path, err)
	}

	var ov Overrides
	if err := hjson.Unmarshal(data, &ov); err != nil {
		return fmt.Errorf("failed to parse pattern overrides %s: %w", path, err)
	}

	appendRole := func(dst []Pattern, role Role, exprs []string) ([]Pattern, error) {
		base := len(dst)
		for i, expr := range exprs {
			re, err := regexp.Compile(expr)
			if err != nil {
				return dst, fmt.Errorf("invalid override pattern %q: %w", expr, err)
			}
			dst = append(dst, Pattern{Role: role, Rank: base + i, Re: re})
		}
		return dst, nil
	}

	if ps.Start, err = appendRole(ps.Start, RoleStart, ov.Start); err != nil {
		return err
	}
	if ps.End7A, err = appendRole(ps.End7A, RoleEnd7A, ov.End7A); err != nil {
		return err
	}
	if ps.End8, err = appendRole(ps.End8, RoleEnd8, ov.End8); err != nil {
		return err
	}
	if ps.FallbackEnd, err = appendRole(ps.FallbackEnd, RoleFallbackEnd, ov.FallbackEnd); err != nil {
		return err
	}
	return nil
}
