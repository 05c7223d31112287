package upstream

import (
	"fmt"
	"regexp"
	"strings"
)

// injectionPatterns flag statement stacking, file access primitives and the
// classic tautology probes. UNION ALL SELECT stays allowed.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i);\s*DROP\s+`),
	regexp.MustCompile(`(?i);\s*DELETE\s+`),
	regexp.MustCompile(`(?i);\s*INSERT\s+`),
	regexp.MustCompile(`(?i);\s*UPDATE\s+`),
	regexp.MustCompile(`(?i);\s*ALTER\s+`),
	regexp.MustCompile(`(?i);\s*CREATE\s+`),
	regexp.MustCompile(`(?i);\s*TRUNCATE\s+`),
	regexp.MustCompile(`(?i)\bUNION\s+SELECT\b`),
	regexp.MustCompile(`(?i)\bINTO\s+(OUTFILE|DUMPFILE)\b`),
	regexp.MustCompile(`(?i)\bLOAD_FILE\s*\(`),
	regexp.MustCompile(`(?i)\bSLEEP\s*\(`),
	regexp.MustCompile(`(?i)\bBENCHMARK\s*\(`),
	regexp.MustCompile(`;\s*--`),
	regexp.MustCompile(`(?i)\bor\s+1\s*=\s*1\b`),
	regexp.MustCompile(`(?i)\bor\s+'1'\s*=\s*'1'`),
}

// QueryGuard rejects SQL that is not a plain read.
type QueryGuard struct{}

func NewQueryGuard() *QueryGuard {
	return &QueryGuard{}
}

// Check returns an error when sql is empty, not a SELECT/CTE, or matches a
// known injection pattern.
func (g *QueryGuard) Check(sql string) error {
	trimmed := strings.TrimSpace(sql)
	if trimmed == "" {
		return fmt.Errorf("sql cannot be empty")
	}

	upper := strings.ToUpper(trimmed)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return fmt.Errorf("only SELECT queries are allowed")
	}

	for _, pattern := range injectionPatterns {
		if pattern.MatchString(sql) {
			return fmt.Errorf("disallowed SQL pattern: %s", pattern.String())
		}
	}
	return nil
}
