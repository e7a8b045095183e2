package main

import (
	"regexp"
	"strings"
)

var createPattern = regexp.MustCompile(`(?i)^CREATE\s+(?:UNIQUE\s+)?(?:NULL_FILTERED\s+)?(TABLE|INDEX)\s+(?:IF\s+NOT\s+EXISTS\s+)?` + "`?" + `([A-Za-z_][A-Za-z0-9_]*)`)

// splitDDLStatements drops comment lines and splits on semicolons.
func splitDDLStatements(content string) []string {
	var cleaned []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		cleaned = append(cleaned, line)
	}

	var result []string
	for _, stmt := range strings.Split(strings.Join(cleaned, "\n"), ";") {
		if stmt = strings.TrimSpace(stmt); stmt != "" {
			result = append(result, stmt)
		}
	}
	return result
}

// objectKey returns "table:name" or "index:name" for CREATE statements.
func objectKey(stmt string) (string, bool) {
	m := createPattern.FindStringSubmatch(strings.TrimSpace(stmt))
	if m == nil {
		return "", false
	}
	return strings.ToLower(m[1]) + ":" + strings.ToLower(m[2]), true
}

func createdObjects(statements []string) map[string]struct{} {
	out := make(map[string]struct{}, len(statements))
	for _, s := range statements {
		if k, ok := objectKey(s); ok {
			out[k] = struct{}{}
		}
	}
	return out
}

// pendingStatements keeps statements whose object is not in existing.
// Statements that create nothing are always kept.
func pendingStatements(statements []string, existing map[string]struct{}) []string {
	var out []string
	for _, s := range statements {
		if k, ok := objectKey(s); ok {
			if _, found := existing[k]; found {
				continue
			}
		}
		out = append(out, s)
	}
	return out
}
