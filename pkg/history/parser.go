package history

import "strings"

// ParseLine converts one delimited line into a SearchResult.
//
// The last three fields are always exit code, directory and timestamp; every
// field before them belongs to the command, so "grep a | wc -l|0|/tmp|1h"
// keeps "grep a | wc -l" intact. Lines with fewer than four fields are not
// parseable and return false.
func ParseLine(line string) (SearchResult, bool) {
	parts := strings.Split(line, Delimiter)
	if len(parts) < trailingFields+1 {
		return SearchResult{}, false
	}

	n := len(parts)
	return SearchResult{
		Command:   strings.Join(parts[:n-trailingFields], Delimiter),
		ExitCode:  parts[n-3],
		Directory: parts[n-2],
		Timestamp: parts[n-1],
	}, true
}

// ParseOutput parses a complete atuin response. Blank and unparseable lines
// are dropped and the remaining entries are reversed, so the most recent
// entry atuin printed last ends up first.
func ParseOutput(output string) []SearchResult {
	results := []SearchResult{}
	if strings.TrimSpace(output) == "" {
		return results
	}

	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if result, ok := ParseLine(line); ok {
			results = append(results, result)
		}
	}

	for i, j := 0, len(results)-1; i < j; i, j = i+1, j-1 {
		results[i], results[j] = results[j], results[i]
	}
	return results
}
