package history

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		expected SearchResult
		ok       bool
	}{
		{
			name: "simple entry",
			line: "ls -la|0|/home/me|5m ago",
			expected: SearchResult{
				Command:   "ls -la",
				ExitCode:  "0",
				Directory: "/home/me",
				Timestamp: "5m ago",
			},
			ok: true,
		},
		{
			name: "command containing pipes",
			line: "a|b|c|0|/tmp|2024-01-01",
			expected: SearchResult{
				Command:   "a|b|c",
				ExitCode:  "0",
				Directory: "/tmp",
				Timestamp: "2024-01-01",
			},
			ok: true,
		},
		{
			name: "shell pipeline",
			line: "grep a | wc -l|1|/var/log|2h ago",
			expected: SearchResult{
				Command:   "grep a | wc -l",
				ExitCode:  "1",
				Directory: "/var/log",
				Timestamp: "2h ago",
			},
			ok: true,
		},
		{
			name:     "empty fields are kept",
			line:     "|||",
			expected: SearchResult{},
			ok:       true,
		},
		{name: "two fields", line: "only|two", ok: false},
		{name: "three fields", line: "a|0|/tmp", ok: false},
		{name: "no delimiter", line: "echo hello", ok: false},
		{name: "empty line", line: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, ok := ParseLine(tt.line)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseLine_TrailingFieldsAnchored(t *testing.T) {
	// Any number of leading fields ends up in the command.
	for leading := 1; leading <= 6; leading++ {
		fields := make([]string, 0, leading+3)
		for i := 0; i < leading; i++ {
			fields = append(fields, "part"+strings.Repeat("x", i))
		}
		fields = append(fields, "127", "/srv", "yesterday")
		line := strings.Join(fields, Delimiter)

		result, ok := ParseLine(line)
		require.True(t, ok, line)
		assert.Equal(t, strings.Join(fields[:leading], Delimiter), result.Command)
		assert.Equal(t, "127", result.ExitCode)
		assert.Equal(t, "/srv", result.Directory)
		assert.Equal(t, "yesterday", result.Timestamp)
	}
}

func TestSearchResult_Succeeded(t *testing.T) {
	assert.True(t, SearchResult{ExitCode: "0"}.Succeeded())
	assert.False(t, SearchResult{ExitCode: "1"}.Succeeded())
	assert.False(t, SearchResult{ExitCode: ""}.Succeeded())
}

func TestSearchResult_Summary(t *testing.T) {
	assert.Equal(t, "exit 0 · /src · 2m ago", SearchResult{ExitCode: "0", Directory: "/src", Timestamp: "2m ago"}.Summary())
	assert.Equal(t, "/src", SearchResult{Directory: "/src"}.Summary())
	assert.Equal(t, "", SearchResult{Command: "ls"}.Summary())
}

func TestParseOutput(t *testing.T) {
	t.Run("reverses atuin order", func(t *testing.T) {
		results := ParseOutput("x|0|/a|t1\ny|1|/b|t2")

		require.Len(t, results, 2)
		assert.Equal(t, "y", results[0].Command)
		assert.Equal(t, "1", results[0].ExitCode)
		assert.Equal(t, "x", results[1].Command)
		assert.Equal(t, "0", results[1].ExitCode)
	})

	t.Run("drops blank and unparseable lines", func(t *testing.T) {
		output := "\nfirst|0|/a|t1\n   \nbroken line\\\ncontinuation\nsecond|0|/b|t2\n"
		results := ParseOutput(output)

		require.Len(t, results, 2)
		assert.Equal(t, "second", results[0].Command)
		assert.Equal(t, "first", results[1].Command)
	})

	t.Run("handles CRLF line endings", func(t *testing.T) {
		results := ParseOutput("a|0|/a|t1\r\nb|0|/b|t2\r\n")

		require.Len(t, results, 2)
		assert.Equal(t, "t2", results[0].Timestamp)
		assert.Equal(t, "t1", results[1].Timestamp)
	})

	t.Run("empty output", func(t *testing.T) {
		for _, output := range []string{"", "   ", "\n\n\t\n"} {
			results := ParseOutput(output)
			assert.NotNil(t, results)
			assert.Empty(t, results)
		}
	})
}
