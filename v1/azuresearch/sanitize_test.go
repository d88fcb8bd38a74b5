package azuresearch

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeIndexName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"docs", "docs"},
		{"Entity_name", "entity-name"},
		{"DocumentChunk_text", "documentchunk-text"},
		{"--a__b--", "a-b"},
		{"2024 Reports", "idx-2024-reports"},
		{"Ünïcode", "n-code"},
		{"___", "default-index"},
		{"", "default-index"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeIndexName(tt.in))
		})
	}
}

func TestSanitizeIndexNameTruncates(t *testing.T) {
	long := strings.Repeat("a", 127) + "_bcd"
	got := SanitizeIndexName(long)
	assert.Equal(t, strings.Repeat("a", 127), got, "trailing dash is trimmed after truncation")
	assert.LessOrEqual(t, len(SanitizeIndexName(strings.Repeat("x", 300))), 128)
}
