package conform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeResponse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "clean text unchanged",
			raw:  `{"mood": "happy"}`,
			want: `{"mood": "happy"}`,
		},
		{
			name: "structural single quotes become double",
			raw:  `{'mood': 'happy'}`,
			want: `{"mood": "happy"}`,
		},
		{
			name: "in-word apostrophe preserved",
			raw:  `{"note": "it's fine"}`,
			want: `{"note": "it's fine"}`,
		},
		{
			name: "apostrophe restored after quote swap",
			raw:  `{'note': 'it's fine'}`,
			want: `{"note": "it's fine"}`,
		},
		{
			name: "code fence stripped",
			raw:  "```json\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "bare fence stripped",
			raw:  "```\n{\"a\": 1}\n```",
			want: `{"a": 1}`,
		},
		{
			name: "surrounding whitespace trimmed",
			raw:  "  {\"a\": 1}\n",
			want: `{"a": 1}`,
		},
		{
			name: "empty input",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeResponse(tt.raw))
		})
	}
}

func TestNormalizeResponse_ParseableAfterRepair(t *testing.T) {
	raw := `{'color': 'red', 'note': 'driver's choice'}`
	got := normalizeResponse(raw)
	assert.Equal(t, `{"color": "red", "note": "driver's choice"}`, got)
}
