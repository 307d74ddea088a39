package util

import "testing"

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain utf8",
			input: "OpenAI",
			want:  "OpenAI",
		},
		{
			name:  "contains null byte",
			input: "Ope\x00nAI",
			want:  "OpenAI",
		},
		{
			name:  "contains invalid utf8",
			input: string([]byte{'a', 0xff, 'b'}),
			want:  "ab",
		},
		{
			name:  "surrounding and repeated whitespace",
			input: "  New \n  York\tCity ",
			want:  "New York City",
		},
		{
			name:  "only whitespace",
			input: " \t\n",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeText(tt.input)
			if got != tt.want {
				t.Fatalf("unexpected sanitized value: got %q, want %q", got, tt.want)
			}
		})
	}
}
