package ai

import (
	"errors"
	"testing"
)

type record struct {
	Entity string `json:"entity"`
	Type   string `json:"type"`
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "unfenced", input: `[{"entity":"A"}]`, want: `[{"entity":"A"}]`},
		{name: "json fence", input: "```json\n[{\"entity\":\"A\"}]\n```", want: `[{"entity":"A"}]`},
		{name: "bare fence", input: "```\n[]\n```", want: `[]`},
		{name: "uppercase tag on same line", input: "```JSON [1]```", want: `[1]`},
		{name: "surrounding whitespace", input: "  \n```json\n[]\n```  \n", want: `[]`},
		{name: "opening fence only", input: "```json\n[]", want: `[]`},
		{name: "fence without payload", input: "```json", want: ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripCodeFence(tt.input); got != tt.want {
				t.Fatalf("StripCodeFence(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseJSONArray_Valid(t *testing.T) {
	payload := `[{"entity":"Apple","type":"ORGANIZATION"},{"entity":"California","type":"LOCATION"}]`
	tests := []struct {
		name  string
		input string
	}{
		{name: "plain", input: payload},
		{name: "json fence", input: "```json\n" + payload + "\n```"},
		{name: "bare fence", input: "```\n" + payload + "\n```"},
		{name: "prose around payload", input: "Here are the entities:\n" + payload + "\nLet me know if you need more."},
		{name: "wrapped in object", input: `{"entities": ` + payload + `}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []record
			if err := ParseJSONArray(tt.input, &got, false); err != nil {
				t.Fatalf("ParseJSONArray() error = %v", err)
			}
			if len(got) != 2 || got[0].Entity != "Apple" || got[1].Type != "LOCATION" {
				t.Fatalf("ParseJSONArray() got = %+v", got)
			}
		})
	}
}

func TestParseJSONArray_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "prose only", input: "I could not find any entities."},
		{name: "empty", input: ""},
		{name: "truncated", input: `[{"entity":"Apple","type":"ORGANIZATION"},{"entity":"Cali`},
		{name: "truncated fenced", input: "```json\n[{\"entity\":\"Apple\""},
		{name: "single quotes", input: `[{'entity':'Apple'}]`},
		{name: "object without array", input: `{"entity":"Apple"}`},
		{name: "wrong element type", input: `[1, 2, 3]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []record
			err := ParseJSONArray(tt.input, &got, false)
			if err == nil {
				t.Fatalf("ParseJSONArray(%q) expected error, got %+v", tt.input, got)
			}
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestParseJSONArray_Lenient(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "single quotes",
			input: `[{'entity':'Apple','type':'ORGANIZATION'}]`,
			want:  []string{"Apple"},
		},
		{
			name:  "trailing comma",
			input: `[{"entity":"Apple","type":"ORGANIZATION"},{"entity":"OpenAI","type":"ORGANIZATION"},]`,
			want:  []string{"Apple", "OpenAI"},
		},
		{
			name:  "missing end bracket",
			input: "```json\n[{\"entity\":\"Apple\",\"type\":\"ORGANIZATION\"}",
			want:  []string{"Apple"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []record
			if err := ParseJSONArray(tt.input, &got, true); err != nil {
				t.Fatalf("ParseJSONArray() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseJSONArray() got %d records, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].Entity != tt.want[i] {
					t.Fatalf("record %d = %q, want %q", i, got[i].Entity, tt.want[i])
				}
			}
		})
	}
}

func TestUnmarshalFlexible_ObjectVariants(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  record
	}{
		{
			name:  "valid json object",
			input: `{"entity":"Apple"}`,
			want:  record{Entity: "Apple"},
		},
		{
			name:  "unquoted key and single quotes",
			input: `{entity: 'Apple'}`,
			want:  record{Entity: "Apple"},
		},
		{
			name:  "missing endbracket",
			input: `{"entity":"Apple`,
			want:  record{Entity: "Apple"},
		},
		{
			name:  "stringified invalid json object",
			input: `"{entity: 'Apple'}"`,
			want:  record{Entity: "Apple"},
		},
		{
			name:  "duplicate leading brace",
			input: "{\n{\n  \"entity\": \"Apple\"\n}\n",
			want:  record{Entity: "Apple"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got record
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got != tc.want {
				t.Fatalf("UnmarshalFlexible() got = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_Unrecoverable(t *testing.T) {
	var got record
	if err := UnmarshalFlexible("hello", &got); err == nil {
		t.Fatalf("UnmarshalFlexible() expected error for unrecoverable input")
	}
}

func TestApplyOptions(t *testing.T) {
	got := ApplyOptions(
		GenerateOptions{Model: "base", Temperature: 0.3},
		WithModel("extract"),
		WithTemperature(0.2),
		WithTopP(0.95),
		WithTopK(64),
		WithMaxOutputTokens(1024),
		nil,
	)
	if got.Model != "extract" || got.Temperature != 0.2 || got.TopP != 0.95 || got.TopK != 64 || got.MaxOutputTokens != 1024 {
		t.Fatalf("ApplyOptions() = %+v", got)
	}
}

func TestMetricsTracker(t *testing.T) {
	var tracker MetricsTracker
	tracker.AddMetrics(ModelMetrics{InputTokens: 10, OutputTokens: 5, TotalTokens: 15, DurationMs: 500})
	tracker.AddMetrics(ModelMetrics{InputTokens: 20, OutputTokens: 5, TotalTokens: 25, DurationMs: 500})

	m := tracker.GetMetrics()
	if m.Requests != 2 || m.TotalTokens != 40 || m.DurationMs != 1000 || m.TokenPerSecond != 40 {
		t.Fatalf("unexpected metrics: %+v", m)
	}

	tracker.ResetMetrics()
	if m := tracker.GetMetrics(); m != (ModelMetrics{}) {
		t.Fatalf("expected zero metrics after reset, got %+v", m)
	}
}
