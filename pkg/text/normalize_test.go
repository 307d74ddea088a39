package text

import (
	"reflect"
	"testing"
	"unicode"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain sentence",
			input: "Apple announced a new partnership with OpenAI in California.",
			want:  "apple announced a new partnership with openai in california",
		},
		{
			name:  "html markup",
			input: "<p>Hello <b>World</b></p>",
			want:  "hello world",
		},
		{
			name:  "digits and punctuation",
			input: "Q3 revenue rose 12% to $4.5bn!",
			want:  "q revenue rose  to bn",
		},
		{
			name:  "truncation marker",
			input: "Shares fell… [+2431 chars]",
			want:  "shares fell  chars",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Fatalf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeOnlyLowercaseLettersAndWhitespace(t *testing.T) {
	inputs := []string{
		"<div class=\"x\">Tesla's CEO, Elon Musk, said: \"AI > 2024\"</div>",
		"1234567890 !@#$%^&*()_+-=[]{}|;':,./<>?",
		"Mixed\tCASE\nlines <br/> and <a href='#'>links</a>",
		"Ünïcödé Straße",
	}

	for _, input := range inputs {
		got := Normalize(input)
		for _, r := range got {
			if unicode.IsSpace(r) {
				continue
			}
			if !unicode.IsLetter(r) || unicode.IsUpper(r) {
				t.Fatalf("Normalize(%q) = %q contains %q", input, got, r)
			}
		}
		if again := Normalize(got); again != got {
			t.Fatalf("Normalize is not idempotent: %q -> %q", got, again)
		}
	}
}

func TestTokenizeAndFilter(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "drops stopwords",
			text: "apple announced a new partnership with openai in california",
			want: []string{"apple", "announced", "new", "partnership", "openai", "california"},
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
		{
			name: "whitespace only",
			text: " \t\n ",
			want: nil,
		},
		{
			name: "only stopwords",
			text: "the and of",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TokenizeAndFilter(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("TokenizeAndFilter(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
		})
	}
}

func TestPreprocess(t *testing.T) {
	got := Preprocess("<h1>The Future of AI</h1> is HERE.")
	want := []string{"future", "ai"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Preprocess() = %#v, want %#v", got, want)
	}
}

func TestIsStopword(t *testing.T) {
	if !IsStopword("The") {
		t.Fatalf("expected 'The' to be a stopword")
	}
	if IsStopword("openai") {
		t.Fatalf("did not expect 'openai' to be a stopword")
	}
}
