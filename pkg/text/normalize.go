// Package text cleans raw article bodies before they are sent to the
// extraction models and provides a stopword-filtered token view of them.
package text

import (
	"regexp"
	"strings"
	"unicode"
)

var reTag = regexp.MustCompile(`<.*?>`)

// Normalize strips tag-like substrings, drops every rune that is neither a
// letter nor whitespace and lowercases the rest.
func Normalize(raw string) string {
	stripped := reTag.ReplaceAllString(raw, "")

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}

	return strings.ToLower(b.String())
}

// Tokenize splits text on word boundaries. Only runs of letters count as words.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// RemoveStopwords drops every token contained in the English stopword set.
// Matching is case-insensitive.
func RemoveStopwords(tokens []string) []string {
	var out []string
	for _, token := range tokens {
		if _, ok := stopwords[strings.ToLower(token)]; ok {
			continue
		}
		out = append(out, token)
	}
	return out
}

// TokenizeAndFilter tokenizes text and removes stopwords.
func TokenizeAndFilter(text string) []string {
	return RemoveStopwords(Tokenize(text))
}

// Preprocess normalizes raw text and returns its filtered tokens.
func Preprocess(raw string) []string {
	return TokenizeAndFilter(Normalize(raw))
}

// IsStopword reports whether word is in the English stopword set.
func IsStopword(word string) bool {
	_, ok := stopwords[strings.ToLower(word)]
	return ok
}
