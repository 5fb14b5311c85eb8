package services

import (
	"strings"
	"unicode"
)

const (
	snippetContext = 60
	snippetDefault = 160
)

// tokenize splits a search query on whitespace and ASCII or full-width
// commas, dropping empties and duplicates.
func tokenize(q string) []string {
	parts := strings.FieldsFunc(strings.TrimSpace(q), func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '，'
	})

	seen := make(map[string]struct{}, len(parts))
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		tokens = append(tokens, p)
	}
	return tokens
}

// makeSnippet cuts text down to the first case-insensitive token match
// plus snippetContext runes either side, marking cuts with an ellipsis.
// Without a match it returns the first snippetDefault runes.
func makeSnippet(text string, tokens []string) string {
	runes := []rune(text)
	lower := []rune(strings.Map(unicode.ToLower, text))

	at, length := -1, 0
	for _, tok := range tokens {
		t := []rune(strings.Map(unicode.ToLower, tok))
		if len(t) == 0 {
			continue
		}
		if i := indexRunes(lower, t); i >= 0 && (at < 0 || i < at || (i == at && len(t) > length)) {
			at, length = i, len(t)
		}
	}

	if at < 0 {
		if len(runes) > snippetDefault {
			return string(runes[:snippetDefault])
		}
		return text
	}

	start := max(0, at-snippetContext)
	end := min(len(runes), at+length+snippetContext)

	var b strings.Builder
	if start > 0 {
		b.WriteString("…")
	}
	b.WriteString(string(runes[start:end]))
	if end < len(runes) {
		b.WriteString("…")
	}
	return b.String()
}

func indexRunes(haystack, needle []rune) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j := range needle {
			if haystack[i+j] != needle[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
