package main

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// deaccent decomposes to NFD and drops combining marks, so "Éléphant"
// compares equal to "elephant" after lowercasing.
var deaccent = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// articles are skipped when checking the starting letter, so "le Chat"
// counts as starting with C.
var articles = []string{"le", "la", "les", "un", "une", "des", "the", "a", "an"}

// normalizeAnswer lowercases, strips accents and trims surrounding
// whitespace. All answer comparisons go through this.
func normalizeAnswer(s string) string {
	stripped, _, err := transform.String(deaccent, strings.ToLower(s))
	if err != nil {
		stripped = strings.ToLower(s)
	}
	return strings.TrimSpace(stripped)
}

// validateAnswer checks a free-text answer against the active letter and
// the answers already used for the current category. It does not check
// that the answer actually belongs to the category; players police that
// at the table.
func validateAnswer(answer, letter string, usedAnswers []string) (bool, string) {
	normalizedAnswer := normalizeAnswer(answer)
	normalizedLetter := normalizeAnswer(letter)

	if len(normalizedAnswer) == 0 {
		return false, "Réponse vide"
	}

	words := strings.Fields(normalizedAnswer)

	firstSignificantWord := words[0]
	if isArticle(words[0]) && len(words) > 1 {
		firstSignificantWord = words[1]
	}

	if !strings.HasPrefix(firstSignificantWord, normalizedLetter) {
		return false, fmt.Sprintf("Ne commence pas par %q", letter)
	}

	for _, used := range usedAnswers {
		if normalizeAnswer(used) == normalizedAnswer {
			return false, "Réponse déjà utilisée"
		}
	}

	return true, ""
}

func isArticle(word string) bool {
	for _, article := range articles {
		if word == article {
			return true
		}
	}
	return false
}
