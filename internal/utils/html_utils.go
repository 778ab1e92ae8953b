package utils

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Excerpt returns the visible text of an HTML fragment, whitespace collapsed
// and cut to at most max runes.
func Excerpt(htmlStr string, max int) string {
	if htmlStr == "" {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
	if err != nil {
		return truncate(strings.TrimSpace(htmlStr), max)
	}

	text := strings.Join(strings.Fields(doc.Text()), " ")
	return truncate(text, max)
}

func truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return strings.TrimSpace(string(runes[:max])) + "…"
}
