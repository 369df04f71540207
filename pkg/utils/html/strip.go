// ABOUTME: HTML utilities for turning provider markup into plain-text previews
// ABOUTME: Parses with goquery so entities, scripts and nested markup are handled by a real HTML parser

package html

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// StripHTML returns the visible text of an HTML fragment with whitespace collapsed.
// Plain text passes through with only whitespace normalization.
func StripHTML(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return CollapseWhitespace(fragment)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return CollapseWhitespace(fragment)
	}
	doc.Find("script, style, noscript").Remove()

	// Block elements need a separator or adjacent paragraphs run together
	doc.Find("p, br, div, li, h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml(" ")
	})

	return CollapseWhitespace(doc.Text())
}

// CollapseWhitespace trims text and folds every whitespace run into one space
func CollapseWhitespace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

// Truncate shortens text to at most maxRunes runes, appending "..." when cut
func Truncate(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[:maxRunes])) + "..."
}

// FirstImage returns the src of the first <img> in fragment
func FirstImage(fragment string) string {
	if !strings.Contains(fragment, "<img") {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return ""
	}
	src, _ := doc.Find("img[src]").First().Attr("src")
	return strings.TrimSpace(src)
}
