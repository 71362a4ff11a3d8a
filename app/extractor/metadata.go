package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector priority lists for article metadata. Each extractor returns the
// first selector whose match has non-empty trimmed text; order is the only
// tie-break rule.

var titleSelectors = []string{
	"h1",
	"h1.title",
	"[data-test-id='post-title']",
	".title",
}

var dateSelectors = []string{
	"time",
	"[data-test-id='post-date']",
	".post-date",
	".sa-art-date",
}

var authorSelectors = []string{
	"[data-test-id='author-name']",
	".author-link",
	".author-name",
}

func extractTitle(d *goquery.Document) string {
	if text := selectFirstText(d, titleSelectors); text != "" {
		return text
	}
	return TitleNotFound
}

func extractDate(d *goquery.Document) string {
	if text := selectFirstText(d, dateSelectors); text != "" {
		return text
	}
	return DateNotFound
}

func extractAuthor(d *goquery.Document) string {
	if text := selectFirstText(d, authorSelectors); text != "" {
		return text
	}
	return AuthorNotFound
}

func selectFirstText(d *goquery.Document, selectors []string) string {
	if d == nil {
		return ""
	}

	for _, selector := range selectors {
		elem := d.Find(selector).First()
		if elem.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(elem.Text()); text != "" {
			return text
		}
	}

	return ""
}
