package scraper

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Selector priority list for article links on an author page. The site has
// cycled through several list layouts; the first selector with any matches
// wins.
var linkSelectors = []string{
	"a[data-test-id='post-list-item-title']",
	".title a",
	"h3 a",
	".post-list-item a",
}

// PageLink is one article link found on an author page or feed.
type PageLink struct {
	Title string
	URL   string
}

type LinkParser struct{}

func NewLinkParser() *LinkParser {
	return &LinkParser{}
}

// Run parses an author page and returns the article links found, along with
// the selector that matched.
func (p *LinkParser) Run(data []byte) ([]PageLink, string, error) {
	d, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse page: %w", err)
	}

	for _, selector := range linkSelectors {
		elems := d.Find(selector)
		if elems.Length() == 0 {
			continue
		}

		var links []PageLink
		elems.Each(func(_ int, s *goquery.Selection) {
			href, ok := s.Attr("href")
			if !ok || href == "" {
				return
			}

			if !strings.HasPrefix(href, "http") {
				href = siteBaseURL + href
			}

			links = append(links, PageLink{
				Title: strings.TrimSpace(s.Text()),
				URL:   href,
			})
		})

		return links, selector, nil
	}

	return nil, "", nil
}

// EndOfResults reports whether the page indicates no more articles are
// available.
func EndOfResults(data []byte) bool {
	body := strings.ToLower(string(data))
	return strings.Contains(body, "no results found") || strings.Contains(body, "no posts found")
}
