package scraper

import (
	"testing"
)

func TestLinkParserPreferredSelector(t *testing.T) {
	html := `
	<html><body>
		<a data-test-id="post-list-item-title" href="/article/1-first">First Article</a>
		<a data-test-id="post-list-item-title" href="/article/2-second">Second Article</a>
		<h3><a href="/article/3-ignored">Ignored Layout</a></h3>
	</body></html>`

	links, selector, err := NewLinkParser().Run([]byte(html))
	if err != nil {
		t.Fatal(err)
	}

	if selector != "a[data-test-id='post-list-item-title']" {
		t.Errorf("Expected attribute selector to win, got %q", selector)
	}
	if len(links) != 2 {
		t.Fatalf("Expected 2 links, got %d", len(links))
	}
	if links[0].Title != "First Article" {
		t.Errorf("Expected title 'First Article', got %q", links[0].Title)
	}
	if links[0].URL != "https://seekingalpha.com/article/1-first" {
		t.Errorf("Expected absolutized URL, got %q", links[0].URL)
	}
}

func TestLinkParserFallbackSelector(t *testing.T) {
	html := `
	<html><body>
		<h3><a href="https://seekingalpha.com/article/4-fourth">Fourth Article</a></h3>
	</body></html>`

	links, selector, err := NewLinkParser().Run([]byte(html))
	if err != nil {
		t.Fatal(err)
	}

	if selector != "h3 a" {
		t.Errorf("Expected 'h3 a' selector, got %q", selector)
	}
	if len(links) != 1 {
		t.Fatalf("Expected 1 link, got %d", len(links))
	}
	if links[0].URL != "https://seekingalpha.com/article/4-fourth" {
		t.Errorf("Expected absolute URL untouched, got %q", links[0].URL)
	}
}

func TestLinkParserSkipsMissingHref(t *testing.T) {
	html := `
	<html><body>
		<div class="title"><a>No href here</a></div>
		<div class="title"><a href="/article/5-fifth">Fifth Article</a></div>
	</body></html>`

	links, _, err := NewLinkParser().Run([]byte(html))
	if err != nil {
		t.Fatal(err)
	}

	if len(links) != 1 {
		t.Fatalf("Expected 1 link, got %d", len(links))
	}
	if links[0].Title != "Fifth Article" {
		t.Errorf("Expected 'Fifth Article', got %q", links[0].Title)
	}
}

func TestLinkParserNoMatches(t *testing.T) {
	html := `<html><body><p>Nothing to see here</p></body></html>`

	links, selector, err := NewLinkParser().Run([]byte(html))
	if err != nil {
		t.Fatal(err)
	}

	if len(links) != 0 {
		t.Errorf("Expected no links, got %d", len(links))
	}
	if selector != "" {
		t.Errorf("Expected empty selector, got %q", selector)
	}
}

func TestEndOfResults(t *testing.T) {
	cases := []struct {
		body string
		want bool
	}{
		{"<html><body><p>No Results Found</p></body></html>", true},
		{"<html><body><p>NO POSTS FOUND</p></body></html>", true},
		{"<html><body><p>Latest articles below</p></body></html>", false},
	}

	for _, tc := range cases {
		if got := EndOfResults([]byte(tc.body)); got != tc.want {
			t.Errorf("EndOfResults(%q) = %v, want %v", tc.body, got, tc.want)
		}
	}
}
