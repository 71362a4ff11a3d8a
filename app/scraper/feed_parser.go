package scraper

import (
	"bytes"
	"fmt"

	"github.com/mmcdole/gofeed"
)

// FeedParser collects article links from an author's RSS feed, the
// alternative to paginating the author page.
type FeedParser struct {
	gofeedParser *gofeed.Parser
}

func NewFeedParser() *FeedParser {
	return &FeedParser{
		gofeedParser: gofeed.NewParser(),
	}
}

// Run parses a feed body and returns the article links plus the feed title
// (the author's display name).
func (p *FeedParser) Run(data []byte) ([]PageLink, string, error) {
	feed, err := p.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse feed: %w", err)
	}

	links := make([]PageLink, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item.Link == "" {
			continue
		}
		links = append(links, PageLink{
			Title: item.Title,
			URL:   item.Link,
		})
	}

	return links, feed.Title, nil
}
