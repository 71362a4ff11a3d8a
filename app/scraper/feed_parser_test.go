package scraper

import (
	"testing"
)

const sampleFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
	<title>SA Transcripts</title>
	<link>https://seekingalpha.com/author/sa-transcripts</link>
	<item>
		<title>Acme Corp Q2 2024 Earnings Call Transcript</title>
		<link>https://seekingalpha.com/article/1-acme-q2-2024</link>
	</item>
	<item>
		<title>Globex Q2 2024 Earnings Call Transcript</title>
		<link>https://seekingalpha.com/article/2-globex-q2-2024</link>
	</item>
	<item>
		<title>Linkless entry</title>
	</item>
</channel>
</rss>`

func TestFeedParser(t *testing.T) {
	links, title, err := NewFeedParser().Run([]byte(sampleFeed))
	if err != nil {
		t.Fatal(err)
	}

	if title != "SA Transcripts" {
		t.Errorf("Expected feed title 'SA Transcripts', got %q", title)
	}
	if len(links) != 2 {
		t.Fatalf("Expected 2 links, got %d", len(links))
	}
	if links[0].Title != "Acme Corp Q2 2024 Earnings Call Transcript" {
		t.Errorf("Unexpected first title: %q", links[0].Title)
	}
	if links[1].URL != "https://seekingalpha.com/article/2-globex-q2-2024" {
		t.Errorf("Unexpected second URL: %q", links[1].URL)
	}
}

func TestFeedParserInvalidInput(t *testing.T) {
	if _, _, err := NewFeedParser().Run([]byte("not a feed")); err == nil {
		t.Error("Expected error for malformed feed")
	}
}
