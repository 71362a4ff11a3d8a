package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Content produced by a strategy is accepted only when its trimmed length
// exceeds this many bytes. Shorter output usually means a paywall teaser or
// a stray layout fragment rather than a transcript.
const minContentLength = 500

// Paragraphs at or below this length are treated as navigation/boilerplate.
const minParagraphLength = 20

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Run extracts a structured transcript from the document. It never fails:
// malformed markup degrades to regex-only strategies, and a document with no
// recognizable content yields the sentinel strings.
func (e *Extractor) Run(doc Document) (Result, Stats) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc.HTML))
	if err != nil {
		d = nil
	}

	result := Result{
		Title:  extractTitle(d),
		Date:   extractDate(d),
		Author: extractAuthor(d),
	}

	content, strategy := extractContent(d, doc.HTML)
	result.Content = content

	return result, Stats{
		Strategy:      strategy,
		ContentLength: len(content),
	}
}

// extractContent tries each strategy in priority order and accepts the first
// result whose trimmed length clears the threshold. The order encodes a
// reliability ranking and must not be rearranged.
func extractContent(d *goquery.Document, raw string) (string, string) {
	strategies := []struct {
		name string
		run  func() string
	}{
		{StrategyTranscriptSections, func() string { return extractTranscriptSections(d) }},
		{StrategyContentContainers, func() string { return extractFromContentContainers(d) }},
		{StrategyHeaderAnchored, func() string { return extractAfterHeaderPatterns(d) }},
		{StrategyEmbeddedScripts, func() string { return extractFromScripts(raw) }},
		{StrategyPreBlocks, func() string { return extractFromPreBlocks(d) }},
		{StrategySpeakerPatterns, func() string { return extractSpeakerPatterns(raw) }},
	}

	for _, s := range strategies {
		content := s.run()
		if len(strings.TrimSpace(content)) > minContentLength {
			return content, s.name
		}
	}

	if content := extractAllParagraphs(d); strings.TrimSpace(content) != "" {
		return content, StrategyFallbackParagraphs
	}

	return ContentExtractionFailed, StrategyNone
}
