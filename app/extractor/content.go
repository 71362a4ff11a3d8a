package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const paragraphSeparator = "\n\n"

// Markers the site has used for transcript bodies across layout generations.
const transcriptSectionSelector = ".transcript-section, .transcript-text, .sa-transcript, [data-id='sa-transcript'], [id='sa-transcript']"

// Article body containers, most specific first.
var containerSelectors = []string{
	"div[data-test-id='content-container']",
	".paywall-content",
	"#content-container",
	".sa-art",
	"article.sa-content",
	".article-content",
	"#a-body",
	"div.media-article-content",
}

// Paragraphs containing any of these substrings (case-insensitive) are
// site boilerplate, not transcript text.
var boilerplateMarkers = []string{
	"disclosure:",
	"disclosure :",
	"©",
	"all rights reserved",
	"seeking alpha",
	"editor's note",
	"make the most of premium",
}

var (
	scriptBlockPattern    = regexp.MustCompile(`(?s)<script[^>]*>(.*?)</script>`)
	transcriptJSONPattern = regexp.MustCompile(`\{[^}]*"transcript"[^}]*\}`)
	scriptContentPattern  = regexp.MustCompile(`"content"\s*:\s*"([^"]*)"`)
	scriptTextPattern     = regexp.MustCompile(`"text"\s*:\s*"([^"]*)"`)
	speakerPattern        = regexp.MustCompile(`(?i)<strong>([^<:]+):</strong>([^<]+)`)
)

// A transcript needs a back-and-forth; fewer speaker labels than this is
// formatting noise, not a call.
const minSpeakerMatches = 10

func isBoilerplate(text string) bool {
	lower := strings.ToLower(text)
	for _, marker := range boilerplateMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// extractTranscriptSections joins the dedicated transcript section elements,
// or falls back to walking the siblings of a Q&A header's container.
func extractTranscriptSections(d *goquery.Document) string {
	if d == nil {
		return ""
	}

	sections := d.Find(transcriptSectionSelector)
	if sections.Length() > 0 {
		var parts []string
		sections.Each(func(_ int, s *goquery.Selection) {
			parts = append(parts, strings.TrimSpace(s.Text()))
		})
		return strings.Join(parts, paragraphSeparator)
	}

	qa := d.Find("strong, h2, h3").FilterFunction(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		switch goquery.NodeName(s) {
		case "strong":
			return strings.Contains(text, "Question-and-Answer")
		case "h2":
			return strings.Contains(text, "Q&A")
		case "h3":
			return strings.Contains(text, "Questions and Answers")
		}
		return false
	})
	if qa.Length() > 0 {
		var parts []string
		for n := qa.Get(0).Parent; n != nil; n = nextElementSibling(n) {
			if n.Type == html.ElementNode && (n.Data == "div" || n.Data == "section") {
				parts = append(parts, strings.TrimSpace(nodeText(n)))
			}
		}
		if len(parts) > 0 {
			return strings.Join(parts, paragraphSeparator)
		}
	}

	return ""
}

// extractFromContentContainers tries each known body container in order,
// keeping paragraphs that are long enough and free of boilerplate. A short
// container carrying only the premium teaser is skipped; a container whose
// paragraphs all fail the filter yields nothing and the next selector is
// tried with the same rules.
func extractFromContentContainers(d *goquery.Document) string {
	if d == nil {
		return ""
	}

	for _, selector := range containerSelectors {
		container := d.Find(selector).First()
		if container.Length() == 0 {
			continue
		}

		text := container.Text()
		if strings.Contains(text, "Make the most of Premium") && len(text) < 100 {
			continue
		}

		var parts []string
		container.Find("p").Each(func(_ int, p *goquery.Selection) {
			pText := strings.TrimSpace(p.Text())
			if len(pText) > minParagraphLength && !isBoilerplate(pText) {
				parts = append(parts, pText)
			}
		})

		if len(parts) > 0 {
			return strings.Join(parts, paragraphSeparator)
		}
	}

	return ""
}

// extractAfterHeaderPatterns anchors on a "Transcript" or "Earnings Call"
// heading and collects every following paragraph sibling to the end of the
// chain. There is no trailing boundary marker, so unrelated page content
// after the transcript can leak in.
func extractAfterHeaderPatterns(d *goquery.Document) string {
	if d == nil {
		return ""
	}

	headers := d.Find("h2, h3").FilterFunction(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		return strings.Contains(text, "Transcript") || strings.Contains(text, "Earnings Call")
	})
	if headers.Length() == 0 {
		return ""
	}

	var parts []string
	for n := nextElementSibling(headers.Get(0)); n != nil; n = nextElementSibling(n) {
		if n.Type == html.ElementNode && n.Data == "p" {
			parts = append(parts, strings.TrimSpace(nodeText(n)))
		}
	}

	if len(parts) > 0 {
		return strings.Join(parts, paragraphSeparator)
	}

	return ""
}

// extractFromScripts scans script blocks for quasi-JSON transcript payloads.
// Intentionally regex-based: the payloads are not valid JSON, and only the
// \" and \n escapes are undone, matching what the site actually emits.
func extractFromScripts(raw string) string {
	for _, match := range scriptBlockPattern.FindAllStringSubmatch(raw, -1) {
		script := match[1]
		if transcriptJSONPattern.FindString(script) == "" {
			continue
		}

		if m := scriptContentPattern.FindStringSubmatch(script); m != nil {
			return unescapeScriptValue(m[1])
		}
		if m := scriptTextPattern.FindStringSubmatch(script); m != nil {
			return unescapeScriptValue(m[1])
		}
	}

	return ""
}

func unescapeScriptValue(value string) string {
	value = strings.ReplaceAll(value, `\"`, `"`)
	value = strings.ReplaceAll(value, `\n`, "\n")
	return value
}

// extractFromPreBlocks collects preformatted blocks long enough to plausibly
// hold transcript text. No boilerplate filtering at this stage.
func extractFromPreBlocks(d *goquery.Document) string {
	if d == nil {
		return ""
	}

	var parts []string
	d.Find("pre").Each(func(_ int, pre *goquery.Selection) {
		text := strings.TrimSpace(pre.Text())
		if len(text) > minContentLength {
			parts = append(parts, text)
		}
	})

	if len(parts) > 0 {
		return strings.Join(parts, paragraphSeparator)
	}

	return ""
}

// extractSpeakerPatterns reconstructs "Speaker: text" lines from inline
// <strong> speaker labels in the raw markup.
func extractSpeakerPatterns(raw string) string {
	matches := speakerPattern.FindAllStringSubmatch(raw, -1)
	if len(matches) <= minSpeakerMatches {
		return ""
	}

	lines := make([]string, 0, len(matches))
	for _, m := range matches {
		lines = append(lines, strings.TrimSpace(m[1])+": "+strings.TrimSpace(m[2]))
	}

	return strings.Join(lines, paragraphSeparator)
}

// extractAllParagraphs is the last-resort path: every paragraph over the
// minimum length, in document order, with no boilerplate filtering.
func extractAllParagraphs(d *goquery.Document) string {
	if d == nil {
		return ""
	}

	var parts []string
	d.Find("p").Each(func(_ int, p *goquery.Selection) {
		text := strings.TrimSpace(p.Text())
		if len(text) > minParagraphLength {
			parts = append(parts, text)
		}
	})

	return strings.Join(parts, paragraphSeparator)
}

func nextElementSibling(n *html.Node) *html.Node {
	if n == nil {
		return nil
	}
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return sb.String()
}
