package extractor

// Sentinel values returned when no selector or strategy produces a usable value.
// Callers detect missing fields by comparing against these strings.
const (
	TitleNotFound           = "Title not found"
	DateNotFound            = "Date not found"
	AuthorNotFound          = "Author not found"
	ContentExtractionFailed = "Content extraction failed"
)

// Strategy identifiers reported in Stats.
const (
	StrategyTranscriptSections = "transcript_sections"
	StrategyContentContainers  = "content_containers"
	StrategyHeaderAnchored     = "header_anchored"
	StrategyEmbeddedScripts    = "embedded_scripts"
	StrategyPreBlocks          = "pre_blocks"
	StrategySpeakerPatterns    = "speaker_patterns"
	StrategyFallbackParagraphs = "fallback_paragraphs"
	StrategyNone               = "none"
)

// Document is a single downloaded article. URL and Title are caller-supplied
// context (from the link record), not derived from the markup.
type Document struct {
	HTML  string
	URL   string
	Title string
}

// Result is the structured transcript extracted from one document. All four
// fields are always populated, falling back to the sentinel strings.
type Result struct {
	Title   string `json:"title"`
	Date    string `json:"date"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

// Record is the JSON file shape written per extracted article.
type Record struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Date    string `json:"date"`
	Author  string `json:"author"`
	Content string `json:"content"`
}

// Stats describes how the content was obtained, for the caller to log.
// The extractor itself does no logging.
type Stats struct {
	Strategy      string
	ContentLength int
}
