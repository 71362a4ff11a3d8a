package extractor

import (
	"testing"
)

func TestExtractTitleSelectorPriority(t *testing.T) {
	html := `
	<html><body>
		<h1>Primary Heading</h1>
		<div data-test-id="post-title">Attribute Title</div>
	</body></html>`

	if got := extractTitle(parseDoc(t, html)); got != "Primary Heading" {
		t.Errorf("Expected 'Primary Heading', got %q", got)
	}
}

func TestExtractTitleSkipsEmptyMatches(t *testing.T) {
	html := `
	<html><body>
		<h1>   </h1>
		<div class="title">Fallback Title</div>
	</body></html>`

	if got := extractTitle(parseDoc(t, html)); got != "Fallback Title" {
		t.Errorf("Expected whitespace-only match to be skipped, got %q", got)
	}
}

func TestExtractTitleSentinel(t *testing.T) {
	html := `<html><body><p>No heading anywhere</p></body></html>`

	if got := extractTitle(parseDoc(t, html)); got != TitleNotFound {
		t.Errorf("Expected %q, got %q", TitleNotFound, got)
	}
}

func TestExtractDate(t *testing.T) {
	html := `
	<html><body>
		<span class="post-date">Jul. 30, 2024</span>
		<time datetime="2024-07-30">July 30, 2024</time>
	</body></html>`

	// The time element outranks the class-based selectors regardless of
	// document order.
	if got := extractDate(parseDoc(t, html)); got != "July 30, 2024" {
		t.Errorf("Expected 'July 30, 2024', got %q", got)
	}
}

func TestExtractDateSentinel(t *testing.T) {
	html := `<html><body><h1>Dateless</h1></body></html>`

	if got := extractDate(parseDoc(t, html)); got != DateNotFound {
		t.Errorf("Expected %q, got %q", DateNotFound, got)
	}
}

func TestExtractAuthor(t *testing.T) {
	html := `
	<html><body>
		<a class="author-link">Linked Author</a>
		<span data-test-id="author-name">Attribute Author</span>
	</body></html>`

	if got := extractAuthor(parseDoc(t, html)); got != "Attribute Author" {
		t.Errorf("Expected 'Attribute Author', got %q", got)
	}
}

func TestExtractAuthorSentinel(t *testing.T) {
	html := `<html><body><h1>Anonymous</h1></body></html>`

	if got := extractAuthor(parseDoc(t, html)); got != AuthorNotFound {
		t.Errorf("Expected %q, got %q", AuthorNotFound, got)
	}
}

func TestMetadataTrimsWhitespace(t *testing.T) {
	html := `
	<html><body>
		<h1>
			Padded Title
		</h1>
	</body></html>`

	if got := extractTitle(parseDoc(t, html)); got != "Padded Title" {
		t.Errorf("Expected trimmed title, got %q", got)
	}
}
