package extractor

import (
	"strings"
	"testing"
)

func TestSalvageExtractor(t *testing.T) {
	html := `
	<!DOCTYPE html>
	<html>
	<head><title>Acme Corp Q2 2024 Results</title></head>
	<body>
		<header><nav>Navigation</nav></header>
		<main>
			<article>
				<h1>Acme Corp Q2 2024 Results</h1>
				<p>Revenue for the quarter came in at 4.2 billion dollars, ahead of guidance and up twelve percent year over year on continued subscription strength.</p>
				<p>Operating margin expanded by two hundred basis points as the cost program announced last year ran ahead of schedule across all regions.</p>
				<p>Management raised full year guidance and announced an additional share repurchase authorization of one billion dollars effective immediately.</p>
			</article>
		</main>
		<footer><p>Copyright 2024</p></footer>
	</body>
	</html>
	`

	content, err := NewSalvageExtractor().Run([]byte(html))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(content, "Revenue for the quarter") {
		t.Errorf("Expected article body in salvaged content, got %q", content)
	}
}

func TestSalvageExtractorEmptyInput(t *testing.T) {
	if _, err := NewSalvageExtractor().Run(nil); err == nil {
		t.Error("Expected error for empty input")
	}
}
