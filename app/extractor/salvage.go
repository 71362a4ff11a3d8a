package extractor

import (
	"bytes"
	"fmt"

	readability "codeberg.org/readeck/go-readability"
)

// StrategySalvage marks content recovered by the generic readability pass
// rather than the transcript cascade.
const StrategySalvage = "readability_salvage"

// SalvageExtractor runs a generic readability pass over documents the
// transcript cascade could not handle, so a usable article body is kept even
// when no transcript heuristics match.
type SalvageExtractor struct{}

func NewSalvageExtractor() *SalvageExtractor {
	return &SalvageExtractor{}
}

func (e *SalvageExtractor) Run(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	article, err := readability.FromReader(bytes.NewReader(data), nil)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	if article.Content == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	return article.Content, nil
}
