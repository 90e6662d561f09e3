package loader

import (
	"fmt"
	"strings"

	"github.com/lu4p/cat"

	"github.com/anvithk/KnowledgeAPI/internal/domain/docModel"
)

func extractText(path string, source string) ([]docModel.Document, error) {
	text, err := cat.File(path)
	if err != nil {
		logger.Error("Error extracting content from text file", "path", path)
		return nil, fmt.Errorf("failed to read text file: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no extractable text in %s", path)
	}
	return []docModel.Document{
		{
			Text:   text,
			Source: source,
			Page:   1,
		},
	}, nil
}
