package loader

import (
	"errors"
	"fmt"
	"time"

	"github.com/dslipak/pdf"

	"github.com/anvithk/KnowledgeAPI/internal/domain/docModel"
)

func extractPDF(path string, source string) ([]docModel.Document, error) {
	logger.Debug("extractPDF", "attempting extraction", path)
	f, err := pdf.Open(path)
	if err != nil {
		logger.Error("failed opening of pdf file", "path", path)
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	var docs []docModel.Document
	numPages := f.NumPage()
	logger.Debug("extractPDF", "number of pages", numPages)
	for i := 1; i <= numPages; i++ {
		page := f.Page(i)
		if page.V.IsNull() {
			continue
		}

		content, err := protectExtract(page)
		if err != nil {
			// A single broken page should not sink the whole document
			logger.Error("Error parsing page content", "page", i, "Error", err)
			continue
		}

		docs = append(docs, docModel.Document{
			Text:   content,
			Source: source,
			Page:   i,
		})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no extractable text in %s", path)
	}
	return docs, nil
}

// protectExtract bounds a single page extraction; GetPlainText can hang
// on malformed content streams.
func protectExtract(page pdf.Page) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-time.After(time.Second * 10):
		logger.Error("pageExtract", "timeout")
		return "", errors.New("timeout")
	}
}
