// Package loader turns source files into plain-text documents. Each
// supported extension has its own extractor; the resolver upstream handles
// URL downloads so every extractor only ever sees a local path.
package loader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/anvithk/KnowledgeAPI/internal/domain/docModel"
	"github.com/anvithk/KnowledgeAPI/pkg/logger_i"
)

var logger = logger_i.NewLogger("Document Loader")

func DocTypeFor(path string) docModel.DocType {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return docModel.PDF
	case ".epub":
		return docModel.EPUB
	case ".mobi":
		return docModel.MOBI
	case ".txt":
		return docModel.TXT
	case ".html", ".htm":
		return docModel.HTML
	default:
		return docModel.ERR
	}
}

// LoadFile extracts documents from the file at path. canonicalSource is
// recorded on every produced document; for downloaded files it is the
// original URL rather than the temp path.
func LoadFile(path string, canonicalSource string) ([]docModel.Document, error) {
	docType := DocTypeFor(path)
	logger.Debug("LoadFile", "path", path, "type", docType)

	switch docType {
	case docModel.PDF:
		return extractPDF(path, canonicalSource)
	case docModel.EPUB:
		return extractEPUB(path, canonicalSource)
	case docModel.MOBI:
		return extractMOBI(path, canonicalSource)
	case docModel.TXT:
		return extractText(path, canonicalSource)
	case docModel.HTML:
		return extractHTML(path, canonicalSource)
	default:
		return nil, fmt.Errorf("%w: %s", docModel.ErrUnsupportedType, filepath.Ext(path))
	}
}
