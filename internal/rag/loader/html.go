package loader

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html"

	"github.com/anvithk/KnowledgeAPI/internal/domain/docModel"
)

func extractHTML(path string, source string) ([]docModel.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open html file: %w", err)
	}
	defer f.Close()

	text, title, err := htmlToText(f)
	if err != nil {
		logger.Error("Error parsing html", "path", path)
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no extractable text in %s", path)
	}
	return []docModel.Document{
		{
			Text:   text,
			Source: source,
			Title:  title,
			Page:   1,
		},
	}, nil
}

// htmlToText renders the visible text of an html document. Script and
// style bodies are skipped; block elements become line breaks so the
// chunker sees word boundaries.
func htmlToText(r io.Reader) (text string, title string, err error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", "", err
	}

	var sb strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if n.FirstChild != nil && title == "" {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
				return
			case "p", "div", "br", "li", "h1", "h2", "h3", "h4", "h5", "h6", "tr":
				sb.WriteString("\n")
			}
		case html.TextNode:
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return sb.String(), title, nil
}
