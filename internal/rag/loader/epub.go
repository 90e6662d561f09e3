package loader

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"path"
	"strings"

	"github.com/anvithk/KnowledgeAPI/internal/domain/docModel"
)

// epub's container.xml points at the OPF package file; the OPF's spine
// lists the reading order of the content documents.
type epubContainer struct {
	Rootfiles []struct {
		FullPath string `xml:"full-path,attr"`
	} `xml:"rootfiles>rootfile"`
}

type epubPackage struct {
	Metadata struct {
		Title    string   `xml:"title"`
		Creators []string `xml:"creator"`
	} `xml:"metadata"`
	Manifest struct {
		Items []struct {
			ID   string `xml:"id,attr"`
			Href string `xml:"href,attr"`
		} `xml:"item"`
	} `xml:"manifest"`
	Spine struct {
		ItemRefs []struct {
			IDRef string `xml:"idref,attr"`
		} `xml:"itemref"`
	} `xml:"spine"`
}

func extractEPUB(filePath string, source string) ([]docModel.Document, error) {
	zr, err := zip.OpenReader(filePath)
	if err != nil {
		logger.Error("failed opening epub archive", "path", filePath)
		return nil, fmt.Errorf("failed to open epub: %w", err)
	}
	defer zr.Close()

	entries := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		entries[f.Name] = f
	}

	opfPath, err := epubOPFPath(entries)
	if err != nil {
		return nil, err
	}

	var pkg epubPackage
	if err := readZipXML(entries, opfPath, &pkg); err != nil {
		return nil, fmt.Errorf("failed to parse epub package: %w", err)
	}

	hrefByID := make(map[string]string, len(pkg.Manifest.Items))
	for _, item := range pkg.Manifest.Items {
		hrefByID[item.ID] = item.Href
	}

	opfDir := path.Dir(opfPath)
	var docs []docModel.Document
	for i, ref := range pkg.Spine.ItemRefs {
		href, ok := hrefByID[ref.IDRef]
		if !ok {
			continue
		}
		entryName := href
		if opfDir != "." {
			entryName = path.Join(opfDir, href)
		}
		entry, ok := entries[entryName]
		if !ok {
			logger.Warn("extractEPUB", "spine entry missing from archive", entryName)
			continue
		}

		rc, err := entry.Open()
		if err != nil {
			logger.Warn("extractEPUB", "failed opening section", entryName)
			continue
		}
		text, _, err := htmlToText(rc)
		rc.Close()
		if err != nil || strings.TrimSpace(text) == "" {
			continue
		}

		docs = append(docs, docModel.Document{
			Text:    text,
			Source:  source,
			Title:   pkg.Metadata.Title,
			Authors: pkg.Metadata.Creators,
			Page:    i + 1,
		})
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no extractable text in %s", filePath)
	}
	return docs, nil
}

func epubOPFPath(entries map[string]*zip.File) (string, error) {
	var container epubContainer
	if err := readZipXML(entries, "META-INF/container.xml", &container); err != nil {
		return "", fmt.Errorf("failed to read epub container: %w", err)
	}
	if len(container.Rootfiles) == 0 || container.Rootfiles[0].FullPath == "" {
		return "", fmt.Errorf("epub container names no rootfile")
	}
	return container.Rootfiles[0].FullPath, nil
}

func readZipXML(entries map[string]*zip.File, name string, v interface{}) error {
	entry, ok := entries[name]
	if !ok {
		return fmt.Errorf("missing %s", name)
	}
	rc, err := entry.Open()
	if err != nil {
		return err
	}
	defer rc.Close()
	return xml.NewDecoder(rc).Decode(v)
}
