package loader

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anvithk/KnowledgeAPI/internal/domain/docModel"
)

func TestDocTypeFor(t *testing.T) {
	cases := map[string]docModel.DocType{
		"book.pdf":       docModel.PDF,
		"book.EPUB":      docModel.EPUB,
		"book.mobi":      docModel.MOBI,
		"notes.txt":      docModel.TXT,
		"page.html":      docModel.HTML,
		"page.htm":       docModel.HTML,
		"archive.tar.gz": docModel.ERR,
		"noext":          docModel.ERR,
	}
	for path, want := range cases {
		if got := DocTypeFor(path); got != want {
			t.Errorf("DocTypeFor(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestLoadFileUnsupportedType(t *testing.T) {
	_, err := LoadFile("diagram.svg", "diagram.svg")
	if !errors.Is(err, docModel.ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestResolveLocalMissing(t *testing.T) {
	r := NewResolver()
	_, _, _, err := r.Resolve(context.Background(), filepath.Join(t.TempDir(), "missing.txt"))
	if !errors.Is(err, docModel.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestResolveLocalFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0644); err != nil {
		t.Fatal(err)
	}

	r := NewResolver()
	local, canonical, cleanup, err := r.Resolve(context.Background(), path)
	defer cleanup()
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if local != path {
		t.Errorf("expected local path %q, got %q", path, local)
	}
	if canonical != filepath.Clean(path) {
		t.Errorf("unexpected canonical source %q", canonical)
	}
}

func TestResolveURLDownloads(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/docs/notes.txt" {
			http.NotFound(w, req)
			return
		}
		w.Write([]byte("downloaded content"))
	}))
	defer srv.Close()

	r := NewResolver()
	srcURL := srv.URL + "/docs/notes.txt"
	local, canonical, cleanup, err := r.Resolve(context.Background(), srcURL)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	if canonical != srcURL {
		t.Errorf("canonical source should be the URL, got %q", canonical)
	}
	if !strings.HasSuffix(local, ".txt") {
		t.Errorf("temp download should keep the url extension, got %q", local)
	}
	data, err := os.ReadFile(local)
	if err != nil {
		t.Fatalf("reading download: %v", err)
	}
	if string(data) != "downloaded content" {
		t.Errorf("unexpected download body %q", data)
	}

	cleanup()
	if _, err := os.Stat(local); !errors.Is(err, os.ErrNotExist) {
		t.Error("cleanup should remove the temp download")
	}
}

func TestResolveURLNotFound(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	r := NewResolver()
	_, _, cleanup, err := r.Resolve(context.Background(), srv.URL+"/gone.pdf")
	defer cleanup()
	if !errors.Is(err, docModel.ErrNotFound) {
		t.Errorf("expected ErrNotFound for 404, got %v", err)
	}
}

func TestExtractTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("plain text body"), 0644); err != nil {
		t.Fatal(err)
	}

	docs, err := LoadFile(path, path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if docs[0].Text != "plain text body" || docs[0].Source != path {
		t.Errorf("unexpected document %+v", docs[0])
	}
}

func TestExtractHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "page.html")
	body := `<html><head><title>Field Notes</title><style>p{color:red}</style></head>` +
		`<body><script>var x=1;</script><h1>Heading</h1><p>First paragraph.</p><p>Second paragraph.</p></body></html>`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	docs, err := LoadFile(path, path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if docs[0].Title != "Field Notes" {
		t.Errorf("expected title from head, got %q", docs[0].Title)
	}
	text := docs[0].Text
	for _, want := range []string{"Heading", "First paragraph.", "Second paragraph."} {
		if !strings.Contains(text, want) {
			t.Errorf("text missing %q: %q", want, text)
		}
	}
	for _, banned := range []string{"var x=1", "color:red"} {
		if strings.Contains(text, banned) {
			t.Errorf("script/style content leaked into text: %q", text)
		}
	}
}

func writeTestEPUB(t *testing.T, dir string) string {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"mimetype": "application/epub+zip",
		"META-INF/container.xml": `<?xml version="1.0"?>
<container version="1.0" xmlns="urn:oasis:names:tc:opendocument:xmlns:container">
  <rootfiles><rootfile full-path="OEBPS/content.opf" media-type="application/oebps-package+xml"/></rootfiles>
</container>`,
		"OEBPS/content.opf": `<?xml version="1.0"?>
<package xmlns="http://www.idpf.org/2007/opf" version="2.0">
  <metadata xmlns:dc="http://purl.org/dc/elements/1.1/">
    <dc:title>Sample Book</dc:title>
    <dc:creator>Ada Writer</dc:creator>
  </metadata>
  <manifest>
    <item id="ch1" href="ch1.html" media-type="application/xhtml+xml"/>
    <item id="ch2" href="ch2.html" media-type="application/xhtml+xml"/>
  </manifest>
  <spine><itemref idref="ch1"/><itemref idref="ch2"/></spine>
</package>`,
		"OEBPS/ch1.html": `<html><body><p>Chapter one text.</p></body></html>`,
		"OEBPS/ch2.html": `<html><body><p>Chapter two text.</p></body></html>`,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(dir, "sample.epub")
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractEPUB(t *testing.T) {
	path := writeTestEPUB(t, t.TempDir())

	docs, err := LoadFile(path, path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 spine sections, got %d", len(docs))
	}
	if docs[0].Title != "Sample Book" {
		t.Errorf("expected package title, got %q", docs[0].Title)
	}
	if len(docs[0].Authors) != 1 || docs[0].Authors[0] != "Ada Writer" {
		t.Errorf("expected creator metadata, got %v", docs[0].Authors)
	}
	if !strings.Contains(docs[0].Text, "Chapter one") || !strings.Contains(docs[1].Text, "Chapter two") {
		t.Errorf("spine order lost: %q / %q", docs[0].Text, docs[1].Text)
	}
	if docs[0].Page != 1 || docs[1].Page != 2 {
		t.Errorf("sections should be numbered in spine order, got %d and %d", docs[0].Page, docs[1].Page)
	}
}

func writeTestMOBI(t *testing.T, dir string, text string) string {
	t.Helper()

	// One header record plus one uncompressed text record.
	textBytes := []byte(text)
	header := make([]byte, 16)
	binary.BigEndian.PutUint16(header[0:2], palmDocCompressionNone)
	binary.BigEndian.PutUint32(header[4:8], uint32(len(textBytes)))
	binary.BigEndian.PutUint16(header[8:10], 1)

	numRecords := 2
	infoEnd := palmHeaderSize + numRecords*palmRecordInfoSize
	buf := make([]byte, infoEnd)
	copy(buf[60:64], "BOOK")
	copy(buf[64:68], "MOBI")
	binary.BigEndian.PutUint16(buf[76:78], uint16(numRecords))
	binary.BigEndian.PutUint32(buf[palmHeaderSize:], uint32(infoEnd))
	binary.BigEndian.PutUint32(buf[palmHeaderSize+palmRecordInfoSize:], uint32(infoEnd+len(header)))
	buf = append(buf, header...)
	buf = append(buf, textBytes...)

	path := filepath.Join(dir, "sample.mobi")
	if err := os.WriteFile(path, buf, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtractMOBI(t *testing.T) {
	path := writeTestMOBI(t, t.TempDir(), "<html><body><p>Mobi body text.</p></body></html>")

	docs, err := LoadFile(path, path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if len(docs) != 1 {
		t.Fatalf("expected 1 document, got %d", len(docs))
	}
	if !strings.Contains(docs[0].Text, "Mobi body text.") {
		t.Errorf("unexpected mobi text %q", docs[0].Text)
	}
}

func TestExtractMOBIRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.mobi")
	if err := os.WriteFile(path, bytes.Repeat([]byte{0}, 200), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path, path); err == nil {
		t.Error("expected error for non-mobi bytes")
	}
}

func TestPalmDocDecompress(t *testing.T) {
	// "abc" literals, a backreference of distance 3 length 3, then a
	// "space + char" byte for 'x'.
	pair := uint16(0x8000) | uint16(3)<<3 | uint16(0)
	in := []byte{'a', 'b', 'c', byte(pair >> 8), byte(pair & 0xff), 0x80 ^ 'x'}

	out := palmDocDecompress(in)
	if string(out) != "abcabc x" {
		t.Errorf("decompress = %q, want %q", out, "abcabc x")
	}
}
