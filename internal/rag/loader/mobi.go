package loader

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/anvithk/KnowledgeAPI/internal/domain/docModel"
)

// Minimal MOBI reader. A .mobi file is a PalmDB archive whose record 0
// carries the PalmDOC and MOBI headers and whose following records hold
// the (optionally PalmDOC-compressed) book html.
const (
	palmHeaderSize     = 78
	palmRecordInfoSize = 8

	palmDocCompressionNone = 1
	palmDocCompressionLZ77 = 2
)

func extractMOBI(path string, source string) ([]docModel.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mobi file: %w", err)
	}

	records, err := palmRecords(data)
	if err != nil {
		logger.Error("failed parsing mobi container", "path", path)
		return nil, fmt.Errorf("failed to parse mobi: %w", err)
	}

	header := records[0]
	if len(header) < 12 {
		return nil, fmt.Errorf("failed to parse mobi: record 0 too short")
	}
	compression := binary.BigEndian.Uint16(header[0:2])
	textRecords := int(binary.BigEndian.Uint16(header[8:10]))
	if textRecords >= len(records) {
		textRecords = len(records) - 1
	}

	var raw bytes.Buffer
	for i := 1; i <= textRecords; i++ {
		switch compression {
		case palmDocCompressionNone:
			raw.Write(records[i])
		case palmDocCompressionLZ77:
			raw.Write(palmDocDecompress(records[i]))
		default:
			return nil, fmt.Errorf("failed to parse mobi: unsupported compression %d", compression)
		}
	}

	text, _, err := htmlToText(bytes.NewReader(raw.Bytes()))
	if err != nil || strings.TrimSpace(text) == "" {
		// Some books carry plain text rather than html
		text = raw.String()
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no extractable text in %s", path)
	}

	return []docModel.Document{
		{
			Text:   text,
			Source: source,
			Title:  mobiFullName(header),
			Page:   1,
		},
	}, nil
}

// palmRecords slices the file into its PalmDB records. The header names
// BOOK/MOBI as type/creator; offsets live in the record info list.
func palmRecords(data []byte) ([][]byte, error) {
	if len(data) < palmHeaderSize {
		return nil, fmt.Errorf("file shorter than palm header")
	}
	if string(data[60:64]) != "BOOK" || string(data[64:68]) != "MOBI" {
		return nil, fmt.Errorf("not a mobi container")
	}

	numRecords := int(binary.BigEndian.Uint16(data[76:78]))
	if numRecords == 0 {
		return nil, fmt.Errorf("container has no records")
	}
	infoEnd := palmHeaderSize + numRecords*palmRecordInfoSize
	if len(data) < infoEnd {
		return nil, fmt.Errorf("truncated record info list")
	}

	offsets := make([]uint32, numRecords+1)
	for i := 0; i < numRecords; i++ {
		offsets[i] = binary.BigEndian.Uint32(data[palmHeaderSize+i*palmRecordInfoSize:])
	}
	offsets[numRecords] = uint32(len(data))

	records := make([][]byte, numRecords)
	for i := 0; i < numRecords; i++ {
		start, end := offsets[i], offsets[i+1]
		if start > end || end > uint32(len(data)) {
			return nil, fmt.Errorf("record %d has invalid bounds", i)
		}
		records[i] = data[start:end]
	}
	return records, nil
}

// mobiFullName reads the book title out of the MOBI header in record 0.
// Absent or malformed headers yield an empty title, never an error.
func mobiFullName(header []byte) string {
	if len(header) < 92 || string(header[16:20]) != "MOBI" {
		return ""
	}
	off := binary.BigEndian.Uint32(header[84:88])
	length := binary.BigEndian.Uint32(header[88:92])
	if off+length > uint32(len(header)) {
		return ""
	}
	return string(header[off : off+length])
}

// palmDocDecompress expands one PalmDOC (LZ77 variant) record.
func palmDocDecompress(in []byte) []byte {
	out := make([]byte, 0, len(in)*2)
	for i := 0; i < len(in); {
		b := in[i]
		switch {
		case b == 0x00 || (b >= 0x09 && b <= 0x7f):
			out = append(out, b)
			i++
		case b >= 0x01 && b <= 0x08:
			// copy the next b bytes verbatim
			n := int(b)
			i++
			if i+n > len(in) {
				n = len(in) - i
			}
			out = append(out, in[i:i+n]...)
			i += n
		case b >= 0x80 && b <= 0xbf:
			if i+1 >= len(in) {
				return out
			}
			pair := binary.BigEndian.Uint16(in[i : i+2])
			distance := int((pair >> 3) & 0x07ff)
			length := int(pair&0x0007) + 3
			if distance == 0 || distance > len(out) {
				return out
			}
			for j := 0; j < length; j++ {
				out = append(out, out[len(out)-distance])
			}
			i += 2
		default: // 0xc0..0xff encodes a space plus an ascii char
			out = append(out, ' ', b^0x80)
			i++
		}
	}
	return out
}
