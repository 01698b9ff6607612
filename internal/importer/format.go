package importer

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Format classifies an upload as a binary workbook or delimited text.
type Format int

const (
	FormatSpreadsheet Format = iota
	FormatDelimited
)

// Detection is the outcome of format sniffing. Separator is only meaningful
// for FormatDelimited.
type Detection struct {
	Format    Format
	Separator rune
}

// Content-type allow-list. Anything else is rejected with ErrUnsupportedFormat
// before a single byte is parsed.
var (
	spreadsheetTypes = map[string]bool{
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
		"application/vnd.ms-excel":                                          true,
	}
	delimitedTypes = map[string]bool{
		"text/csv":                  true,
		"application/csv":           true,
		"text/tab-separated-values": true,
	}
	spreadsheetExts = map[string]bool{".xlsx": true, ".xls": true}
	delimitedExts   = map[string]bool{".csv": true, ".tsv": true, ".txt": true}
)

// Detect classifies an upload by declared content-type, falling back to the
// filename extension for generic types (octet-stream, empty). For delimited
// content the separator is found by probing the first line for a tab.
func Detect(contentType, filename string, head []byte) (Detection, error) {
	ct := mediaType(contentType)
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case spreadsheetTypes[ct]:
		return Detection{Format: FormatSpreadsheet}, nil
	case delimitedTypes[ct]:
		if ct == "text/tab-separated-values" || ext == ".tsv" {
			return Detection{Format: FormatDelimited, Separator: '\t'}, nil
		}
		return Detection{Format: FormatDelimited, Separator: probeSeparator(head)}, nil
	case ct == "" || ct == "application/octet-stream" || ct == "text/plain":
		// Browsers and curl are sloppy about upload content-types; trust the
		// extension when the declared type says nothing.
		if spreadsheetExts[ext] {
			return Detection{Format: FormatSpreadsheet}, nil
		}
		if delimitedExts[ext] {
			if ext == ".tsv" {
				return Detection{Format: FormatDelimited, Separator: '\t'}, nil
			}
			return Detection{Format: FormatDelimited, Separator: probeSeparator(head)}, nil
		}
	}
	return Detection{}, ErrUnsupportedFormat
}

// probeSeparator inspects the first line of content: a tab anywhere in it
// means tab-separated, otherwise comma.
func probeSeparator(head []byte) rune {
	if len(head) > 1024 {
		head = head[:1024]
	}
	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}
	if bytes.IndexByte(head, '\t') >= 0 {
		return '\t'
	}
	return ','
}

// mediaType strips parameters like "; charset=utf-8" from a Content-Type.
func mediaType(contentType string) string {
	ct := contentType
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}
