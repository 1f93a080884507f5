package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	pdf "github.com/ledongthuc/pdf"

	"github.com/snotra-ai/snotra-backend/internal/types"
)

var (
	// ErrUnsupportedFormat means the declared format is not one we extract.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrDecode means the bytes could not be decoded as the declared format.
	ErrDecode = errors.New("document decode failed")
)

// FormatFromFilename maps an upload filename to a supported format.
func FormatFromFilename(name string) (types.DocumentFormat, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".txt":
		return types.FormatPlainText, true
	case ".md", ".markdown":
		return types.FormatMarkdown, true
	case ".pdf":
		return types.FormatPDF, true
	case ".docx":
		return types.FormatDocx, true
	default:
		return "", false
	}
}

// Extract converts raw file bytes plus a declared format into normalized
// text. It is a pure transform: no I/O beyond the provided bytes.
func Extract(name string, format types.DocumentFormat, data []byte) (string, error) {
	switch format {
	case types.FormatPlainText, types.FormatMarkdown:
		return extractPlain(name, data)
	case types.FormatPDF:
		return extractPDF(name, data)
	case types.FormatDocx:
		return extractDOCX(name, data)
	default:
		return "", fmt.Errorf("%w: %q (name=%s)", ErrUnsupportedFormat, format, name)
	}
}

func extractPlain(name string, data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", ErrDecode, name)
	}
	return string(data), nil
}

// extractPDF returns page texts in order, joined by newlines. A page that
// yields no text contributes an empty segment; only an unopenable container
// is an error.
func extractPDF(name string, data []byte) (string, error) {
	if !isPDF(data) {
		return "", fmt.Errorf("%w: %s claims pdf but missing %%PDF header (head=%s)", ErrDecode, name, firstBytesHex(data, 8))
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: pdf reader: %v", ErrDecode, err)
	}
	pages := make([]string, 0, r.NumPage())
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			pages = append(pages, "")
			continue
		}
		txt, err := p.GetPlainText(nil)
		if err != nil {
			// Unextractable page, not a broken container.
			pages = append(pages, "")
			continue
		}
		pages = append(pages, strings.TrimSpace(txt))
	}
	return strings.Join(pages, "\n"), nil
}

// extractDOCX pulls paragraph text from word/document.xml in document
// order, joined by newlines.
func extractDOCX(name string, data []byte) (string, error) {
	if !isZip(data) {
		return "", fmt.Errorf("%w: %s claims docx but is not a valid zip container", ErrDecode, name)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: docx zip: %v", ErrDecode, err)
	}
	f := findZipFile(zr, "word/document.xml")
	if f == nil {
		return "", fmt.Errorf("%w: %s has no word/document.xml", ErrDecode, name)
	}
	rc, err := f.Open()
	if err != nil {
		return "", fmt.Errorf("%w: docx open document.xml: %v", ErrDecode, err)
	}
	defer rc.Close()
	b, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: docx read document.xml: %v", ErrDecode, err)
	}
	return docxParagraphs(b), nil
}

func docxParagraphs(xmlBytes []byte) string {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	var paras []string
	var cur strings.Builder
	inPara := false
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				cur.Reset()
			case "t":
				var v string
				_ = dec.DecodeElement(&v, &t)
				if inPara {
					cur.WriteString(v)
				} else if v != "" {
					paras = append(paras, v)
				}
			}
		case xml.EndElement:
			if t.Name.Local == "p" && inPara {
				paras = append(paras, cur.String())
				inPara = false
			}
		}
	}
	return strings.Join(paras, "\n")
}

func findZipFile(zr *zip.Reader, name string) *zip.File {
	for _, f := range zr.File {
		if f.Name == name {
			return f
		}
	}
	return nil
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZip(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func firstBytesHex(b []byte, n int) string {
	if len(b) < n {
		n = len(b)
	}
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		out = append(out, hexdigits[b[i]>>4], hexdigits[b[i]&0x0f])
	}
	return string(out)
}
