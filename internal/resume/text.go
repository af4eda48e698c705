package resume

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ledongthuc/pdf"

	"github.com/fairyhunter13/resume-screener/internal/domain"
	"github.com/fairyhunter13/resume-screener/pkg/textx"
)

// PDFErrorPrefix starts the text returned when a PDF cannot be read.
const PDFErrorPrefix = "Error extracting PDF: "

// IsPDF reports whether fileName carries a .pdf suffix (case-insensitive).
func IsPDF(fileName string) bool {
	return strings.EqualFold(filepath.Ext(fileName), ".pdf")
}

// IsSupported reports whether fileName has an accepted resume extension.
func IsSupported(fileName string) bool {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf", ".txt":
		return true
	default:
		return false
	}
}

// CheckExtension rejects files that are neither .pdf nor .txt. Content is
// never rejected: unreadable bytes degrade during extraction instead.
func CheckExtension(fileName string) error {
	if !IsSupported(fileName) {
		return fmt.Errorf("%w: only PDF and TXT files supported", domain.ErrUnsupportedMedia)
	}
	return nil
}

// SniffMismatch reports the detected MIME type when data does not look like
// what the extension promises: PDFs must carry the PDF signature and text
// files must be text. Empty data never mismatches.
func SniffMismatch(fileName string, data []byte) (detected string, mismatch bool) {
	if len(data) == 0 {
		return "", false
	}
	m := mimetype.Detect(data)
	want := "text/plain"
	if IsPDF(fileName) {
		want = "application/pdf"
	}
	for p := m; p != nil; p = p.Parent() {
		if p.Is(want) {
			return m.String(), false
		}
	}
	return m.String(), true
}

// ExtractText turns raw document bytes into text. PDFs are read page by page;
// every other format is decoded as UTF-8 with invalid sequences dropped.
// It never fails: an unreadable PDF yields a PDFErrorPrefix message instead.
func ExtractText(fileName string, data []byte) string {
	if IsPDF(fileName) {
		return extractPDF(data)
	}
	return textx.DecodeUTF8(data)
}

// IsExtractionError reports whether text is the degraded output of a failed PDF read.
func IsExtractionError(text string) bool {
	return strings.HasPrefix(text, PDFErrorPrefix)
}

func extractPDF(data []byte) (text string) {
	// the pdf package panics on some malformed object streams
	defer func() {
		if rec := recover(); rec != nil {
			text = fmt.Sprintf("%s%v", PDFErrorPrefix, rec)
		}
	}()
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return PDFErrorPrefix + err.Error()
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		s, err := page.GetPlainText(nil)
		if err != nil {
			return PDFErrorPrefix + err.Error()
		}
		b.WriteString(s)
	}
	return b.String()
}
