package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFText returns the plain text of all pages of a PDF file. The
// metadata patterns only work on text, not on the compressed content
// streams of the raw file.
func PDFText(content []byte) (text string, err error) {
	// The parser panics on some malformed files, a bad upload must not
	// take the process down.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("could not read the PDF file: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", err
		}

		b.WriteString(pageText)
		b.WriteString("\n")
	}

	return b.String(), nil
}
