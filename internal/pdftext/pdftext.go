// Package pdftext extracts the text layer from PDF documents. The PDF
// internals belong to github.com/ledongthuc/pdf; this wrapper only guards the
// call and normalizes failures into errors.
package pdftext

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// extracted text is capped so a hostile document cannot balloon memory
const maxTextBytes = 1 << 20

// Extract returns the plain text layer of the PDF. The underlying reader is
// known to panic on malformed documents, so the call is wrapped in recover
// and every failure surfaces as an ordinary error.
func Extract(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic during pdf extraction: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("extract text: %w", err)
	}

	raw, err := io.ReadAll(io.LimitReader(plain, maxTextBytes))
	if err != nil {
		return "", fmt.Errorf("read text: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("pdf has no text layer")
	}
	return string(raw), nil
}
