package app

import (
	"bufio"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// writeTranscriptPDF renders the output text as a plain A4 document, one
// paragraph per non-empty line. Core fonts are cp1252, so text goes through
// the UTF-8 translator first.
func writeTranscriptPDF(title, text, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	if strings.TrimSpace(title) != "" {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.MultiCell(0, 8, tr(title), "", "L", false)
		pdf.Ln(4)
	}
	pdf.SetFont("Helvetica", "", 11)

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	blank := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			// collapse runs of blank lines into one gap
			if !blank {
				pdf.Ln(3)
			}
			blank = true
			continue
		}
		blank = false
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(outPath)
}
