package app

import (
	"bufio"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// writeGuidePDF renders a minimal PDF from the guide Markdown, keeping
// headings and paragraphs. It does not attempt full Markdown layout.
func writeGuidePDF(markdown string, outPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	scanner := bufio.NewScanner(strings.NewReader(markdown))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		s := strings.TrimSpace(scanner.Text())
		if s == "" {
			pdf.Ln(5)
			continue
		}
		if strings.HasPrefix(s, "#") {
			level := 0
			for level < len(s) && s[level] == '#' {
				level++
			}
			text := strings.TrimSpace(s[level:])
			if text == "" {
				continue
			}
			size := 16.0
			if level == 2 {
				size = 13.0
			} else if level >= 3 {
				size = 11.5
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			continue
		}
		if strings.HasPrefix(s, "- ") {
			pdf.MultiCell(0, 5, "- "+strings.TrimPrefix(s, "- "), "", "L", false)
			continue
		}
		pdf.MultiCell(0, 5, s, "", "L", false)
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return pdf.OutputFileAndClose(outPath)
}
