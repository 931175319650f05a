package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfLandscapeColumns = 8
	pdfMargin           = 10.0
)

// PDFExporter renders datasets into a tabular PDF, one page block per section.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with the dataset title, optional subtitle
// lines and the table body. Sections start on a new page with their caption.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	orientation := "P"
	if len(data.Headers) > pdfLandscapeColumns {
		orientation = "L"
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(pdfMargin, 15, pdfMargin)
	pdf.SetTitle(data.Title, true)

	pageWidth, _ := pdf.GetPageSize()
	colWidth := (pageWidth - 2*pdfMargin) / float64(len(data.Headers))
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	sections := data.Sections
	if len(sections) == 0 {
		sections = []Section{{Start: 0, Count: len(data.Records)}}
	}

	for i, section := range sections {
		pdf.AddPage()
		if i == 0 && data.Title != "" {
			pdf.SetFont("Arial", "B", 14)
			pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
			pdf.SetFont("Arial", "", 10)
			for _, line := range data.Subtitle {
				pdf.CellFormat(0, 6, tr(line), "", 1, "C", false, 0, "")
			}
			pdf.Ln(4)
		}
		if section.Caption != "" {
			pdf.SetFont("Arial", "B", 12)
			pdf.CellFormat(0, 8, tr(section.Caption), "", 1, "L", false, 0, "")
		}
		pdf.SetFont("Arial", "", 9)
		for _, line := range section.Lines {
			pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)

		pdf.SetFont("Arial", "B", 9)
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 8, tr(header), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Arial", "", 9)
		end := section.Start + section.Count
		if end > len(data.Records) {
			end = len(data.Records)
		}
		for _, record := range data.Records[section.Start:end] {
			for _, value := range record {
				pdf.CellFormat(colWidth, 7, tr(value), "1", 0, "C", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType reports the PDF MIME type.
func (e *PDFExporter) ContentType() string {
	return "application/pdf"
}
