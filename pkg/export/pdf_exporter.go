package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// A4 portrait with 10mm side margins leaves 190mm for the table.
const tableWidth = 190.0

// PDFExporter lays a dataset out as a one-table A4 document, used for
// the printable schedule and availability reports.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render draws the optional title, the table and a generation footer.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf export: dataset has no headers")
	}
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(10, 15, 10)
	doc.AddPage()

	if title != "" {
		doc.SetFont("Arial", "B", 14)
		doc.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
		doc.Ln(5)
	}

	colWidth := tableWidth / float64(len(data.Headers))
	e.drawHeader(doc, data.Headers, colWidth)
	e.drawRows(doc, data, colWidth)

	doc.Ln(4)
	doc.SetFont("Arial", "I", 8)
	stamp := fmt.Sprintf("Generated %s", time.Now().UTC().Format(time.RFC3339))
	doc.CellFormat(0, 6, stamp, "", 1, "R", false, 0, "")

	buf := &bytes.Buffer{}
	if err := doc.Output(buf); err != nil {
		return nil, fmt.Errorf("pdf export: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) drawHeader(doc *gofpdf.Fpdf, headers []string, colWidth float64) {
	doc.SetFont("Arial", "B", 10)
	doc.SetFillColor(235, 235, 235)
	for _, header := range headers {
		doc.CellFormat(colWidth, 8, header, "1", 0, "C", true, 0, "")
	}
	doc.Ln(-1)
}

func (e *PDFExporter) drawRows(doc *gofpdf.Fpdf, data Dataset, colWidth float64) {
	doc.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, cell := range data.record(row) {
			doc.CellFormat(colWidth, 7, cell, "1", 0, "", false, 0, "")
		}
		doc.Ln(-1)
	}
}
