package utils

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
)

// GenerateCertificatePDF renders a completion certificate. Pure formatting:
// same inputs always produce the same document.
func GenerateCertificatePDF(userName, courseTitle, completionDate, certificateNumber string) ([]byte, error) {
	pdf := gofpdf.New("L", "pt", "Letter", "")
	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	// Outer border
	pdf.SetDrawColor(16, 185, 129)
	pdf.SetLineWidth(10)
	pdf.Rect(30, 30, pageW-60, pageH-60, "D")

	// Inner border
	pdf.SetDrawColor(5, 150, 105)
	pdf.SetLineWidth(2)
	pdf.Rect(50, 50, pageW-100, pageH-100, "D")

	centered := func(y float64, text string) {
		pdf.SetXY(0, y)
		pdf.CellFormat(pageW, 0, text, "", 0, "C", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 48)
	pdf.SetTextColor(16, 185, 129)
	centered(120, "Certificate")

	pdf.SetFont("Helvetica", "", 28)
	pdf.SetTextColor(55, 65, 81)
	centered(165, "of Completion")

	pdf.SetDrawColor(209, 250, 229)
	pdf.SetLineWidth(2)
	pdf.Line(150, 195, pageW-150, 195)

	pdf.SetFont("Helvetica", "", 18)
	pdf.SetTextColor(107, 114, 128)
	centered(240, "This certificate is presented to")

	pdf.SetFont("Helvetica", "B", 36)
	pdf.SetTextColor(26, 26, 26)
	centered(295, userName)

	pdf.SetFont("Helvetica", "", 16)
	pdf.SetTextColor(107, 114, 128)
	centered(345, "for successfully completing the course")

	pdf.SetFont("Helvetica", "B", 24)
	pdf.SetTextColor(16, 185, 129)
	centered(395, courseTitle)

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(107, 114, 128)
	centered(455, "Completed on "+completionDate)

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(16, 185, 129)
	centered(pageH-140, "Academy")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(156, 163, 175)
	centered(pageH-100, "Certificate ID: "+certificateNumber)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
