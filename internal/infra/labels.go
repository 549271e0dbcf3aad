package infra

// labels.go — QR label-sheet PDF generation using go-pdf/fpdf.
// Lays out one scannable QR code per label cell on an A4 grid (3 × 8),
// each cell showing the code image and the token text underneath so the
// label stays usable even when the print is too degraded to scan.
//
// The output file is saved to storagePath/labels_{job_id}.pdf.

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

const (
	labelCols     = 3
	labelRows     = 8
	qrImagePixels = 256
)

// GenerateLabelSheetPDF renders a printable sheet for the given tokens.
// Each QR image encodes publicBaseURL/qr/{token} so scanning with any phone
// camera lands on the resolution endpoint. Returns the path of the PDF.
func GenerateLabelSheetPDF(tokens []string, publicBaseURL, storagePath string, jobID uuid.UUID) (string, error) {
	if err := os.MkdirAll(storagePath, 0755); err != nil {
		return "", fmt.Errorf("labels: create storage dir: %w", err)
	}

	filePath := filepath.Join(storagePath, fmt.Sprintf("labels_%s.pdf", jobID))

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetAutoPageBreak(false, 0)

	pageW, pageH := pdf.GetPageSize()
	cellW := (pageW - 20) / labelCols
	cellH := (pageH - 20) / labelRows
	// QR image is square; leave room for the token line below it.
	imgSide := cellH - 8
	if imgSide > cellW-6 {
		imgSide = cellW - 6
	}

	perPage := labelCols * labelRows
	for i, token := range tokens {
		if i%perPage == 0 {
			pdf.AddPage()
		}
		slot := i % perPage
		col := slot % labelCols
		row := slot / labelCols
		x := 10 + float64(col)*cellW
		y := 10 + float64(row)*cellH

		png, err := qrcode.Encode(publicBaseURL+"/qr/"+token, qrcode.Medium, qrImagePixels)
		if err != nil {
			return "", fmt.Errorf("labels: encode %s: %w", token, err)
		}

		imgName := "qr_" + token
		pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
		imgX := x + (cellW-imgSide)/2
		pdf.ImageOptions(imgName, imgX, y+1, imgSide, imgSide, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetXY(x, y+1+imgSide)
		pdf.CellFormat(cellW, 5, token, "", 0, "C", false, 0, "")
	}

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("labels: write pdf: %w", err)
	}
	return filePath, nil
}
