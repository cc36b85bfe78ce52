package printer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"

	"github.com/yardpoint/pipeyardgo/internal/models"
)

// LabelConfig holds layout configuration for rack-tag PDF generation
type LabelConfig struct {
	Cols       int     `json:"cols"`
	Rows       int     `json:"rows"`
	MarginTop  float64 `json:"marginTop"`
	MarginLeft float64 `json:"marginLeft"`
	GapX       float64 `json:"gapX"`
	GapY       float64 `json:"gapY"`
	// BaseURL is prefixed to the rack code in the QR payload,
	// e.g. "YARD.PIPE/" -> "YARD.PIPE/A-1-03".
	BaseURL string `json:"baseUrl"`
}

// DefaultLabelConfig is a 3x8 A4 sheet
func DefaultLabelConfig() LabelConfig {
	return LabelConfig{
		Cols:       3,
		Rows:       8,
		MarginTop:  10,
		MarginLeft: 7,
		GapX:       2.5,
		GapY:       0,
	}
}

// GenerateRackLabelsPDF creates an A4 PDF of QR tags, one per rack
func GenerateRackLabelsPDF(racks []models.Rack, cfg LabelConfig) ([]byte, error) {
	if cfg.Cols <= 0 || cfg.Rows <= 0 {
		return nil, fmt.Errorf("label grid must have positive dimensions, got %dx%d", cfg.Cols, cfg.Rows)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Arial", "B", 10)

	// A4 dimensions
	pageWidth, pageHeight := 210.0, 297.0

	totalGapX := float64(cfg.Cols-1) * cfg.GapX
	totalGapY := float64(cfg.Rows-1) * cfg.GapY

	availW := pageWidth - (cfg.MarginLeft * 2)
	availH := pageHeight - (cfg.MarginTop * 2)

	labelW := (availW - totalGapX) / float64(cfg.Cols)
	labelH := (availH - totalGapY) / float64(cfg.Rows)

	labelsPerPage := cfg.Cols * cfg.Rows

	for i, rack := range racks {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		indexOnPage := i % labelsPerPage
		col := indexOnPage % cfg.Cols
		row := indexOnPage / cfg.Cols

		// Top-left of label
		x := cfg.MarginLeft + float64(col)*(labelW+cfg.GapX)
		y := cfg.MarginTop + float64(row)*(labelH+cfg.GapY)

		qrContent := cfg.BaseURL + rack.Code
		qrPng, err := qrcode.Encode(qrContent, qrcode.Low, 256)
		if err != nil {
			return nil, err
		}

		imgName := fmt.Sprintf("qr_%d", i)
		imgOptions := gofpdf.ImageOptions{
			ImageType: "PNG",
			ReadDpi:   true,
		}
		reader := bytes.NewReader(qrPng)
		_ = pdf.RegisterImageOptionsReader(imgName, imgOptions, reader)

		// QR centered, taking up 70% of label height
		qrSize := labelH * 0.7
		if qrSize > labelW {
			qrSize = labelW * 0.9
		}
		qrX := x + (labelW-qrSize)/2
		qrY := y + labelH*0.05
		pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, imgOptions, 0, "")

		// Rack code below the QR, centered
		pdf.SetXY(x, y+labelH*0.78)
		pdf.CellFormat(labelW, labelH*0.18, rack.Code, "", 0, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
