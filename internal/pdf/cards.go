// Package pdf renders printable share cards: one page per share with
// the encoded line both as text and as a QR code, so a share can be
// stored on paper and scanned back later.
package pdf

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/eljojo/byteshard/internal/shamir"
)

// Font sizes
const (
	titleSize = 20.0
	bodySize  = 10.0
	monoSize  = 8.0
)

// QR code size in mm on the page.
const qrSizeMM = 70.0

// CardsData carries the metadata printed on every card.
type CardsData struct {
	Title     string
	Total     int
	Threshold int
	Created   time.Time
}

// GenerateCards renders one card page per share and returns the PDF
// bytes.
func GenerateCards(data CardsData, shares []shamir.Share) ([]byte, error) {
	if len(shares) == 0 {
		return nil, fmt.Errorf("no shares to render")
	}

	p := fpdf.New("P", "mm", "A4", "")
	p.SetMargins(20, 20, 20)
	p.SetAutoPageBreak(true, 20)

	for _, share := range shares {
		if err := addCard(p, data, share); err != nil {
			return nil, err
		}
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func addCard(p *fpdf.Fpdf, data CardsData, share shamir.Share) error {
	p.AddPage()
	pageWidth, _ := p.GetPageSize()

	title := data.Title
	if title == "" {
		title = "Secret Share"
	}

	p.SetFont("Helvetica", "B", titleSize)
	p.SetTextColor(46, 42, 38)
	p.CellFormat(0, 12, title, "", 1, "C", false, 0, "")
	p.Ln(2)

	p.SetFont("Helvetica", "", bodySize)
	p.CellFormat(0, 6, fmt.Sprintf("Share %d of %d", share.X, data.Total), "", 1, "C", false, 0, "")
	p.CellFormat(0, 6, fmt.Sprintf("Any %d shares reconstruct the secret", data.Threshold), "", 1, "C", false, 0, "")
	if !data.Created.IsZero() {
		p.SetTextColor(120, 120, 120)
		p.CellFormat(0, 6, "Created "+data.Created.Format("2006-01-02"), "", 1, "C", false, 0, "")
		p.SetTextColor(46, 42, 38)
	}
	p.Ln(6)

	line := share.Encode()

	png, err := qrcode.Encode(line, qrcode.Medium, 512)
	if err != nil {
		return fmt.Errorf("encoding QR for share %d: %w", share.X, err)
	}

	imgName := fmt.Sprintf("share-qr-%d", share.X)
	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	p.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(png))
	qrX := (pageWidth - qrSizeMM) / 2
	p.ImageOptions(imgName, qrX, p.GetY(), qrSizeMM, qrSizeMM, false, opts, 0, "")
	p.SetY(p.GetY() + qrSizeMM + 8)

	p.SetFont("Helvetica", "B", bodySize)
	p.CellFormat(0, 6, "Share line", "", 1, "L", false, 0, "")
	p.SetFont("Courier", "", monoSize)
	for _, chunk := range chunkString(line, 64) {
		p.CellFormat(0, 4, chunk, "", 1, "L", false, 0, "")
	}
	p.Ln(6)

	p.SetFont("Helvetica", "", bodySize)
	p.SetTextColor(120, 120, 120)
	p.MultiCell(0, 5, "Keep this card private. Anyone holding fewer than the "+
		"threshold number of cards learns nothing about the secret.", "", "L", false)
	p.SetTextColor(46, 42, 38)

	return p.Error()
}

// chunkString splits s into pieces of at most n bytes. Share lines are
// ASCII, so byte boundaries are character boundaries.
func chunkString(s string, n int) []string {
	var chunks []string
	for len(s) > n {
		chunks = append(chunks, s[:n])
		s = s[n:]
	}
	return append(chunks, s)
}
