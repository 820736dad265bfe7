package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"ticketbooking/internal/domain/models"
	"ticketbooking/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders booking documents as PDF.
type DocsService struct {
	RequestID string
	Now       func() time.Time
}

func (s DocsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// GenerateTicket renders the e-ticket for a booking and its passengers.
func (s DocsService) GenerateTicket(b models.Booking) ([]byte, string, error) {
	utils.LogEvent(s.RequestID, "docs", "generate_ticket", fmt.Sprintf("booking_id=%d", b.ID))
	return buildTicketPDF(b, s.now())
}

// GenerateReceipt renders the payment receipt for a confirmed booking.
func (s DocsService) GenerateReceipt(b models.Booking) ([]byte, string, error) {
	utils.LogEvent(s.RequestID, "docs", "generate_receipt", fmt.Sprintf("booking_id=%d", b.ID))
	return buildReceiptPDF(b, s.now())
}

func buildTicketPDF(b models.Booking, issued time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Ticket ID      : %d", b.ID),
		fmt.Sprintf("Reference      : %s", utils.Fallback(b.Reference, "-")),
		fmt.Sprintf("From           : %s", utils.Fallback(b.StartsFrom, "-")),
		fmt.Sprintf("To             : %s", utils.Fallback(b.Destination, "-")),
		fmt.Sprintf("Travel Date    : %s", utils.Fallback(utils.DateOnly(b.TravelDate), "-")),
		fmt.Sprintf("Adults         : %d, Children: %d", b.Adults, b.Children),
		fmt.Sprintf("Total Price    : %s", utils.FormatRupees(b.TotalPrice)),
		fmt.Sprintf("Status         : %s", strings.ToUpper(string(b.Status))),
	}
	for _, l := range lines {
		pdf.Cell(0, 7, l)
		pdf.Ln(7)
	}

	if len(b.Passengers) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, "Passengers:")
		pdf.Ln(8)
		pdf.SetFont("Helvetica", "", 11)
		for i, p := range b.Passengers {
			kind := "Child"
			if p.IsAdult {
				kind = "Adult"
			}
			line := fmt.Sprintf("%d) %s, %d, %s", i+1, utils.Fallback(utils.NormalizeSpace(p.Name), "-"), p.Age, kind)
			if p.IDNumber != "" {
				line += fmt.Sprintf(" (%s %s)", DocumentName(p.IDType), maskDocument(p.IDNumber))
			}
			pdf.Cell(0, 6, line)
			pdf.Ln(6)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please carry a valid photo ID matching the details above. Issued "+issued.Format("2006-01-02 15:04")+".", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("ticket_%d.pdf", b.ID), nil
}

func buildReceiptPDF(b models.Booking, issued time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Receipt", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Receipt No : RCT-%d-%s", b.ID, utils.SafeFilenamePart(b.Reference)))
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date       : "+issued.Format("2006-01-02 15:04"))
	pdf.Ln(10)

	desc := fmt.Sprintf("Travel %s -> %s on %s",
		utils.Fallback(b.StartsFrom, "-"), utils.Fallback(b.Destination, "-"),
		utils.Fallback(utils.DateOnly(b.TravelDate), "-"),
	)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Details:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, desc, "", "", false)
	pdf.Ln(2)
	pdf.Cell(0, 6, fmt.Sprintf("Passengers : %d adult(s), %d child(ren)", b.Adults, b.Children))
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatRupees(b.TotalPrice))
	pdf.Ln(12)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), fmt.Sprintf("receipt_%d.pdf", b.ID), nil
}

// maskDocument keeps the last four characters of an ID number.
func maskDocument(v string) string {
	if len(v) <= 4 {
		return v
	}
	return strings.Repeat("*", len(v)-4) + v[len(v)-4:]
}
