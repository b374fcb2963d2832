// Package invoice renders itemized service invoices as PDF documents.
package invoice

import (
    "bytes"
    "fmt"
    "strings"
    "time"

    "github.com/google/uuid"
    "github.com/jung-kurt/gofpdf"

    "github.com/autocare/autocare-backend/internal/model"
)

// Line is one charged item on an invoice.
type Line struct {
    Description string `json:"description"`
    Quantity    int    `json:"quantity"`
    PriceCents  uint32 `json:"price_cents"`
}

// Invoice is the rendered document's data.  Number is a uuid assigned at
// generation; invoices are not persisted, the PDF is the artifact.
type Invoice struct {
    Number      string
    IssuedAt    time.Time
    Appointment *model.Appointment
    Lines       []Line
    TotalCents  uint64
}

// Build assembles an Invoice from an appointment and its charge lines.
// Lines with a non-positive quantity default to 1.
func Build(a *model.Appointment, lines []Line) *Invoice {
    inv := &Invoice{
        Number:      uuid.NewString(),
        IssuedAt:    time.Now().UTC(),
        Appointment: a,
        Lines:       make([]Line, 0, len(lines)),
    }
    for _, l := range lines {
        if l.Quantity <= 0 {
            l.Quantity = 1
        }
        inv.Lines = append(inv.Lines, l)
        inv.TotalCents += uint64(l.Quantity) * uint64(l.PriceCents)
    }
    return inv
}

// RenderPDF draws the invoice and returns the PDF bytes.
func RenderPDF(inv *Invoice, brand string) ([]byte, error) {
    pdf := gofpdf.New("P", "mm", "A4", "")
    pdf.SetTitle(fmt.Sprintf("Invoice %s", inv.Number), false)
    pdf.AddPage()

    pdf.SetFont("Helvetica", "B", 20)
    pdf.Cell(0, 12, brand)
    pdf.Ln(14)

    pdf.SetFont("Helvetica", "", 10)
    pdf.Cell(0, 6, fmt.Sprintf("Invoice: %s", inv.Number))
    pdf.Ln(6)
    pdf.Cell(0, 6, fmt.Sprintf("Issued: %s", inv.IssuedAt.Format("2006-01-02")))
    pdf.Ln(6)
    pdf.Cell(0, 6, fmt.Sprintf("Appointment: #%d on %s at %s", inv.Appointment.ID, inv.Appointment.Date, inv.Appointment.Time))
    pdf.Ln(6)
    if name := customerLabel(inv.Appointment); name != "" {
        pdf.Cell(0, 6, "Billed to: "+name)
        pdf.Ln(6)
    }
    if v := strings.TrimSpace(inv.Appointment.VehicleType + " " + inv.Appointment.VehicleNumber); v != "" {
        pdf.Cell(0, 6, "Vehicle: "+v)
        pdf.Ln(6)
    }
    pdf.Ln(4)

    // Table header
    pdf.SetFont("Helvetica", "B", 10)
    pdf.SetFillColor(230, 230, 230)
    pdf.CellFormat(100, 8, "Description", "1", 0, "L", true, 0, "")
    pdf.CellFormat(25, 8, "Qty", "1", 0, "R", true, 0, "")
    pdf.CellFormat(30, 8, "Unit", "1", 0, "R", true, 0, "")
    pdf.CellFormat(30, 8, "Amount", "1", 1, "R", true, 0, "")

    pdf.SetFont("Helvetica", "", 10)
    for _, l := range inv.Lines {
        amount := uint64(l.Quantity) * uint64(l.PriceCents)
        pdf.CellFormat(100, 8, l.Description, "1", 0, "L", false, 0, "")
        pdf.CellFormat(25, 8, fmt.Sprintf("%d", l.Quantity), "1", 0, "R", false, 0, "")
        pdf.CellFormat(30, 8, money(uint64(l.PriceCents)), "1", 0, "R", false, 0, "")
        pdf.CellFormat(30, 8, money(amount), "1", 1, "R", false, 0, "")
    }

    pdf.SetFont("Helvetica", "B", 11)
    pdf.CellFormat(155, 10, "Total", "1", 0, "R", false, 0, "")
    pdf.CellFormat(30, 10, money(inv.TotalCents), "1", 1, "R", false, 0, "")

    pdf.Ln(8)
    pdf.SetFont("Helvetica", "I", 9)
    pdf.Cell(0, 6, "Thank you for your business.")

    var buf bytes.Buffer
    if err := pdf.Output(&buf); err != nil {
        return nil, fmt.Errorf("render invoice pdf: %w", err)
    }
    return buf.Bytes(), nil
}

func money(cents uint64) string {
    return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func customerLabel(a *model.Appointment) string {
    if strings.TrimSpace(a.CustomerName) != "" {
        return a.CustomerName
    }
    return a.CustomerEmail
}
