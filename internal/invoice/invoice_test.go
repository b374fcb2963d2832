package invoice

import (
    "bytes"
    "testing"

    "github.com/autocare/autocare-backend/internal/model"
)

func sampleAppointment() *model.Appointment {
    return &model.Appointment{
        ID: 5, Date: "2026-09-01", Time: "10:00",
        ServiceType: "Full Service", VehicleType: "SUV", VehicleNumber: "AB-1234",
        CustomerName: "Jordan", CustomerEmail: "jordan@example.com",
        Status: "COMPLETED", Progress: 100,
    }
}

func TestBuildTotals(t *testing.T) {
    inv := Build(sampleAppointment(), []Line{
        {Description: "Full Service", Quantity: 1, PriceCents: 24999},
        {Description: "Wiper Blades", Quantity: 2, PriceCents: 1500},
        {Description: "Shop Supplies", PriceCents: 500}, // quantity defaults to 1
    })
    if inv.Number == "" {
        t.Fatal("expected invoice number assigned")
    }
    if want := uint64(24999 + 2*1500 + 500); inv.TotalCents != want {
        t.Fatalf("total = %d, want %d", inv.TotalCents, want)
    }
    if inv.Lines[2].Quantity != 1 {
        t.Fatalf("expected defaulted quantity 1, got %d", inv.Lines[2].Quantity)
    }
}

func TestRenderPDF(t *testing.T) {
    inv := Build(sampleAppointment(), []Line{{Description: "Full Service", Quantity: 1, PriceCents: 24999}})
    pdf, err := RenderPDF(inv, "AutoCare")
    if err != nil {
        t.Fatalf("RenderPDF: %v", err)
    }
    if !bytes.HasPrefix(pdf, []byte("%PDF")) {
        t.Fatalf("expected PDF header, got %q", pdf[:8])
    }
}

func TestMoneyFormatting(t *testing.T) {
    cases := map[uint64]string{0: "$0.00", 5: "$0.05", 24999: "$249.99", 100000: "$1000.00"}
    for cents, want := range cases {
        if got := money(cents); got != want {
            t.Fatalf("money(%d) = %q, want %q", cents, got, want)
        }
    }
}
