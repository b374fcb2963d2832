package handler

import (
    "database/sql"
    "fmt"
    "log"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/autocare/autocare-backend/internal/appointment"
    "github.com/autocare/autocare-backend/internal/invoice"
    "github.com/autocare/autocare-backend/internal/mailer"
    "github.com/autocare/autocare-backend/internal/repository"
)

// InvoiceHandler renders appointment invoices as PDF and emails them to
// the customer.  Invoices are generated on demand from the appointment
// plus the service catalog; nothing extra is persisted.
type InvoiceHandler struct {
    Appts    *repository.AppointmentRepo
    Services *repository.ServiceRepo
    Users    *repository.UserRepo
    Mail     *mailer.Mailer
    Brand    string
}

func NewInvoiceHandler(a *repository.AppointmentRepo, s *repository.ServiceRepo, u *repository.UserRepo, m *mailer.Mailer, brand string) *InvoiceHandler {
    return &InvoiceHandler{Appts: a, Services: s, Users: u, Mail: m, Brand: brand}
}

type invoiceReq struct {
    Lines   []invoice.Line `json:"lines"`
    EmailTo string         `json:"email_to"`
}

// buildLines falls back to the catalog price of the booked service when
// the request carries no explicit lines.
func (h *InvoiceHandler) buildLines(c echo.Context, apptID uint64, req invoiceReq) (*invoice.Invoice, string, error) {
    ctx, cancel := reqCtx(c)
    defer cancel()

    a, err := h.Appts.GetByID(ctx, apptID)
    if err != nil {
        return nil, "", err
    }

    lines := req.Lines
    if len(lines) == 0 {
        item, err := h.Services.GetByName(ctx, a.ServiceType)
        if err != nil {
            if err == sql.ErrNoRows {
                return nil, "", fmt.Errorf("%w: no price for service %q, supply lines", appointment.ErrValidation, a.ServiceType)
            }
            return nil, "", err
        }
        lines = []invoice.Line{{Description: item.Name, Quantity: 1, PriceCents: item.PriceCents}}
    }

    to := strings.ToLower(strings.TrimSpace(req.EmailTo))
    if to == "" {
        to = a.CustomerEmail
    }
    return invoice.Build(a, lines), to, nil
}

// Generate renders the invoice for a COMPLETED appointment and emails it
// to the customer (staff).  The appointment must have a recipient email
// either on file or in the request.
func (h *InvoiceHandler) Generate(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req invoiceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    inv, to, err := h.buildLines(c, id, req)
    if err != nil {
        return writeLifecycleError(c, err)
    }
    if appointment.Status(inv.Appointment.Status) != appointment.StatusCompleted {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "appointment is not completed"})
    }
    if to == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "no recipient email on file, supply email_to"})
    }

    pdf, err := invoice.RenderPDF(inv, h.Brand)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render failed"})
    }

    if h.Mail.Enabled() {
        subject := fmt.Sprintf("%s invoice %s", h.Brand, inv.Number)
        body := fmt.Sprintf("<p>Thank you for your visit. Your invoice %s is attached.</p>", inv.Number)
        name := fmt.Sprintf("invoice-%s.pdf", inv.Number)
        if err := h.Mail.SendWithAttachment(to, subject, body, name, pdf); err != nil {
            log.Printf("invoice: send to %s failed: %v", to, err)
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "email failed"})
        }
    }

    return c.JSON(http.StatusCreated, echo.Map{
        "number":      inv.Number,
        "total_cents": inv.TotalCents,
        "emailed_to":  to,
    })
}

// Download streams the invoice PDF inline.  Staff, or the customer who
// owns the appointment.
func (h *InvoiceHandler) Download(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    actor, err := currentUser(c, h.Users)
    if err != nil || actor == nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    inv, _, err := h.buildLines(c, id, invoiceReq{})
    if err != nil {
        return writeLifecycleError(c, err)
    }
    if !appointment.IsOwnerOrStaff(inv.Appointment, actor) {
        return c.JSON(http.StatusForbidden, echo.Map{"error": "permission denied"})
    }
    if appointment.Status(inv.Appointment.Status) != appointment.StatusCompleted {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "appointment is not completed"})
    }

    pdf, err := invoice.RenderPDF(inv, h.Brand)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "render failed"})
    }
    c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("inline; filename=invoice-%s.pdf", inv.Number))
    return c.Blob(http.StatusOK, "application/pdf", pdf)
}
