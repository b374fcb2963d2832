package handler // handler defines http handlers

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/autocare/autocare-backend/internal/appointment"
    "github.com/autocare/autocare-backend/internal/model"
    "github.com/autocare/autocare-backend/internal/repository"
)

// dbTimeout bounds every database call made from a handler.
const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// getUserID extracts the user_id claim from echo.Context and converts it
// to uint64.  JWT numeric claims decode as float64, but the value may
// also arrive as a string or an integer depending on how it was stored.
func getUserID(c echo.Context) (uint64, error) {
    v := c.Get("user_id")
    switch t := v.(type) {
    case uint64:
        return t, nil
    case int:
        return uint64(t), nil
    case int64:
        return uint64(t), nil
    case float64:
        return uint64(t), nil
    case string:
        if n, err := strconv.ParseUint(t, 10, 64); err == nil {
            return n, nil
        }
    }
    return 0, errors.New("invalid user_id in context")
}

// currentUser loads the acting user referenced by the validated token.
// Lifecycle operations take the user explicitly, so every protected
// handler resolves identity here first.  Returns nil without error when
// the request carries no authenticated identity (optional-auth routes).
func currentUser(c echo.Context, users *repository.UserRepo) (*model.User, error) {
    if c.Get("user_id") == nil {
        return nil, nil
    }
    uid, err := getUserID(c)
    if err != nil {
        return nil, err
    }
    ctx, cancel := reqCtx(c)
    defer cancel()
    return users.GetByID(ctx, uid)
}

// pathID parses a numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
    n, err := strconv.ParseUint(c.Param(name), 10, 64)
    if err != nil || n == 0 {
        return 0, false
    }
    return n, true
}

// writeLifecycleError maps engine errors onto the HTTP taxonomy:
// validation, slot conflicts and invalid transitions are 400, missing
// records 404, insufficient roles 403.  Anything unrecognized is a 500
// with a generic message.
func writeLifecycleError(c echo.Context, err error) error {
    var se *appointment.StateError
    switch {
    case errors.Is(err, appointment.ErrNotFound),
        errors.Is(err, appointment.ErrEmployeeNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
    case errors.Is(err, appointment.ErrPermission):
        return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
    case errors.Is(err, appointment.ErrSlotTaken),
        errors.Is(err, appointment.ErrValidation),
        errors.As(err, &se):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "operation failed"})
    }
}

// appointmentResp is the JSON shape returned for appointments.
type appointmentResp struct {
    ID            uint64  `json:"id"`
    Date          string  `json:"date"`
    Time          string  `json:"time"`
    VehicleType   string  `json:"vehicle_type,omitempty"`
    VehicleNumber string  `json:"vehicle_number,omitempty"`
    ServiceType   string  `json:"service_type"`
    Instructions  string  `json:"instructions,omitempty"`
    CustomerName  string  `json:"customer_name,omitempty"`
    CustomerEmail string  `json:"customer_email,omitempty"`
    CustomerPhone string  `json:"customer_phone,omitempty"`
    CustomerID    *uint64 `json:"customer_id,omitempty"`
    EmployeeID    *uint64 `json:"employee_id,omitempty"`
    Status        string  `json:"status"`
    Progress      int     `json:"progress"`
    CreatedAt     string  `json:"created_at"`
    UpdatedAt     string  `json:"updated_at"`
}

func toAppointmentResp(a *model.Appointment) appointmentResp {
    return appointmentResp{
        ID:            a.ID,
        Date:          a.Date,
        Time:          a.Time,
        VehicleType:   a.VehicleType,
        VehicleNumber: a.VehicleNumber,
        ServiceType:   a.ServiceType,
        Instructions:  a.Instructions,
        CustomerName:  a.CustomerName,
        CustomerEmail: a.CustomerEmail,
        CustomerPhone: a.CustomerPhone,
        CustomerID:    a.CustomerID,
        EmployeeID:    a.EmployeeID,
        Status:        a.Status,
        Progress:      a.Progress,
        CreatedAt:     a.CreatedAt.UTC().Format(time.RFC3339),
        UpdatedAt:     a.UpdatedAt.UTC().Format(time.RFC3339),
    }
}

func toAppointmentList(list []model.Appointment) []appointmentResp {
    out := make([]appointmentResp, 0, len(list))
    for i := range list {
        out = append(out, toAppointmentResp(&list[i]))
    }
    return out
}
