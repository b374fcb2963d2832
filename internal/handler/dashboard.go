package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/autocare/autocare-backend/internal/appointment"
    "github.com/autocare/autocare-backend/internal/repository"
)

// DashboardHandler aggregates counters for the staff dashboard and the
// customer's personal overview.
type DashboardHandler struct {
    Appts *repository.AppointmentRepo
}

func NewDashboardHandler(a *repository.AppointmentRepo) *DashboardHandler {
    return &DashboardHandler{Appts: a}
}

type statsResp struct {
    Pending    int64 `json:"pending"`
    Confirmed  int64 `json:"confirmed"`
    InProgress int64 `json:"in_progress"`
    Completed  int64 `json:"completed"`
    Cancelled  int64 `json:"cancelled"`
    Today      int64 `json:"today"`
}

// Stats returns the workshop-wide counters (staff).  Counts run per
// status; a failure on any of them aborts the response.
func (h *DashboardHandler) Stats(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    var (
        resp statsResp
        err  error
    )
    if resp.Pending, err = h.Appts.CountByStatus(ctx, string(appointment.StatusPending)); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if resp.Confirmed, err = h.Appts.CountByStatus(ctx, string(appointment.StatusConfirmed)); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if resp.InProgress, err = h.Appts.CountByStatus(ctx, string(appointment.StatusInProgress)); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if resp.Completed, err = h.Appts.CountByStatus(ctx, string(appointment.StatusCompleted)); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if resp.Cancelled, err = h.Appts.CountByStatus(ctx, string(appointment.StatusCancelled)); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if resp.Today, err = h.Appts.CountToday(ctx); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, resp)
}

// MyStats returns the calling customer's own appointment overview.
func (h *DashboardHandler) MyStats(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    list, err := h.Appts.ListByCustomer(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }

    var resp statsResp
    for i := range list {
        switch appointment.Status(list[i].Status) {
        case appointment.StatusPending:
            resp.Pending++
        case appointment.StatusConfirmed:
            resp.Confirmed++
        case appointment.StatusInProgress:
            resp.InProgress++
        case appointment.StatusCompleted:
            resp.Completed++
        case appointment.StatusCancelled:
            resp.Cancelled++
        }
    }
    return c.JSON(http.StatusOK, resp)
}
