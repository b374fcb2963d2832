package handler

import (
    "net/http"
    "strconv"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/autocare/autocare-backend/internal/appointment"
    "github.com/autocare/autocare-backend/internal/repository"
)

// AppointmentHandler exposes the booking lifecycle over HTTP.  All rule
// enforcement lives in the engine; the handler binds input, resolves the
// acting user and translates errors.
type AppointmentHandler struct {
    Engine *appointment.Engine
    Appts  *repository.AppointmentRepo
    Users  *repository.UserRepo
}

func NewAppointmentHandler(e *appointment.Engine, a *repository.AppointmentRepo, u *repository.UserRepo) *AppointmentHandler {
    return &AppointmentHandler{Engine: e, Appts: a, Users: u}
}

// ----- DTOs -----

type createAppointmentReq struct {
    Date          string `json:"date"`
    Time          string `json:"time"`
    VehicleType   string `json:"vehicle_type"`
    VehicleNumber string `json:"vehicle_number"`
    ServiceType   string `json:"service_type"`
    Instructions  string `json:"instructions"`
    CustomerName  string `json:"customer_name"`
    CustomerEmail string `json:"customer_email"`
    CustomerPhone string `json:"customer_phone"`
}

type updateAppointmentReq struct {
    Date          *string `json:"date"`
    Time          *string `json:"time"`
    VehicleType   *string `json:"vehicle_type"`
    VehicleNumber *string `json:"vehicle_number"`
    ServiceType   *string `json:"service_type"`
    Instructions  *string `json:"instructions"`
    EmployeeID    *uint64 `json:"employee_id"`
}

type changeStatusReq struct {
    Status string `json:"status"`
    Note   string `json:"note"`
}

type progressReq struct {
    Progress *int `json:"progress"`
}

type assignReq struct {
    EmployeeID uint64 `json:"employee_id"`
}

// Create books an appointment.  Works both for authenticated customers
// and anonymous visitors supplying contact details.
func (h *AppointmentHandler) Create(c echo.Context) error {
    var req createAppointmentReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    actor, err := currentUser(c, h.Users)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    a, err := h.Engine.Create(ctx, actor, appointment.CreateInput{
        Date:          req.Date,
        Time:          req.Time,
        VehicleType:   req.VehicleType,
        VehicleNumber: req.VehicleNumber,
        ServiceType:   req.ServiceType,
        Instructions:  req.Instructions,
        CustomerName:  req.CustomerName,
        CustomerEmail: req.CustomerEmail,
        CustomerPhone: req.CustomerPhone,
    })
    if err != nil {
        return writeLifecycleError(c, err)
    }
    return c.JSON(http.StatusCreated, toAppointmentResp(a))
}

// Get returns one appointment.  Customers only see their own.
func (h *AppointmentHandler) Get(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    actor, err := currentUser(c, h.Users)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    a, err := h.Engine.Get(ctx, actor, id)
    if err != nil {
        return writeLifecycleError(c, err)
    }
    return c.JSON(http.StatusOK, toAppointmentResp(a))
}

// List returns a filtered, paginated page of appointments (staff).
func (h *AppointmentHandler) List(c echo.Context) error {
    page, _ := strconv.Atoi(c.QueryParam("page"))
    size, _ := strconv.Atoi(c.QueryParam("size"))
    f := repository.ListFilter{
        Status:  strings.ToUpper(strings.TrimSpace(c.QueryParam("status"))),
        Page:    page,
        Size:    size,
        SortBy:  c.QueryParam("sort_by"),
        SortDir: c.QueryParam("sort_dir"),
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    items, total, err := h.Appts.List(ctx, f)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{
        "items": toAppointmentList(items),
        "total": total,
    })
}

// ListMine returns the authenticated customer's own appointments.
func (h *AppointmentHandler) ListMine(c echo.Context) error {
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
    return c.JSON(http.StatusOK, toAppointmentList(list))
}

// ListUpcoming returns the customer's future appointments.
func (h *AppointmentHandler) ListUpcoming(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    list, err := h.Appts.ListUpcomingByCustomer(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, toAppointmentList(list))
}

// ListAssigned returns the appointments allocated to the calling employee.
func (h *AppointmentHandler) ListAssigned(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    list, err := h.Appts.ListByEmployee(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, toAppointmentList(list))
}

// ListToday returns today's schedule (staff).
func (h *AppointmentHandler) ListToday(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    list, err := h.Appts.ListToday(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, toAppointmentList(list))
}

// ListRange returns appointments between ?start and ?end dates (staff).
func (h *AppointmentHandler) ListRange(c echo.Context) error {
    start := strings.TrimSpace(c.QueryParam("start"))
    end := strings.TrimSpace(c.QueryParam("end"))
    if start == "" || end == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "start/end required (YYYY-MM-DD)"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    list, err := h.Appts.ListByDateRange(ctx, start, end)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, toAppointmentList(list))
}

// Search looks appointments up by vehicle registration number (staff).
func (h *AppointmentHandler) Search(c echo.Context) error {
    plate := strings.TrimSpace(c.QueryParam("vehicle_number"))
    if plate == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "vehicle_number required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    list, err := h.Appts.SearchByVehicleNumber(ctx, plate)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, toAppointmentList(list))
}

// Update edits scheduling and descriptive fields.
func (h *AppointmentHandler) Update(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req updateAppointmentReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    actor, err := currentUser(c, h.Users)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    a, err := h.Engine.Update(ctx, actor, id, appointment.UpdateInput{
        Date:          req.Date,
        Time:          req.Time,
        VehicleType:   req.VehicleType,
        VehicleNumber: req.VehicleNumber,
        ServiceType:   req.ServiceType,
        Instructions:  req.Instructions,
        EmployeeID:    req.EmployeeID,
    })
    if err != nil {
        return writeLifecycleError(c, err)
    }
    return c.JSON(http.StatusOK, toAppointmentResp(a))
}

// Cancel cancels a PENDING or CONFIRMED appointment.
func (h *AppointmentHandler) Cancel(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    actor, err := currentUser(c, h.Users)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    a, err := h.Engine.Cancel(ctx, actor, id)
    if err != nil {
        return writeLifecycleError(c, err)
    }
    return c.JSON(http.StatusOK, toAppointmentResp(a))
}

// Assign sets the employee on an appointment (staff).
func (h *AppointmentHandler) Assign(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req assignReq
    if err := c.Bind(&req); err != nil || req.EmployeeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "employee_id required"})
    }
    actor, err := currentUser(c, h.Users)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    a, err := h.Engine.AssignEmployee(ctx, actor, id, req.EmployeeID)
    if err != nil {
        return writeLifecycleError(c, err)
    }
    return c.JSON(http.StatusOK, toAppointmentResp(a))
}

// Allocate hands a CONFIRMED appointment to an employee (admins).
func (h *AppointmentHandler) Allocate(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req assignReq
    if err := c.Bind(&req); err != nil || req.EmployeeID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "employee_id required"})
    }
    actor, err := currentUser(c, h.Users)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    a, err := h.Engine.AllocateToEmployee(ctx, actor, id, req.EmployeeID)
    if err != nil {
        return writeLifecycleError(c, err)
    }
    return c.JSON(http.StatusOK, toAppointmentResp(a))
}

// ChangeStatus moves an appointment along the lifecycle (staff).
func (h *AppointmentHandler) ChangeStatus(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req changeStatusReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    target, ok := appointment.ParseStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status"})
    }
    actor, err := currentUser(c, h.Users)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    a, err := h.Engine.ChangeStatus(ctx, actor, id, target, strings.TrimSpace(req.Note))
    if err != nil {
        return writeLifecycleError(c, err)
    }
    return c.JSON(http.StatusOK, toAppointmentResp(a))
}

// UpdateProgress records work progress 0..100; 100 completes the job.
func (h *AppointmentHandler) UpdateProgress(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req progressReq
    if err := c.Bind(&req); err != nil || req.Progress == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "progress required"})
    }
    actor, err := currentUser(c, h.Users)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    a, err := h.Engine.UpdateProgress(ctx, actor, id, *req.Progress)
    if err != nil {
        return writeLifecycleError(c, err)
    }
    return c.JSON(http.StatusOK, toAppointmentResp(a))
}

// Delete removes an appointment record (admins).
func (h *AppointmentHandler) Delete(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    actor, err := currentUser(c, h.Users)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Engine.Delete(ctx, actor, id); err != nil {
        return writeLifecycleError(c, err)
    }
    return c.NoContent(http.StatusNoContent)
}
