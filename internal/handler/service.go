package handler

import (
    "database/sql"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/autocare/autocare-backend/internal/model"
    "github.com/autocare/autocare-backend/internal/repository"
)

// ServiceHandler exposes the workshop's service catalog.  The public
// listing feeds the booking form; management is admin-only.
type ServiceHandler struct {
    Services *repository.ServiceRepo
}

func NewServiceHandler(s *repository.ServiceRepo) *ServiceHandler {
    return &ServiceHandler{Services: s}
}

type serviceReq struct {
    Name        string  `json:"name"`
    Description string  `json:"description"`
    PriceCents  *uint32 `json:"price_cents"`
    Active      *bool   `json:"active"`
}

type serviceResp struct {
    ID          uint64 `json:"id"`
    Name        string `json:"name"`
    Description string `json:"description,omitempty"`
    PriceCents  uint32 `json:"price_cents"`
    Active      bool   `json:"active"`
}

func toServiceResp(s *model.ServiceItem) serviceResp {
    return serviceResp{
        ID:          s.ID,
        Name:        s.Name,
        Description: s.Description,
        PriceCents:  s.PriceCents,
        Active:      s.Active,
    }
}

func toServiceList(list []model.ServiceItem) []serviceResp {
    out := make([]serviceResp, 0, len(list))
    for i := range list {
        out = append(out, toServiceResp(&list[i]))
    }
    return out
}

// ListActive returns the bookable services.  Public.
func (h *ServiceHandler) ListActive(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    list, err := h.Services.ListActive(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, toServiceList(list))
}

// ListAll returns every catalog entry including inactive ones (admins).
func (h *ServiceHandler) ListAll(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    list, err := h.Services.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, toServiceList(list))
}

// Create adds a catalog entry (admins).
func (h *ServiceHandler) Create(c echo.Context) error {
    var req serviceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    name := strings.TrimSpace(req.Name)
    if name == "" || req.PriceCents == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/price_cents required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    item := &model.ServiceItem{
        Name:        name,
        Description: strings.TrimSpace(req.Description),
        PriceCents:  *req.PriceCents,
        Active:      true,
    }
    if req.Active != nil {
        item.Active = *req.Active
    }
    id, err := h.Services.Create(ctx, item)
    if err != nil {
        if err == repository.ErrConflict {
            return c.JSON(http.StatusConflict, echo.Map{"error": "service name already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update edits a catalog entry (admins).  Unspecified fields keep their
// current value.
func (h *ServiceHandler) Update(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req serviceReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    cur, err := h.Services.GetByID(ctx, id)
    if err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    if name := strings.TrimSpace(req.Name); name != "" {
        cur.Name = name
    }
    if req.Description != "" {
        cur.Description = strings.TrimSpace(req.Description)
    }
    if req.PriceCents != nil {
        cur.PriceCents = *req.PriceCents
    }
    if req.Active != nil {
        cur.Active = *req.Active
    }
    if err := h.Services.Update(ctx, cur); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    return c.JSON(http.StatusOK, toServiceResp(cur))
}

// Delete removes a catalog entry (admins).
func (h *ServiceHandler) Delete(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Services.Delete(ctx, id); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
