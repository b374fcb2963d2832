package handler

import (
    "database/sql"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/autocare/autocare-backend/internal/config"
    "github.com/autocare/autocare-backend/internal/model"
    "github.com/autocare/autocare-backend/internal/repository"
)

// AdminHandler manages user accounts.  Listing and staff creation are
// for admins; role changes and hard deletes are reserved for the super
// admin via route middleware.
type AdminHandler struct {
    Cfg    config.Config
    Users  *repository.UserRepo
    Tokens *repository.TokenRepo
}

func NewAdminHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo) *AdminHandler {
    return &AdminHandler{Cfg: cfg, Users: u, Tokens: t}
}

type createStaffReq struct {
    Email    string `json:"email"`
    Password string `json:"password"`
    FullName string `json:"full_name"`
    Phone    string `json:"phone"`
    Role     string `json:"role"` // EMPLOYEE | ADMIN
}

type setRoleReq struct {
    Role string `json:"role"`
}

type setEnabledReq struct {
    Enabled *bool `json:"enabled"`
}

type adminUserResp struct {
    ID        uint64 `json:"id"`
    Email     string `json:"email"`
    FullName  string `json:"full_name"`
    Phone     string `json:"phone,omitempty"`
    Role      string `json:"role"`
    Enabled   bool   `json:"enabled"`
    CreatedAt string `json:"created_at"`
}

func toAdminUserResp(u *model.User) adminUserResp {
    return adminUserResp{
        ID:        u.ID,
        Email:     u.Email,
        FullName:  u.FullName,
        Phone:     u.Phone,
        Role:      string(u.Role),
        Enabled:   u.Enabled,
        CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339),
    }
}

// ListUsers returns all accounts, optionally filtered by ?role=.
func (h *AdminHandler) ListUsers(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    var (
        list []model.User
        err  error
    )
    if q := strings.ToUpper(strings.TrimSpace(c.QueryParam("role"))); q != "" {
        role, ok := model.ParseRole(q)
        if !ok {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
        }
        list, err = h.Users.ListByRole(ctx, role)
    } else {
        list, err = h.Users.ListAll(ctx)
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]adminUserResp, 0, len(list))
    for i := range list {
        out = append(out, toAdminUserResp(&list[i]))
    }
    return c.JSON(http.StatusOK, out)
}

// ListEmployees returns enabled EMPLOYEE accounts for allocation pickers.
func (h *AdminHandler) ListEmployees(c echo.Context) error {
    ctx, cancel := reqCtx(c)
    defer cancel()

    list, err := h.Users.ListByRole(ctx, model.RoleEmployee)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]adminUserResp, 0, len(list))
    for i := range list {
        if list[i].Enabled {
            out = append(out, toAdminUserResp(&list[i]))
        }
    }
    return c.JSON(http.StatusOK, out)
}

// CreateStaff creates an EMPLOYEE or ADMIN account (admins).
func (h *AdminHandler) CreateStaff(c echo.Context) error {
    var req createStaffReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Email = strings.ToLower(strings.TrimSpace(req.Email))
    req.FullName = strings.TrimSpace(req.FullName)
    if req.Email == "" || req.Password == "" || req.FullName == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password/full_name required"})
    }
    role, ok := model.ParseRole(strings.ToUpper(strings.TrimSpace(req.Role)))
    if !ok || (role != model.RoleEmployee && role != model.RoleAdmin) {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be EMPLOYEE or ADMIN"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    uid, err := h.Users.Create(ctx, req.Email, req.FullName, req.Password, strings.TrimSpace(req.Phone), role, h.Cfg.BcryptCost)
    if err != nil {
        if err == repository.ErrEmailExists {
            return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": uid, "role": string(role)})
}

// SetRole changes a user's role (super admin).
func (h *AdminHandler) SetRole(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req setRoleReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    role, ok := model.ParseRole(strings.ToUpper(strings.TrimSpace(req.Role)))
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown role"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Users.SetRole(ctx, id, role); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    // Old tokens still carry the previous role claim; force re-login.
    _ = h.Tokens.RevokeAllForUser(ctx, id)
    return c.NoContent(http.StatusNoContent)
}

// SetEnabled enables or disables an account (admins).
func (h *AdminHandler) SetEnabled(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req setEnabledReq
    if err := c.Bind(&req); err != nil || req.Enabled == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "enabled required"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    if err := h.Users.SetEnabled(ctx, id, *req.Enabled); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
    }
    if !*req.Enabled {
        _ = h.Tokens.RevokeAllForUser(ctx, id)
    }
    return c.NoContent(http.StatusNoContent)
}

// DeleteUser removes an account permanently (super admin).
func (h *AdminHandler) DeleteUser(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    if uid == id {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete own account"})
    }

    ctx, cancel := reqCtx(c)
    defer cancel()

    _ = h.Tokens.RevokeAllForUser(ctx, id)
    if err := h.Users.Delete(ctx, id); err != nil {
        if err == sql.ErrNoRows {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
