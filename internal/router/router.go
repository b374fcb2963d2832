package router // route registration for the API

import (
    "github.com/labstack/echo/v4"

    "github.com/autocare/autocare-backend/internal/handler"
    "github.com/autocare/autocare-backend/internal/middleware"
)

// Handlers collects every handler the router wires up.
type Handlers struct {
    Auth         *handler.AuthHandler
    Appointments *handler.AppointmentHandler
    Chats        *handler.ChatHandler
    Chatbot      *handler.ChatbotHandler
    Dashboard    *handler.DashboardHandler
    Invoices     *handler.InvoiceHandler
    Admin        *handler.AdminHandler
    Services     *handler.ServiceHandler
}

// Register wires all routes.  cacheMW may be nil when Redis response
// caching is disabled; it is applied only to public read endpoints.
func Register(e *echo.Echo, h Handlers, jwtSecret string, cacheMW echo.MiddlewareFunc) {
    e.GET("/healthz", handler.Health)

    registerAuth(e, h.Auth, jwtSecret)
    registerPublic(e, h, jwtSecret, cacheMW)
    registerCustomer(e, h, jwtSecret)
    registerStaff(e, h, jwtSecret)
    registerAdmin(e, h, jwtSecret)
}

func registerAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
    g := e.Group("/v1/auth")
    g.POST("/register", a.Register)
    g.POST("/login", a.Login)
    g.POST("/refresh", a.Refresh)
    g.POST("/logout", a.Logout)

    auth := e.Group("/v1/auth")
    auth.Use(middleware.JWTAuth(jwtSecret))
    auth.POST("/logout-all", a.LogoutAll)
    auth.GET("/me", a.Me)
}

// registerPublic covers unauthenticated endpoints: the service catalog,
// the chatbot and anonymous booking.  Booking uses OptionalJWT so an
// authenticated customer gets linked to the record automatically.
func registerPublic(e *echo.Echo, h Handlers, jwtSecret string, cacheMW echo.MiddlewareFunc) {
    if cacheMW != nil {
        e.GET("/v1/services", h.Services.ListActive, cacheMW)
    } else {
        e.GET("/v1/services", h.Services.ListActive)
    }
    e.POST("/v1/chatbot/ask", h.Chatbot.Ask)
    e.POST("/v1/appointments", h.Appointments.Create, middleware.OptionalJWT(jwtSecret))
}

// registerCustomer covers endpoints any authenticated user can reach;
// per-record ownership is enforced in the engine or the handler.
func registerCustomer(e *echo.Echo, h Handlers, jwtSecret string) {
    g := e.Group("/v1")
    g.Use(middleware.JWTAuth(jwtSecret))

    g.GET("/appointments/my", h.Appointments.ListMine)
    g.GET("/appointments/upcoming", h.Appointments.ListUpcoming)
    g.GET("/appointments/:id", h.Appointments.Get)
    g.PATCH("/appointments/:id", h.Appointments.Update)
    g.POST("/appointments/:id/cancel", h.Appointments.Cancel)
    g.GET("/appointments/:id/invoice", h.Invoices.Download)
    g.GET("/dashboard/my", h.Dashboard.MyStats)

    g.GET("/chats", h.Chats.ListMine)
    g.GET("/chats/:id/messages", h.Chats.Messages)
    g.POST("/chats/:id/messages", h.Chats.Send)
    g.POST("/chats/:id/read", h.Chats.MarkRead)
    g.DELETE("/chats/messages/:message_id", h.Chats.DeleteMessage)
}

// registerStaff covers endpoints for EMPLOYEE and above.
func registerStaff(e *echo.Echo, h Handlers, jwtSecret string) {
    g := e.Group("/v1/staff")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole(middleware.Staff...))

    g.GET("/appointments", h.Appointments.List)
    g.GET("/appointments/today", h.Appointments.ListToday)
    g.GET("/appointments/range", h.Appointments.ListRange)
    g.GET("/appointments/search", h.Appointments.Search)
    g.GET("/appointments/assigned", h.Appointments.ListAssigned)
    g.POST("/appointments/:id/assign", h.Appointments.Assign)
    g.POST("/appointments/:id/status", h.Appointments.ChangeStatus)
    g.POST("/appointments/:id/progress", h.Appointments.UpdateProgress)
    g.POST("/appointments/:id/invoice", h.Invoices.Generate)
    g.GET("/dashboard", h.Dashboard.Stats)
    g.GET("/employees", h.Admin.ListEmployees)
}

// registerAdmin covers ADMIN/SUPER_ADMIN management plus the operations
// reserved for SUPER_ADMIN alone.
func registerAdmin(e *echo.Echo, h Handlers, jwtSecret string) {
    g := e.Group("/v1/admin")
    g.Use(middleware.JWTAuth(jwtSecret))
    g.Use(middleware.RequireRole(middleware.Admins...))

    g.POST("/appointments/:id/allocate", h.Appointments.Allocate)
    g.DELETE("/appointments/:id", h.Appointments.Delete)

    g.GET("/users", h.Admin.ListUsers)
    g.POST("/users", h.Admin.CreateStaff)
    g.POST("/users/:id/enabled", h.Admin.SetEnabled)

    g.GET("/services", h.Services.ListAll)
    g.POST("/services", h.Services.Create)
    g.PATCH("/services/:id", h.Services.Update)
    g.DELETE("/services/:id", h.Services.Delete)

    g.GET("/questions", h.Chatbot.ListQuestions)
    g.POST("/questions", h.Chatbot.CreateQuestion)
    g.DELETE("/questions/:id", h.Chatbot.DeleteQuestion)

    super := e.Group("/v1/admin")
    super.Use(middleware.JWTAuth(jwtSecret))
    super.Use(middleware.RequireRole("SUPER_ADMIN"))
    super.POST("/users/:id/role", h.Admin.SetRole)
    super.DELETE("/users/:id", h.Admin.DeleteUser)
}
