package model

import "time"

// Appointment is the central entity of the system: one service booking
// occupying a (date, time) slot.  Date and Time are kept as the plain
// calendar strings the schema stores ("2006-01-02" and "15:04") because
// slot occupancy is defined by exact equality on the pair, not by any
// duration or overlap arithmetic.
//
// Fields:
//  ID            – primary key identifier, assigned at creation.
//  Date          – calendar date of the slot (YYYY-MM-DD).
//  Time          – time of day of the slot (HH:MM).
//  VehicleType   – optional vehicle category (sedan, SUV, ...).
//  VehicleNumber – optional plate number.
//  ServiceType   – requested service; the only required descriptive field.
//  Instructions  – optional free-text notes from the customer.
//  CustomerName  – contact name for anonymous bookings.
//  CustomerEmail – contact email for anonymous bookings.
//  CustomerPhone – contact phone for anonymous bookings.
//  CustomerID    – owning user, nil for anonymous bookings.
//  EmployeeID    – assigned employee, nil until assignment.
//  Status        – lifecycle status (see appointment.Status).
//  Progress      – 0–100, driven by the assigned employee; 100 implies COMPLETED.
//  CreatedAt     – set once at creation.
//  UpdatedAt     – refreshed on every mutation.
type Appointment struct {
    ID            uint64    // appointments.id
    Date          string    // appointments.date
    Time          string    // appointments.time
    VehicleType   string    // appointments.vehicle_type
    VehicleNumber string    // appointments.vehicle_number
    ServiceType   string    // appointments.service_type
    Instructions  string    // appointments.instructions
    CustomerName  string    // appointments.customer_name
    CustomerEmail string    // appointments.customer_email
    CustomerPhone string    // appointments.customer_phone
    CustomerID    *uint64   // appointments.customer_id (nullable)
    EmployeeID    *uint64   // appointments.employee_id (nullable)
    Status        string    // appointments.status
    Progress      int       // appointments.progress
    CreatedAt     time.Time // appointments.created_at
    UpdatedAt     time.Time // appointments.updated_at
}
