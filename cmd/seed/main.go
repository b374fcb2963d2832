package main

import (
    "context"
    "fmt"
    "log"
    "time"

    "github.com/brianvoe/gofakeit/v7"
    "github.com/joho/godotenv"

    "github.com/autocare/autocare-backend/internal/config"
    "github.com/autocare/autocare-backend/internal/database"
    "github.com/autocare/autocare-backend/internal/model"
    "github.com/autocare/autocare-backend/internal/repository"
)

// Development seeder: a super admin, a handful of staff, fake customers
// with appointments, and a starter service catalog.  Safe to re-run;
// duplicate emails and service names are skipped.
func main() {
    log.SetFlags(log.LstdFlags | log.Lshortfile)
    log.Println("seed starting")

    _ = godotenv.Load()
    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("connect mysql: %v", err)
    }
    defer db.Close()

    gofakeit.Seed(time.Now().UnixNano())
    ctx := context.Background()

    users := repository.NewUserRepo(db)
    services := repository.NewServiceRepo(db)
    appts := repository.NewAppointmentRepo(db)
    questions := repository.NewQuestionRepo(db)

    if err := seedStaff(ctx, users, cfg.BcryptCost); err != nil {
        log.Fatalf("seed staff: %v", err)
    }
    if err := seedServices(ctx, services); err != nil {
        log.Fatalf("seed services: %v", err)
    }
    if err := seedQuestions(ctx, questions); err != nil {
        log.Fatalf("seed questions: %v", err)
    }
    if err := seedCustomers(ctx, users, appts, cfg.BcryptCost, 40); err != nil {
        log.Fatalf("seed customers: %v", err)
    }

    log.Println("seed complete")
}

func seedStaff(ctx context.Context, users *repository.UserRepo, cost int) error {
    fixed := []struct {
        email string
        name  string
        role  model.Role
    }{
        {"super@autocare.local", "Super Admin", model.RoleSuperAdmin},
        {"admin@autocare.local", "Service Admin", model.RoleAdmin},
        {"mech1@autocare.local", "Alex Mechanic", model.RoleEmployee},
        {"mech2@autocare.local", "Sam Mechanic", model.RoleEmployee},
        {"mech3@autocare.local", "Robin Mechanic", model.RoleEmployee},
    }
    for _, f := range fixed {
        _, err := users.Create(ctx, f.email, f.name, "changeme123", gofakeit.Phone(), f.role, cost)
        if err != nil && err != repository.ErrEmailExists {
            return err
        }
    }
    log.Println("staff seeded")
    return nil
}

func seedServices(ctx context.Context, services *repository.ServiceRepo) error {
    items := []model.ServiceItem{
        {Name: "Oil Change", Description: "Engine oil and filter replacement", PriceCents: 4999, Active: true},
        {Name: "Wheel Alignment", Description: "Four wheel alignment and balancing", PriceCents: 7999, Active: true},
        {Name: "Brake Service", Description: "Pads, discs and fluid inspection", PriceCents: 12999, Active: true},
        {Name: "Full Service", Description: "Complete periodic maintenance", PriceCents: 24999, Active: true},
        {Name: "AC Regas", Description: "Air conditioning refrigerant recharge", PriceCents: 8999, Active: true},
        {Name: "Diagnostics", Description: "Computer fault diagnostics", PriceCents: 5999, Active: true},
    }
    for i := range items {
        if _, err := services.Create(ctx, &items[i]); err != nil && err != repository.ErrConflict {
            return err
        }
    }
    log.Println("services seeded")
    return nil
}

func seedQuestions(ctx context.Context, questions *repository.QuestionRepo) error {
    pairs := [][2]string{
        {"What are your opening hours?", "We are open Monday to Saturday, 08:00 to 18:00."},
        {"Do I need an appointment?", "Walk-ins are welcome but booked appointments are served first."},
        {"How long does an oil change take?", "An oil change usually takes about 45 minutes."},
        {"Do you offer a warranty?", "All work carries a 6 month workmanship warranty."},
    }
    for _, p := range pairs {
        if _, err := questions.Create(ctx, p[0], p[1]); err != nil {
            return err
        }
    }
    log.Println("questions seeded")
    return nil
}

func seedCustomers(ctx context.Context, users *repository.UserRepo, appts *repository.AppointmentRepo, cost, count int) error {
    log.Printf("seeding %d customers", count)

    serviceNames := []string{"Oil Change", "Wheel Alignment", "Brake Service", "Full Service", "AC Regas", "Diagnostics"}
    vehicleTypes := []string{"Sedan", "SUV", "Hatchback", "Pickup", "Van"}

    for i := 0; i < count; i++ {
        name := gofakeit.Name()
        email := gofakeit.Email()
        uid, err := users.Create(ctx, email, name, "changeme123", gofakeit.Phone(), model.RoleCustomer, cost)
        if err != nil {
            if err == repository.ErrEmailExists {
                continue
            }
            return err
        }

        // One appointment per customer on a unique future slot.  Slot
        // uniqueness comes from the loop index so the conflict check
        // never rejects a seeded row.
        day := time.Now().AddDate(0, 0, 1+i/8)
        hour := 9 + i%8
        a := &model.Appointment{
            Date:          day.Format("2006-01-02"),
            Time:          fmt.Sprintf("%02d:00", hour),
            VehicleType:   vehicleTypes[gofakeit.Number(0, len(vehicleTypes)-1)],
            VehicleNumber: gofakeit.Regex(`[A-Z]{2}-[0-9]{4}`),
            ServiceType:   serviceNames[gofakeit.Number(0, len(serviceNames)-1)],
            Instructions:  gofakeit.Sentence(6),
            CustomerName:  name,
            CustomerEmail: email,
            CustomerPhone: gofakeit.Phone(),
            CustomerID:    &uid,
            Status:        "PENDING",
        }
        if err := appts.Create(ctx, a); err != nil {
            return err
        }
    }

    log.Println("customers seeded")
    return nil
}
