package main

import (
    "log"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"

    "github.com/autocare/autocare-backend/internal/appointment"
    "github.com/autocare/autocare-backend/internal/chatbot"
    "github.com/autocare/autocare-backend/internal/config"
    "github.com/autocare/autocare-backend/internal/database"
    "github.com/autocare/autocare-backend/internal/handler"
    "github.com/autocare/autocare-backend/internal/mailer"
    "github.com/autocare/autocare-backend/internal/middleware"
    "github.com/autocare/autocare-backend/internal/queue"
    "github.com/autocare/autocare-backend/internal/repository"
    "github.com/autocare/autocare-backend/internal/router"
    queuepublisher "github.com/autocare/autocare-backend/internal/service"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()

    cfg := config.Load()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatalf("database: %v", err)
    }
    defer db.Close()

    users := repository.NewUserRepo(db)
    tokens := repository.NewTokenRepo(db)
    appts := repository.NewAppointmentRepo(db)
    chats := repository.NewChatRepo(db)
    services := repository.NewServiceRepo(db)
    questions := repository.NewQuestionRepo(db)

    mail := mailer.New(cfg.SMTPHost, cfg.SMTPPort, cfg.MailFrom, cfg.MailName)
    if !mail.Enabled() {
        log.Println("mailer disabled: SMTP_HOST not set")
    }

    engine := appointment.NewEngine(appts, users, queuepublisher.NewPublisher(), chats)

    bot := &chatbot.Service{
        FAQ:    questions,
        Client: chatbot.NewClient(cfg.ChatbotURL, cfg.ChatbotKey, cfg.ChatbotModel),
    }

    // The notification consumer reconnects on its own; a startup error
    // only means the broker was unreachable at boot.
    go func() {
        if err := queue.StartNotificationConsumer(mail, cfg.MailName); err != nil {
            log.Printf("notification consumer stopped: %v", err)
        }
    }()

    e := echo.New()
    e.HideBanner = true

    rdb := config.NewRedisClient()
    if rdb != nil {
        e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
    }
    var cacheMW echo.MiddlewareFunc
    if rdb != nil {
        if cacheCfg := config.LoadCacheConfig(); cacheCfg.Enabled {
            cacheMW = middleware.NewRedisCache(cacheCfg, rdb)
        }
    }

    router.Register(e, router.Handlers{
        Auth:         handler.NewAuthHandler(cfg, users, tokens),
        Appointments: handler.NewAppointmentHandler(engine, appts, users),
        Chats:        handler.NewChatHandler(chats, users),
        Chatbot:      handler.NewChatbotHandler(bot, questions),
        Dashboard:    handler.NewDashboardHandler(appts),
        Invoices:     handler.NewInvoiceHandler(appts, services, users, mail, cfg.MailName),
        Admin:        handler.NewAdminHandler(cfg, users, tokens),
        Services:     handler.NewServiceHandler(services),
    }, cfg.JWTSecret, cacheMW)

    addr := ":" + cfg.Port
    log.Printf("listening on %s (env=%s)", addr, cfg.Env)
    if err := e.Start(addr); err != nil {
        log.Fatal(err)
    }
}
