package model

import "time"

// ServiceItem is one entry of the workshop's service catalog.  The
// catalog feeds the public booking form and the per-line prices on
// generated invoices.
type ServiceItem struct {
    ID          uint64    // services.id
    Name        string    // services.name
    Description string    // services.description
    PriceCents  uint32    // services.price_cents
    Active      bool      // services.is_active
    CreatedAt   time.Time // services.created_at
    UpdatedAt   time.Time // services.updated_at
}

// CustomQuestion is a curated FAQ entry consulted by the chatbot before
// it falls back to the upstream LLM API.
type CustomQuestion struct {
    ID        uint64    // custom_questions.id
    Question  string    // custom_questions.question
    Answer    string    // custom_questions.answer
    Active    bool      // custom_questions.is_active
    CreatedAt time.Time // custom_questions.created_at
}
