package repository

import (
    "context"
    "database/sql"

    "github.com/autocare/autocare-backend/internal/model"
)

// QuestionRepo stores the curated FAQ entries the chatbot consults
// before proxying to the upstream LLM.
type QuestionRepo struct {
    db *sql.DB
}

// NewQuestionRepo returns a new QuestionRepo bound to the given database.
func NewQuestionRepo(db *sql.DB) *QuestionRepo { return &QuestionRepo{db: db} }

// FindAnswer looks for an active FAQ entry matching the question text.
// Matching is a case-insensitive substring test in both directions so
// "opening hours?" hits an entry titled "What are your opening hours".
// sql.ErrNoRows means no curated answer exists.
func (r *QuestionRepo) FindAnswer(ctx context.Context, question string) (string, error) {
    var answer string
    err := r.db.QueryRowContext(ctx,
        `SELECT answer FROM custom_questions
         WHERE is_active=1 AND (LOWER(question) LIKE CONCAT('%', LOWER(?), '%')
            OR LOWER(?) LIKE CONCAT('%', LOWER(question), '%'))
         ORDER BY LENGTH(question) LIMIT 1`,
        question, question).Scan(&answer)
    return answer, err
}

// List returns every FAQ entry for the admin surface.
func (r *QuestionRepo) List(ctx context.Context) ([]model.CustomQuestion, error) {
    rows, err := r.db.QueryContext(ctx,
        `SELECT id, question, answer, is_active, created_at FROM custom_questions ORDER BY id`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.CustomQuestion{}
    for rows.Next() {
        var q model.CustomQuestion
        if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &q.Active, &q.CreatedAt); err != nil {
            return nil, err
        }
        out = append(out, q)
    }
    return out, rows.Err()
}

// Create inserts a FAQ entry and returns its id.
func (r *QuestionRepo) Create(ctx context.Context, question, answer string) (uint64, error) {
    res, err := r.db.ExecContext(ctx,
        `INSERT INTO custom_questions (question, answer, is_active) VALUES (?,?,1)`,
        question, answer)
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// Delete removes a FAQ entry.
func (r *QuestionRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.db.ExecContext(ctx, `DELETE FROM custom_questions WHERE id=?`, id)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return sql.ErrNoRows
    }
    return nil
}
