package questions

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"log/slog"

	"github.com/m3rciful/quizbot/internal/logger"
)

// PostgresSource serves questions from the questions table.
type PostgresSource struct {
	db  *sqlx.DB
	log *slog.Logger
}

var _ Source = (*PostgresSource)(nil)

// NewPostgresSource wraps an established database connection.
func NewPostgresSource(db *sqlx.DB) *PostgresSource {
	return &PostgresSource{
		db:  db,
		log: logger.Component("questions"),
	}
}

type questionRow struct {
	Text    string         `db:"text"`
	Options pq.StringArray `db:"options"`
	Correct string         `db:"correct"`
}

// QuestionsFor returns up to count questions for the category, in insertion order.
func (s *PostgresSource) QuestionsFor(ctx context.Context, category string, count int) ([]Question, error) {
	var rows []questionRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT text, options, correct FROM questions WHERE category = $1 ORDER BY id LIMIT $2`,
		category, count,
	)
	if err != nil {
		return nil, fmt.Errorf("select questions: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, category)
	}

	out := make([]Question, len(rows))
	for i, r := range rows {
		out[i] = Question{Text: r.Text, Options: r.Options, Correct: r.Correct}
	}
	return out, nil
}

// Seed loads the embedded bank into an empty questions table. A table that
// already holds rows is left untouched.
func (s *PostgresSource) Seed(ctx context.Context) error {
	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM questions`); err != nil {
		return fmt.Errorf("count questions: %w", err)
	}
	if total > 0 {
		s.log.Debug("seed skipped",
			slog.String("event", "seed"),
			slog.Int("existing", total),
		)
		return nil
	}

	bank, err := ParseBank(bankYAML)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := 0
	for category, qs := range bank {
		for _, q := range qs {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO questions (category, text, options, correct) VALUES ($1, $2, $3, $4)`,
				category, q.Text, pq.StringArray(q.Options), q.Correct,
			)
			if err != nil {
				return fmt.Errorf("insert question: %w", err)
			}
			inserted++
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	s.log.Info("question bank seeded",
		slog.String("event", "seed"),
		slog.Int("questions", inserted),
		slog.Int("categories", len(bank)),
	)
	return nil
}
