package output

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cafesim-io/cafedatasim/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const postgresOpTimeout = 30 * time.Second

// PostgresSink persists artifacts into two tables: documents and reports go
// to cafe_artifacts as jsonb or text, table rows go to cafe_rows one record
// per row via COPY.
type PostgresSink struct {
	pool *pgxpool.Pool
}

func NewPostgresSink(connString string) (*PostgresSink, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresOpTimeout)
	defer cancel()

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error pinging database: %w", err)
	}

	s := &PostgresSink{pool: pool}
	if err := s.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (p *PostgresSink) ensureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS cafe_artifacts (
			id bigserial PRIMARY KEY,
			folder text NOT NULL,
			name text NOT NULL,
			kind text NOT NULL,
			content jsonb,
			report text,
			created_at timestamptz NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS cafe_rows (
			id bigserial PRIMARY KEY,
			folder text NOT NULL,
			name text NOT NULL,
			row_index int NOT NULL,
			record jsonb NOT NULL,
			created_at timestamptz NOT NULL DEFAULT now()
		)`,
	}
	for _, stmt := range statements {
		if _, err := p.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

func (p *PostgresSink) SaveTable(folder, name string, table *models.Table) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresOpTimeout)
	defer cancel()

	records := table.Records()
	rows := make([][]any, len(records))
	for i, record := range records {
		payload, err := json.Marshal(record)
		if err != nil {
			return "", err
		}
		rows[i] = []any{folder, name, i, payload}
	}

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"cafe_rows"},
		[]string{"folder", "name", "row_index", "record"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return "", fmt.Errorf("failed to copy rows into cafe_rows: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}
	return fmt.Sprintf("postgres:cafe_rows/%s/%s", folder, name), nil
}

func (p *PostgresSink) SaveJSON(folder, name string, v any) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresOpTimeout)
	defer cancel()

	payload, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	_, err = p.pool.Exec(ctx,
		`INSERT INTO cafe_artifacts (folder, name, kind, content) VALUES ($1, $2, 'json', $3)`,
		folder, name, payload)
	if err != nil {
		return "", fmt.Errorf("failed to insert into cafe_artifacts: %w", err)
	}
	return fmt.Sprintf("postgres:cafe_artifacts/%s/%s", folder, name), nil
}

func (p *PostgresSink) SaveText(folder, name, text string) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), postgresOpTimeout)
	defer cancel()

	_, err := p.pool.Exec(ctx,
		`INSERT INTO cafe_artifacts (folder, name, kind, report) VALUES ($1, $2, 'text', $3)`,
		folder, name, text)
	if err != nil {
		return "", fmt.Errorf("failed to insert into cafe_artifacts: %w", err)
	}
	return fmt.Sprintf("postgres:cafe_artifacts/%s/%s", folder, name), nil
}

func (p *PostgresSink) Close() error {
	p.pool.Close()
	return nil
}
