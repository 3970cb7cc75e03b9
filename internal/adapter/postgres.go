package adapter

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres is the pgx-backed Executor used against a live database.
type Postgres struct {
	connectionString string
	pool             *pgxpool.Pool
}

func NewPostgres(connectionString string) *Postgres {
	return &Postgres{
		connectionString: connectionString,
		pool:             nil,
	}
}

func (p *Postgres) Connect(ctx context.Context) error {
	pool, err := pgxpool.New(ctx, p.connectionString)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}

	p.pool = pool
	return nil
}

func (p *Postgres) Close() {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
}

func (p *Postgres) HealthCheck(ctx context.Context) error {
	if p.pool == nil {
		return ErrNotConnected
	}

	if err := p.pool.Ping(ctx); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	return nil
}

// Execute runs one read-only diagnostic query and maps every row by
// column name.
func (p *Postgres) Execute(ctx context.Context, sql string) ([]Row, error) {
	if p.pool == nil {
		return nil, ErrNotConnected
	}

	rows, err := p.pool.Query(ctx, sql)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		row := make(Row, len(fields))
		for i, fd := range fields {
			row[string(fd.Name)] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}

	return out, nil
}
