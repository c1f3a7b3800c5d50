package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/rivalradar/rivalradar/internal/domain/competitors"
)

type CompetitorRepository struct {
	db *sql.DB
}

func NewCompetitorRepository(db *sql.DB) *CompetitorRepository {
	return &CompetitorRepository{db: db}
}

var _ domain.Repository = (*CompetitorRepository)(nil)

// Save insert/update a competitor record
func (r *CompetitorRepository) Save(ctx context.Context, c *domain.Competitor) error {
	const q = `
INSERT INTO competitors
(id, name, description, website, features, market_position,
 created_at, updated_at, created_by, last_analyzed)
VALUES (?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE
 name=VALUES(name), description=VALUES(description), website=VALUES(website),
 features=VALUES(features), market_position=VALUES(market_position),
 updated_at=VALUES(updated_at), last_analyzed=VALUES(last_analyzed);
`
	features, err := encodeList(c.Features)
	if err != nil {
		return err
	}
	var last sql.NullTime
	if c.LastAnalyzed != nil {
		last = sql.NullTime{Time: *c.LastAnalyzed, Valid: true}
	}
	_, err = r.db.ExecContext(ctx, q,
		c.ID, c.Name, c.Description, c.Website, features, c.MarketPosition,
		c.CreatedAt, c.UpdatedAt, c.CreatedBy, last,
	)
	return err
}

const competitorCols = `id, name, description, website, features, market_position,
       created_at, updated_at, created_by, last_analyzed`

func scanCompetitor(row interface{ Scan(...any) error }) (*domain.Competitor, error) {
	var c domain.Competitor
	var features []byte
	var last sql.NullTime
	if err := row.Scan(
		&c.ID, &c.Name, &c.Description, &c.Website, &features, &c.MarketPosition,
		&c.CreatedAt, &c.UpdatedAt, &c.CreatedBy, &last,
	); err != nil {
		return nil, err
	}
	var err error
	if c.Features, err = decodeList(features); err != nil {
		return nil, err
	}
	if last.Valid {
		t := last.Time
		c.LastAnalyzed = &t
	}
	return &c, nil
}

// Get by ID, scoped to owner
func (r *CompetitorRepository) Get(ctx context.Context, user string, id domain.CompetitorID) (*domain.Competitor, error) {
	const q = `
SELECT ` + competitorCols + `
FROM competitors
WHERE created_by=? AND id=? LIMIT 1;
`
	return scanCompetitor(r.db.QueryRowContext(ctx, q, user, id))
}

// GetByName looks a competitor up by exact name (uniqueness check).
func (r *CompetitorRepository) GetByName(ctx context.Context, user string, name string) (*domain.Competitor, error) {
	const q = `
SELECT ` + competitorCols + `
FROM competitors
WHERE created_by=? AND name=? LIMIT 1;
`
	return scanCompetitor(r.db.QueryRowContext(ctx, q, user, name))
}

// List competitors for a user, most recently updated first
func (r *CompetitorRepository) List(ctx context.Context, user string) ([]*domain.Competitor, error) {
	const q = `
SELECT ` + competitorCols + `
FROM competitors
WHERE created_by=? ORDER BY updated_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Competitor
	for rows.Next() {
		c, err := scanCompetitor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes the competitor and its analyses in one transaction.
func (r *CompetitorRepository) Delete(ctx context.Context, user string, id domain.CompetitorID) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM competitor_analyses WHERE competitor_id=? AND created_by=?;`, id, user); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx,
		`DELETE FROM competitors WHERE id=? AND created_by=?;`, id, user)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return tx.Commit()
}

// MarkAnalyzed moves the last_analyzed pointer (and updated_at with it).
func (r *CompetitorRepository) MarkAnalyzed(ctx context.Context, id domain.CompetitorID, at time.Time) error {
	const q = `
UPDATE competitors
SET last_analyzed = ?, updated_at = ?
WHERE id = ?;`
	_, err := r.db.ExecContext(ctx, q, at, at, id)
	return err
}

// MarketPositions returns the distinct non-empty market positions for a user.
func (r *CompetitorRepository) MarketPositions(ctx context.Context, user string) ([]string, error) {
	const q = `
SELECT DISTINCT market_position FROM competitors
WHERE created_by=? AND market_position <> '';
`
	rows, err := r.db.QueryContext(ctx, q, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Count returns the number of competitors a user tracks.
func (r *CompetitorRepository) Count(ctx context.Context, user string) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM competitors WHERE created_by=?;`, user).Scan(&n)
	return n, err
}
