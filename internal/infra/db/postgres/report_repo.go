package postgres

import (
	"context"
	"database/sql"

	domain "github.com/rivalradar/rivalradar/internal/domain/reports"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

var _ domain.Repository = (*ReportRepository)(nil)

// Save inserts or updates a report record
func (r *ReportRepository) Save(ctx context.Context, rep *domain.Report) error {
	const q = `
INSERT INTO reports
(id, title, description, competitor_ids, data, created_at, updated_at, created_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO UPDATE SET
 title=EXCLUDED.title, description=EXCLUDED.description,
 competitor_ids=EXCLUDED.competitor_ids, data=EXCLUDED.data,
 updated_at=EXCLUDED.updated_at;
`
	ids, err := encodeList(rep.CompetitorIDs)
	if err != nil {
		return err
	}
	data, err := encodeMap(rep.Data)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, q,
		rep.ID, rep.Title, rep.Description, ids, data,
		rep.CreatedAt, rep.UpdatedAt, rep.CreatedBy,
	)
	return err
}

const reportCols = `id, title, description, competitor_ids, data, created_at, updated_at, created_by`

func scanReport(row interface{ Scan(...any) error }) (*domain.Report, error) {
	var rep domain.Report
	var ids, data []byte
	if err := row.Scan(
		&rep.ID, &rep.Title, &rep.Description, &ids, &data,
		&rep.CreatedAt, &rep.UpdatedAt, &rep.CreatedBy,
	); err != nil {
		return nil, err
	}
	var err error
	if rep.CompetitorIDs, err = decodeList(ids); err != nil {
		return nil, err
	}
	if rep.Data, err = decodeMap(data); err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *ReportRepository) Get(ctx context.Context, user string, id domain.ReportID) (*domain.Report, error) {
	const q = `
SELECT ` + reportCols + `
FROM reports
WHERE created_by=$1 AND id=$2 LIMIT 1;
`
	return scanReport(r.db.QueryRowContext(ctx, q, user, id))
}

func (r *ReportRepository) List(ctx context.Context, user string) ([]*domain.Report, error) {
	const q = `
SELECT ` + reportCols + `
FROM reports
WHERE created_by=$1 ORDER BY created_at DESC;
`
	rows, err := r.db.QueryContext(ctx, q, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Report
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rep)
	}
	return out, rows.Err()
}

func (r *ReportRepository) Delete(ctx context.Context, user string, id domain.ReportID) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM reports WHERE id=$1 AND created_by=$2;`, id, user)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
