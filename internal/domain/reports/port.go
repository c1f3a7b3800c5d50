package reports

import "context"

// Repository port. Listing is ordered by created_at descending and scoped to
// the owning user.
type Repository interface {
	Save(ctx context.Context, r *Report) error
	Get(ctx context.Context, user string, id ReportID) (*Report, error)
	List(ctx context.Context, user string) ([]*Report, error)
	Delete(ctx context.Context, user string, id ReportID) error
}
