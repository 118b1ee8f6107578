package counter

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Known sequence names. Employee numbers start from the configured base so
// EMP-2025 is the first number ever issued.
const (
	EmployeeNumberSeq = "employee_number"
	InvoiceNumberSeq  = "invoice_no"
)

// DefaultBase is the starting value for newly created counters; the first
// NextValue call on a fresh counter returns DefaultBase+1.
const DefaultBase = 2024

// FormatEmployeeNumber renders a sequence value as a public employee
// number.
func FormatEmployeeNumber(seq int64) string {
	return fmt.Sprintf("EMP-%d", seq)
}

//go:generate mockgen -destination=mock/counter_repo_mock.go -package=mock . Repository
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	NextValue(ctx context.Context, name string) (int64, error)
}

type repository struct {
	db   *gorm.DB
	base int64
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db, base: DefaultBase}
}

// NewRepositoryWithBase overrides the starting value, mainly for tests.
func NewRepositoryWithBase(db *gorm.DB, base int64) Repository {
	return &repository{db: db, base: base}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx, base: r.base}
}

// NextValue atomically increments the named counter and returns the new
// value. The upsert-and-increment runs as a single statement so no two
// callers can observe the same value; either the counter advanced and a
// value is returned, or the statement failed and nothing changed.
func (r *repository) NextValue(ctx context.Context, name string) (int64, error) {
	var nextValue int64

	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO counters (name, seq, updated_at)
		VALUES (?, ?, now())
		ON CONFLICT (name) DO UPDATE
		SET seq = counters.seq + 1, updated_at = now()
		RETURNING seq
	`, name, r.base+1).Scan(&nextValue).Error

	if err != nil {
		return 0, err
	}

	return nextValue, nil
}
