package counter

import "time"

// Counter backs the named sequences (employee numbers, invoice numbers).
// Rows are only ever touched through the atomic upsert in NextValue.
type Counter struct {
	Name      string `gorm:"type:varchar(60);primaryKey"`
	Seq       int64  `gorm:"type:bigint;not null"`
	UpdatedAt time.Time
}

func (Counter) TableName() string {
	return "counters"
}
