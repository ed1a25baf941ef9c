package postgres

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Counter backs the dense per-key sequences used for human-facing
// identifiers (UHIDs, invoice numbers, employee codes). Database
// sequences leave gaps on rollback; these must not.
type Counter struct {
	Key       string    `gorm:"column:key;type:varchar(50);primaryKey"`
	Value     int       `gorm:"column:value;not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Counter) TableName() string {
	return "counters"
}

// nextSequence atomically increments and returns the counter for key.
func nextSequence(ctx context.Context, db *gorm.DB, key string) (int, error) {
	var value int
	err := db.WithContext(ctx).Raw(`
		INSERT INTO counters (key, value, updated_at)
		VALUES (?, 1, NOW())
		ON CONFLICT (key) DO UPDATE SET value = counters.value + 1, updated_at = NOW()
		RETURNING value`, key).Scan(&value).Error
	if err != nil {
		return 0, err
	}
	return value, nil
}

// setIf adds a column update when the pointer is non-nil.
func setIf[T any](updates map[string]any, column string, v *T) {
	if v != nil {
		updates[column] = *v
	}
}

func totalPages(total int64, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	pages := int(total) / pageSize
	if int(total)%pageSize != 0 {
		pages++
	}
	return pages
}

// likeEscaper neutralizes LIKE metacharacters in user-supplied search
// input so a query like "%" matches a literal percent sign, not the
// whole table. Backslash is the default LIKE escape character.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// isUniqueViolation matches the Postgres duplicate-key error without
// importing the driver's error types.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "duplicate key value") ||
		strings.Contains(err.Error(), "SQLSTATE 23505")
}
