package repository

import (
	"database/sql"
	"time"

	apperrors "rentfolio/internal/errors"
)

// boolToInt converts a bool to the 0/1 integer SQLite stores.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// parseDate handles the date formats SQLite may return for DATE columns.
func parseDate(s string) time.Time {
	formats := []string{
		"2006-01-02",
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
		time.RFC3339,
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// nullableDate converts an optional date string column to *time.Time.
func nullableDate(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t := parseDate(s.String)
	if t.IsZero() {
		return nil
	}
	return &t
}

// dateArg formats an optional time for storage in a DATE column.
func dateArg(t *time.Time) any {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Format("2006-01-02")
}

// nullableFloat converts an optional REAL column to *float64.
func nullableFloat(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}

// floatArg converts an optional float for storage in a nullable column.
func floatArg(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}

// requireRowsAffected returns a not-found error when an UPDATE or DELETE
// touched no rows.
func requireRowsAffected(result sql.Result, resource string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return apperrors.NotFound(resource)
	}
	return nil
}
