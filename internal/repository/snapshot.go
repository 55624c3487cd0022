package repository

import (
	"fmt"
	"time"

	"rentfolio/internal/database"
	"rentfolio/internal/models"
)

// SnapshotRepository stores daily portfolio metric snapshots used to
// build cash-flow history charts. One row per user per day.
type SnapshotRepository struct {
	db *database.DB
}

// NewSnapshotRepository creates a new SnapshotRepository.
func NewSnapshotRepository(db *database.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Upsert records a snapshot for the given date, replacing a snapshot
// taken earlier the same day so reruns stay idempotent.
func (r *SnapshotRepository) Upsert(s *models.MetricSnapshot) error {
	_, err := r.db.Exec(`
		INSERT INTO metric_snapshots (
			user_id, snapshot_date, property_count, total_value,
			gross_income, operating_expense, net_operating_income, debt_service, cash_flow
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, snapshot_date) DO UPDATE SET
			property_count = excluded.property_count,
			total_value = excluded.total_value,
			gross_income = excluded.gross_income,
			operating_expense = excluded.operating_expense,
			net_operating_income = excluded.net_operating_income,
			debt_service = excluded.debt_service,
			cash_flow = excluded.cash_flow
	`, s.UserID, s.SnapshotDate.Format("2006-01-02"), s.PropertyCount, s.TotalValue,
		s.GrossIncome, s.OperatingExpense, s.NetOperatingInc, s.DebtService, s.CashFlow)
	if err != nil {
		return fmt.Errorf("upserting snapshot: %w", err)
	}
	return nil
}

// GetByUserID retrieves snapshots since the given date in ascending
// date order.
func (r *SnapshotRepository) GetByUserID(userID int64, since time.Time) ([]*models.MetricSnapshot, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, snapshot_date, property_count, total_value,
			gross_income, operating_expense, net_operating_income, debt_service, cash_flow
		FROM metric_snapshots
		WHERE user_id = ? AND snapshot_date >= ?
		ORDER BY snapshot_date ASC
	`, userID, since.Format("2006-01-02"))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]*models.MetricSnapshot, 0)
	for rows.Next() {
		s := &models.MetricSnapshot{}
		var date string
		if err := rows.Scan(&s.ID, &s.UserID, &date, &s.PropertyCount, &s.TotalValue,
			&s.GrossIncome, &s.OperatingExpense, &s.NetOperatingInc, &s.DebtService, &s.CashFlow); err != nil {
			return nil, err
		}
		if parsed := parseDate(date); !parsed.IsZero() {
			s.SnapshotDate = parsed
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// Latest returns the most recent snapshot for a user, or nil when the
// user has none yet.
func (r *SnapshotRepository) Latest(userID int64) (*models.MetricSnapshot, error) {
	snapshots, err := r.getLimited(userID, 1)
	if err != nil {
		return nil, err
	}
	if len(snapshots) == 0 {
		return nil, nil
	}
	return snapshots[0], nil
}

func (r *SnapshotRepository) getLimited(userID int64, limit int) ([]*models.MetricSnapshot, error) {
	rows, err := r.db.Query(`
		SELECT id, user_id, snapshot_date, property_count, total_value,
			gross_income, operating_expense, net_operating_income, debt_service, cash_flow
		FROM metric_snapshots
		WHERE user_id = ?
		ORDER BY snapshot_date DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	snapshots := make([]*models.MetricSnapshot, 0, limit)
	for rows.Next() {
		s := &models.MetricSnapshot{}
		var date string
		if err := rows.Scan(&s.ID, &s.UserID, &date, &s.PropertyCount, &s.TotalValue,
			&s.GrossIncome, &s.OperatingExpense, &s.NetOperatingInc, &s.DebtService, &s.CashFlow); err != nil {
			return nil, err
		}
		if parsed := parseDate(date); !parsed.IsZero() {
			s.SnapshotDate = parsed
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}
