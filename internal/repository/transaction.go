package repository

import (
	"database/sql"
	"fmt"
	"time"

	"rentfolio/internal/database"
	"rentfolio/internal/models"
)

// TransactionRepository handles transaction database operations.
type TransactionRepository struct {
	db *database.DB
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = `id, property_id, type, transaction_date, amount, category, counterparty,
       is_tax_deductible, is_recurring, is_excluded, notes, created_at`

// TransactionFilter narrows transaction queries.
type TransactionFilter struct {
	Type string
	From *time.Time
	To   *time.Time
}

// Create inserts a new transaction and returns its ID.
func (r *TransactionRepository) Create(txn *models.Transaction) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO transactions (
			property_id, type, transaction_date, amount, category, counterparty,
			is_tax_deductible, is_recurring, is_excluded, notes
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		txn.PropertyID,
		txn.Type,
		txn.TransactionDate.Format("2006-01-02"),
		txn.Amount,
		txn.Category,
		txn.Counterparty,
		boolToInt(txn.IsTaxDeductible),
		boolToInt(txn.IsRecurring),
		boolToInt(txn.IsExcluded),
		txn.Notes,
	)
	if err != nil {
		return 0, fmt.Errorf("creating transaction: %w", err)
	}
	return result.LastInsertId()
}

func scanTransaction(scan func(dest ...any) error) (*models.Transaction, error) {
	txn := &models.Transaction{}
	var (
		category, counterparty, notes      sql.NullString
		transactionDate                    string
		taxDeductible, recurring, excluded int
	)

	err := scan(
		&txn.ID,
		&txn.PropertyID,
		&txn.Type,
		&transactionDate,
		&txn.Amount,
		&category,
		&counterparty,
		&taxDeductible,
		&recurring,
		&excluded,
		&notes,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Category = category.String
	txn.Counterparty = counterparty.String
	txn.Notes = notes.String
	txn.TransactionDate = parseDate(transactionDate)
	txn.IsTaxDeductible = taxDeductible == 1
	txn.IsRecurring = recurring == 1
	txn.IsExcluded = excluded == 1
	return txn, nil
}

// GetByID retrieves a transaction by ID. Returns nil if not found.
func (r *TransactionRepository) GetByID(id int64) (*models.Transaction, error) {
	row := r.db.QueryRow(`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)
	txn, err := scanTransaction(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting transaction by id: %w", err)
	}
	return txn, nil
}

// GetByPropertyID retrieves filtered transactions for a property with
// full pagination info.
func (r *TransactionRepository) GetByPropertyID(propertyID int64, filter TransactionFilter, p Pagination) (*PaginatedResult[*models.Transaction], error) {
	where := `WHERE property_id = ?`
	args := []any{propertyID}

	if filter.Type != "" {
		where += ` AND type = ?`
		args = append(args, filter.Type)
	}
	if filter.From != nil {
		where += ` AND transaction_date >= ?`
		args = append(args, filter.From.Format("2006-01-02"))
	}
	if filter.To != nil {
		where += ` AND transaction_date <= ?`
		args = append(args, filter.To.Format("2006-01-02"))
	}

	var total int64
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM transactions `+where, args...).Scan(&total); err != nil {
		return nil, err
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions ` + where +
		` ORDER BY transaction_date DESC, id DESC LIMIT ? OFFSET ?`
	args = append(args, p.Limit, p.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := make([]*models.Transaction, 0)
	for rows.Next() {
		txn, err := scanTransaction(rows.Scan)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := NewPaginatedResult(transactions, total, p)
	return &result, nil
}

// Update updates an existing transaction.
func (r *TransactionRepository) Update(txn *models.Transaction) error {
	result, err := r.db.Exec(`
		UPDATE transactions SET
			type = ?, transaction_date = ?, amount = ?, category = ?, counterparty = ?,
			is_tax_deductible = ?, is_recurring = ?, is_excluded = ?, notes = ?
		WHERE id = ?
	`,
		txn.Type,
		txn.TransactionDate.Format("2006-01-02"),
		txn.Amount,
		txn.Category,
		txn.Counterparty,
		boolToInt(txn.IsTaxDeductible),
		boolToInt(txn.IsRecurring),
		boolToInt(txn.IsExcluded),
		txn.Notes,
		txn.ID,
	)
	if err != nil {
		return fmt.Errorf("updating transaction: %w", err)
	}
	return requireRowsAffected(result, "transaction")
}

// Delete removes a transaction by ID.
func (r *TransactionRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}
	return requireRowsAffected(result, "transaction")
}

// SumByTypeSince returns the total transaction amount of a type for a
// property since a given date. Excluded transactions are skipped so the
// actual cash-flow figures track economic activity only.
func (r *TransactionRepository) SumByTypeSince(propertyID int64, txnType string, since time.Time) (float64, error) {
	var sum sql.NullFloat64
	err := r.db.QueryRow(`
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE property_id = ? AND type = ? AND is_excluded = 0 AND transaction_date >= ?
	`, propertyID, txnType, since.Format("2006-01-02")).Scan(&sum)
	if err != nil {
		return 0, err
	}
	if !sum.Valid {
		return 0, nil
	}
	return sum.Float64, nil
}

// CountByPropertySince returns the number of non-excluded transactions
// for a property since a date. Actual cash flow is only reported when
// there is real activity to base it on.
func (r *TransactionRepository) CountByPropertySince(propertyID int64, since time.Time) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*)
		FROM transactions
		WHERE property_id = ? AND is_excluded = 0 AND transaction_date >= ?
	`, propertyID, since.Format("2006-01-02")).Scan(&count)
	return count, err
}
