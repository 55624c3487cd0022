package repository

import (
	"database/sql"
	"fmt"
	"time"

	"rentfolio/internal/database"
	"rentfolio/internal/models"
)

// LoanRepository handles loan database operations.
type LoanRepository struct {
	db *database.DB
}

// NewLoanRepository creates a new LoanRepository.
func NewLoanRepository(db *database.DB) *LoanRepository {
	return &LoanRepository{db: db}
}

const loanColumns = `id, property_id, lender_name, loan_type, status, is_primary,
       current_balance, original_loan_amount, interest_rate, term_months,
       monthly_principal_interest, monthly_escrow, total_monthly_payment,
       start_date, maturity_date, created_at, updated_at`

// Create inserts a new loan and returns its ID.
func (r *LoanRepository) Create(l *models.Loan) (int64, error) {
	now := time.Now()
	result, err := r.db.Exec(`
		INSERT INTO loans (
			property_id, lender_name, loan_type, status, is_primary,
			current_balance, original_loan_amount, interest_rate, term_months,
			monthly_principal_interest, monthly_escrow, total_monthly_payment,
			start_date, maturity_date, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		l.PropertyID,
		l.LenderName,
		loanTypeOrDefault(l.LoanType),
		loanStatusOrDefault(l.Status),
		boolToInt(l.IsPrimary),
		l.CurrentBalance,
		l.OriginalLoanAmount,
		l.InterestRate,
		l.TermMonths,
		l.MonthlyPrincipalInt,
		l.MonthlyEscrow,
		l.TotalMonthlyPayment,
		dateArg(l.StartDate),
		dateArg(l.MaturityDate),
		now,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("creating loan: %w", err)
	}
	return result.LastInsertId()
}

func scanLoan(scan func(dest ...any) error) (*models.Loan, error) {
	l := &models.Loan{}
	var (
		startDate, maturityDate sql.NullString
		isPrimary               int
	)

	err := scan(
		&l.ID,
		&l.PropertyID,
		&l.LenderName,
		&l.LoanType,
		&l.Status,
		&isPrimary,
		&l.CurrentBalance,
		&l.OriginalLoanAmount,
		&l.InterestRate,
		&l.TermMonths,
		&l.MonthlyPrincipalInt,
		&l.MonthlyEscrow,
		&l.TotalMonthlyPayment,
		&startDate,
		&maturityDate,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	l.IsPrimary = isPrimary == 1
	l.StartDate = nullableDate(startDate)
	l.MaturityDate = nullableDate(maturityDate)
	return l, nil
}

// GetByID retrieves a loan by ID. Returns nil if not found.
func (r *LoanRepository) GetByID(id int64) (*models.Loan, error) {
	row := r.db.QueryRow(`SELECT `+loanColumns+` FROM loans WHERE id = ?`, id)
	l, err := scanLoan(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting loan by id: %w", err)
	}
	return l, nil
}

// GetByPropertyID retrieves all loans for a property. Primary active
// loans sort first so primary-loan displays behave deterministically
// when the uniqueness invariant is violated.
func (r *LoanRepository) GetByPropertyID(propertyID int64) ([]*models.Loan, error) {
	rows, err := r.db.Query(`
		SELECT `+loanColumns+` FROM loans
		WHERE property_id = ?
		ORDER BY is_primary DESC, id ASC
	`, propertyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loans := make([]*models.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows.Scan)
		if err != nil {
			return nil, err
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

// Update updates an existing loan.
func (r *LoanRepository) Update(l *models.Loan) error {
	result, err := r.db.Exec(`
		UPDATE loans SET
			lender_name = ?, loan_type = ?, status = ?, is_primary = ?,
			current_balance = ?, original_loan_amount = ?, interest_rate = ?, term_months = ?,
			monthly_principal_interest = ?, monthly_escrow = ?, total_monthly_payment = ?,
			start_date = ?, maturity_date = ?, updated_at = ?
		WHERE id = ?
	`,
		l.LenderName,
		loanTypeOrDefault(l.LoanType),
		loanStatusOrDefault(l.Status),
		boolToInt(l.IsPrimary),
		l.CurrentBalance,
		l.OriginalLoanAmount,
		l.InterestRate,
		l.TermMonths,
		l.MonthlyPrincipalInt,
		l.MonthlyEscrow,
		l.TotalMonthlyPayment,
		dateArg(l.StartDate),
		dateArg(l.MaturityDate),
		time.Now(),
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("updating loan: %w", err)
	}
	return requireRowsAffected(result, "loan")
}

// Delete removes a loan by ID.
func (r *LoanRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM loans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting loan: %w", err)
	}
	return requireRowsAffected(result, "loan")
}

func loanTypeOrDefault(loanType string) string {
	if loanType == "" {
		return "conventional"
	}
	return loanType
}

func loanStatusOrDefault(status string) string {
	if status == "" {
		return models.LoanStatusActive
	}
	return status
}
