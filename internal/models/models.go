// Package models contains the domain models for rentfolio.
package models

import "time"

// User represents a registered user.
type User struct {
	ID                 int64     `json:"id"`
	Email              string    `json:"email"`
	PasswordHash       string    `json:"-"` // Never expose in JSON
	Name               string    `json:"name"`
	IsAdmin            bool      `json:"is_admin"`
	MustChangePassword bool      `json:"must_change_password"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// Property status values.
const (
	PropertyStatusActive   = "active"
	PropertyStatusPending  = "pending"
	PropertyStatusSold     = "sold"
	PropertyStatusArchived = "archived"
)

// Property types. Residential types depreciate over 27.5 years,
// everything else over 39 years.
const (
	PropertyTypeSingleFamily = "single_family"
	PropertyTypeMultiFamily  = "multi_family"
	PropertyTypeCondo        = "condo"
	PropertyTypeTownhouse    = "townhouse"
	PropertyTypeCommercial   = "commercial"
	PropertyTypeMixedUse     = "mixed_use"
)

// Property represents a rental property with its acquisition, valuation,
// rental-income and operating-expense assumptions. Rate fields are decimal
// fractions (0.05 = 5%); nil means "not set" and the metrics pipeline
// applies its documented defaults.
type Property struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"user_id"`
	Status string `json:"status"`

	// Address
	AddressLine string `json:"address_line"`
	City        string `json:"city"`
	State       string `json:"state"`
	ZipCode     string `json:"zip_code"`

	// Characteristics
	PropertyType string `json:"property_type"`

	// Acquisition
	PurchasePrice       float64    `json:"purchase_price"`
	ClosingCosts        float64    `json:"closing_costs"`
	InitialImprovements float64    `json:"initial_improvements"`
	PurchaseDate        *time.Time `json:"purchase_date,omitempty"`
	PlacedInServiceDate *time.Time `json:"placed_in_service_date,omitempty"`

	// Valuation
	CurrentValue float64  `json:"current_value"`
	LandValue    *float64 `json:"land_value,omitempty"` // override; nil = 20% estimate

	// Rental income (monthly)
	MonthlyRent        float64 `json:"monthly_rent"`
	OtherMonthlyIncome float64 `json:"other_monthly_income"`

	// Operating expenses
	PropertyTaxAnnual float64  `json:"property_tax_annual"`
	InsuranceAnnual   float64  `json:"insurance_annual"`
	HOAMonthly        float64  `json:"hoa_monthly"`
	ManagementRate    *float64 `json:"management_rate,omitempty"`
	VacancyRate       *float64 `json:"vacancy_rate,omitempty"`
	MaintenanceRate   *float64 `json:"maintenance_rate,omitempty"`
	CapExRate         *float64 `json:"capex_rate,omitempty"`

	// Management
	IsSelfManaged     bool   `json:"is_self_managed"`
	ManagementCompany string `json:"management_company,omitempty"`

	ShareToken string    `json:"-"` // public share-link token, minted on demand
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsResidential reports whether the property depreciates on the
// 27.5-year residential recovery period.
func (p *Property) IsResidential() bool {
	switch p.PropertyType {
	case PropertyTypeSingleFamily, PropertyTypeMultiFamily, PropertyTypeCondo, PropertyTypeTownhouse:
		return true
	}
	return false
}

// Address returns the single-line mailing address.
func (p *Property) Address() string {
	addr := p.AddressLine
	if p.City != "" {
		addr += ", " + p.City
	}
	if p.State != "" {
		addr += ", " + p.State
	}
	if p.ZipCode != "" {
		addr += " " + p.ZipCode
	}
	return addr
}

// Loan status values.
const (
	LoanStatusActive     = "active"
	LoanStatusPaidOff    = "paid_off"
	LoanStatusRefinanced = "refinanced"
)

// Loan represents a mortgage or other financing against a property.
// InterestRate is a decimal fraction (0.0375 = 3.75%).
type Loan struct {
	ID                  int64      `json:"id"`
	PropertyID          int64      `json:"property_id"`
	LenderName          string     `json:"lender_name"`
	LoanType            string     `json:"loan_type"` // "conventional", "fha", "va", "heloc", ...
	Status              string     `json:"status"`
	IsPrimary           bool       `json:"is_primary"`
	CurrentBalance      float64    `json:"current_balance"`
	OriginalLoanAmount  float64    `json:"original_loan_amount"`
	InterestRate        float64    `json:"interest_rate"`
	TermMonths          int        `json:"term_months"`
	MonthlyPrincipalInt float64    `json:"monthly_principal_interest"`
	MonthlyEscrow       float64    `json:"monthly_escrow"`
	TotalMonthlyPayment float64    `json:"total_monthly_payment"`
	StartDate           *time.Time `json:"start_date,omitempty"`
	MaturityDate        *time.Time `json:"maturity_date,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// IsActive reports whether the loan currently obligates debt service.
func (l *Loan) IsActive() bool {
	return l.Status == LoanStatusActive
}

// IsActivePrimary reports whether the loan is the active primary
// mortgage on its property.
func (l *Loan) IsActivePrimary() bool {
	return l.IsPrimary && l.IsActive()
}

// Transaction types.
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
	TransactionTypeCapital = "capital"
)

// Transaction represents a single income, expense or capital event
// against a property.
type Transaction struct {
	ID              int64     `json:"id"`
	PropertyID      int64     `json:"property_id"`
	Type            string    `json:"type"`
	TransactionDate time.Time `json:"transaction_date"`
	Amount          float64   `json:"amount"`
	Category        string    `json:"category"`
	Counterparty    string    `json:"counterparty,omitempty"` // vendor or payer
	IsTaxDeductible bool      `json:"is_tax_deductible"`
	IsRecurring     bool      `json:"is_recurring"`
	IsExcluded      bool      `json:"is_excluded"` // excluded from cash-flow rollups
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Session represents a user session for authentication.
type Session struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Preference is a per-user key-value setting. It backs transient UI state
// such as dismissed learning-hub cards, so clients don't keep that in
// browser local storage.
type Preference struct {
	UserID    int64     `json:"user_id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MetricSnapshot records portfolio-level metrics for a user on a given
// day, captured by the snapshot scheduler.
type MetricSnapshot struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user_id"`
	SnapshotDate     time.Time `json:"snapshot_date"`
	PropertyCount    int       `json:"property_count"`
	TotalValue       float64   `json:"total_value"`
	GrossIncome      float64   `json:"gross_income"`
	OperatingExpense float64   `json:"operating_expense"`
	NetOperatingInc  float64   `json:"net_operating_income"`
	DebtService      float64   `json:"debt_service"`
	CashFlow         float64   `json:"cash_flow"`
	CreatedAt        time.Time `json:"created_at"`
}
