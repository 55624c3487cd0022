package handlers

import (
	"net/http"

	apperrors "rentfolio/internal/errors"
	"rentfolio/internal/finance"
	"rentfolio/internal/middleware"
	"rentfolio/internal/models"
	"rentfolio/internal/services"
)

// LoanHandler handles loan routes nested under a property.
type LoanHandler struct {
	deps *Dependencies
}

// NewLoanHandler creates a new LoanHandler.
func NewLoanHandler(deps *Dependencies) *LoanHandler {
	return &LoanHandler{deps: deps}
}

type loanRequest struct {
	LenderName          string `json:"lender_name"`
	LoanType            string `json:"loan_type"`
	Status              string `json:"status"`
	IsPrimary           bool   `json:"is_primary"`
	CurrentBalance      any    `json:"current_balance"`
	OriginalLoanAmount  any    `json:"original_loan_amount"`
	InterestRate        any    `json:"interest_rate"`
	TermMonths          any    `json:"term_months"`
	MonthlyPrincipalInt any    `json:"monthly_principal_interest"`
	MonthlyEscrow       any    `json:"monthly_escrow"`
	TotalMonthlyPayment any    `json:"total_monthly_payment"`
	StartDate           string `json:"start_date"`
	MaturityDate        string `json:"maturity_date"`
}

func (req *loanRequest) toModel(propertyID int64) (*models.Loan, error) {
	req.LenderName = middleware.SanitizeString(req.LenderName)
	if !middleware.ValidateRequired(req.LenderName) {
		return nil, apperrors.ValidationField("lender_name", "is required")
	}

	interestRate := finance.Coerce(req.InterestRate)
	if !middleware.ValidateRateFraction(interestRate) {
		return nil, apperrors.ValidationField("interest_rate", "must be a decimal fraction between 0 and 1")
	}

	startDate, err := parseOptionalDate("start_date", req.StartDate)
	if err != nil {
		return nil, err
	}
	maturityDate, err := parseOptionalDate("maturity_date", req.MaturityDate)
	if err != nil {
		return nil, err
	}

	l := &models.Loan{
		PropertyID:          propertyID,
		LenderName:          req.LenderName,
		LoanType:            req.LoanType,
		Status:              req.Status,
		IsPrimary:           req.IsPrimary,
		CurrentBalance:      finance.Coerce(req.CurrentBalance),
		OriginalLoanAmount:  finance.Coerce(req.OriginalLoanAmount),
		InterestRate:        interestRate,
		TermMonths:          int(finance.Coerce(req.TermMonths)),
		MonthlyPrincipalInt: finance.Coerce(req.MonthlyPrincipalInt),
		MonthlyEscrow:       finance.Coerce(req.MonthlyEscrow),
		TotalMonthlyPayment: finance.Coerce(req.TotalMonthlyPayment),
		StartDate:           startDate,
		MaturityDate:        maturityDate,
	}

	// Fill in the computed payment when the client didn't supply one.
	if l.MonthlyPrincipalInt == 0 {
		l.MonthlyPrincipalInt = finance.MonthlyPayment(l.CurrentBalance, l.InterestRate, l.TermMonths)
	}
	if l.TotalMonthlyPayment == 0 {
		l.TotalMonthlyPayment = l.MonthlyPrincipalInt + l.MonthlyEscrow
	}

	return l, nil
}

// ownedProperty loads the route property and verifies ownership.
func (h *LoanHandler) ownedProperty(r *http.Request) (*models.Property, error) {
	user := middleware.GetUser(r)
	if user == nil {
		return nil, apperrors.Unauthorized("authentication required")
	}
	propertyID, err := urlParamID(r, "id")
	if err != nil {
		return nil, err
	}
	p, err := h.deps.PropertyRepo.GetByID(propertyID)
	if err != nil {
		return nil, apperrors.Internal("loading property", err)
	}
	if p == nil || p.UserID != user.ID {
		return nil, apperrors.NotFound("property")
	}
	return p, nil
}

func (h *LoanHandler) ownedLoan(r *http.Request) (*models.Property, *models.Loan, error) {
	p, err := h.ownedProperty(r)
	if err != nil {
		return nil, nil, err
	}
	loanID, err := urlParamID(r, "loanID")
	if err != nil {
		return nil, nil, err
	}
	l, err := h.deps.LoanRepo.GetByID(loanID)
	if err != nil {
		return nil, nil, apperrors.Internal("loading loan", err)
	}
	if l == nil || l.PropertyID != p.ID {
		return nil, nil, apperrors.NotFound("loan")
	}
	return p, l, nil
}

// List returns a property's loans, primary first, with the derived
// monthly payment for each.
func (h *LoanHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownedProperty(r)
	if err != nil {
		respondError(w, err)
		return
	}

	loans, err := h.deps.LoanRepo.GetByPropertyID(p.ID)
	if err != nil {
		respondError(w, apperrors.Internal("loading loans", err))
		return
	}

	primary := finance.PrimaryLoan(loans)
	var primaryID int64
	if primary != nil {
		primaryID = primary.ID
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"loans":              loans,
		"primary_loan_id":    primaryID,
		"total_debt_service": finance.TotalDebtService(loans),
	})
}

// Create adds a loan to a property.
func (h *LoanHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownedProperty(r)
	if err != nil {
		respondError(w, err)
		return
	}
	user := middleware.GetUser(r)

	var req loanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	l, err := req.toModel(p.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	id, err := h.deps.LoanRepo.Create(l)
	if err != nil {
		respondError(w, apperrors.Internal("creating loan", err))
		return
	}

	created, err := h.deps.LoanRepo.GetByID(id)
	if err != nil {
		respondError(w, apperrors.Internal("loading loan", err))
		return
	}

	h.deps.AuditService.LogAction(user.ID, user.ID, services.AuditLoanCreated, "loan", id, created, r.RemoteAddr)
	respondJSON(w, http.StatusCreated, created)
}

// Update replaces a loan's fields.
func (h *LoanHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, existing, err := h.ownedLoan(r)
	if err != nil {
		respondError(w, err)
		return
	}
	user := middleware.GetUser(r)

	var req loanRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	l, err := req.toModel(p.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	l.ID = existing.ID

	if err := h.deps.LoanRepo.Update(l); err != nil {
		respondError(w, apperrors.Internal("updating loan", err))
		return
	}

	updated, err := h.deps.LoanRepo.GetByID(l.ID)
	if err != nil {
		respondError(w, apperrors.Internal("loading loan", err))
		return
	}

	h.deps.AuditService.LogAction(user.ID, user.ID, services.AuditLoanUpdated, "loan", l.ID, updated, r.RemoteAddr)
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a loan.
func (h *LoanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, l, err := h.ownedLoan(r)
	if err != nil {
		respondError(w, err)
		return
	}
	user := middleware.GetUser(r)

	if err := h.deps.LoanRepo.Delete(l.ID); err != nil {
		respondError(w, apperrors.Internal("deleting loan", err))
		return
	}

	h.deps.AuditService.LogAction(user.ID, user.ID, services.AuditLoanDeleted, "loan", l.ID, nil, r.RemoteAddr)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
