package handlers

import (
	"net/http"
	"time"

	apperrors "rentfolio/internal/errors"
	"rentfolio/internal/finance"
	"rentfolio/internal/middleware"
	"rentfolio/internal/models"
	"rentfolio/internal/repository"
	"rentfolio/internal/services"
)

// TransactionHandler handles transaction routes nested under a property.
type TransactionHandler struct {
	deps *Dependencies
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(deps *Dependencies) *TransactionHandler {
	return &TransactionHandler{deps: deps}
}

type transactionRequest struct {
	Type            string `json:"type"`
	TransactionDate string `json:"transaction_date"`
	Amount          any    `json:"amount"`
	Category        string `json:"category"`
	Counterparty    string `json:"counterparty"`
	IsTaxDeductible bool   `json:"is_tax_deductible"`
	IsRecurring     bool   `json:"is_recurring"`
	IsExcluded      bool   `json:"is_excluded"`
	Notes           string `json:"notes"`
}

func (req *transactionRequest) toModel(propertyID int64) (*models.Transaction, error) {
	if !middleware.ValidateTransactionType(req.Type) {
		return nil, apperrors.ValidationField("type", "must be income, expense or capital")
	}

	date, err := parseOptionalDate("transaction_date", req.TransactionDate)
	if err != nil {
		return nil, err
	}
	if date == nil {
		return nil, apperrors.ValidationField("transaction_date", "is required")
	}

	amount := finance.Coerce(req.Amount)
	if amount <= 0 {
		return nil, apperrors.ValidationField("amount", "must be positive")
	}

	return &models.Transaction{
		PropertyID:      propertyID,
		Type:            req.Type,
		TransactionDate: *date,
		Amount:          amount,
		Category:        middleware.SanitizeString(req.Category),
		Counterparty:    middleware.SanitizeString(req.Counterparty),
		IsTaxDeductible: req.IsTaxDeductible,
		IsRecurring:     req.IsRecurring,
		IsExcluded:      req.IsExcluded,
		Notes:           middleware.SanitizeString(req.Notes),
	}, nil
}

func (h *TransactionHandler) ownedProperty(r *http.Request) (*models.Property, error) {
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

func (h *TransactionHandler) ownedTransaction(r *http.Request) (*models.Property, *models.Transaction, error) {
	p, err := h.ownedProperty(r)
	if err != nil {
		return nil, nil, err
	}
	txnID, err := urlParamID(r, "txnID")
	if err != nil {
		return nil, nil, err
	}
	txn, err := h.deps.TransactionRepo.GetByID(txnID)
	if err != nil {
		return nil, nil, apperrors.Internal("loading transaction", err)
	}
	if txn == nil || txn.PropertyID != p.ID {
		return nil, nil, apperrors.NotFound("transaction")
	}
	return p, txn, nil
}

// List returns a property's transactions, filterable by type and date
// range, newest first, paginated.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownedProperty(r)
	if err != nil {
		respondError(w, err)
		return
	}

	filter := repository.TransactionFilter{Type: r.URL.Query().Get("type")}
	if filter.Type != "" && !middleware.ValidateTransactionType(filter.Type) {
		respondError(w, apperrors.ValidationField("type", "must be income, expense or capital"))
		return
	}
	if filter.From, err = queryDate(r, "from"); err != nil {
		respondError(w, err)
		return
	}
	if filter.To, err = queryDate(r, "to"); err != nil {
		respondError(w, err)
		return
	}

	pagination := repository.NewPagination(queryInt(r, "limit", repository.DefaultLimit), queryInt(r, "offset", 0))
	result, err := h.deps.TransactionRepo.GetByPropertyID(p.ID, filter, pagination)
	if err != nil {
		respondError(w, apperrors.Internal("loading transactions", err))
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Create records a transaction against a property.
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownedProperty(r)
	if err != nil {
		respondError(w, err)
		return
	}
	user := middleware.GetUser(r)

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	txn, err := req.toModel(p.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	id, err := h.deps.TransactionRepo.Create(txn)
	if err != nil {
		respondError(w, apperrors.Internal("creating transaction", err))
		return
	}

	created, err := h.deps.TransactionRepo.GetByID(id)
	if err != nil {
		respondError(w, apperrors.Internal("loading transaction", err))
		return
	}

	h.deps.AuditService.LogAction(user.ID, user.ID, services.AuditTransactionCreated, "transaction", id, created, r.RemoteAddr)
	respondJSON(w, http.StatusCreated, created)
}

// Update replaces a transaction's fields.
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, existing, err := h.ownedTransaction(r)
	if err != nil {
		respondError(w, err)
		return
	}
	user := middleware.GetUser(r)

	var req transactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	txn, err := req.toModel(p.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	txn.ID = existing.ID

	if err := h.deps.TransactionRepo.Update(txn); err != nil {
		respondError(w, apperrors.Internal("updating transaction", err))
		return
	}

	updated, err := h.deps.TransactionRepo.GetByID(txn.ID)
	if err != nil {
		respondError(w, apperrors.Internal("loading transaction", err))
		return
	}

	h.deps.AuditService.LogAction(user.ID, user.ID, services.AuditTransactionUpdated, "transaction", txn.ID, updated, r.RemoteAddr)
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a transaction.
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	_, txn, err := h.ownedTransaction(r)
	if err != nil {
		respondError(w, err)
		return
	}
	user := middleware.GetUser(r)

	if err := h.deps.TransactionRepo.Delete(txn.ID); err != nil {
		respondError(w, apperrors.Internal("deleting transaction", err))
		return
	}

	h.deps.AuditService.LogAction(user.ID, user.ID, services.AuditTransactionDeleted, "transaction", txn.ID, nil, r.RemoteAddr)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Summary returns trailing-twelve-month income and expense totals.
func (h *TransactionHandler) Summary(w http.ResponseWriter, r *http.Request) {
	p, err := h.ownedProperty(r)
	if err != nil {
		respondError(w, err)
		return
	}

	since := time.Now().AddDate(-1, 0, 0)
	income, err := h.deps.TransactionRepo.SumByTypeSince(p.ID, models.TransactionTypeIncome, since)
	if err != nil {
		respondError(w, apperrors.Internal("summing income", err))
		return
	}
	expenses, err := h.deps.TransactionRepo.SumByTypeSince(p.ID, models.TransactionTypeExpense, since)
	if err != nil {
		respondError(w, apperrors.Internal("summing expenses", err))
		return
	}
	capital, err := h.deps.TransactionRepo.SumByTypeSince(p.ID, models.TransactionTypeCapital, since)
	if err != nil {
		respondError(w, apperrors.Internal("summing capital", err))
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"property_id":  p.ID,
		"since":        since.Format("2006-01-02"),
		"income_ttm":   income,
		"expenses_ttm": expenses,
		"capital_ttm":  capital,
		"net_ttm":      income - expenses,
	})
}
