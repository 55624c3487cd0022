package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	apperrors "rentfolio/internal/errors"
	"rentfolio/internal/finance"
	"rentfolio/internal/middleware"
	"rentfolio/internal/repository"
)

// ExportHandler handles CSV export requests.
type ExportHandler struct {
	deps *Dependencies
}

// NewExportHandler creates a new ExportHandler.
func NewExportHandler(deps *Dependencies) *ExportHandler {
	return &ExportHandler{deps: deps}
}

func csvHeaders(w http.ResponseWriter, prefix string) {
	filename := fmt.Sprintf("%s_%s.csv", prefix, time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// DepreciationSchedule exports the year-by-year depreciation schedules
// of all the user's properties as one CSV.
func (h *ExportHandler) DepreciationSchedule(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	properties, err := h.deps.PropertyRepo.GetByUserID(user.ID)
	if err != nil {
		respondError(w, apperrors.Internal("loading properties", err))
		return
	}

	csvHeaders(w, "depreciation_schedule")
	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"Year", "Depreciation", "Accumulated", "Remaining Basis", "Address", "Property Type", "Purchase Price"})

	for _, p := range properties {
		placedInService := p.PlacedInServiceDate
		if placedInService == nil {
			placedInService = p.PurchaseDate
		}
		if placedInService == nil {
			continue
		}

		costBasis := finance.CostBasisForProperty(p)
		schedule := finance.Schedule(costBasis.DepreciableBasis, finance.RecoveryYears(p), *placedInService)
		for _, item := range schedule {
			writer.Write([]string{
				strconv.Itoa(item.Year),
				money(item.Depreciation),
				money(item.Accumulated),
				money(item.RemainingBasis),
				p.Address(),
				p.PropertyType,
				money(p.PurchasePrice),
			})
		}
	}
}

// PropertyDepreciation exports a single property's depreciation
// schedule as CSV.
func (h *ExportHandler) PropertyDepreciation(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	propertyID, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	p, err := h.deps.PropertyRepo.GetByID(propertyID)
	if err != nil {
		respondError(w, apperrors.Internal("loading property", err))
		return
	}
	if p == nil || p.UserID != user.ID {
		respondError(w, apperrors.NotFound("property"))
		return
	}

	placedInService := p.PlacedInServiceDate
	if placedInService == nil {
		placedInService = p.PurchaseDate
	}
	if placedInService == nil {
		respondError(w, apperrors.Validation("property has no placed-in-service or purchase date"))
		return
	}

	costBasis := finance.CostBasisForProperty(p)
	schedule := finance.Schedule(costBasis.DepreciableBasis, finance.RecoveryYears(p), *placedInService)

	csvHeaders(w, "depreciation_schedule")
	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"Year", "Depreciation", "Accumulated", "Remaining Basis", "Address", "Property Type", "Purchase Price"})
	for _, item := range schedule {
		writer.Write([]string{
			strconv.Itoa(item.Year),
			money(item.Depreciation),
			money(item.Accumulated),
			money(item.RemainingBasis),
			p.Address(),
			p.PropertyType,
			money(p.PurchasePrice),
		})
	}
}

// Transactions exports a property's transactions as CSV, honoring the
// same type and date filters as the list endpoint.
func (h *ExportHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)
	propertyID, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}

	p, err := h.deps.PropertyRepo.GetByID(propertyID)
	if err != nil {
		respondError(w, apperrors.Internal("loading property", err))
		return
	}
	if p == nil || p.UserID != user.ID {
		respondError(w, apperrors.NotFound("property"))
		return
	}

	filter := repository.TransactionFilter{Type: r.URL.Query().Get("type")}
	if filter.From, err = queryDate(r, "from"); err != nil {
		respondError(w, err)
		return
	}
	if filter.To, err = queryDate(r, "to"); err != nil {
		respondError(w, err)
		return
	}

	result, err := h.deps.TransactionRepo.GetByPropertyID(p.ID, filter, repository.NewPagination(repository.MaxLimit, 0))
	if err != nil {
		respondError(w, apperrors.Internal("loading transactions", err))
		return
	}

	csvHeaders(w, "transactions")
	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{"Date", "Type", "Amount", "Category", "Counterparty", "Tax Deductible", "Notes"})
	for _, txn := range result.Items {
		writer.Write([]string{
			txn.TransactionDate.Format("2006-01-02"),
			txn.Type,
			money(txn.Amount),
			txn.Category,
			txn.Counterparty,
			strconv.FormatBool(txn.IsTaxDeductible),
			txn.Notes,
		})
	}
}

// Portfolio exports one row per property with its derived metrics.
func (h *ExportHandler) Portfolio(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	summary, err := h.deps.MetricsService.GetPortfolioSummary(user.ID)
	if err != nil {
		respondError(w, apperrors.Internal("computing portfolio summary", err))
		return
	}

	csvHeaders(w, "portfolio")
	writer := csv.NewWriter(w)
	defer writer.Flush()

	writer.Write([]string{
		"Address", "Current Value", "Total Debt", "Equity",
		"Gross Income", "Operating Expenses", "NOI", "Debt Service", "Cash Flow",
		"Annual Depreciation", "Completeness",
	})
	for _, m := range summary.Properties {
		writer.Write([]string{
			m.Address,
			money(m.CurrentValue),
			money(m.TotalDebt),
			money(m.Equity),
			money(m.GrossIncome),
			money(m.OperatingExpenses),
			money(m.NetOperatingInc),
			money(m.DebtService),
			money(m.CashFlow),
			money(m.Depreciation.AnnualDepreciation),
			strconv.Itoa(m.Completeness.Score),
		})
	}
}
