package handlers

import (
	"net/http"

	apperrors "rentfolio/internal/errors"
	"rentfolio/internal/finance"
	"rentfolio/internal/middleware"
	"rentfolio/internal/models"
	"rentfolio/internal/services"
)

// PropertyHandler handles property CRUD and derived-metrics routes.
type PropertyHandler struct {
	deps *Dependencies
}

// NewPropertyHandler creates a new PropertyHandler.
func NewPropertyHandler(deps *Dependencies) *PropertyHandler {
	return &PropertyHandler{deps: deps}
}

// propertyRequest is the inbound property payload. Numeric fields are
// typed `any` so clients may send numbers or numeric strings; both
// coerce safely.
type propertyRequest struct {
	Status              string `json:"status"`
	AddressLine         string `json:"address_line"`
	City                string `json:"city"`
	State               string `json:"state"`
	ZipCode             string `json:"zip_code"`
	PropertyType        string `json:"property_type"`
	PurchasePrice       any    `json:"purchase_price"`
	ClosingCosts        any    `json:"closing_costs"`
	InitialImprovements any    `json:"initial_improvements"`
	PurchaseDate        string `json:"purchase_date"`
	PlacedInServiceDate string `json:"placed_in_service_date"`
	CurrentValue        any    `json:"current_value"`
	LandValue           any    `json:"land_value"`
	MonthlyRent         any    `json:"monthly_rent"`
	OtherMonthlyIncome  any    `json:"other_monthly_income"`
	PropertyTaxAnnual   any    `json:"property_tax_annual"`
	InsuranceAnnual     any    `json:"insurance_annual"`
	HOAMonthly          any    `json:"hoa_monthly"`
	ManagementRate      any    `json:"management_rate"`
	VacancyRate         any    `json:"vacancy_rate"`
	MaintenanceRate     any    `json:"maintenance_rate"`
	CapExRate           any    `json:"capex_rate"`
	IsSelfManaged       bool   `json:"is_self_managed"`
	ManagementCompany   string `json:"management_company"`
}

// optionalRate coerces an optional rate field. Absent stays nil so the
// metrics pipeline applies its default; present values must be decimal
// fractions.
func optionalRate(field string, v any) (*float64, error) {
	if v == nil {
		return nil, nil
	}
	rate := finance.Coerce(v)
	if !middleware.ValidateRateFraction(rate) {
		return nil, apperrors.ValidationField(field, "must be a decimal fraction between 0 and 1")
	}
	return &rate, nil
}

func (req *propertyRequest) toModel(userID int64) (*models.Property, error) {
	req.AddressLine = middleware.SanitizeString(req.AddressLine)
	if !middleware.ValidateRequired(req.AddressLine) {
		return nil, apperrors.ValidationField("address_line", "is required")
	}
	if req.PropertyType != "" && !middleware.ValidatePropertyType(req.PropertyType) {
		return nil, apperrors.ValidationField("property_type", "unknown property type")
	}
	if req.Status != "" && !middleware.ValidatePropertyStatus(req.Status) {
		return nil, apperrors.ValidationField("status", "unknown status")
	}
	if !middleware.ValidateZipCode(req.ZipCode) {
		return nil, apperrors.ValidationField("zip_code", "must be a 5-digit or ZIP+4 code")
	}

	purchaseDate, err := parseOptionalDate("purchase_date", req.PurchaseDate)
	if err != nil {
		return nil, err
	}
	placedInService, err := parseOptionalDate("placed_in_service_date", req.PlacedInServiceDate)
	if err != nil {
		return nil, err
	}

	p := &models.Property{
		UserID:              userID,
		Status:              req.Status,
		AddressLine:         req.AddressLine,
		City:                middleware.SanitizeString(req.City),
		State:               middleware.SanitizeString(req.State),
		ZipCode:             req.ZipCode,
		PropertyType:        req.PropertyType,
		PurchasePrice:       finance.Coerce(req.PurchasePrice),
		ClosingCosts:        finance.Coerce(req.ClosingCosts),
		InitialImprovements: finance.Coerce(req.InitialImprovements),
		PurchaseDate:        purchaseDate,
		PlacedInServiceDate: placedInService,
		CurrentValue:        finance.Coerce(req.CurrentValue),
		MonthlyRent:         finance.Coerce(req.MonthlyRent),
		OtherMonthlyIncome:  finance.Coerce(req.OtherMonthlyIncome),
		PropertyTaxAnnual:   finance.Coerce(req.PropertyTaxAnnual),
		InsuranceAnnual:     finance.Coerce(req.InsuranceAnnual),
		HOAMonthly:          finance.Coerce(req.HOAMonthly),
		IsSelfManaged:       req.IsSelfManaged,
		ManagementCompany:   middleware.SanitizeString(req.ManagementCompany),
	}

	if req.LandValue != nil {
		land := finance.Coerce(req.LandValue)
		p.LandValue = &land
	}
	if p.ManagementRate, err = optionalRate("management_rate", req.ManagementRate); err != nil {
		return nil, err
	}
	if p.VacancyRate, err = optionalRate("vacancy_rate", req.VacancyRate); err != nil {
		return nil, err
	}
	if p.MaintenanceRate, err = optionalRate("maintenance_rate", req.MaintenanceRate); err != nil {
		return nil, err
	}
	if p.CapExRate, err = optionalRate("capex_rate", req.CapExRate); err != nil {
		return nil, err
	}

	return p, nil
}

// getOwned loads a property and checks it belongs to the request user.
func (h *PropertyHandler) getOwned(r *http.Request) (*models.Property, error) {
	user := middleware.GetUser(r)
	if user == nil {
		return nil, apperrors.Unauthorized("authentication required")
	}
	id, err := urlParamID(r, "id")
	if err != nil {
		return nil, err
	}
	p, err := h.deps.PropertyRepo.GetByID(id)
	if err != nil {
		return nil, apperrors.Internal("loading property", err)
	}
	if p == nil || p.UserID != user.ID {
		// Same response either way so property IDs can't be probed.
		return nil, apperrors.NotFound("property")
	}
	return p, nil
}

// List returns all of the user's properties with their completeness
// scores.
func (h *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	properties, err := h.deps.PropertyRepo.GetByUserID(user.ID)
	if err != nil {
		respondError(w, apperrors.Internal("loading properties", err))
		return
	}

	type listItem struct {
		*models.Property
		Completeness finance.Completeness `json:"completeness"`
	}
	items := make([]listItem, 0, len(properties))
	for _, p := range properties {
		loans, err := h.deps.LoanRepo.GetByPropertyID(p.ID)
		if err != nil {
			respondError(w, apperrors.Internal("loading loans", err))
			return
		}
		items = append(items, listItem{Property: p, Completeness: finance.ScoreCompleteness(p, loans)})
	}

	respondJSON(w, http.StatusOK, map[string]any{"properties": items})
}

// Create adds a new property.
func (h *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	var req propertyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	p, err := req.toModel(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}

	id, err := h.deps.PropertyRepo.Create(p)
	if err != nil {
		respondError(w, apperrors.Conflict("a property with this address already exists"))
		return
	}

	created, err := h.deps.PropertyRepo.GetByID(id)
	if err != nil {
		respondError(w, apperrors.Internal("loading property", err))
		return
	}

	h.deps.AuditService.LogAction(user.ID, user.ID, services.AuditPropertyCreated, "property", id, created, r.RemoteAddr)
	respondJSON(w, http.StatusCreated, created)
}

// Get returns a single property.
func (h *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.getOwned(r)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// Update replaces a property's editable fields.
func (h *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	existing, err := h.getOwned(r)
	if err != nil {
		respondError(w, err)
		return
	}
	user := middleware.GetUser(r)

	var req propertyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}

	p, err := req.toModel(user.ID)
	if err != nil {
		respondError(w, err)
		return
	}
	p.ID = existing.ID

	if err := h.deps.PropertyRepo.Update(p); err != nil {
		respondError(w, apperrors.Internal("updating property", err))
		return
	}

	updated, err := h.deps.PropertyRepo.GetByID(p.ID)
	if err != nil {
		respondError(w, apperrors.Internal("loading property", err))
		return
	}

	h.deps.AuditService.LogAction(user.ID, user.ID, services.AuditPropertyUpdated, "property", p.ID, updated, r.RemoteAddr)
	respondJSON(w, http.StatusOK, updated)
}

// Delete removes a property and, through foreign keys, its loans and
// transactions.
func (h *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := h.getOwned(r)
	if err != nil {
		respondError(w, err)
		return
	}
	user := middleware.GetUser(r)

	if err := h.deps.PropertyRepo.Delete(p.ID); err != nil {
		respondError(w, apperrors.Internal("deleting property", err))
		return
	}

	h.deps.AuditService.LogAction(user.ID, user.ID, services.AuditPropertyDeleted, "property", p.ID, nil, r.RemoteAddr)
	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Metrics returns the full derived-metrics document for a property.
func (h *PropertyHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	p, err := h.getOwned(r)
	if err != nil {
		respondError(w, err)
		return
	}

	metrics, err := h.deps.MetricsService.GetMetrics(p)
	if err != nil {
		respondError(w, apperrors.Internal("computing metrics", err))
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}

// Pulse returns projected-versus-actual cash flow for a property.
func (h *PropertyHandler) Pulse(w http.ResponseWriter, r *http.Request) {
	p, err := h.getOwned(r)
	if err != nil {
		respondError(w, err)
		return
	}

	pulse, err := h.deps.MetricsService.GetPulse(p)
	if err != nil {
		respondError(w, apperrors.Internal("computing pulse", err))
		return
	}
	respondJSON(w, http.StatusOK, pulse)
}

// DepreciationSchedule returns the property's year-by-year depreciation
// table.
func (h *PropertyHandler) DepreciationSchedule(w http.ResponseWriter, r *http.Request) {
	p, err := h.getOwned(r)
	if err != nil {
		respondError(w, err)
		return
	}

	costBasis := finance.CostBasisForProperty(p)
	placedInService := p.PlacedInServiceDate
	if placedInService == nil {
		placedInService = p.PurchaseDate
	}
	if placedInService == nil {
		respondError(w, apperrors.Validation("property has no placed-in-service or purchase date"))
		return
	}

	schedule := finance.Schedule(costBasis.DepreciableBasis, finance.RecoveryYears(p), *placedInService)
	respondJSON(w, http.StatusOK, map[string]any{
		"property_id":       p.ID,
		"cost_basis":        costBasis,
		"recovery_years":    finance.RecoveryYears(p),
		"placed_in_service": placedInService.Format("2006-01-02"),
		"schedule":          schedule,
	})
}
