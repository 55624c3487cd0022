package repository

import (
	"database/sql"
	"fmt"
	"time"

	"rentfolio/internal/database"
	"rentfolio/internal/models"
)

// PropertyRepository handles property database operations.
type PropertyRepository struct {
	db *database.DB
}

// NewPropertyRepository creates a new PropertyRepository.
func NewPropertyRepository(db *database.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

const propertyColumns = `id, user_id, status, address_line, city, state, zip_code, property_type,
       purchase_price, closing_costs, COALESCE(initial_improvements, 0), purchase_date, placed_in_service_date,
       current_value, land_value, monthly_rent, other_monthly_income,
       property_tax_annual, insurance_annual, hoa_monthly,
       management_rate, vacancy_rate, maintenance_rate, capex_rate,
       is_self_managed, management_company, share_token, created_at, updated_at`

// Create inserts a new property and returns its ID.
func (r *PropertyRepository) Create(p *models.Property) (int64, error) {
	now := time.Now()
	result, err := r.db.Exec(`
		INSERT INTO properties (
			user_id, status, address_line, city, state, zip_code, property_type,
			purchase_price, closing_costs, initial_improvements, purchase_date, placed_in_service_date,
			current_value, land_value, monthly_rent, other_monthly_income,
			property_tax_annual, insurance_annual, hoa_monthly,
			management_rate, vacancy_rate, maintenance_rate, capex_rate,
			is_self_managed, management_company, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		p.UserID,
		statusOrDefault(p.Status),
		p.AddressLine,
		p.City,
		p.State,
		p.ZipCode,
		p.PropertyType,
		p.PurchasePrice,
		p.ClosingCosts,
		p.InitialImprovements,
		dateArg(p.PurchaseDate),
		dateArg(p.PlacedInServiceDate),
		p.CurrentValue,
		floatArg(p.LandValue),
		p.MonthlyRent,
		p.OtherMonthlyIncome,
		p.PropertyTaxAnnual,
		p.InsuranceAnnual,
		p.HOAMonthly,
		floatArg(p.ManagementRate),
		floatArg(p.VacancyRate),
		floatArg(p.MaintenanceRate),
		floatArg(p.CapExRate),
		boolToInt(p.IsSelfManaged),
		p.ManagementCompany,
		now,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("creating property: %w", err)
	}
	return result.LastInsertId()
}

func scanProperty(scan func(dest ...any) error) (*models.Property, error) {
	p := &models.Property{}
	var (
		city, state, zip, propertyType, mgmtCompany, shareToken sql.NullString
		purchaseDate, serviceDate                               sql.NullString
		landValue, mgmtRate, vacRate, maintRate, capexRate      sql.NullFloat64
		isSelfManaged                                           int
	)

	err := scan(
		&p.ID,
		&p.UserID,
		&p.Status,
		&p.AddressLine,
		&city,
		&state,
		&zip,
		&propertyType,
		&p.PurchasePrice,
		&p.ClosingCosts,
		&p.InitialImprovements,
		&purchaseDate,
		&serviceDate,
		&p.CurrentValue,
		&landValue,
		&p.MonthlyRent,
		&p.OtherMonthlyIncome,
		&p.PropertyTaxAnnual,
		&p.InsuranceAnnual,
		&p.HOAMonthly,
		&mgmtRate,
		&vacRate,
		&maintRate,
		&capexRate,
		&isSelfManaged,
		&mgmtCompany,
		&shareToken,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	p.City = city.String
	p.State = state.String
	p.ZipCode = zip.String
	p.PropertyType = propertyType.String
	p.ManagementCompany = mgmtCompany.String
	p.ShareToken = shareToken.String
	p.PurchaseDate = nullableDate(purchaseDate)
	p.PlacedInServiceDate = nullableDate(serviceDate)
	p.LandValue = nullableFloat(landValue)
	p.ManagementRate = nullableFloat(mgmtRate)
	p.VacancyRate = nullableFloat(vacRate)
	p.MaintenanceRate = nullableFloat(maintRate)
	p.CapExRate = nullableFloat(capexRate)
	p.IsSelfManaged = isSelfManaged == 1
	return p, nil
}

// GetByID retrieves a property by ID. Returns nil if not found.
func (r *PropertyRepository) GetByID(id int64) (*models.Property, error) {
	row := r.db.QueryRow(`SELECT `+propertyColumns+` FROM properties WHERE id = ?`, id)
	p, err := scanProperty(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting property by id: %w", err)
	}
	return p, nil
}

// GetByShareToken retrieves a property by its public share token.
// Returns nil if no property carries the token.
func (r *PropertyRepository) GetByShareToken(token string) (*models.Property, error) {
	if token == "" {
		return nil, nil
	}
	row := r.db.QueryRow(`SELECT `+propertyColumns+` FROM properties WHERE share_token = ?`, token)
	p, err := scanProperty(row.Scan)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting property by share token: %w", err)
	}
	return p, nil
}

// GetByUserID retrieves all properties for a user.
func (r *PropertyRepository) GetByUserID(userID int64) ([]*models.Property, error) {
	return r.queryProperties(`
		SELECT `+propertyColumns+` FROM properties WHERE user_id = ? ORDER BY created_at ASC, id ASC
	`, userID)
}

// GetActiveByUserID retrieves a user's active properties.
func (r *PropertyRepository) GetActiveByUserID(userID int64) ([]*models.Property, error) {
	return r.queryProperties(`
		SELECT `+propertyColumns+` FROM properties
		WHERE user_id = ? AND status = ?
		ORDER BY created_at ASC, id ASC
	`, userID, models.PropertyStatusActive)
}

func (r *PropertyRepository) queryProperties(query string, args ...any) ([]*models.Property, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	properties := make([]*models.Property, 0)
	for rows.Next() {
		p, err := scanProperty(rows.Scan)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	return properties, rows.Err()
}

// Update updates an existing property.
func (r *PropertyRepository) Update(p *models.Property) error {
	result, err := r.db.Exec(`
		UPDATE properties SET
			status = ?, address_line = ?, city = ?, state = ?, zip_code = ?, property_type = ?,
			purchase_price = ?, closing_costs = ?, initial_improvements = ?,
			purchase_date = ?, placed_in_service_date = ?,
			current_value = ?, land_value = ?, monthly_rent = ?, other_monthly_income = ?,
			property_tax_annual = ?, insurance_annual = ?, hoa_monthly = ?,
			management_rate = ?, vacancy_rate = ?, maintenance_rate = ?, capex_rate = ?,
			is_self_managed = ?, management_company = ?, updated_at = ?
		WHERE id = ?
	`,
		statusOrDefault(p.Status),
		p.AddressLine,
		p.City,
		p.State,
		p.ZipCode,
		p.PropertyType,
		p.PurchasePrice,
		p.ClosingCosts,
		p.InitialImprovements,
		dateArg(p.PurchaseDate),
		dateArg(p.PlacedInServiceDate),
		p.CurrentValue,
		floatArg(p.LandValue),
		p.MonthlyRent,
		p.OtherMonthlyIncome,
		p.PropertyTaxAnnual,
		p.InsuranceAnnual,
		p.HOAMonthly,
		floatArg(p.ManagementRate),
		floatArg(p.VacancyRate),
		floatArg(p.MaintenanceRate),
		floatArg(p.CapExRate),
		boolToInt(p.IsSelfManaged),
		p.ManagementCompany,
		time.Now(),
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating property: %w", err)
	}
	return requireRowsAffected(result, "property")
}

// SetShareToken stores the public share token for a property.
func (r *PropertyRepository) SetShareToken(id int64, token string) error {
	result, err := r.db.Exec(`
		UPDATE properties SET share_token = ?, updated_at = ? WHERE id = ?
	`, token, time.Now(), id)
	if err != nil {
		return fmt.Errorf("setting share token: %w", err)
	}
	return requireRowsAffected(result, "property")
}

// Delete removes a property by ID. Loans and transactions cascade.
func (r *PropertyRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM properties WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting property: %w", err)
	}
	return requireRowsAffected(result, "property")
}

// CountByUserID returns the number of properties a user owns.
func (r *PropertyRepository) CountByUserID(userID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM properties WHERE user_id = ?`, userID).Scan(&count)
	return count, err
}

// AllUserIDs returns the IDs of every user owning at least one property.
// Used by the snapshot scheduler.
func (r *PropertyRepository) AllUserIDs() ([]int64, error) {
	rows, err := r.db.Query(`SELECT DISTINCT user_id FROM properties`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]int64, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func statusOrDefault(status string) string {
	if status == "" {
		return models.PropertyStatusActive
	}
	return status
}
