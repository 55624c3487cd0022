package finance

import "rentfolio/internal/models"

// DefaultLandFraction is the estimated share of the cost basis attributed
// to land when no explicit land value is recorded. Land does not depreciate.
const DefaultLandFraction = 0.20

// CostBasis is the derived acquisition basis of a property.
type CostBasis struct {
	PurchasePrice    float64 `json:"purchase_price"`
	ClosingCosts     float64 `json:"closing_costs"`
	Improvements     float64 `json:"improvements"`
	TotalCostBasis   float64 `json:"total_cost_basis"`
	LandValue        float64 `json:"land_value"`
	LandEstimated    bool    `json:"land_estimated"`
	DepreciableBasis float64 `json:"depreciable_basis"`
}

// ComputeCostBasis derives the total and depreciable cost basis.
// landValue overrides the 20% estimate when non-nil. Negative optional
// inputs are treated as absent.
func ComputeCostBasis(purchasePrice, closingCosts, improvements float64, landValue *float64) CostBasis {
	if purchasePrice < 0 {
		purchasePrice = 0
	}
	if closingCosts < 0 {
		closingCosts = 0
	}
	if improvements < 0 {
		improvements = 0
	}

	total := purchasePrice + closingCosts + improvements

	cb := CostBasis{
		PurchasePrice:  purchasePrice,
		ClosingCosts:   closingCosts,
		Improvements:   improvements,
		TotalCostBasis: total,
	}

	if landValue != nil && *landValue >= 0 {
		cb.LandValue = *landValue
	} else {
		cb.LandValue = total * DefaultLandFraction
		cb.LandEstimated = true
	}

	cb.DepreciableBasis = total - cb.LandValue
	if cb.DepreciableBasis < 0 {
		cb.DepreciableBasis = 0
	}
	return cb
}

// CostBasisForProperty derives the cost basis from a property record.
func CostBasisForProperty(p *models.Property) CostBasis {
	return ComputeCostBasis(p.PurchasePrice, p.ClosingCosts, p.InitialImprovements, p.LandValue)
}
