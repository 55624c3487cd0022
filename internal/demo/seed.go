// Package demo provides demo data seeding for demonstration deployments.
package demo

import (
	"time"

	"github.com/sirupsen/logrus"

	"rentfolio/internal/auth"
	"rentfolio/internal/database"
	"rentfolio/internal/models"
	"rentfolio/internal/repository"
)

// Seeder seeds the database with demo data.
type Seeder struct {
	db              *database.DB
	log             *logrus.Logger
	userRepo        *repository.UserRepository
	propertyRepo    *repository.PropertyRepository
	loanRepo        *repository.LoanRepository
	transactionRepo *repository.TransactionRepository
}

// NewSeeder creates a new demo data seeder.
func NewSeeder(db *database.DB, log *logrus.Logger) *Seeder {
	return &Seeder{
		db:              db,
		log:             log,
		userRepo:        repository.NewUserRepository(db),
		propertyRepo:    repository.NewPropertyRepository(db),
		loanRepo:        repository.NewLoanRepository(db),
		transactionRepo: repository.NewTransactionRepository(db),
	}
}

// SeedIfEmpty seeds demo data if the database has no users yet.
func (s *Seeder) SeedIfEmpty() error {
	count, err := s.userRepo.CountAll()
	if err != nil {
		return err
	}
	if count > 0 {
		s.log.Info("database already has users, skipping demo seed")
		return nil
	}

	s.log.Info("seeding demo data")
	return s.Seed()
}

// Seed creates a demo user with a small rental portfolio.
func (s *Seeder) Seed() error {
	passwordHash, err := auth.HashPassword("demo1234")
	if err != nil {
		return err
	}

	demoUser := &models.User{
		Email:              "demo@example.com",
		PasswordHash:       passwordHash,
		Name:               "Demo Investor",
		IsAdmin:            true,
		MustChangePassword: false,
	}
	userID, err := s.userRepo.Create(demoUser)
	if err != nil {
		return err
	}
	s.log.WithField("user_id", userID).Info("created demo user")

	now := time.Now()
	purchase1 := now.AddDate(-3, -2, 0)
	purchase2 := now.AddDate(-1, -4, 0)

	landValue1 := 52000.0
	vacancy := 0.05
	maintRate := 0.05
	mgmtRate := 0.08
	capexRate := 0.05

	duplex := &models.Property{
		UserID:              userID,
		AddressLine:         "1417 Magnolia Ave",
		City:                "San Antonio",
		State:               "TX",
		ZipCode:             "78201",
		PropertyType:        models.PropertyTypeMultiFamily,
		Status:              models.PropertyStatusActive,
		PurchaseDate:        &purchase1,
		PurchasePrice:       265000,
		ClosingCosts:        5400,
		InitialImprovements: 18000,
		LandValue:           &landValue1,
		CurrentValue:        318000,
		MonthlyRent:         2650,
		PropertyTaxAnnual:   5100,
		InsuranceAnnual:     1750,
		VacancyRate:         &vacancy,
		MaintenanceRate:     &maintRate,
		ManagementRate:      &mgmtRate,
		CapExRate:           &capexRate,
		ManagementCompany:   "Alamo Property Group",
	}
	duplexID, err := s.propertyRepo.Create(duplex)
	if err != nil {
		return err
	}

	// Commercial unit exercises the 39-year recovery period.
	retail := &models.Property{
		UserID:            userID,
		AddressLine:       "902 S Lamar Blvd Suite 120",
		City:              "Austin",
		State:             "TX",
		ZipCode:           "78704",
		PropertyType:      models.PropertyTypeCommercial,
		Status:            models.PropertyStatusActive,
		PurchaseDate:      &purchase2,
		PurchasePrice:     198000,
		ClosingCosts:      4100,
		CurrentValue:      212000,
		MonthlyRent:       1750,
		PropertyTaxAnnual: 3900,
		InsuranceAnnual:   950,
		IsSelfManaged:     true,
	}
	retailID, err := s.propertyRepo.Create(retail)
	if err != nil {
		return err
	}
	s.log.Info("created 2 demo properties")

	loans := []models.Loan{
		{
			PropertyID:          duplexID,
			LenderName:          "Lone Star Mortgage",
			LoanType:            "conventional",
			Status:              models.LoanStatusActive,
			IsPrimary:           true,
			OriginalLoanAmount:  212000,
			CurrentBalance:      197400,
			InterestRate:        0.0525,
			TermMonths:          360,
			MonthlyPrincipalInt: 1170.62,
			MonthlyEscrow:       570.66,
			TotalMonthlyPayment: 1741.28,
		},
		{
			PropertyID:          retailID,
			LenderName:          "Hill Country Credit Union",
			LoanType:            "conventional",
			Status:              models.LoanStatusActive,
			IsPrimary:           true,
			OriginalLoanAmount:  158400,
			CurrentBalance:      154800,
			InterestRate:        0.0675,
			TermMonths:          360,
			MonthlyPrincipalInt: 1027.33,
			MonthlyEscrow:       404.17,
			TotalMonthlyPayment: 1431.50,
		},
	}
	for i := range loans {
		if _, err := s.loanRepo.Create(&loans[i]); err != nil {
			return err
		}
	}
	s.log.Info("created 2 demo loans")

	transactions := s.generateTransactions(duplexID, retailID, now)
	for i := range transactions {
		if _, err := s.transactionRepo.Create(&transactions[i]); err != nil {
			return err
		}
	}
	s.log.WithField("count", len(transactions)).Info("created demo transactions")

	s.log.Info("========================================")
	s.log.Info("DEMO MODE ENABLED")
	s.log.Info("Email:    demo@example.com")
	s.log.Info("Password: demo1234")
	s.log.Info("========================================")

	return nil
}

// generateTransactions creates a year of rent and expense history.
func (s *Seeder) generateTransactions(duplexID, retailID int64, now time.Time) []models.Transaction {
	var transactions []models.Transaction

	monthStart := func(offset int) time.Time {
		t := now.AddDate(0, -offset, 0)
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	for i := 12; i >= 1; i-- {
		date := monthStart(i)

		transactions = append(transactions, models.Transaction{
			PropertyID:      duplexID,
			Type:            models.TransactionTypeIncome,
			Category:        "rent",
			Amount:          2650,
			Notes:           "Monthly rent, units A+B",
			TransactionDate: date.AddDate(0, 0, 2),
		})
		transactions = append(transactions, models.Transaction{
			PropertyID:      retailID,
			Type:            models.TransactionTypeIncome,
			Category:        "rent",
			Amount:          1750,
			Notes:           "Monthly rent",
			TransactionDate: date.AddDate(0, 0, 1),
		})
		transactions = append(transactions, models.Transaction{
			PropertyID:      duplexID,
			Type:            models.TransactionTypeExpense,
			Category:        "management",
			Amount:          212,
			Notes:           "Property management fee",
			TransactionDate: date.AddDate(0, 0, 5),
		})

		// Scattered repair and utility costs, not every month.
		switch i % 4 {
		case 0:
			transactions = append(transactions, models.Transaction{
				PropertyID:      duplexID,
				Type:            models.TransactionTypeExpense,
				Category:        "repairs",
				Amount:          340,
				Counterparty:    "Alamo Plumbing",
				Notes:           "Unit B water heater service",
				IsTaxDeductible: true,
				TransactionDate: date.AddDate(0, 0, 12),
			})
		case 2:
			transactions = append(transactions, models.Transaction{
				PropertyID:      retailID,
				Type:            models.TransactionTypeExpense,
				Category:        "utilities",
				Amount:          185,
				Notes:           "Water and electric",
				IsTaxDeductible: true,
				TransactionDate: date.AddDate(0, 0, 8),
			})
		}
	}

	// One capital improvement on the duplex.
	transactions = append(transactions, models.Transaction{
		PropertyID:      duplexID,
		Type:            models.TransactionTypeCapital,
		Category:        "roof",
		Amount:          8400,
		Counterparty:    "TexShield Roofing",
		Notes:           "Full roof replacement",
		IsTaxDeductible: false,
		TransactionDate: monthStart(7).AddDate(0, 0, 18),
	})

	// Annual insurance and property tax payments.
	transactions = append(transactions, models.Transaction{
		PropertyID:      duplexID,
		Type:            models.TransactionTypeExpense,
		Category:        "insurance",
		Amount:          1750,
		Notes:           "Annual landlord policy",
		IsTaxDeductible: true,
		TransactionDate: monthStart(10).AddDate(0, 0, 3),
	})
	transactions = append(transactions, models.Transaction{
		PropertyID:      retailID,
		Type:            models.TransactionTypeExpense,
		Category:        "property_tax",
		Amount:          3900,
		Notes:           "County property tax",
		IsTaxDeductible: true,
		TransactionDate: monthStart(2).AddDate(0, 0, 14),
	})

	return transactions
}
