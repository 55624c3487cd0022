package repository

import (
	"path/filepath"
	"testing"
	"time"

	"rentfolio/internal/database"
	"rentfolio/internal/models"
)

func setupLoanTestDB(t *testing.T) (*database.DB, int64) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	db, err := database.New(dbPath)
	if err != nil {
		t.Fatalf("failed to create database: %v", err)
	}

	if err := db.RunMigrations(); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	result, err := db.Exec(`
		INSERT INTO users (email, password_hash, name)
		VALUES (?, ?, ?)
	`, "test@example.com", "hashedpassword", "Test User")
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	userID, _ := result.LastInsertId()

	result, err = db.Exec(`
		INSERT INTO properties (user_id, address_line, property_type)
		VALUES (?, ?, ?)
	`, userID, "412 Oakwood Dr", models.PropertyTypeSingleFamily)
	if err != nil {
		t.Fatalf("failed to create test property: %v", err)
	}
	propertyID, _ := result.LastInsertId()

	return db, propertyID
}

func testLoan(propertyID int64) *models.Loan {
	start := time.Date(2022, time.April, 1, 0, 0, 0, 0, time.UTC)
	return &models.Loan{
		PropertyID:          propertyID,
		LenderName:          "First National",
		LoanType:            "conventional",
		Status:              models.LoanStatusActive,
		IsPrimary:           true,
		CurrentBalance:      200000,
		OriginalLoanAmount:  240000,
		InterestRate:        0.06,
		TermMonths:          360,
		MonthlyPrincipalInt: 1199.10,
		MonthlyEscrow:       450,
		TotalMonthlyPayment: 1649.10,
		StartDate:           &start,
	}
}

func TestLoanRepository_Create_ValidLoan_ReturnsID(t *testing.T) {
	db, propertyID := setupLoanTestDB(t)
	repo := NewLoanRepository(db)

	id, err := repo.Create(testLoan(propertyID))
	if err != nil {
		t.Fatalf("Create() error = %v, want nil", err)
	}
	if id <= 0 {
		t.Error("Create() returned non-positive ID")
	}
}

func TestLoanRepository_Create_EmptyTypeAndStatus_Defaulted(t *testing.T) {
	db, propertyID := setupLoanTestDB(t)
	repo := NewLoanRepository(db)

	l := testLoan(propertyID)
	l.LoanType = ""
	l.Status = ""

	id, err := repo.Create(l)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found.LoanType != "conventional" {
		t.Errorf("LoanType = %q, want %q", found.LoanType, "conventional")
	}
	if found.Status != models.LoanStatusActive {
		t.Errorf("Status = %q, want %q", found.Status, models.LoanStatusActive)
	}
}

func TestLoanRepository_GetByID_Existing_RoundTripsFields(t *testing.T) {
	db, propertyID := setupLoanTestDB(t)
	repo := NewLoanRepository(db)

	created := testLoan(propertyID)
	id, err := repo.Create(created)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found == nil {
		t.Fatal("GetByID() returned nil for existing loan")
	}
	if found.LenderName != created.LenderName {
		t.Errorf("LenderName = %q, want %q", found.LenderName, created.LenderName)
	}
	if found.InterestRate != created.InterestRate {
		t.Errorf("InterestRate = %v, want %v", found.InterestRate, created.InterestRate)
	}
	if found.TermMonths != created.TermMonths {
		t.Errorf("TermMonths = %v, want %v", found.TermMonths, created.TermMonths)
	}
	if !found.IsPrimary {
		t.Error("IsPrimary should round-trip as true")
	}
	if found.StartDate == nil || !found.StartDate.Equal(*created.StartDate) {
		t.Errorf("StartDate = %v, want %v", found.StartDate, created.StartDate)
	}
	if found.MaturityDate != nil {
		t.Errorf("MaturityDate = %v, want nil", found.MaturityDate)
	}
}

func TestLoanRepository_GetByID_NonExistent_ReturnsNil(t *testing.T) {
	db, _ := setupLoanTestDB(t)
	repo := NewLoanRepository(db)

	found, err := repo.GetByID(9999)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found != nil {
		t.Error("GetByID() should return nil for non-existent loan")
	}
}

func TestLoanRepository_GetByPropertyID_PrimarySortsFirst(t *testing.T) {
	db, propertyID := setupLoanTestDB(t)
	repo := NewLoanRepository(db)

	heloc := testLoan(propertyID)
	heloc.LenderName = "Home Equity Bank"
	heloc.LoanType = "heloc"
	heloc.IsPrimary = false
	if _, err := repo.Create(heloc); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	primary := testLoan(propertyID)
	if _, err := repo.Create(primary); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	loans, err := repo.GetByPropertyID(propertyID)
	if err != nil {
		t.Fatalf("GetByPropertyID() error = %v", err)
	}
	if len(loans) != 2 {
		t.Fatalf("GetByPropertyID() returned %d loans, want 2", len(loans))
	}
	if !loans[0].IsPrimary {
		t.Error("primary loan should sort first")
	}
}

func TestLoanRepository_Update_ChangesBalanceAndStatus(t *testing.T) {
	db, propertyID := setupLoanTestDB(t)
	repo := NewLoanRepository(db)

	l := testLoan(propertyID)
	id, err := repo.Create(l)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	l.ID = id
	l.CurrentBalance = 0
	l.Status = models.LoanStatusPaidOff

	if err := repo.Update(l); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	found, _ := repo.GetByID(id)
	if found.CurrentBalance != 0 {
		t.Errorf("CurrentBalance = %v, want 0", found.CurrentBalance)
	}
	if found.Status != models.LoanStatusPaidOff {
		t.Errorf("Status = %q, want paid_off", found.Status)
	}
	if found.IsActive() {
		t.Error("paid-off loan should not report active")
	}
}

func TestLoanRepository_Update_NonExistent_ReturnsError(t *testing.T) {
	db, propertyID := setupLoanTestDB(t)
	repo := NewLoanRepository(db)

	l := testLoan(propertyID)
	l.ID = 9999

	if err := repo.Update(l); err == nil {
		t.Error("Update() should return error for non-existent loan")
	}
}

func TestLoanRepository_Delete_RemovesLoan(t *testing.T) {
	db, propertyID := setupLoanTestDB(t)
	repo := NewLoanRepository(db)

	id, err := repo.Create(testLoan(propertyID))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	found, _ := repo.GetByID(id)
	if found != nil {
		t.Error("loan should be gone after Delete()")
	}
}
