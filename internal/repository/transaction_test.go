package repository

import (
	"path/filepath"
	"testing"
	"time"

	"rentfolio/internal/database"
	"rentfolio/internal/models"
)

func setupTransactionTestDB(t *testing.T) (*database.DB, int64) {
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

func testTransaction(propertyID int64, txnType string, amount float64, date time.Time) *models.Transaction {
	return &models.Transaction{
		PropertyID:      propertyID,
		Type:            txnType,
		TransactionDate: date,
		Amount:          amount,
		Category:        "rent",
	}
}

func TestTransactionRepository_Create_ValidTransaction_ReturnsID(t *testing.T) {
	db, propertyID := setupTransactionTestDB(t)
	repo := NewTransactionRepository(db)

	txn := testTransaction(propertyID, models.TransactionTypeIncome, 2000,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))

	id, err := repo.Create(txn)
	if err != nil {
		t.Fatalf("Create() error = %v, want nil", err)
	}
	if id <= 0 {
		t.Error("Create() returned non-positive ID")
	}
}

func TestTransactionRepository_GetByID_RoundTripsFields(t *testing.T) {
	db, propertyID := setupTransactionTestDB(t)
	repo := NewTransactionRepository(db)

	created := testTransaction(propertyID, models.TransactionTypeExpense, 450.25,
		time.Date(2026, time.February, 10, 0, 0, 0, 0, time.UTC))
	created.Category = "repairs"
	created.Counterparty = "ABC Plumbing"
	created.IsTaxDeductible = true
	created.Notes = "water heater replacement"

	id, err := repo.Create(created)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.GetByID(id)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if found == nil {
		t.Fatal("GetByID() returned nil for existing transaction")
	}
	if found.Amount != created.Amount {
		t.Errorf("Amount = %v, want %v", found.Amount, created.Amount)
	}
	if found.Category != "repairs" {
		t.Errorf("Category = %q, want repairs", found.Category)
	}
	if found.Counterparty != "ABC Plumbing" {
		t.Errorf("Counterparty = %q, want ABC Plumbing", found.Counterparty)
	}
	if !found.IsTaxDeductible {
		t.Error("IsTaxDeductible should round-trip as true")
	}
	if !found.TransactionDate.Equal(created.TransactionDate) {
		t.Errorf("TransactionDate = %v, want %v", found.TransactionDate, created.TransactionDate)
	}
}

func TestTransactionRepository_GetByPropertyID_FiltersByType(t *testing.T) {
	db, propertyID := setupTransactionTestDB(t)
	repo := NewTransactionRepository(db)

	date := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	for _, txn := range []*models.Transaction{
		testTransaction(propertyID, models.TransactionTypeIncome, 2000, date),
		testTransaction(propertyID, models.TransactionTypeExpense, 300, date),
		testTransaction(propertyID, models.TransactionTypeExpense, 120, date),
	} {
		if _, err := repo.Create(txn); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	result, err := repo.GetByPropertyID(propertyID,
		TransactionFilter{Type: models.TransactionTypeExpense}, NewPagination(0, 0))
	if err != nil {
		t.Fatalf("GetByPropertyID() error = %v", err)
	}
	if result.Total != 2 {
		t.Errorf("Total = %d, want 2", result.Total)
	}
	for _, txn := range result.Items {
		if txn.Type != models.TransactionTypeExpense {
			t.Errorf("filtered result contains type %q", txn.Type)
		}
	}
}

func TestTransactionRepository_GetByPropertyID_FiltersByDateRange(t *testing.T) {
	db, propertyID := setupTransactionTestDB(t)
	repo := NewTransactionRepository(db)

	for month := 1; month <= 6; month++ {
		date := time.Date(2026, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		if _, err := repo.Create(testTransaction(propertyID, models.TransactionTypeIncome, 2000, date)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	from := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.April, 30, 0, 0, 0, 0, time.UTC)
	result, err := repo.GetByPropertyID(propertyID,
		TransactionFilter{From: &from, To: &to}, NewPagination(0, 0))
	if err != nil {
		t.Fatalf("GetByPropertyID() error = %v", err)
	}
	if result.Total != 3 {
		t.Errorf("Total = %d, want 3 (Feb through Apr)", result.Total)
	}
}

func TestTransactionRepository_GetByPropertyID_Paginates(t *testing.T) {
	db, propertyID := setupTransactionTestDB(t)
	repo := NewTransactionRepository(db)

	for day := 1; day <= 5; day++ {
		date := time.Date(2026, time.May, day, 0, 0, 0, 0, time.UTC)
		if _, err := repo.Create(testTransaction(propertyID, models.TransactionTypeIncome, float64(day), date)); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
	}

	result, err := repo.GetByPropertyID(propertyID, TransactionFilter{}, NewPagination(2, 2))
	if err != nil {
		t.Fatalf("GetByPropertyID() error = %v", err)
	}
	if len(result.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(result.Items))
	}
	if result.Total != 5 {
		t.Errorf("Total = %d, want 5", result.Total)
	}
	if !result.HasMore {
		t.Error("HasMore should be true at offset 2 of 5")
	}
}

func TestTransactionRepository_SumByTypeSince_SkipsExcluded(t *testing.T) {
	db, propertyID := setupTransactionTestDB(t)
	repo := NewTransactionRepository(db)

	date := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	if _, err := repo.Create(testTransaction(propertyID, models.TransactionTypeIncome, 2000, date)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := repo.Create(testTransaction(propertyID, models.TransactionTypeIncome, 500, date)); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	excluded := testTransaction(propertyID, models.TransactionTypeIncome, 90000, date)
	excluded.IsExcluded = true
	if _, err := repo.Create(excluded); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	sum, err := repo.SumByTypeSince(propertyID, models.TransactionTypeIncome,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SumByTypeSince() error = %v", err)
	}
	if sum != 2500 {
		t.Errorf("SumByTypeSince() = %v, want 2500", sum)
	}
}

func TestTransactionRepository_SumByTypeSince_RespectsSinceDate(t *testing.T) {
	db, propertyID := setupTransactionTestDB(t)
	repo := NewTransactionRepository(db)

	old := testTransaction(propertyID, models.TransactionTypeExpense, 1000,
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	recent := testTransaction(propertyID, models.TransactionTypeExpense, 300,
		time.Date(2026, time.July, 1, 0, 0, 0, 0, time.UTC))
	if _, err := repo.Create(old); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := repo.Create(recent); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	sum, err := repo.SumByTypeSince(propertyID, models.TransactionTypeExpense,
		time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("SumByTypeSince() error = %v", err)
	}
	if sum != 300 {
		t.Errorf("SumByTypeSince() = %v, want 300", sum)
	}
}

func TestTransactionRepository_SumByTypeSince_NoRows_ReturnsZero(t *testing.T) {
	db, propertyID := setupTransactionTestDB(t)
	repo := NewTransactionRepository(db)

	sum, err := repo.SumByTypeSince(propertyID, models.TransactionTypeIncome, time.Now())
	if err != nil {
		t.Fatalf("SumByTypeSince() error = %v", err)
	}
	if sum != 0 {
		t.Errorf("SumByTypeSince() = %v, want 0", sum)
	}
}

func TestTransactionRepository_Delete_RemovesTransaction(t *testing.T) {
	db, propertyID := setupTransactionTestDB(t)
	repo := NewTransactionRepository(db)

	id, err := repo.Create(testTransaction(propertyID, models.TransactionTypeIncome, 2000,
		time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)))
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.Delete(id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	found, _ := repo.GetByID(id)
	if found != nil {
		t.Error("transaction should be gone after Delete()")
	}
}
