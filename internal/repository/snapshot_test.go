package repository

import (
	"path/filepath"
	"testing"
	"time"

	"rentfolio/internal/database"
	"rentfolio/internal/models"
)

func setupSnapshotTestDB(t *testing.T) (*database.DB, int64) {
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

	return db, userID
}

func TestSnapshotRepository_Upsert_RoundTrip_AllColumns(t *testing.T) {
	db, userID := setupSnapshotTestDB(t)
	repo := NewSnapshotRepository(db)

	day := time.Date(2026, time.July, 4, 0, 0, 0, 0, time.UTC)

	if err := repo.Upsert(&models.MetricSnapshot{
		UserID:           userID,
		SnapshotDate:     day,
		PropertyCount:    3,
		TotalValue:       680000,
		GrossIncome:      3325,
		OperatingExpense: 1200,
		NetOperatingInc:  1958.75,
		DebtService:      1741.28,
		CashFlow:         217.47,
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	got, err := repo.Latest(userID)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if got == nil {
		t.Fatal("Latest() = nil, want snapshot")
	}
	if !got.SnapshotDate.Equal(day) {
		t.Errorf("SnapshotDate = %v, want %v", got.SnapshotDate, day)
	}
	if got.PropertyCount != 3 {
		t.Errorf("PropertyCount = %d, want 3", got.PropertyCount)
	}
	if got.TotalValue != 680000 {
		t.Errorf("TotalValue = %v, want 680000", got.TotalValue)
	}
	if got.GrossIncome != 3325 {
		t.Errorf("GrossIncome = %v, want 3325", got.GrossIncome)
	}
	if got.OperatingExpense != 1200 {
		t.Errorf("OperatingExpense = %v, want 1200", got.OperatingExpense)
	}
	if got.NetOperatingInc != 1958.75 {
		t.Errorf("NetOperatingInc = %v, want 1958.75", got.NetOperatingInc)
	}
	if got.DebtService != 1741.28 {
		t.Errorf("DebtService = %v, want 1741.28", got.DebtService)
	}
	if got.CashFlow != 217.47 {
		t.Errorf("CashFlow = %v, want 217.47", got.CashFlow)
	}
}

func TestSnapshotRepository_Upsert_SameDay_Replaces(t *testing.T) {
	db, userID := setupSnapshotTestDB(t)
	repo := NewSnapshotRepository(db)

	day := time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC)

	if err := repo.Upsert(&models.MetricSnapshot{
		UserID:       userID,
		SnapshotDate: day,
		CashFlow:     100,
	}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := repo.Upsert(&models.MetricSnapshot{
		UserID:       userID,
		SnapshotDate: day,
		CashFlow:     250,
	}); err != nil {
		t.Fatalf("second Upsert() error = %v", err)
	}

	snapshots, err := repo.GetByUserID(userID, day.AddDate(0, -1, 0))
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("got %d snapshots, want 1 (same-day upsert should replace)", len(snapshots))
	}
	if snapshots[0].CashFlow != 250 {
		t.Errorf("CashFlow = %v, want 250", snapshots[0].CashFlow)
	}
}

func TestSnapshotRepository_GetByUserID_SinceDate_Ascending(t *testing.T) {
	db, userID := setupSnapshotTestDB(t)
	repo := NewSnapshotRepository(db)

	for month := 1; month <= 6; month++ {
		day := time.Date(2026, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		if err := repo.Upsert(&models.MetricSnapshot{
			UserID:       userID,
			SnapshotDate: day,
			CashFlow:     float64(month),
		}); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	since := time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC)
	snapshots, err := repo.GetByUserID(userID, since)
	if err != nil {
		t.Fatalf("GetByUserID() error = %v", err)
	}
	if len(snapshots) != 3 {
		t.Fatalf("got %d snapshots, want 3 (Apr through Jun)", len(snapshots))
	}
	for i := 1; i < len(snapshots); i++ {
		if snapshots[i].SnapshotDate.Before(snapshots[i-1].SnapshotDate) {
			t.Error("snapshots should sort by date ascending")
		}
	}
}

func TestSnapshotRepository_Latest(t *testing.T) {
	db, userID := setupSnapshotTestDB(t)
	repo := NewSnapshotRepository(db)

	latest, err := repo.Latest(userID)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest != nil {
		t.Error("Latest() should return nil when no snapshots exist")
	}

	for month := 1; month <= 3; month++ {
		day := time.Date(2026, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
		if err := repo.Upsert(&models.MetricSnapshot{
			UserID:       userID,
			SnapshotDate: day,
			CashFlow:     float64(month * 100),
		}); err != nil {
			t.Fatalf("Upsert() error = %v", err)
		}
	}

	latest, err = repo.Latest(userID)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest == nil {
		t.Fatal("Latest() returned nil")
	}
	if latest.CashFlow != 300 {
		t.Errorf("CashFlow = %v, want 300 (March snapshot)", latest.CashFlow)
	}
}

func TestPreferenceRepository_SetGetDelete(t *testing.T) {
	db, userID := setupSnapshotTestDB(t)
	repo := NewPreferenceRepository(db)

	pref, err := repo.Get(userID, "learning_hub_dismissed")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if pref != nil {
		t.Error("Get() should return nil for unset key")
	}

	if err := repo.Set(userID, "learning_hub_dismissed", "true"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Set(userID, "learning_hub_dismissed", "false"); err != nil {
		t.Fatalf("second Set() error = %v", err)
	}

	pref, err = repo.Get(userID, "learning_hub_dismissed")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if pref == nil || pref.Value != "false" {
		t.Fatalf("Get() = %v, want value false (last write wins)", pref)
	}

	if err := repo.Delete(userID, "learning_hub_dismissed"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	pref, _ = repo.Get(userID, "learning_hub_dismissed")
	if pref != nil {
		t.Error("preference should be gone after Delete()")
	}
}

func TestPreferenceRepository_GetAll_SortedByKey(t *testing.T) {
	db, userID := setupSnapshotTestDB(t)
	repo := NewPreferenceRepository(db)

	if err := repo.Set(userID, "theme", "dark"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := repo.Set(userID, "currency_display", "usd"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	prefs, err := repo.GetAll(userID)
	if err != nil {
		t.Fatalf("GetAll() error = %v", err)
	}
	if len(prefs) != 2 {
		t.Fatalf("GetAll() returned %d prefs, want 2", len(prefs))
	}
	if prefs[0].Key != "currency_display" || prefs[1].Key != "theme" {
		t.Errorf("GetAll() order = [%s, %s], want sorted by key", prefs[0].Key, prefs[1].Key)
	}
}
