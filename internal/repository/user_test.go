package repository

import (
	"path/filepath"
	"testing"

	"rentfolio/internal/database"
	"rentfolio/internal/models"
)

func setupUserTestDB(t *testing.T) *database.DB {
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

	return db
}

func TestUserRepository_Create_ValidUser_ReturnsID(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	user := &models.User{
		Email:        "investor@example.com",
		PasswordHash: "hashedpassword",
		Name:         "Investor",
	}

	id, err := repo.Create(user)
	if err != nil {
		t.Fatalf("Create() error = %v, want nil", err)
	}
	if id <= 0 {
		t.Error("Create() returned non-positive ID")
	}
}

func TestUserRepository_Create_DuplicateEmail_ReturnsError(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	user := &models.User{Email: "dup@example.com", PasswordHash: "x", Name: "A"}
	if _, err := repo.Create(user); err != nil {
		t.Fatalf("First Create() error = %v", err)
	}

	_, err := repo.Create(&models.User{Email: "dup@example.com", PasswordHash: "y", Name: "B"})
	if err == nil {
		t.Error("Create() should return error for duplicate email")
	}
}

func TestUserRepository_GetByEmail_Existing_ReturnsUser(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	user := &models.User{
		Email:              "admin@example.com",
		PasswordHash:       "hashedpassword",
		Name:               "Admin",
		IsAdmin:            true,
		MustChangePassword: true,
	}
	if _, err := repo.Create(user); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	found, err := repo.GetByEmail("admin@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found == nil {
		t.Fatal("GetByEmail() returned nil for existing user")
	}
	if !found.IsAdmin {
		t.Error("IsAdmin should round-trip as true")
	}
	if !found.MustChangePassword {
		t.Error("MustChangePassword should round-trip as true")
	}
}

func TestUserRepository_GetByEmail_NonExistent_ReturnsNil(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	found, err := repo.GetByEmail("nobody@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if found != nil {
		t.Error("GetByEmail() should return nil for non-existent user")
	}
}

func TestUserRepository_UpdatePassword_ClearsMustChange(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	id, err := repo.Create(&models.User{
		Email:              "user@example.com",
		PasswordHash:       "oldhash",
		Name:               "User",
		MustChangePassword: true,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := repo.UpdatePassword(id, "newhash", false); err != nil {
		t.Fatalf("UpdatePassword() error = %v", err)
	}

	found, _ := repo.GetByID(id)
	if found.PasswordHash != "newhash" {
		t.Errorf("PasswordHash = %q, want newhash", found.PasswordHash)
	}
	if found.MustChangePassword {
		t.Error("MustChangePassword should be cleared")
	}
}

func TestUserRepository_Delete_RemovesUserAndProperties(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)
	propertyRepo := NewPropertyRepository(db)

	id, err := repo.Create(&models.User{Email: "gone@example.com", PasswordHash: "x", Name: "Gone"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := propertyRepo.Create(&models.Property{
		UserID:       id,
		Status:       models.PropertyStatusActive,
		AddressLine:  "1 Cascade Ct",
		PropertyType: models.PropertyTypeCondo,
	}); err != nil {
		t.Fatalf("property Create() error = %v", err)
	}

	if err := repo.Delete(id); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	found, _ := repo.GetByID(id)
	if found != nil {
		t.Error("user should be gone after Delete()")
	}
	properties, _ := propertyRepo.GetByUserID(id)
	if len(properties) != 0 {
		t.Errorf("properties remaining after user delete = %d, want 0", len(properties))
	}
}

func TestUserRepository_CountAll(t *testing.T) {
	db := setupUserTestDB(t)
	repo := NewUserRepository(db)

	count, err := repo.CountAll()
	if err != nil {
		t.Fatalf("CountAll() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountAll() = %d, want 0", count)
	}

	if _, err := repo.Create(&models.User{Email: "one@example.com", PasswordHash: "x", Name: "One"}); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	count, _ = repo.CountAll()
	if count != 1 {
		t.Errorf("CountAll() = %d, want 1", count)
	}
}
