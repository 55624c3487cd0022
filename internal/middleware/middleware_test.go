package middleware

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"rentfolio/internal/auth"
	"rentfolio/internal/database"
	"rentfolio/internal/repository"
)

func setupAuthMiddleware(t *testing.T, demoMode bool) (*AuthMiddleware, *auth.SessionManager, *auth.TokenManager, int64) {
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
		INSERT INTO users (email, password_hash, name, is_admin)
		VALUES (?, ?, ?, ?)
	`, "test@example.com", "hashedpassword", "Test User", 0)
	if err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	userID, _ := result.LastInsertId()

	sm := auth.NewSessionManager(db)
	tm := auth.NewTokenManager("test-secret")
	m := NewAuthMiddleware(sm, tm, repository.NewUserRepository(db), demoMode)
	return m, sm, tm, userID
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestLoadUser_ValidSessionCookie_SetsUser(t *testing.T) {
	m, sm, _, userID := setupAuthMiddleware(t, false)

	session, err := sm.Create(userID)
	if err != nil {
		t.Fatalf("session Create() error = %v", err)
	}

	var sawUserID int64
	handler := m.LoadUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := GetUser(r); user != nil {
			sawUserID = user.ID
		}
	}))

	req := httptest.NewRequest("GET", "/api/properties", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.ID})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if sawUserID != userID {
		t.Errorf("context user = %d, want %d", sawUserID, userID)
	}
}

func TestLoadUser_ValidBearerToken_SetsUser(t *testing.T) {
	m, _, tm, userID := setupAuthMiddleware(t, false)

	token, err := tm.Issue(userID)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	var sawUserID int64
	handler := m.LoadUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := GetUser(r); user != nil {
			sawUserID = user.ID
		}
	}))

	req := httptest.NewRequest("GET", "/api/properties", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	if sawUserID != userID {
		t.Errorf("context user = %d, want %d", sawUserID, userID)
	}
}

func TestLoadUser_InvalidCookie_ClearsAndContinues(t *testing.T) {
	m, _, _, _ := setupAuthMiddleware(t, false)

	called := false
	handler := m.LoadUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		if GetUser(r) != nil {
			t.Error("context should carry no user for invalid cookie")
		}
	}))

	req := httptest.NewRequest("GET", "/api/properties", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "bogus"})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("LoadUser should pass invalid-cookie requests through")
	}

	cleared := false
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == SessionCookieName && cookie.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("invalid session cookie should be cleared")
	}
}

func TestRequireAuth_NoUser_Returns401(t *testing.T) {
	m, _, _, _ := setupAuthMiddleware(t, false)

	handler := m.LoadUser(m.RequireAuth(okHandler()))

	req := httptest.NewRequest("GET", "/api/properties", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAdmin_NonAdmin_Returns403(t *testing.T) {
	m, sm, _, userID := setupAuthMiddleware(t, false)

	session, _ := sm.Create(userID)
	handler := m.LoadUser(m.RequireAdmin(okHandler()))

	req := httptest.NewRequest("GET", "/api/admin/users", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.ID})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusForbidden)
	}
}

func TestRequireAdmin_DemoMode_Returns403(t *testing.T) {
	m, _, _, _ := setupAuthMiddleware(t, true)

	handler := m.RequireAdmin(okHandler())

	req := httptest.NewRequest("GET", "/api/admin/users", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want %d (admin disabled in demo mode)", rec.Code, http.StatusForbidden)
	}
}
