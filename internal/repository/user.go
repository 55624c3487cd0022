// Package repository provides the data access layer for rentfolio.
package repository

import (
	"database/sql"
	"fmt"
	"time"

	"rentfolio/internal/database"
	"rentfolio/internal/models"
)

// UserRepository handles user data operations.
type UserRepository struct {
	db *database.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, password_hash, name,
       COALESCE(is_admin, 0), COALESCE(must_change_password, 0), created_at, updated_at`

// Create inserts a new user and returns the ID.
func (r *UserRepository) Create(user *models.User) (int64, error) {
	query := `
		INSERT INTO users (email, password_hash, name, is_admin, must_change_password, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()

	result, err := r.db.Exec(query,
		user.Email,
		user.PasswordHash,
		user.Name,
		boolToInt(user.IsAdmin),
		boolToInt(user.MustChangePassword),
		now,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("creating user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("getting last insert id: %w", err)
	}
	return id, nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	user := &models.User{}
	var isAdmin, mustChangePassword int
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&isAdmin,
		&mustChangePassword,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	user.IsAdmin = isAdmin == 1
	user.MustChangePassword = mustChangePassword == 1
	return user, nil
}

// GetByID retrieves a user by ID. Returns nil if not found.
func (r *UserRepository) GetByID(id int64) (*models.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := r.scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("getting user by id: %w", err)
	}
	return user, nil
}

// GetByEmail retrieves a user by email. Returns nil if not found.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	row := r.db.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	user, err := r.scanUser(row)
	if err != nil {
		return nil, fmt.Errorf("getting user by email: %w", err)
	}
	return user, nil
}

// GetAll retrieves all users ordered by creation time.
func (r *UserRepository) GetAll() ([]*models.User, error) {
	rows, err := r.db.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		user := &models.User{}
		var isAdmin, mustChangePassword int
		err := rows.Scan(
			&user.ID,
			&user.Email,
			&user.PasswordHash,
			&user.Name,
			&isAdmin,
			&mustChangePassword,
			&user.CreatedAt,
			&user.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		user.IsAdmin = isAdmin == 1
		user.MustChangePassword = mustChangePassword == 1
		users = append(users, user)
	}
	return users, rows.Err()
}

// Update updates a user's profile fields.
func (r *UserRepository) Update(user *models.User) error {
	result, err := r.db.Exec(`
		UPDATE users
		SET email = ?, name = ?, is_admin = ?, must_change_password = ?, updated_at = ?
		WHERE id = ?
	`, user.Email, user.Name, boolToInt(user.IsAdmin), boolToInt(user.MustChangePassword), time.Now(), user.ID)
	if err != nil {
		return fmt.Errorf("updating user: %w", err)
	}
	return requireRowsAffected(result, "user")
}

// UpdatePassword updates a user's password hash and clears the
// must-change-password flag.
func (r *UserRepository) UpdatePassword(id int64, passwordHash string, mustChange bool) error {
	result, err := r.db.Exec(`
		UPDATE users
		SET password_hash = ?, must_change_password = ?, updated_at = ?
		WHERE id = ?
	`, passwordHash, boolToInt(mustChange), time.Now(), id)
	if err != nil {
		return fmt.Errorf("updating password: %w", err)
	}
	return requireRowsAffected(result, "user")
}

// Delete removes a user by ID.
func (r *UserRepository) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	return requireRowsAffected(result, "user")
}

// CountAll returns the total number of users.
func (r *UserRepository) CountAll() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}
