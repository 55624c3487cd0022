package repository

import (
	"database/sql"
	"fmt"
	"time"

	"rentfolio/internal/database"
	"rentfolio/internal/models"
)

// PreferenceRepository is the storage backend for the user-preference
// service: per-user key-value settings such as dismissed learning-hub
// cards or dashboard layout choices.
type PreferenceRepository struct {
	db *database.DB
}

// NewPreferenceRepository creates a new PreferenceRepository.
func NewPreferenceRepository(db *database.DB) *PreferenceRepository {
	return &PreferenceRepository{db: db}
}

// Get retrieves a preference value. Returns nil when the key is unset.
func (r *PreferenceRepository) Get(userID int64, key string) (*models.Preference, error) {
	pref := &models.Preference{}
	err := r.db.QueryRow(`
		SELECT user_id, key, value, updated_at
		FROM preferences
		WHERE user_id = ? AND key = ?
	`, userID, key).Scan(&pref.UserID, &pref.Key, &pref.Value, &pref.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting preference: %w", err)
	}
	return pref, nil
}

// Set stores a preference value, replacing any existing one.
func (r *PreferenceRepository) Set(userID int64, key, value string) error {
	_, err := r.db.Exec(`
		INSERT INTO preferences (user_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, userID, key, value, time.Now())
	if err != nil {
		return fmt.Errorf("setting preference: %w", err)
	}
	return nil
}

// Delete removes a preference key. Removing an unset key is not an error.
func (r *PreferenceRepository) Delete(userID int64, key string) error {
	_, err := r.db.Exec(`DELETE FROM preferences WHERE user_id = ? AND key = ?`, userID, key)
	if err != nil {
		return fmt.Errorf("deleting preference: %w", err)
	}
	return nil
}

// GetAll retrieves all preferences for a user.
func (r *PreferenceRepository) GetAll(userID int64) ([]*models.Preference, error) {
	rows, err := r.db.Query(`
		SELECT user_id, key, value, updated_at
		FROM preferences
		WHERE user_id = ?
		ORDER BY key ASC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefs := make([]*models.Preference, 0)
	for rows.Next() {
		pref := &models.Preference{}
		if err := rows.Scan(&pref.UserID, &pref.Key, &pref.Value, &pref.UpdatedAt); err != nil {
			return nil, err
		}
		prefs = append(prefs, pref)
	}
	return prefs, rows.Err()
}
