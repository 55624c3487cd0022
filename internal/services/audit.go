package services

import (
	"encoding/json"
	"time"

	"github.com/sirupsen/logrus"

	"rentfolio/internal/database"
)

// AuditAction represents the type of audited action.
type AuditAction string

const (
	AuditUserLogin       AuditAction = "user.login"
	AuditUserLogout      AuditAction = "user.logout"
	AuditPasswordChanged AuditAction = "user.password_changed"

	AuditAdminUserCreated   AuditAction = "admin.user_created"
	AuditAdminUserDeleted   AuditAction = "admin.user_deleted"
	AuditAdminPasswordReset AuditAction = "admin.password_reset"

	AuditPropertyCreated AuditAction = "property.created"
	AuditPropertyUpdated AuditAction = "property.updated"
	AuditPropertyDeleted AuditAction = "property.deleted"
	AuditPropertyShared  AuditAction = "property.shared"

	AuditLoanCreated AuditAction = "loan.created"
	AuditLoanUpdated AuditAction = "loan.updated"
	AuditLoanDeleted AuditAction = "loan.deleted"

	AuditTransactionCreated AuditAction = "transaction.created"
	AuditTransactionUpdated AuditAction = "transaction.updated"
	AuditTransactionDeleted AuditAction = "transaction.deleted"
)

// AuditEntry represents an audit log entry. ActorID may differ from
// UserID for admin actions.
type AuditEntry struct {
	ID         int64       `json:"id"`
	UserID     int64       `json:"user_id"`
	ActorID    int64       `json:"actor_id"`
	Action     AuditAction `json:"action"`
	EntityType string      `json:"entity_type"`
	EntityID   int64       `json:"entity_id"`
	NewValues  string      `json:"new_values,omitempty"` // JSON
	IPAddress  string      `json:"ip_address"`
	CreatedAt  time.Time   `json:"created_at"`
}

// AuditService handles audit logging.
type AuditService struct {
	db  *database.DB
	log *logrus.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(db *database.DB, log *logrus.Logger) *AuditService {
	return &AuditService{db: db, log: log}
}

// Log records an audit entry.
func (s *AuditService) Log(entry *AuditEntry) error {
	_, err := s.db.Exec(`
		INSERT INTO audit_log (user_id, actor_id, action, entity_type, entity_id, new_values, ip_address, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.UserID, entry.ActorID, entry.Action, entry.EntityType, entry.EntityID,
		entry.NewValues, entry.IPAddress, time.Now())
	if err != nil {
		s.log.WithError(err).WithField("action", entry.Action).Error("failed to write audit log")
		return err
	}
	return nil
}

// LogAction records an action, serializing the new value to JSON.
// Audit failures are logged but never surfaced to the caller; the
// underlying operation already succeeded.
func (s *AuditService) LogAction(userID, actorID int64, action AuditAction, entityType string, entityID int64, newVal any, ip string) {
	entry := &AuditEntry{
		UserID:     userID,
		ActorID:    actorID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		IPAddress:  ip,
	}

	if newVal != nil {
		if data, err := json.Marshal(newVal); err == nil {
			entry.NewValues = string(data)
		}
	}

	s.Log(entry)
}

// GetByUserID retrieves audit entries for a user, newest first.
func (s *AuditService) GetByUserID(userID int64, limit, offset int) ([]*AuditEntry, error) {
	return s.query(`
		SELECT id, user_id, actor_id, action, entity_type, entity_id, new_values, ip_address, created_at
		FROM audit_log
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, userID, limit, offset)
}

// GetRecent retrieves the most recent audit entries across all users.
func (s *AuditService) GetRecent(limit int) ([]*AuditEntry, error) {
	return s.query(`
		SELECT id, user_id, actor_id, action, entity_type, entity_id, new_values, ip_address, created_at
		FROM audit_log
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, limit)
}

// DeleteOlderThan removes audit entries older than the given duration.
func (s *AuditService) DeleteOlderThan(d time.Duration) (int64, error) {
	cutoff := time.Now().Add(-d)
	result, err := s.db.Exec(`DELETE FROM audit_log WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (s *AuditService) query(query string, args ...any) ([]*AuditEntry, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*AuditEntry, 0)
	for rows.Next() {
		e := &AuditEntry{}
		var entityID *int64
		if err := rows.Scan(&e.ID, &e.UserID, &e.ActorID, &e.Action, &e.EntityType, &entityID,
			&e.NewValues, &e.IPAddress, &e.CreatedAt); err != nil {
			return nil, err
		}
		if entityID != nil {
			e.EntityID = *entityID
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
