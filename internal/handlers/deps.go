package handlers

import (
	"rentfolio/internal/auth"
	"rentfolio/internal/repository"
	"rentfolio/internal/services"
)

// Dependencies holds all handler dependencies. This keeps constructor
// parameter lists short and makes wiring in main explicit.
type Dependencies struct {
	// Repositories
	UserRepo        *repository.UserRepository
	PropertyRepo    *repository.PropertyRepository
	LoanRepo        *repository.LoanRepository
	TransactionRepo *repository.TransactionRepository
	PreferenceRepo  *repository.PreferenceRepository
	SnapshotRepo    *repository.SnapshotRepository

	// Services
	SessionManager  *auth.SessionManager
	TokenManager    *auth.TokenManager
	MetricsService  *services.PropertyMetricsService
	SnapshotService *services.SnapshotService
	AuditService    *services.AuditService

	// Config
	BaseURL  string
	DemoMode bool
}

// NewDependencies creates an empty Dependencies container.
func NewDependencies() *Dependencies {
	return &Dependencies{}
}

// WithUserRepo sets the user repository.
func (d *Dependencies) WithUserRepo(r *repository.UserRepository) *Dependencies {
	d.UserRepo = r
	return d
}

// WithPropertyRepo sets the property repository.
func (d *Dependencies) WithPropertyRepo(r *repository.PropertyRepository) *Dependencies {
	d.PropertyRepo = r
	return d
}

// WithLoanRepo sets the loan repository.
func (d *Dependencies) WithLoanRepo(r *repository.LoanRepository) *Dependencies {
	d.LoanRepo = r
	return d
}

// WithTransactionRepo sets the transaction repository.
func (d *Dependencies) WithTransactionRepo(r *repository.TransactionRepository) *Dependencies {
	d.TransactionRepo = r
	return d
}

// WithPreferenceRepo sets the preference repository.
func (d *Dependencies) WithPreferenceRepo(r *repository.PreferenceRepository) *Dependencies {
	d.PreferenceRepo = r
	return d
}

// WithSnapshotRepo sets the snapshot repository.
func (d *Dependencies) WithSnapshotRepo(r *repository.SnapshotRepository) *Dependencies {
	d.SnapshotRepo = r
	return d
}

// WithSessionManager sets the session manager.
func (d *Dependencies) WithSessionManager(sm *auth.SessionManager) *Dependencies {
	d.SessionManager = sm
	return d
}

// WithTokenManager sets the token manager.
func (d *Dependencies) WithTokenManager(tm *auth.TokenManager) *Dependencies {
	d.TokenManager = tm
	return d
}

// WithMetricsService sets the metrics service.
func (d *Dependencies) WithMetricsService(s *services.PropertyMetricsService) *Dependencies {
	d.MetricsService = s
	return d
}

// WithSnapshotService sets the snapshot service.
func (d *Dependencies) WithSnapshotService(s *services.SnapshotService) *Dependencies {
	d.SnapshotService = s
	return d
}

// WithAuditService sets the audit service.
func (d *Dependencies) WithAuditService(s *services.AuditService) *Dependencies {
	d.AuditService = s
	return d
}

// WithBaseURL sets the public base URL used for share links.
func (d *Dependencies) WithBaseURL(url string) *Dependencies {
	d.BaseURL = url
	return d
}

// WithDemoMode sets the demo-mode flag.
func (d *Dependencies) WithDemoMode(demo bool) *Dependencies {
	d.DemoMode = demo
	return d
}
