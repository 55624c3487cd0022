package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"rentfolio/internal/models"
	"rentfolio/internal/repository"
)

// SnapshotService captures daily portfolio metric snapshots so the
// cash-flow history endpoint has a time series to serve.
type SnapshotService struct {
	metricsService *PropertyMetricsService
	propertyRepo   *repository.PropertyRepository
	snapshotRepo   *repository.SnapshotRepository
	log            *logrus.Logger
	cron           *cron.Cron
}

// NewSnapshotService creates a new SnapshotService.
func NewSnapshotService(
	metricsService *PropertyMetricsService,
	propertyRepo *repository.PropertyRepository,
	snapshotRepo *repository.SnapshotRepository,
	log *logrus.Logger,
) *SnapshotService {
	return &SnapshotService{
		metricsService: metricsService,
		propertyRepo:   propertyRepo,
		snapshotRepo:   snapshotRepo,
		log:            log,
	}
}

// Start schedules the daily snapshot run. The schedule uses standard
// five-field cron syntax.
func (s *SnapshotService) Start(schedule string) error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(schedule, s.RunAll); err != nil {
		return err
	}
	s.cron.Start()
	s.log.WithField("schedule", schedule).Info("snapshot scheduler started")
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *SnapshotService) Stop() {
	if s.cron != nil {
		ctx := s.cron.Stop()
		<-ctx.Done()
	}
}

// RunAll captures a snapshot for every user with properties.
func (s *SnapshotService) RunAll() {
	userIDs, err := s.propertyRepo.AllUserIDs()
	if err != nil {
		s.log.WithError(err).Error("snapshot run failed listing users")
		return
	}

	for _, userID := range userIDs {
		if err := s.CaptureForUser(userID); err != nil {
			s.log.WithError(err).WithField("user_id", userID).Error("snapshot capture failed")
		}
	}
	s.log.WithField("users", len(userIDs)).Info("snapshot run complete")
}

// CaptureForUser derives the current portfolio summary for a user and
// stores it against today's date. Rerunning on the same day replaces
// the earlier snapshot.
func (s *SnapshotService) CaptureForUser(userID int64) error {
	summary, err := s.metricsService.GetPortfolioSummary(userID)
	if err != nil {
		return err
	}

	return s.snapshotRepo.Upsert(&models.MetricSnapshot{
		UserID:           userID,
		SnapshotDate:     time.Now(),
		PropertyCount:    summary.PropertyCount,
		TotalValue:       summary.TotalValue,
		GrossIncome:      summary.GrossIncome,
		OperatingExpense: summary.OperatingExpenses,
		NetOperatingInc:  summary.NetOperatingInc,
		DebtService:      summary.DebtService,
		CashFlow:         summary.CashFlow,
	})
}

// History returns a user's snapshots over the trailing number of days,
// oldest first.
func (s *SnapshotService) History(userID int64, days int) ([]*models.MetricSnapshot, error) {
	if days <= 0 {
		days = 365
	}
	since := time.Now().AddDate(0, 0, -days)
	return s.snapshotRepo.GetByUserID(userID, since)
}
