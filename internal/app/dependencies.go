package app

import (
	"database/sql"
	"time"

	"github.com/stayhub/stayhub/internal/config"
	"github.com/stayhub/stayhub/internal/utils"
	"github.com/stayhub/stayhub/pkg/availability"
	"github.com/stayhub/stayhub/pkg/billing"
	"github.com/stayhub/stayhub/pkg/icalfeed"
	"github.com/stayhub/stayhub/pkg/icalsync"
	"github.com/stayhub/stayhub/pkg/lockeddate"
	"github.com/stayhub/stayhub/pkg/report"
	"github.com/stayhub/stayhub/pkg/reservation"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	ReservationRepo    reservation.Repository
	ReservationService *reservation.ServiceImpl
	ReservationHandler *reservation.Handler

	LockedDateRepo    lockeddate.Repository
	LockedDateService *lockeddate.ServiceImpl
	LockedDateHandler *lockeddate.Handler

	BillingRepo    billing.Repository
	BillingService *billing.ServiceImpl

	AvailabilityService *availability.ServiceImpl
	AvailabilityHandler *availability.Handler

	FeedTokenRepo  icalfeed.Repository
	FeedService    *icalfeed.ServiceImpl
	FeedHandler    *icalfeed.Handler

	SubscriptionRepo icalsync.Repository
	SyncFetcher      icalsync.Fetcher
	SyncService      *icalsync.ServiceImpl
	SyncHandler      *icalsync.Handler

	ReportRepo    report.Repository
	ReportService *report.ServiceImpl
	CsvRenderer   *report.CsvRendererImpl
	ReportHandler *report.Handler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *sql.DB, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Clock = &utils.SystemClock{}

	deps.ReservationRepo = reservation.NewRepository(db)
	deps.ReservationService = reservation.NewService(deps.ReservationRepo)
	deps.ReservationHandler = reservation.NewHandler(deps.ReservationService)

	deps.LockedDateRepo = lockeddate.NewRepository(db)
	deps.LockedDateService = lockeddate.NewService(deps.LockedDateRepo)
	deps.LockedDateHandler = lockeddate.NewHandler(deps.LockedDateService)

	deps.BillingRepo = billing.NewRepository(db)
	deps.BillingService = billing.NewService(deps.BillingRepo, deps.Clock)

	deps.AvailabilityService = availability.NewService(deps.ReservationRepo, deps.LockedDateRepo, deps.BillingService, deps.Clock)
	deps.AvailabilityHandler = availability.NewHandler(deps.AvailabilityService)

	deps.FeedTokenRepo = icalfeed.NewRepository(db)
	deps.FeedService = icalfeed.NewService(deps.FeedTokenRepo, deps.ReservationRepo, deps.LockedDateRepo)
	deps.FeedHandler = icalfeed.NewHandler(deps.FeedService)

	deps.SubscriptionRepo = icalsync.NewRepository(db)
	deps.SyncFetcher = icalsync.NewHTTPFetcher(time.Duration(cfg.Sync.FetchTimeoutSeconds) * time.Second)
	deps.SyncService = icalsync.NewService(
		deps.SubscriptionRepo,
		deps.ReservationRepo,
		deps.SyncFetcher,
		time.Duration(cfg.Sync.LeaseTimeoutSeconds)*time.Second,
		deps.Clock,
	)
	deps.SyncHandler = icalsync.NewHandler(deps.SyncService)

	deps.ReportRepo = report.NewRepository(db)
	deps.ReportService = report.NewService(deps.ReportRepo, deps.BillingService)
	deps.CsvRenderer = report.NewCsvRenderer()
	deps.ReportHandler = report.NewHandler(deps.ReportService, deps.CsvRenderer)

	return deps
}
