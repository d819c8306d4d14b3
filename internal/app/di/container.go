// Package di wires repositories, usecases and handlers together.
package di

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	allotmentadapters "ipo_backend/internal/feature/allotment/adapters"
	allotmentdomain "ipo_backend/internal/feature/allotment/domain"
	allotmenthandler "ipo_backend/internal/feature/allotment/transport/handler"
	allotmentusecase "ipo_backend/internal/feature/allotment/usecase"
	appadapters "ipo_backend/internal/feature/application/adapters"
	apphandler "ipo_backend/internal/feature/application/transport/handler"
	appusecase "ipo_backend/internal/feature/application/usecase"
	authhandler "ipo_backend/internal/feature/auth/transport/handler"
	authusecase "ipo_backend/internal/feature/auth/usecase"
	dashboardadapters "ipo_backend/internal/feature/dashboard/adapters"
	dashboardhandler "ipo_backend/internal/feature/dashboard/transport/handler"
	dashboardusecase "ipo_backend/internal/feature/dashboard/usecase"
	dataadapters "ipo_backend/internal/feature/dataops/adapters"
	datahandler "ipo_backend/internal/feature/dataops/transport/handler"
	datausecase "ipo_backend/internal/feature/dataops/usecase"
	ipoadapters "ipo_backend/internal/feature/ipo/adapters"
	ipohandler "ipo_backend/internal/feature/ipo/transport/handler"
	ipousecase "ipo_backend/internal/feature/ipo/usecase"
	settingsadapters "ipo_backend/internal/feature/settings/adapters"
	settingshandler "ipo_backend/internal/feature/settings/transport/handler"
	settingsusecase "ipo_backend/internal/feature/settings/usecase"
	"ipo_backend/internal/platform/cache"
	"ipo_backend/internal/platform/config"
	jwtmw "ipo_backend/internal/platform/jwt"
)

// DataOps is the full set of data operations; the CLI also seeds.
type DataOps interface {
	datahandler.DataUsecase
	Seed(ctx context.Context, in datausecase.SeedInput) (*datausecase.SeedResult, error)
}

// Usecases holds every feature usecase, shared by the HTTP server and the CLI.
type Usecases struct {
	Auth         authhandler.AuthUsecase
	Companies    ipohandler.CompanyUsecase
	Applications apphandler.ApplicationUsecase
	Allotment    allotmenthandler.AllotmentUsecase
	Dashboard    dashboardhandler.DashboardUsecase
	Settings     settingshandler.SettingsUsecase
	Data         DataOps
}

// Handlers holds every feature HTTP handler.
type Handlers struct {
	Auth         *authhandler.AuthHandler
	Companies    *ipohandler.CompanyHandler
	Applications *apphandler.ApplicationHandler
	Allotment    *allotmenthandler.AllotmentHandler
	Dashboard    *dashboardhandler.DashboardHandler
	Settings     *settingshandler.SettingsHandler
	Data         *datahandler.DataHandler
}

// NewUsecases builds every usecase on db. rdb may be nil and recorder may
// be nil. An unknown refund policy in cfg is an error.
func NewUsecases(db *gorm.DB, rdb *redis.Client, cfg config.Config, recorder allotmentusecase.Recorder) (*Usecases, error) {
	policy, err := allotmentdomain.ParseRefundPolicy(cfg.RefundRerunPolicy)
	if err != nil {
		return nil, err
	}

	// Repository
	companyRepo := ipoadapters.NewCompanyRepository(db)
	appRepo := appadapters.NewApplicationRepository(db)
	allotmentRepo := allotmentadapters.NewAllotmentRepository(db)
	summaryRepo := dashboardadapters.NewSummaryRepository(db)
	settingsRepo := cache.NewCachingSettingsRepository(rdb, cfg.SettingsCacheTTL, settingsadapters.NewSettingsRepository(db), "")
	dataRepo := dataadapters.NewDataRepository(db)

	// Usecase
	companyUC := ipousecase.NewCompanyUsecase(companyRepo)
	appUC := appusecase.NewApplicationUsecase(appRepo, companyUC)
	allotmentUC := allotmentusecase.NewAllotmentUsecase(allotmentRepo, companyUC, NewLocker(rdb, cfg.RunLockTTL), recorder, policy)
	dataUC := datausecase.NewDataUsecase(dataRepo)
	dataUC.OnReset(settingsRepo.Invalidate)
	authUC := authusecase.NewAuthUsecase(
		authusecase.Operator{Username: cfg.Auth.OperatorUsername, PasswordHash: cfg.Auth.OperatorPasswordHash},
		jwtmw.NewGenerator(cfg.Auth.JWTSecret, cfg.Auth.JWTExpiration),
	)

	return &Usecases{
		Auth:         authUC,
		Companies:    companyUC,
		Applications: appUC,
		Allotment:    allotmentUC,
		Dashboard:    dashboardusecase.NewDashboardUsecase(summaryRepo, companyUC),
		Settings:     settingsusecase.NewSettingsUsecase(settingsRepo),
		Data:         dataUC,
	}, nil
}

// NewHandlers wraps each usecase in its HTTP handler.
func NewHandlers(uc *Usecases) *Handlers {
	return &Handlers{
		Auth:         authhandler.NewAuthHandler(uc.Auth),
		Companies:    ipohandler.NewCompanyHandler(uc.Companies),
		Applications: apphandler.NewApplicationHandler(uc.Applications),
		Allotment:    allotmenthandler.NewAllotmentHandler(uc.Allotment),
		Dashboard:    dashboardhandler.NewDashboardHandler(uc.Dashboard),
		Settings:     settingshandler.NewSettingsHandler(uc.Settings),
		Data:         datahandler.NewDataHandler(uc.Data),
	}
}
