// Package app wires configuration, storage and services together for the
// API server and the operator CLI.
package app

import (
	"fmt"
	"time"

	"github.com/ferreteria/ordenes-api/internal/application/service"
	"github.com/ferreteria/ordenes-api/internal/config"
	"github.com/ferreteria/ordenes-api/internal/domain/entity"
	"github.com/ferreteria/ordenes-api/internal/infrastructure/database"
	"github.com/ferreteria/ordenes-api/internal/infrastructure/repository"
	"github.com/ferreteria/ordenes-api/pkg/printer"
	"github.com/ferreteria/ordenes-api/pkg/utils"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// App holds the long-lived dependencies of a process.
type App struct {
	Config *config.Config
	DB     *gorm.DB
	Log    zerolog.Logger

	JWTManager *utils.JWTManager

	Auth     *service.AuthService
	Users    *service.UserService
	Orders   *service.OrderService
	Receipts *service.ReceiptService
	Printer  *service.PrinterService
}

// New opens the store, brings the schema up to date, seeds the admin
// account and builds every service.
func New(cfg *config.Config, log zerolog.Logger) (*App, error) {
	db, err := database.NewDB(&cfg.Database, cfg.App.Debug, log)
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(db, log); err != nil {
		_ = database.Close(db)
		return nil, err
	}

	if err := database.SeedDefaultData(db, cfg.Admin, log); err != nil {
		log.Warn().Err(err).Msg("failed to seed default data")
	}

	return Wire(cfg, db, log), nil
}

// Wire builds the services on top of an already prepared db.
func Wire(cfg *config.Config, db *gorm.DB, log zerolog.Logger) *App {
	jwtManager := utils.NewJWTManager(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	userRepo := repository.NewUserRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)
	tx := repository.NewTransactor(db)

	thermal, err := printer.New(printer.Config{
		Type:    cfg.Printer.Type,
		USBPath: cfg.Printer.USBPath,
		Address: cfg.Printer.Address,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to initialize printer, printing disabled")
		thermal = printer.Discard{}
	}

	receipts := service.NewReceiptService(orderRepo, receiptRepo, tx, log)

	return &App{
		Config:     cfg,
		DB:         db,
		Log:        log,
		JWTManager: jwtManager,
		Auth:       service.NewAuthService(userRepo, jwtManager, log),
		Users:      service.NewUserService(userRepo),
		Orders:     service.NewOrderService(orderRepo, tx, cfg.Ledger, log),
		Receipts:   receipts,
		Printer: service.NewPrinterService(
			receipts,
			thermal,
			StoreHeader(cfg.Store),
			cfg.Printer.Width,
			location(cfg.Database.Timezone, log),
			log,
		),
	}
}

// Close releases the database connection pool.
func (a *App) Close() error {
	if err := database.Close(a.DB); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// StoreHeader converts the store settings into a receipt header.
func StoreHeader(s config.StoreConfig) entity.ReceiptHeader {
	return entity.ReceiptHeader{
		StoreName: s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		TaxID:     s.TaxID,
	}
}

func location(name string, log zerolog.Logger) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Warn().Err(err).Str("timezone", name).Msg("unknown timezone, using UTC")
		return time.UTC
	}
	return loc
}
