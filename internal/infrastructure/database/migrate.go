package database

import (
	"fmt"

	"github.com/ferreteria/ordenes-api/internal/config"
	"github.com/ferreteria/ordenes-api/internal/domain/entity"
	"github.com/ferreteria/ordenes-api/internal/domain/enum"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type columnDefault struct {
	column string
	value  interface{}
}

// Receipts tables created by older releases only had id, code and
// order_code; the remaining columns were added later as nullable.
var receiptDefaults = []columnDefault{
	{"order_code", ""},
	{"customer", ""},
	{"address", ""},
	{"phone", ""},
	{"district", ""},
	{"region", ""},
	{"items_json", "[]"},
	{"item_count", 0},
	{"net", 0},
	{"tax", 0},
	{"total", 0},
	{"created_at", gorm.Expr("CURRENT_TIMESTAMP")},
}

// AutoMigrate brings the schema up to date. It only ever adds tables,
// columns and indexes, so it is safe to run on every start.
func AutoMigrate(db *gorm.DB, log zerolog.Logger) error {
	log.Info().Msg("running database migrations")

	// NULLs must be gone before AutoMigrate tightens legacy columns to NOT NULL
	if err := backfillDefaults(db, &entity.Receipt{}, receiptDefaults); err != nil {
		return err
	}

	err := db.AutoMigrate(
		&entity.User{},
		&entity.Order{},
		&entity.Receipt{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := backfillDefaults(db, &entity.Receipt{}, receiptDefaults); err != nil {
		return err
	}

	log.Info().Msg("database migrations completed")
	return nil
}

func backfillDefaults(db *gorm.DB, model interface{}, defaults []columnDefault) error {
	m := db.Migrator()
	if !m.HasTable(model) {
		return nil
	}
	for _, d := range defaults {
		if !m.HasColumn(model, d.column) {
			continue
		}
		res := db.Model(model).
			Where(d.column + " IS NULL").
			UpdateColumn(d.column, d.value)
		if res.Error != nil {
			return fmt.Errorf("failed to backfill %s: %w", d.column, res.Error)
		}
	}
	return nil
}

// SeedDefaultData creates the administrator account if it does not exist yet
func SeedDefaultData(db *gorm.DB, admin config.AdminConfig, log zerolog.Logger) error {
	if admin.Username == "" || admin.Password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&entity.User{}).Where("username = ?", admin.Username).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up admin user: %w", err)
	}
	if count > 0 {
		log.Debug().Str("username", admin.Username).Msg("admin user already exists")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(admin.Password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	user := entity.User{
		Username:     admin.Username,
		PasswordHash: string(hash),
		Role:         enum.RoleAdmin,
	}
	if admin.Name != "" {
		name := admin.Name
		user.DisplayName = &name
	}
	if err := db.Create(&user).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	log.Info().Str("username", admin.Username).Msg("admin user created")
	return nil
}
