package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ferreteria/ordenes-api/internal/config"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens the configured store. Constraint violations are translated to
// gorm sentinel errors (gorm.ErrDuplicatedKey) so callers can detect code
// collisions without inspecting driver messages.
func NewDB(cfg *config.DatabaseConfig, debug bool, log zerolog.Logger) (*gorm.DB, error) {

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  cfg.DSN(),
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		})
	case "sqlite", "":
		if cfg.Path != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (use sqlite or postgres)", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormLogger(log, debug),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if cfg.Driver == "postgres" {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	} else if cfg.Path == ":memory:" {
		// every connection to :memory: is a separate database
		sqlDB.SetMaxOpenConns(1)
	}

	log.Info().Str("driver", db.Dialector.Name()).Msg("connected to database")
	return db, nil
}

// zerologWriter feeds gorm's formatted log lines into zerolog
type zerologWriter struct {
	log   zerolog.Logger
	level zerolog.Level
}

func (w zerologWriter) Printf(format string, args ...interface{}) {
	w.log.WithLevel(w.level).Msgf(format, args...)
}

// gormLogger traces every statement in debug mode and otherwise reports
// only slow queries and errors. Missing rows are an expected outcome of
// lookups and are not logged.
func gormLogger(log zerolog.Logger, debug bool) logger.Interface {
	w := zerologWriter{log: log.With().Str("component", "gorm").Logger(), level: zerolog.WarnLevel}
	level := logger.Warn
	if debug {
		// SQL traces must show even when the process logger is at info
		w.level = zerolog.InfoLevel
		level = logger.Info
	}
	return logger.New(w, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

// Close releases the connection pool behind db.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
