package repos

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/charmbracelet/log"
	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/wheelibin/huepanel/internal/config"
)

const connectAttempts = 5

// Open connects to the configured database, retrying with backoff until it answers a ping
func Open(ctx context.Context, logger *log.Logger, cfg config.DBConfig) (*sql.DB, error) {
	dsn, err := dataSourceName(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(cfg.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("Error opening %s database: %w", cfg.Driver, err)
	}
	db.SetMaxOpenConns(cfg.PoolSize)
	db.SetMaxIdleConns(cfg.PoolSize)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return db.PingContext(pingCtx)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), connectAttempts), ctx)
	err = backoff.RetryNotify(ping, policy, func(err error, next time.Duration) {
		logger.Warn("Database not ready, retrying", "driver", cfg.Driver, "in", next, "err", err)
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("Error connecting to %s database: %w", cfg.Driver, err)
	}

	logger.Info("Connected to database", "driver", cfg.Driver, "name", cfg.Name, "pool", cfg.PoolSize)
	return db, nil
}

func dataSourceName(cfg config.DBConfig) (string, error) {
	switch cfg.Driver {
	case "sqlite3":
		path := cfg.Name
		if filepath.Ext(path) == "" {
			path += ".db"
		}
		return path + "?_journal_mode=WAL&_busy_timeout=5000", nil
	case "mysql":
		mc := mysql.NewConfig()
		mc.User = cfg.User
		mc.Passwd = cfg.Password
		mc.Net = "tcp"
		mc.Addr = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
		mc.DBName = cfg.Name
		mc.ParseTime = true
		mc.Loc = time.UTC
		return mc.FormatDSN(), nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
