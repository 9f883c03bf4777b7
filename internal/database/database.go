package database

import (
	"context"
	"fmt"
	"time"

	"study-buddy/internal/config"
	"study-buddy/internal/logger"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	_ "github.com/sijms/go-ora/v2"
	"go.uber.org/zap"
)

type Dialect string

const (
	Postgres Dialect = "postgres"
	SQLite   Dialect = "sqlite3"
	Oracle   Dialect = "oracle"
)

func init() {
	// go-ora registers as "oracle", which sqlx does not know; it takes :name binds.
	sqlx.BindDriver(string(Oracle), sqlx.NAMED)
}

// DialectFor maps a configured driver name to a Dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres", "postgresql", "pq", "":
		return Postgres, nil
	case "sqlite3", "sqlite":
		return SQLite, nil
	case "oracle", "go-ora":
		return Oracle, nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// DialectOf reads the dialect back from an open handle.
func DialectOf(db *sqlx.DB) Dialect {
	d, err := DialectFor(db.DriverName())
	if err != nil {
		return Postgres
	}
	return d
}

// BoolLiteral returns the SQL literal for b. Oracle stores flags as NUMBER(1).
func (d Dialect) BoolLiteral(b bool) string {
	switch {
	case d == Oracle && b:
		return "1"
	case d == Oracle:
		return "0"
	case b:
		return "TRUE"
	default:
		return "FALSE"
	}
}

// LimitClause appends a row limit in the dialect's syntax.
func (d Dialect) LimitClause(n int) string {
	if d == Oracle {
		return fmt.Sprintf(" FETCH FIRST %d ROWS ONLY", n)
	}
	return fmt.Sprintf(" LIMIT %d", n)
}

// Open connects with the driver named in cfg and verifies the connection.
func Open(ctx context.Context, cfg config.DBConfig, dsn string) (*sqlx.DB, error) {
	dialect, err := DialectFor(cfg.Driver)
	if err != nil {
		return nil, err
	}
	if dsn == "" {
		return nil, fmt.Errorf("empty DSN for %s", dialect)
	}

	db, err := sqlx.Open(string(dialect), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", dialect, err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if dialect == SQLite {
		// One writer keeps "database is locked" out of concurrent badge grants.
		db.SetMaxOpenConns(1)
	}
	db.SetConnMaxIdleTime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", dialect, err)
	}

	logger.Get().Info("Connected to database", zap.String("driver", string(dialect)))
	return db, nil
}
